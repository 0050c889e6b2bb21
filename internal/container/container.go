package container

import (
	"database/sql"

	"armory/internal/assets"
	"armory/internal/assignments"
	auditLogRepo "armory/internal/auditlog"
	"armory/internal/bases"
	"armory/internal/equipment"
	"armory/internal/expenditures"
	"armory/internal/purchases"
	"armory/internal/repository"
	"armory/internal/transfers"
	"armory/internal/users"
	"armory/pkg/auditlog"
	"armory/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository         *repository.Repository
	Recorder           *auditlog.Recorder
	LoginHandler       *security.LoginHandler
	BaseHandler        *bases.BaseHandler
	EquipmentHandler   *equipment.EquipmentTypeHandler
	AssetHandler       *assets.AssetHandler
	PurchaseHandler    *purchases.PurchaseHandler
	TransferHandler    *transfers.TransferHandler
	AssignmentHandler  *assignments.AssignmentHandler
	ExpenditureHandler *expenditures.ExpenditureHandler
	UserHandler        *users.UserHandler
	AuditLogHandler    *auditLogRepo.AuditLogHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	auditRepo := auditLogRepo.NewRepository(repo)
	recorder := auditlog.NewRecorder(auditRepo, log)

	baseRepo := bases.NewRepository(repo)
	equipmentRepo := equipment.NewRepository(repo)
	assetRepo := assets.NewRepository(repo)
	purchaseRepo := purchases.NewRepository(repo)
	transferRepo := transfers.NewRepository(repo)
	assignmentRepo := assignments.NewRepository(repo)
	expenditureRepo := expenditures.NewRepository(repo)
	userRepo := users.NewRepository(repo)

	transferService := transfers.NewService(transferRepo)
	assignmentService := assignments.NewService(assignmentRepo, assetRepo)

	return &Container{
		Repository:         repo,
		Recorder:           recorder,
		LoginHandler:       security.NewLoginHandler(repo),
		BaseHandler:        bases.NewHandler(baseRepo, recorder),
		EquipmentHandler:   equipment.NewHandler(equipmentRepo, recorder),
		AssetHandler:       assets.NewHandler(assetRepo, recorder),
		PurchaseHandler:    purchases.NewHandler(purchaseRepo, recorder),
		TransferHandler:    transfers.NewHandler(transferRepo, transferService, recorder),
		AssignmentHandler:  assignments.NewHandler(assignmentRepo, assignmentService, recorder),
		ExpenditureHandler: expenditures.NewHandler(expenditureRepo, recorder),
		UserHandler:        users.NewHandler(userRepo, recorder),
		AuditLogHandler:    auditLogRepo.NewHandler(auditRepo),
	}
}
