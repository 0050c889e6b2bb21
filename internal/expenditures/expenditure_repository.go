package expenditures

import (
	"fmt"
	"time"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"

	"github.com/doug-martin/goqu/v9"
)

// ExpenditureFilter is the optional AND-combined list filter set. Zero
// values mean "not filtered".
type ExpenditureFilter struct {
	From   *time.Time
	To     *time.Time
	Reason string
}

type ExpenditureRepository interface {
	GetExpenditures(actor scope.Actor, filter ExpenditureFilter) ([]models.Expenditure, error)
	GetExpenditure(id int) (*models.Expenditure, error)
	PersistExpenditure(req CreateExpenditureRequest, authorizedBy int) (int, error)
	UpdateExpenditure(id int, changes *ExpenditureChanges) error
	DeleteExpenditure(id int) error
}

type expenditureRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ExpenditureRepository {
	return &expenditureRepositoryImpl{repository: r}
}

func (r *expenditureRepositoryImpl) expenditureSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("expenditures").As("e")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.I("e.base_id").Eq(goqu.I("b.id")))).
		Join(goqu.T("equipment_types").As("et"), goqu.On(goqu.I("e.equipment_type_id").Eq(goqu.I("et.id")))).
		Select(
			goqu.I("e.id").As("id"),
			goqu.I("e.asset_id").As("asset_id"),
			goqu.I("b.id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("b.code").As("base_code"),
			goqu.I("et.id").As("equipment_type_id"),
			goqu.I("et.name").As("equipment_type_name"),
			goqu.I("et.category").As("equipment_category"),
			goqu.I("e.quantity").As("quantity"),
			goqu.I("e.expenditure_date").As("expenditure_date"),
			goqu.I("e.reason").As("reason"),
			goqu.I("e.authorized_by").As("authorized_by"),
			goqu.I("e.notes").As("notes"),
			goqu.I("e.created_at").As("created_at"),
		)
}

func (r *expenditureRepositoryImpl) GetExpenditures(actor scope.Actor, filter ExpenditureFilter) ([]models.Expenditure, error) {
	query := r.expenditureSelect().Order(goqu.I("e.expenditure_date").Desc())

	if baseFilter := scope.BaseFilter(actor, "e.base_id"); baseFilter != nil {
		query = query.Where(baseFilter)
	}
	if filter.From != nil {
		query = query.Where(goqu.I("e.expenditure_date").Gte(*filter.From))
	}
	if filter.To != nil {
		query = query.Where(goqu.I("e.expenditure_date").Lte(*filter.To))
	}
	if filter.Reason != "" {
		query = query.Where(goqu.I("e.reason").Eq(filter.Reason))
	}

	var flatRecords []models.FlatExpenditureRecord
	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("failed to fetch expenditures: %w", err)
	}

	expenditures := make([]models.Expenditure, 0, len(flatRecords))
	for i := range flatRecords {
		expenditures = append(expenditures, flatRecords[i].TransformToExpenditure())
	}

	return expenditures, nil
}

func (r *expenditureRepositoryImpl) GetExpenditure(id int) (*models.Expenditure, error) {
	var flat models.FlatExpenditureRecord

	found, err := r.expenditureSelect().
		Where(goqu.I("e.id").Eq(id)).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenditure: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("expenditure")
	}

	expenditure := flat.TransformToExpenditure()
	return &expenditure, nil
}

func (r *expenditureRepositoryImpl) PersistExpenditure(req CreateExpenditureRequest, authorizedBy int) (int, error) {
	query := r.repository.GoquDBWrapper.Insert("expenditures").
		Rows(goqu.Record{
			"asset_id":          req.AssetID,
			"base_id":           req.BaseID,
			"equipment_type_id": req.EquipmentTypeID,
			"quantity":          req.Quantity,
			"expenditure_date":  req.ExpenditureDate,
			"reason":            req.Reason,
			"authorized_by":     authorizedBy,
			"notes":             req.Notes,
		}).
		Returning("id")

	var expenditureID int
	if _, err := query.Executor().ScanVal(&expenditureID); err != nil {
		return 0, apperrors.WrapDBError("failed to insert expenditure", err)
	}

	return expenditureID, nil
}

func (r *expenditureRepositoryImpl) UpdateExpenditure(id int, changes *ExpenditureChanges) error {
	// authorized_by is immutable after creation.
	record := goqu.Record{}
	if changes.Quantity != nil {
		record["quantity"] = *changes.Quantity
	}
	if changes.ExpenditureDate != nil {
		record["expenditure_date"] = *changes.ExpenditureDate
	}
	if changes.Reason != nil {
		record["reason"] = *changes.Reason
	}
	if changes.Notes != nil {
		record["notes"] = *changes.Notes
	}

	if len(record) == 0 {
		return nil
	}

	query := r.repository.GoquDBWrapper.
		Update("expenditures").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to update expenditure", err)
	}

	return nil
}

func (r *expenditureRepositoryImpl) DeleteExpenditure(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("expenditures").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to delete expenditure", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete expenditure: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("expenditure")
	}

	return nil
}
