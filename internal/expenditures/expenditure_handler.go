package expenditures

import (
	"net/http"
	"strconv"
	"time"

	"armory/internal/httperr"
	"armory/pkg/apperrors"
	"armory/pkg/auditlog"
	"armory/pkg/roles"
	"armory/pkg/scope"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateExpenditureRequest struct {
	AssetID         *int      `json:"asset_id"`
	BaseID          int       `json:"base_id" binding:"required"`
	EquipmentTypeID int       `json:"equipment_type_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required"`
	ExpenditureDate time.Time `json:"expenditure_date" binding:"required"`
	Reason          string    `json:"reason" binding:"required"`
	Notes           *string   `json:"notes"`
}

type ExpenditureChanges struct {
	Quantity        *int       `json:"quantity"`
	ExpenditureDate *time.Time `json:"expenditure_date"`
	Reason          *string    `json:"reason"`
	Notes           *string    `json:"notes"`
}

type ExpenditureHandler struct {
	Repository ExpenditureRepository
	Recorder   *auditlog.Recorder
}

func NewHandler(r ExpenditureRepository, recorder *auditlog.Recorder) *ExpenditureHandler {
	return &ExpenditureHandler{
		Repository: r,
		Recorder:   recorder,
	}
}

func (h *ExpenditureHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/expenditures", h.GetExpenditures)
	router.GET("/expenditures/:id", h.GetExpenditure)
	router.POST("/expenditures", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.CreateExpenditure)
	router.PATCH("/expenditures/:id", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.UpdateExpenditure)
	router.DELETE("/expenditures/:id", security.Authorize(roles.Admin), h.DeleteExpenditure)
}

func (h *ExpenditureHandler) GetExpenditures(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var filter ExpenditureFilter
	if from, parseErr := time.Parse(time.RFC3339, c.Query("from")); parseErr == nil {
		filter.From = &from
	}
	if to, parseErr := time.Parse(time.RFC3339, c.Query("to")); parseErr == nil {
		filter.To = &to
	}
	filter.Reason = c.Query("reason")

	expenditures, err := h.Repository.GetExpenditures(actor, filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, expenditures)
}

func (h *ExpenditureHandler) GetExpenditure(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	expenditureID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("expenditure"))
		return
	}

	expenditure, err := h.Repository.GetExpenditure(expenditureID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessBase(actor, expenditure.Base.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("expenditure %d is outside your assigned base", expenditure.ID))
		return
	}

	c.JSON(http.StatusOK, expenditure)
}

func (h *ExpenditureHandler) CreateExpenditure(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreateExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.Quantity <= 0 {
		httperr.Respond(c, apperrors.NewValidation("quantity must be greater than zero"))
		return
	}
	if !scope.CanAccessBase(actor, req.BaseID) {
		httperr.Respond(c, apperrors.NewAccessDenied("cannot record an expenditure for another base"))
		return
	}

	expenditureID, err := h.Repository.PersistExpenditure(req, actor.UserID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	expenditure, err := h.Repository.GetExpenditure(expenditureID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), expenditure, nil, expenditure)

	c.JSON(http.StatusCreated, expenditure)
}

func (h *ExpenditureHandler) UpdateExpenditure(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	expenditureID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("expenditure"))
		return
	}

	var changes ExpenditureChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if changes.Quantity != nil && *changes.Quantity <= 0 {
		httperr.Respond(c, apperrors.NewValidation("quantity must be greater than zero"))
		return
	}

	before, err := h.Repository.GetExpenditure(expenditureID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessBase(actor, before.Base.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("expenditure %d is outside your assigned base", before.ID))
		return
	}

	if err := h.Repository.UpdateExpenditure(expenditureID, &changes); err != nil {
		httperr.Respond(c, err)
		return
	}

	after, err := h.Repository.GetExpenditure(expenditureID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *ExpenditureHandler) DeleteExpenditure(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	expenditureID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("expenditure"))
		return
	}

	before, err := h.Repository.GetExpenditure(expenditureID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeleteExpenditure(expenditureID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expenditure deleted"})
}
