package transfers

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

type CreateTransferRequest struct {
	FromBaseID      int       `json:"from_base_id" binding:"required"`
	ToBaseID        int       `json:"to_base_id" binding:"required"`
	EquipmentTypeID int       `json:"equipment_type_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required"`
	TransferDate    time.Time `json:"transfer_date" binding:"required"`
	Notes           *string   `json:"notes"`
}

type TransferChanges struct {
	Notes *string `json:"notes"`
}

type TransferHandler struct {
	Repository TransferRepository
	Service    *TransferService
	Recorder   *auditlog.Recorder
}

func NewHandler(r TransferRepository, s *TransferService, recorder *auditlog.Recorder) *TransferHandler {
	return &TransferHandler{
		Repository: r,
		Service:    s,
		Recorder:   recorder,
	}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/transfers", h.GetTransfers)
	router.GET("/transfers/:id", h.GetTransfer)
	router.POST("/transfers", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.CreateTransfer)
	router.PATCH("/transfers/:id", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.UpdateTransfer)
	router.PATCH("/transfers/:id/status", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.UpdateTransferStatus)
	router.DELETE("/transfers/:id", security.Authorize(roles.Admin), h.DeleteTransfer)
}

func (h *TransferHandler) GetTransfers(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	transfers, err := h.Repository.GetTransfers(actor, c.Query("status"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) GetTransfer(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("transfer"))
		return
	}

	transfer, err := h.Repository.GetTransfer(transferID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessEitherBase(actor, transfer.FromBase.ID, transfer.ToBase.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("transfer %d does not involve your assigned base", transfer.ID))
		return
	}

	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	transfer, err := h.Service.CreateTransfer(req, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), transfer, nil, transfer)

	c.JSON(http.StatusCreated, transfer)
}

// UpdateTransfer covers the non-status fields. Status moves through the
// dedicated /status route so every change runs the transition table.
func (h *TransferHandler) UpdateTransfer(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("transfer"))
		return
	}

	var changes TransferChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if changes.Notes == nil {
		httperr.Respond(c, apperrors.NewValidation("notes is required"))
		return
	}

	before, err := h.Repository.GetTransfer(transferID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessEitherBase(actor, before.FromBase.ID, before.ToBase.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("transfer %d does not involve your assigned base", before.ID))
		return
	}

	if err := h.Repository.UpdateTransferNotes(transferID, *changes.Notes); err != nil {
		httperr.Respond(c, err)
		return
	}

	after, err := h.Repository.GetTransfer(transferID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *TransferHandler) UpdateTransferStatus(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("transfer"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	before, after, err := h.Service.ChangeStatus(transferID, req.Status, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *TransferHandler) DeleteTransfer(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("transfer"))
		return
	}

	before, err := h.Repository.GetTransfer(transferID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeleteTransfer(transferID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transfer deleted"})
}
