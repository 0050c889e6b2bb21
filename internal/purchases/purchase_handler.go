package purchases

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

type CreatePurchaseRequest struct {
	BaseID          int       `json:"base_id" binding:"required"`
	EquipmentTypeID int       `json:"equipment_type_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required"`
	UnitCost        *float64  `json:"unit_cost"`
	TotalCost       *float64  `json:"total_cost"`
	Supplier        *string   `json:"supplier"`
	PurchaseDate    time.Time `json:"purchase_date" binding:"required"`
	PONumber        *string   `json:"po_number"`
	Notes           *string   `json:"notes"`
}

type PurchaseChanges struct {
	Quantity     *int       `json:"quantity"`
	UnitCost     *float64   `json:"unit_cost"`
	TotalCost    *float64   `json:"total_cost"`
	Supplier     *string    `json:"supplier"`
	PurchaseDate *time.Time `json:"purchase_date"`
	PONumber     *string    `json:"po_number"`
	Notes        *string    `json:"notes"`
}

type PurchaseHandler struct {
	Repository PurchaseRepository
	Recorder   *auditlog.Recorder
}

func NewHandler(r PurchaseRepository, recorder *auditlog.Recorder) *PurchaseHandler {
	return &PurchaseHandler{
		Repository: r,
		Recorder:   recorder,
	}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/purchases", h.GetPurchases)
	router.GET("/purchases/:id", h.GetPurchase)
	router.POST("/purchases", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.CreatePurchase)
	router.PATCH("/purchases/:id", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.UpdatePurchase)
	router.DELETE("/purchases/:id", security.Authorize(roles.Admin), h.DeletePurchase)
}

func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	baseFilter, _ := strconv.Atoi(c.Query("base"))

	purchases, err := h.Repository.GetPurchases(actor, baseFilter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, purchases)
}

func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	purchaseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("purchase"))
		return
	}

	purchase, err := h.Repository.GetPurchase(purchaseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessBase(actor, purchase.Base.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("purchase %d is outside your assigned base", purchase.ID))
		return
	}

	c.JSON(http.StatusOK, purchase)
}

func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.Quantity <= 0 {
		httperr.Respond(c, apperrors.NewValidation("quantity must be greater than zero"))
		return
	}
	if !scope.CanAccessBase(actor, req.BaseID) {
		httperr.Respond(c, apperrors.NewAccessDenied("cannot record a purchase for another base"))
		return
	}

	totalCost := DeriveTotalCost(req.TotalCost, req.UnitCost, req.Quantity)

	purchaseID, err := h.Repository.PersistPurchase(req, actor.UserID, totalCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	purchase, err := h.Repository.GetPurchase(purchaseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), purchase, nil, purchase)

	c.JSON(http.StatusCreated, purchase)
}

func (h *PurchaseHandler) UpdatePurchase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	purchaseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("purchase"))
		return
	}

	var changes PurchaseChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if changes.Quantity != nil && *changes.Quantity <= 0 {
		httperr.Respond(c, apperrors.NewValidation("quantity must be greater than zero"))
		return
	}

	before, err := h.Repository.GetPurchase(purchaseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessBase(actor, before.Base.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("purchase %d is outside your assigned base", before.ID))
		return
	}

	if err := h.Repository.UpdatePurchase(purchaseID, &changes); err != nil {
		httperr.Respond(c, err)
		return
	}

	after, err := h.Repository.GetPurchase(purchaseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	purchaseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("purchase"))
		return
	}

	before, err := h.Repository.GetPurchase(purchaseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeletePurchase(purchaseID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted"})
}
