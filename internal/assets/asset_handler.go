package assets

import (
	"net/http"
	"strconv"

	"armory/internal/httperr"
	"armory/pkg/apperrors"
	"armory/pkg/auditlog"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/scope"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateAssetRequest struct {
	SerialNumber    string                 `json:"serial_number" binding:"required"`
	EquipmentTypeID int                    `json:"equipment_type_id" binding:"required"`
	BaseID          int                    `json:"base_id" binding:"required"`
	Status          string                 `json:"status"`
	Condition       string                 `json:"condition"`
	Metadata        map[string]interface{} `json:"metadata"`
}

type AssetChanges struct {
	SerialNumber    *string                `json:"serial_number"`
	EquipmentTypeID *int                   `json:"equipment_type_id"`
	BaseID          *int                   `json:"base_id"`
	Status          *string                `json:"status"`
	Condition       *string                `json:"condition"`
	Metadata        map[string]interface{} `json:"metadata"`
}

type AssetHandler struct {
	Repository AssetRepository
	Recorder   *auditlog.Recorder
}

func NewHandler(r AssetRepository, recorder *auditlog.Recorder) *AssetHandler {
	return &AssetHandler{
		Repository: r,
		Recorder:   recorder,
	}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets", h.GetAssets)
	router.GET("/assets/:id", h.GetAsset)
	router.POST("/assets", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.CreateAsset)
	router.PATCH("/assets/:id", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.UpdateAsset)
	router.DELETE("/assets/:id", security.Authorize(roles.Admin), h.DeleteAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assets, err := h.Repository.GetAssets(actor, c.Query("status"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("asset"))
		return
	}

	asset, err := h.Repository.GetAsset(assetID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessBase(actor, asset.Base.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("asset %d is outside your assigned base", asset.ID))
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.Status != "" && !models.ValidAssetStatus(req.Status) {
		httperr.Respond(c, apperrors.NewValidation("invalid asset status %q", req.Status))
		return
	}
	if req.Condition != "" && !models.ValidAssetCondition(req.Condition) {
		httperr.Respond(c, apperrors.NewValidation("invalid asset condition %q", req.Condition))
		return
	}
	if !scope.CanAccessBase(actor, req.BaseID) {
		httperr.Respond(c, apperrors.NewAccessDenied("cannot create an asset at another base"))
		return
	}

	assetID, err := h.Repository.PersistAsset(req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	asset, err := h.Repository.GetAsset(assetID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), asset, nil, asset)

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("asset"))
		return
	}

	var changes AssetChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if changes.Status != nil && !models.ValidAssetStatus(*changes.Status) {
		httperr.Respond(c, apperrors.NewValidation("invalid asset status %q", *changes.Status))
		return
	}
	if changes.Condition != nil && !models.ValidAssetCondition(*changes.Condition) {
		httperr.Respond(c, apperrors.NewValidation("invalid asset condition %q", *changes.Condition))
		return
	}

	before, err := h.Repository.GetAsset(assetID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessBase(actor, before.Base.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("asset %d is outside your assigned base", before.ID))
		return
	}
	if changes.BaseID != nil && !scope.CanAccessBase(actor, *changes.BaseID) {
		httperr.Respond(c, apperrors.NewAccessDenied("cannot move an asset to another base"))
		return
	}

	if err := h.Repository.UpdateAsset(assetID, &changes); err != nil {
		httperr.Respond(c, err)
		return
	}

	after, err := h.Repository.GetAsset(assetID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("asset"))
		return
	}

	before, err := h.Repository.GetAsset(assetID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeleteAsset(assetID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}
