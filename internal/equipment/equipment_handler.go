package equipment

import (
	"net/http"
	"strconv"

	"armory/internal/httperr"
	"armory/pkg/apperrors"
	"armory/pkg/auditlog"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateEquipmentTypeRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Category       string                 `json:"category" binding:"required"`
	Specifications map[string]interface{} `json:"specifications"`
}

type EquipmentTypeChanges struct {
	Name           *string                `json:"name"`
	Category       *string                `json:"category"`
	Specifications map[string]interface{} `json:"specifications"`
}

type EquipmentTypeHandler struct {
	Repository EquipmentTypeRepository
	Recorder   *auditlog.Recorder
}

func NewHandler(r EquipmentTypeRepository, recorder *auditlog.Recorder) *EquipmentTypeHandler {
	return &EquipmentTypeHandler{
		Repository: r,
		Recorder:   recorder,
	}
}

func (h *EquipmentTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Equipment types carry no base reference, so reads are not scoped.
	router.GET("/equipment-types", h.GetEquipmentTypes)
	router.GET("/equipment-types/:id", h.GetEquipmentType)
	router.POST("/equipment-types", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.CreateEquipmentType)
	router.PATCH("/equipment-types/:id", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.UpdateEquipmentType)
	router.DELETE("/equipment-types/:id", security.Authorize(roles.Admin), h.DeleteEquipmentType)
}

func (h *EquipmentTypeHandler) GetEquipmentTypes(c *gin.Context) {
	types, err := h.Repository.GetEquipmentTypes(c.Query("category"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *EquipmentTypeHandler) GetEquipmentType(c *gin.Context) {
	typeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("equipment type"))
		return
	}

	equipmentType, err := h.Repository.GetEquipmentType(typeID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, equipmentType)
}

func (h *EquipmentTypeHandler) CreateEquipmentType(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreateEquipmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	equipmentType, err := h.Repository.PersistEquipmentType(req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), equipmentType, nil, equipmentType)

	c.JSON(http.StatusCreated, equipmentType)
}

func (h *EquipmentTypeHandler) UpdateEquipmentType(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	typeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("equipment type"))
		return
	}

	var changes EquipmentTypeChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	before, err := h.Repository.GetEquipmentType(typeID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.UpdateEquipmentType(typeID, &changes); err != nil {
		httperr.Respond(c, err)
		return
	}

	after, err := h.Repository.GetEquipmentType(typeID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *EquipmentTypeHandler) DeleteEquipmentType(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	typeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("equipment type"))
		return
	}

	before, err := h.Repository.GetEquipmentType(typeID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeleteEquipmentType(typeID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Equipment type deleted"})
}
