package bases

import (
	"net/http"
	"strconv"

	"armory/internal/httperr"
	"armory/pkg/apperrors"
	"armory/pkg/auditlog"
	"armory/pkg/roles"
	"armory/pkg/scope"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateBaseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Location    *string `json:"location"`
	CommanderID *int    `json:"commander_id"`
}

type BaseChanges struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Location    *string `json:"location"`
	CommanderID *int    `json:"commander_id"`
}

type BaseHandler struct {
	Repository BaseRepository
	Recorder   *auditlog.Recorder
}

func NewHandler(r BaseRepository, recorder *auditlog.Recorder) *BaseHandler {
	return &BaseHandler{
		Repository: r,
		Recorder:   recorder,
	}
}

func (h *BaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/bases", h.GetBases)
	router.GET("/bases/:id", h.GetBase)
	router.POST("/bases", security.Authorize(roles.Admin), h.CreateBase)
	router.PATCH("/bases/:id", security.Authorize(roles.Admin), h.UpdateBase)
	router.DELETE("/bases/:id", security.Authorize(roles.Admin), h.DeleteBase)
}

func (h *BaseHandler) GetBases(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	bases, err := h.Repository.GetBases(actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, bases)
}

func (h *BaseHandler) GetBase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	baseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("base"))
		return
	}

	base, err := h.Repository.GetBase(baseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	// The record exists, so an out-of-scope caller gets a denial, not a 404.
	if !scope.CanAccessBase(actor, base.ID) {
		httperr.Respond(c, apperrors.NewAccessDenied("base %d is outside your assigned base", base.ID))
		return
	}

	c.JSON(http.StatusOK, base)
}

func (h *BaseHandler) CreateBase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreateBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	base, err := h.Repository.PersistBase(req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), base, nil, base)

	c.JSON(http.StatusCreated, base)
}

func (h *BaseHandler) UpdateBase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	baseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("base"))
		return
	}

	var changes BaseChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	before, err := h.Repository.GetBase(baseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.UpdateBase(baseID, &changes); err != nil {
		httperr.Respond(c, err)
		return
	}

	after, err := h.Repository.GetBase(baseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *BaseHandler) DeleteBase(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	baseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("base"))
		return
	}

	before, err := h.Repository.GetBase(baseID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeleteBase(baseID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Base deleted"})
}
