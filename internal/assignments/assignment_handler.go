package assignments

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

type CreateAssignmentRequest struct {
	AssetID            int        `json:"asset_id" binding:"required"`
	AssignedTo         string     `json:"assigned_to" binding:"required"`
	AssignmentDate     time.Time  `json:"assignment_date" binding:"required"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	Notes              *string    `json:"notes"`
}

type AssignmentChanges struct {
	AssignedTo         *string    `json:"assigned_to"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	Status             *string    `json:"status"`
	Notes              *string    `json:"notes"`
}

type AssignmentHandler struct {
	Repository AssignmentRepository
	Service    *AssignmentService
	Recorder   *auditlog.Recorder
}

func NewHandler(r AssignmentRepository, s *AssignmentService, recorder *auditlog.Recorder) *AssignmentHandler {
	return &AssignmentHandler{
		Repository: r,
		Service:    s,
		Recorder:   recorder,
	}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assignments", h.GetAssignments)
	router.GET("/assignments/:id", h.GetAssignment)
	router.POST("/assignments", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.CreateAssignment)
	router.PATCH("/assignments/:id", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.UpdateAssignment)
	router.PATCH("/assignments/:id/return", security.Authorize(roles.Admin, roles.LogisticsOfficer), h.MarkReturned)
	router.DELETE("/assignments/:id", security.Authorize(roles.Admin), h.DeleteAssignment)
}

func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assignments, err := h.Repository.GetAssignments(actor, c.Query("status"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("assignment"))
		return
	}

	assignment, err := h.Repository.GetAssignment(assignmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !scope.CanAccessBase(actor, assignment.AssetBaseID) {
		httperr.Respond(c, apperrors.NewAccessDenied("assignment %d is outside your assigned base", assignment.ID))
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignment, err := h.Service.CreateAssignment(req, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionInsert, security.AuditActorFromContext(c, actor), assignment, nil, assignment)

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("assignment"))
		return
	}

	var changes AssignmentChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	before, after, err := h.Service.UpdateAssignment(assignmentID, &changes, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *AssignmentHandler) MarkReturned(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("assignment"))
		return
	}

	before, after, err := h.Service.MarkReturned(assignmentID, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionUpdate, security.AuditActorFromContext(c, actor), after, before, after)

	c.JSON(http.StatusOK, after)
}

func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("assignment"))
		return
	}

	before, err := h.Repository.GetAssignment(assignmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.Repository.DeleteAssignment(assignmentID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.Recorder.Record(auditlog.ActionDelete, security.AuditActorFromContext(c, actor), before, before, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}
