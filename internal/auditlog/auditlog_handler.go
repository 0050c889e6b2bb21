package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"armory/internal/httperr"
	"armory/pkg/apperrors"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type AuditLogHandler struct {
	Repository *AuditLogRepository
}

func NewHandler(r *AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{Repository: r}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs", security.Authorize(roles.Admin), h.GetAuditLogs)
	router.GET("/audit-logs/:id", security.Authorize(roles.Admin), h.GetAuditLog)

	// Audit rows are written by the recorder only; every mutating verb
	// on this surface is locked down, admins included.
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		router.Handle(method, "/audit-logs", httperr.MethodNotAllowed)
		router.Handle(method, "/audit-logs/:id", httperr.MethodNotAllowed)
	}
}

func (h *AuditLogHandler) GetAuditLogs(c *gin.Context) {
	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 1 {
		page = p
	}

	limit := defaultPageSize
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}

	filter := QueryFilter{
		TableName: c.Query("table"),
		Action:    c.Query("action"),
	}
	if userID, err := strconv.Atoi(c.Query("user")); err == nil {
		filter.UserID = userID
	}
	if recordID, err := strconv.Atoi(c.Query("record")); err == nil {
		filter.RecordID = recordID
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}

	total, err := h.Repository.CountEntries(filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	logs, err := h.Repository.GetEntries(filter, page, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"page":  page,
		"limit": limit,
		"logs":  logs,
	})
}

func (h *AuditLogHandler) GetAuditLog(c *gin.Context) {
	logID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.Respond(c, apperrors.NewNotFound("audit log"))
		return
	}

	entry, err := h.Repository.GetEntry(logID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
