package auditlog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"armory/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T, role string) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	router := gin.New()
	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", "1")
		c.Set("role", role)
		c.Next()
	})

	handler := NewHandler(NewRepository(repository.NewRepository(db)))
	handler.RegisterRoutes(group)

	return router, mock
}

func TestGetAuditLogsPaginationResponse(t *testing.T) {
	router, mock := setupRouter(t, "admin")

	mock.ExpectQuery(`SELECT COUNT\("id"\) FROM "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))

	rows := sqlmock.NewRows(auditRowColumns())
	for i := 0; i < 25; i++ {
		rows.AddRow(60-i, "assets", i+1, "UPDATE", nil, []byte(`{}`), 1, "10.0.0.5", "curl/8.0", time.Now())
	}
	mock.ExpectQuery(`LIMIT 25 OFFSET 25`).WillReturnRows(rows)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit-logs?page=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int               `json:"total"`
		Page  int               `json:"page"`
		Limit int               `json:"limit"`
		Logs  []json.RawMessage `json:"logs"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 60, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 25, resp.Limit)
	assert.Len(t, resp.Logs, 25)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAuditLogsClampsLimit(t *testing.T) {
	router, mock := setupRouter(t, "admin")

	mock.ExpectQuery(`SELECT COUNT\("id"\) FROM "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT 100 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows(auditRowColumns()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit-logs?limit=5000", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogsForbiddenForNonAdmins(t *testing.T) {
	for _, role := range []string{"base_commander", "logistics_officer"} {
		t.Run(role, func(t *testing.T) {
			router, _ := setupRouter(t, role)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/audit-logs", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestAuditLogsRejectWriteVerbs(t *testing.T) {
	router, _ := setupRouter(t, "admin")

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		for _, path := range []string{"/audit-logs", "/audit-logs/5"} {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(method, path, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", method, path)
		}
	}
}
