package auditlog

import (
	"testing"
	"time"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func setupRepository(t *testing.T) (*AuditLogRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRepository(repository.NewRepository(db)), mock
}

func auditRowColumns() []string {
	return []string{
		"id", "table_name", "record_id", "action", "old_values", "new_values",
		"user_id", "ip_address", "user_agent", "created_at",
	}
}

func TestPersistEntry(t *testing.T) {
	repo, mock := setupRepository(t)

	userID := 7
	entry := models.AuditLog{
		TableName: "assets",
		RecordID:  12,
		Action:    "UPDATE",
		OldRaw:    []byte(`{"status":"available"}`),
		NewRaw:    []byte(`{"status":"assigned"}`),
		UserID:    &userID,
		IPAddress: "10.0.0.5",
		UserAgent: "curl/8.0",
	}

	mock.ExpectExec(`INSERT INTO "audit_logs"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.PersistEntry(entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountEntriesAppliesFilters(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectQuery(`SELECT COUNT\("id"\) FROM "audit_logs" WHERE .*"table_name" = 'assets'.*"action" = 'UPDATE'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.CountEntries(QueryFilter{TableName: "assets", Action: "UPDATE"})

	assert.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntriesPaginatesMostRecentFirst(t *testing.T) {
	repo, mock := setupRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows(auditRowColumns()).
		AddRow(61, "assets", 12, "UPDATE", []byte(`{"status":"available"}`), []byte(`{"status":"assigned"}`), 7, "10.0.0.5", "curl/8.0", now).
		AddRow(60, "bases", 3, "INSERT", nil, []byte(`{"name":"Fort Alpha"}`), 7, "10.0.0.5", "curl/8.0", now.Add(-time.Minute))

	mock.ExpectQuery(`FROM "audit_logs" ORDER BY "created_at" DESC LIMIT 25 OFFSET 50`).
		WillReturnRows(rows)

	entries, err := repo.GetEntries(QueryFilter{}, 3, 25)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 61, entries[0].ID)
	assert.Equal(t, "assigned", entries[0].NewValues["status"])
	assert.Nil(t, entries[1].OldValues)
	assert.Equal(t, "Fort Alpha", entries[1].NewValues["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntryNotFound(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectQuery(`FROM "audit_logs" WHERE \("id" = 99\)`).
		WillReturnRows(sqlmock.NewRows(auditRowColumns()))

	_, err := repo.GetEntry(99)

	assert.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
