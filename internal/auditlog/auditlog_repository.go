package auditlog

import (
	"fmt"
	"time"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// QueryFilter is the AND-combined filter set for audit queries. Zero
// values mean "not filtered".
type QueryFilter struct {
	TableName string
	Action    string
	UserID    int
	RecordID  int
	From      *time.Time
	To        *time.Time
}

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

// PersistEntry appends one audit row. This is the only write path into
// audit_logs; the HTTP surface is read-only.
func (r *AuditLogRepository) PersistEntry(entry models.AuditLog) error {
	query := r.repository.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"table_name": entry.TableName,
			"record_id":  entry.RecordID,
			"action":     entry.Action,
			"old_values": entry.OldRaw,
			"new_values": entry.NewRaw,
			"user_id":    entry.UserID,
			"ip_address": entry.IPAddress,
			"user_agent": entry.UserAgent,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) buildWhere(filter QueryFilter) []goqu.Expression {
	var conditions []goqu.Expression
	if filter.TableName != "" {
		conditions = append(conditions, goqu.I("table_name").Eq(filter.TableName))
	}
	if filter.Action != "" {
		conditions = append(conditions, goqu.I("action").Eq(filter.Action))
	}
	if filter.UserID > 0 {
		conditions = append(conditions, goqu.I("user_id").Eq(filter.UserID))
	}
	if filter.RecordID > 0 {
		conditions = append(conditions, goqu.I("record_id").Eq(filter.RecordID))
	}
	if filter.From != nil {
		conditions = append(conditions, goqu.I("created_at").Gte(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, goqu.I("created_at").Lte(*filter.To))
	}
	return conditions
}

// CountEntries returns how many rows match the filter.
func (r *AuditLogRepository) CountEntries(filter QueryFilter) (int, error) {
	query := r.repository.GoquDBWrapper.
		From("audit_logs").
		Select(goqu.COUNT("id")).
		Where(r.buildWhere(filter)...)

	var total int
	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	return total, nil
}

// GetEntries returns one page of matching rows, most recent first.
func (r *AuditLogRepository) GetEntries(filter QueryFilter, page, limit int) ([]models.AuditLog, error) {
	query := r.repository.GoquDBWrapper.
		Select("id", "table_name", "record_id", "action", "old_values", "new_values",
			"user_id", "ip_address", "user_agent", "created_at").
		From("audit_logs").
		Where(r.buildWhere(filter)...).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit))

	var entries []models.AuditLog
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	for i := range entries {
		entries[i].LoadFromDB()
	}

	return entries, nil
}

// GetEntry returns a single audit row by id.
func (r *AuditLogRepository) GetEntry(id int) (*models.AuditLog, error) {
	var entry models.AuditLog

	query := r.repository.GoquDBWrapper.
		Select("id", "table_name", "record_id", "action", "old_values", "new_values",
			"user_id", "ip_address", "user_agent", "created_at").
		From("audit_logs").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&entry)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit log: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("audit log")
	}

	entry.LoadFromDB()
	return &entry, nil
}
