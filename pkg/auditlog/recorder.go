package auditlog

import (
	"encoding/json"
	"fmt"

	"armory/pkg/models"

	"go.uber.org/zap"
)

// Action is the kind of write being recorded. It is always passed
// explicitly by the call site, never inferred from entity state.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Auditable is implemented by every entity kind that produces audit
// entries.
type Auditable interface {
	AuditTable() string
	AuditRecordID() int
}

// Actor carries the request context the route handler passes in. The
// recorder has no ambient request context of its own.
type Actor struct {
	UserID    *int
	IP        string
	UserAgent string
}

// Store persists finished audit entries. Implemented by the repository
// layer; the audit query API never writes through this.
type Store interface {
	PersistEntry(entry models.AuditLog) error
}

type Recorder struct {
	store Store
	log   *zap.Logger
}

func NewRecorder(store Store, log *zap.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record appends one audit entry for a completed write. oldState and
// newState are point-in-time snapshots taken by the caller: nil oldState
// for inserts, nil newState for deletes, both set for updates.
//
// Best effort by contract: a nil actor skips the entry with a warning,
// and any failure is logged and swallowed so the business operation
// that triggered the write can never fail because of audit.
func (r *Recorder) Record(action Action, actor *Actor, item Auditable, oldState, newState interface{}) {
	if actor == nil {
		r.log.Warn("audit context not provided, skipping audit entry",
			zap.String("table", item.AuditTable()),
			zap.Int("record_id", item.AuditRecordID()),
			zap.String("action", string(action)),
		)
		return
	}

	entry, err := r.buildEntry(action, actor, item, oldState, newState)
	if err == nil {
		err = r.store.PersistEntry(entry)
	}

	if err != nil {
		r.log.Error("unable to persist audit entry",
			zap.String("table", item.AuditTable()),
			zap.Int("record_id", item.AuditRecordID()),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return
	}
}

func (r *Recorder) buildEntry(action Action, actor *Actor, item Auditable, oldState, newState interface{}) (models.AuditLog, error) {
	entry := models.AuditLog{
		TableName: item.AuditTable(),
		RecordID:  item.AuditRecordID(),
		Action:    string(action),
		UserID:    actor.UserID,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}

	if oldState != nil {
		raw, err := json.Marshal(oldState)
		if err != nil {
			return models.AuditLog{}, fmt.Errorf("failed to marshal old state: %w", err)
		}
		entry.OldRaw = raw
	}

	if newState != nil {
		raw, err := json.Marshal(newState)
		if err != nil {
			return models.AuditLog{}, fmt.Errorf("failed to marshal new state: %w", err)
		}
		entry.NewRaw = raw
	}

	return entry, nil
}
