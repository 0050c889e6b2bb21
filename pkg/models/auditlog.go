package models

import (
	"encoding/json"
	"time"
)

// AuditLog is one immutable record of a write operation's before/after
// state and the actor behind it. Rows are appended by the recorder only
// and never updated or deleted through the API.
type AuditLog struct {
	ID        int                    `json:"id" db:"id"`
	TableName string                 `json:"table_name" db:"table_name"`
	RecordID  int                    `json:"record_id" db:"record_id"`
	Action    string                 `json:"action" db:"action"` // INSERT, UPDATE or DELETE
	OldRaw    []byte                 `json:"-" db:"old_values"`
	NewRaw    []byte                 `json:"-" db:"new_values"`
	OldValues map[string]interface{} `json:"old_values,omitempty" db:"-"`
	NewValues map[string]interface{} `json:"new_values,omitempty" db:"-"`
	UserID    *int                   `json:"user_id,omitempty" db:"user_id"`
	IPAddress string                 `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string                 `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

func (a *AuditLog) LoadFromDB() {
	if len(a.OldRaw) > 0 {
		_ = json.Unmarshal(a.OldRaw, &a.OldValues)
	}
	if len(a.NewRaw) > 0 {
		_ = json.Unmarshal(a.NewRaw, &a.NewValues)
	}
}
