package models

import "time"

type Base struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	Location    *string   `json:"location,omitempty" db:"location"`
	CommanderID *int      `json:"commander_id,omitempty" db:"commander_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (b *Base) AuditTable() string { return "bases" }

func (b *Base) AuditRecordID() int { return b.ID }

// BaseRef is the joined short form embedded in other entities.
type BaseRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
