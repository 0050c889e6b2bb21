package models

import (
	"encoding/json"
	"time"
)

type EquipmentType struct {
	ID             int                    `json:"id" db:"id"`
	Name           string                 `json:"name" db:"name"`
	Category       string                 `json:"category" db:"category"`
	SpecsRaw       []byte                 `json:"-" db:"specifications"`
	Specifications map[string]interface{} `json:"specifications,omitempty" db:"-"`
	CreatedAt      time.Time              `json:"created_at" db:"created_at"`
}

// LoadFromDB decodes the raw JSONB column into the exported map.
func (e *EquipmentType) LoadFromDB() {
	if len(e.SpecsRaw) > 0 {
		_ = json.Unmarshal(e.SpecsRaw, &e.Specifications)
	}
}

func (e *EquipmentType) AuditTable() string { return "equipment_types" }

func (e *EquipmentType) AuditRecordID() int { return e.ID }

// EquipmentTypeRef is the joined short form embedded in other entities.
type EquipmentTypeRef struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
