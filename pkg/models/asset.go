package models

import (
	"encoding/json"
	"time"
)

const (
	AssetStatusAvailable   = "available"
	AssetStatusAssigned    = "assigned"
	AssetStatusExpended    = "expended"
	AssetStatusMaintenance = "maintenance"
)

const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// ValidAssetStatus reports whether s is one of the asset statuses.
// Transitions between them are not constrained.
func ValidAssetStatus(s string) bool {
	switch s {
	case AssetStatusAvailable, AssetStatusAssigned, AssetStatusExpended, AssetStatusMaintenance:
		return true
	}
	return false
}

func ValidAssetCondition(s string) bool {
	switch s {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type Asset struct {
	ID            int                    `json:"id"`
	SerialNumber  string                 `json:"serial_number"`
	EquipmentType EquipmentTypeRef       `json:"equipment_type"`
	Base          BaseRef                `json:"base"`
	Status        string                 `json:"status"`
	Condition     string                 `json:"condition"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// FlatAssetRecord is the joined row shape scanned from the database.
type FlatAssetRecord struct {
	ID                int       `db:"id"`
	SerialNumber      string    `db:"serial_number"`
	Status            string    `db:"status"`
	Condition         string    `db:"condition"`
	Metadata          []byte    `db:"metadata"`
	BaseID            int       `db:"base_id"`
	BaseName          string    `db:"base_name"`
	BaseCode          string    `db:"base_code"`
	EquipmentTypeID   int       `db:"equipment_type_id"`
	EquipmentTypeName string    `db:"equipment_type_name"`
	EquipmentCategory string    `db:"equipment_category"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (fa *FlatAssetRecord) TransformToAsset() Asset {
	var metadata map[string]interface{}
	if len(fa.Metadata) > 0 {
		_ = json.Unmarshal(fa.Metadata, &metadata)
	}

	return Asset{
		ID:           fa.ID,
		SerialNumber: fa.SerialNumber,
		Status:       fa.Status,
		Condition:    fa.Condition,
		Metadata:     metadata,
		Base: BaseRef{
			ID:   fa.BaseID,
			Name: fa.BaseName,
			Code: fa.BaseCode,
		},
		EquipmentType: EquipmentTypeRef{
			ID:       fa.EquipmentTypeID,
			Name:     fa.EquipmentTypeName,
			Category: fa.EquipmentCategory,
		},
		CreatedAt: fa.CreatedAt,
		UpdatedAt: fa.UpdatedAt,
	}
}

func (a *Asset) AuditTable() string { return "assets" }

func (a *Asset) AuditRecordID() int { return a.ID }
