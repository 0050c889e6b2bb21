package models

import "time"

type Expenditure struct {
	ID                int              `json:"id"`
	AssetID           *int             `json:"asset_id,omitempty"`
	Base              BaseRef          `json:"base"`
	EquipmentType     EquipmentTypeRef `json:"equipment_type"`
	Quantity          int              `json:"quantity"`
	ExpenditureDate   time.Time        `json:"expenditure_date"`
	Reason            string           `json:"reason"`
	AuthorizedBy      *int             `json:"authorized_by,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type FlatExpenditureRecord struct {
	ID                int       `db:"id"`
	AssetID           *int      `db:"asset_id"`
	BaseID            int       `db:"base_id"`
	BaseName          string    `db:"base_name"`
	BaseCode          string    `db:"base_code"`
	EquipmentTypeID   int       `db:"equipment_type_id"`
	EquipmentTypeName string    `db:"equipment_type_name"`
	EquipmentCategory string    `db:"equipment_category"`
	Quantity          int       `db:"quantity"`
	ExpenditureDate   time.Time `db:"expenditure_date"`
	Reason            string    `db:"reason"`
	AuthorizedBy      *int      `db:"authorized_by"`
	Notes             *string   `db:"notes"`
	CreatedAt         time.Time `db:"created_at"`
}

func (fe *FlatExpenditureRecord) TransformToExpenditure() Expenditure {
	return Expenditure{
		ID:      fe.ID,
		AssetID: fe.AssetID,
		Base: BaseRef{
			ID:   fe.BaseID,
			Name: fe.BaseName,
			Code: fe.BaseCode,
		},
		EquipmentType: EquipmentTypeRef{
			ID:       fe.EquipmentTypeID,
			Name:     fe.EquipmentTypeName,
			Category: fe.EquipmentCategory,
		},
		Quantity:        fe.Quantity,
		ExpenditureDate: fe.ExpenditureDate,
		Reason:          fe.Reason,
		AuthorizedBy:    fe.AuthorizedBy,
		Notes:           fe.Notes,
		CreatedAt:       fe.CreatedAt,
	}
}

func (e *Expenditure) AuditTable() string { return "expenditures" }

func (e *Expenditure) AuditRecordID() int { return e.ID }
