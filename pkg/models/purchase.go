package models

import "time"

type Purchase struct {
	ID            int              `json:"id"`
	Base          BaseRef          `json:"base"`
	EquipmentType EquipmentTypeRef `json:"equipment_type"`
	Quantity      int              `json:"quantity"`
	UnitCost      *float64         `json:"unit_cost,omitempty"`
	TotalCost     *float64         `json:"total_cost,omitempty"`
	Supplier      *string          `json:"supplier,omitempty"`
	PurchaseDate  time.Time        `json:"purchase_date"`
	PONumber      *string          `json:"po_number,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	CreatedBy     *int             `json:"created_by,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type FlatPurchaseRecord struct {
	ID                int       `db:"id"`
	BaseID            int       `db:"base_id"`
	BaseName          string    `db:"base_name"`
	BaseCode          string    `db:"base_code"`
	EquipmentTypeID   int       `db:"equipment_type_id"`
	EquipmentTypeName string    `db:"equipment_type_name"`
	EquipmentCategory string    `db:"equipment_category"`
	Quantity          int       `db:"quantity"`
	UnitCost          *float64  `db:"unit_cost"`
	TotalCost         *float64  `db:"total_cost"`
	Supplier          *string   `db:"supplier"`
	PurchaseDate      time.Time `db:"purchase_date"`
	PONumber          *string   `db:"po_number"`
	Notes             *string   `db:"notes"`
	CreatedBy         *int      `db:"created_by"`
	CreatedAt         time.Time `db:"created_at"`
}

func (fp *FlatPurchaseRecord) TransformToPurchase() Purchase {
	return Purchase{
		ID: fp.ID,
		Base: BaseRef{
			ID:   fp.BaseID,
			Name: fp.BaseName,
			Code: fp.BaseCode,
		},
		EquipmentType: EquipmentTypeRef{
			ID:       fp.EquipmentTypeID,
			Name:     fp.EquipmentTypeName,
			Category: fp.EquipmentCategory,
		},
		Quantity:     fp.Quantity,
		UnitCost:     fp.UnitCost,
		TotalCost:    fp.TotalCost,
		Supplier:     fp.Supplier,
		PurchaseDate: fp.PurchaseDate,
		PONumber:     fp.PONumber,
		Notes:        fp.Notes,
		CreatedBy:    fp.CreatedBy,
		CreatedAt:    fp.CreatedAt,
	}
}

func (p *Purchase) AuditTable() string { return "purchases" }

func (p *Purchase) AuditRecordID() int { return p.ID }
