package models

import "time"

const (
	TransferStatusPending   = "pending"
	TransferStatusInTransit = "in_transit"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

type Transfer struct {
	ID            int              `json:"id"`
	FromBase      BaseRef          `json:"from_base"`
	ToBase        BaseRef          `json:"to_base"`
	EquipmentType EquipmentTypeRef `json:"equipment_type"`
	Quantity      int              `json:"quantity"`
	TransferDate  time.Time        `json:"transfer_date"`
	Status        string           `json:"status"`
	Notes         *string          `json:"notes,omitempty"`
	InitiatedBy   *int             `json:"initiated_by,omitempty"`
	ApprovedBy    *int             `json:"approved_by,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type FlatTransferRecord struct {
	ID                int       `db:"id"`
	FromBaseID        int       `db:"from_base_id"`
	FromBaseName      string    `db:"from_base_name"`
	FromBaseCode      string    `db:"from_base_code"`
	ToBaseID          int       `db:"to_base_id"`
	ToBaseName        string    `db:"to_base_name"`
	ToBaseCode        string    `db:"to_base_code"`
	EquipmentTypeID   int       `db:"equipment_type_id"`
	EquipmentTypeName string    `db:"equipment_type_name"`
	EquipmentCategory string    `db:"equipment_category"`
	Quantity          int       `db:"quantity"`
	TransferDate      time.Time `db:"transfer_date"`
	Status            string    `db:"status"`
	Notes             *string   `db:"notes"`
	InitiatedBy       *int      `db:"initiated_by"`
	ApprovedBy        *int      `db:"approved_by"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (ft *FlatTransferRecord) TransformToTransfer() Transfer {
	return Transfer{
		ID: ft.ID,
		FromBase: BaseRef{
			ID:   ft.FromBaseID,
			Name: ft.FromBaseName,
			Code: ft.FromBaseCode,
		},
		ToBase: BaseRef{
			ID:   ft.ToBaseID,
			Name: ft.ToBaseName,
			Code: ft.ToBaseCode,
		},
		EquipmentType: EquipmentTypeRef{
			ID:       ft.EquipmentTypeID,
			Name:     ft.EquipmentTypeName,
			Category: ft.EquipmentCategory,
		},
		Quantity:     ft.Quantity,
		TransferDate: ft.TransferDate,
		Status:       ft.Status,
		Notes:        ft.Notes,
		InitiatedBy:  ft.InitiatedBy,
		ApprovedBy:   ft.ApprovedBy,
		CreatedAt:    ft.CreatedAt,
		UpdatedAt:    ft.UpdatedAt,
	}
}

func (t *Transfer) AuditTable() string { return "transfers" }

func (t *Transfer) AuditRecordID() int { return t.ID }
