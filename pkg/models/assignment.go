package models

import "time"

const (
	AssignmentStatusActive   = "active"
	AssignmentStatusReturned = "returned"
	AssignmentStatusLost     = "lost"
	AssignmentStatusDamaged  = "damaged"
)

// AssignmentTerminal reports whether no further transition is defined
// out of the given status.
func AssignmentTerminal(status string) bool {
	switch status {
	case AssignmentStatusReturned, AssignmentStatusLost, AssignmentStatusDamaged:
		return true
	}
	return false
}

type Assignment struct {
	ID                 int        `json:"id"`
	AssetID            int        `json:"asset_id"`
	AssetSerialNumber  string     `json:"asset_serial_number"`
	AssetBaseID        int        `json:"asset_base_id"`
	AssignedTo         string     `json:"assigned_to"`
	AssignedBy         *int       `json:"assigned_by,omitempty"`
	AssignmentDate     time.Time  `json:"assignment_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	Status             string     `json:"status"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// FlatAssignmentRecord is the row shape after joining through assets,
// which is how an assignment reaches its base for scoping.
type FlatAssignmentRecord struct {
	ID                 int        `db:"id"`
	AssetID            int        `db:"asset_id"`
	AssetSerialNumber  string     `db:"asset_serial_number"`
	AssetBaseID        int        `db:"asset_base_id"`
	AssignedTo         string     `db:"assigned_to"`
	AssignedBy         *int       `db:"assigned_by"`
	AssignmentDate     time.Time  `db:"assignment_date"`
	ExpectedReturnDate *time.Time `db:"expected_return_date"`
	ActualReturnDate   *time.Time `db:"actual_return_date"`
	Status             string     `db:"status"`
	Notes              *string    `db:"notes"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func (fa *FlatAssignmentRecord) TransformToAssignment() Assignment {
	return Assignment{
		ID:                 fa.ID,
		AssetID:            fa.AssetID,
		AssetSerialNumber:  fa.AssetSerialNumber,
		AssetBaseID:        fa.AssetBaseID,
		AssignedTo:         fa.AssignedTo,
		AssignedBy:         fa.AssignedBy,
		AssignmentDate:     fa.AssignmentDate,
		ExpectedReturnDate: fa.ExpectedReturnDate,
		ActualReturnDate:   fa.ActualReturnDate,
		Status:             fa.Status,
		Notes:              fa.Notes,
		CreatedAt:          fa.CreatedAt,
		UpdatedAt:          fa.UpdatedAt,
	}
}

func (a *Assignment) AuditTable() string { return "assignments" }

func (a *Assignment) AuditRecordID() int { return a.ID }
