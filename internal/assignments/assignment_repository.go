package assignments

import (
	"fmt"
	"time"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"

	"github.com/doug-martin/goqu/v9"
)

type AssignmentRepository interface {
	GetAssignments(actor scope.Actor, statusFilter string) ([]models.Assignment, error)
	GetAssignment(id int) (*models.Assignment, error)
	PersistAssignment(req CreateAssignmentRequest, assignedBy int) (int, error)
	UpdateAssignment(id int, changes *AssignmentChanges) error
	MarkReturned(id int, returnedAt time.Time) error
	DeleteAssignment(id int) error
}

type assignmentRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) AssignmentRepository {
	return &assignmentRepositoryImpl{repository: r}
}

// assignmentSelect joins through assets: an assignment has no base
// column of its own and reaches its base via the referenced asset.
func (r *assignmentRepositoryImpl) assignmentSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("assignments").As("asg")).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.I("asg.asset_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("asg.id").As("id"),
			goqu.I("asg.asset_id").As("asset_id"),
			goqu.I("a.serial_number").As("asset_serial_number"),
			goqu.I("a.base_id").As("asset_base_id"),
			goqu.I("asg.assigned_to").As("assigned_to"),
			goqu.I("asg.assigned_by").As("assigned_by"),
			goqu.I("asg.assignment_date").As("assignment_date"),
			goqu.I("asg.expected_return_date").As("expected_return_date"),
			goqu.I("asg.actual_return_date").As("actual_return_date"),
			goqu.I("asg.status").As("status"),
			goqu.I("asg.notes").As("notes"),
			goqu.I("asg.created_at").As("created_at"),
			goqu.I("asg.updated_at").As("updated_at"),
		)
}

func (r *assignmentRepositoryImpl) GetAssignments(actor scope.Actor, statusFilter string) ([]models.Assignment, error) {
	query := r.assignmentSelect().Order(goqu.I("asg.id").Desc())

	if filter := scope.BaseFilter(actor, "a.base_id"); filter != nil {
		query = query.Where(filter)
	}
	if statusFilter != "" {
		query = query.Where(goqu.I("asg.status").Eq(statusFilter))
	}

	var flatRecords []models.FlatAssignmentRecord
	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	assignments := make([]models.Assignment, 0, len(flatRecords))
	for i := range flatRecords {
		assignments = append(assignments, flatRecords[i].TransformToAssignment())
	}

	return assignments, nil
}

func (r *assignmentRepositoryImpl) GetAssignment(id int) (*models.Assignment, error) {
	var flat models.FlatAssignmentRecord

	found, err := r.assignmentSelect().
		Where(goqu.I("asg.id").Eq(id)).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignment: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("assignment")
	}

	assignment := flat.TransformToAssignment()
	return &assignment, nil
}

// PersistAssignment inserts the assignment and flips the asset to
// assigned in the same transaction.
func (r *assignmentRepositoryImpl) PersistAssignment(req CreateAssignmentRequest, assignedBy int) (int, error) {
	var assignmentID int

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		query := tx.Insert("assignments").
			Rows(goqu.Record{
				"asset_id":             req.AssetID,
				"assigned_to":          req.AssignedTo,
				"assigned_by":          assignedBy,
				"assignment_date":      req.AssignmentDate,
				"expected_return_date": req.ExpectedReturnDate,
				"status":               models.AssignmentStatusActive,
				"notes":                req.Notes,
			}).
			Returning("id")

		if _, err := query.Executor().ScanVal(&assignmentID); err != nil {
			return apperrors.WrapDBError("failed to insert assignment", err)
		}

		if _, err := tx.Update("assets").
			Set(goqu.Record{"status": models.AssetStatusAssigned, "updated_at": goqu.L("NOW()")}).
			Where(goqu.Ex{"id": req.AssetID}).
			Executor().
			Exec(); err != nil {
			return apperrors.WrapDBError("failed to mark asset assigned", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return assignmentID, nil
}

// assetStatusFor maps a closing assignment status to the status the
// asset lands in once it is no longer assigned.
func assetStatusFor(assignmentStatus string) string {
	switch assignmentStatus {
	case models.AssignmentStatusReturned:
		return models.AssetStatusAvailable
	case models.AssignmentStatusLost:
		return models.AssetStatusExpended
	case models.AssignmentStatusDamaged:
		return models.AssetStatusMaintenance
	}
	return ""
}

// UpdateAssignment applies field changes. A status change closes the
// assignment, so the asset is moved out of assigned in the same
// transaction.
func (r *assignmentRepositoryImpl) UpdateAssignment(id int, changes *AssignmentChanges) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if changes.AssignedTo != nil {
		record["assigned_to"] = *changes.AssignedTo
	}
	if changes.ExpectedReturnDate != nil {
		record["expected_return_date"] = *changes.ExpectedReturnDate
	}
	if changes.Status != nil {
		record["status"] = *changes.Status
	}
	if changes.Notes != nil {
		record["notes"] = *changes.Notes
	}

	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if _, err := tx.Update("assignments").
			Set(record).
			Where(goqu.Ex{"id": id}).
			Executor().
			Exec(); err != nil {
			return apperrors.WrapDBError("failed to update assignment", err)
		}

		if changes.Status == nil {
			return nil
		}
		assetStatus := assetStatusFor(*changes.Status)
		if assetStatus == "" {
			return nil
		}

		if _, err := tx.Update("assets").
			Set(goqu.Record{"status": assetStatus, "updated_at": goqu.L("NOW()")}).
			Where(goqu.Ex{"id": tx.From("assignments").Select("asset_id").Where(goqu.Ex{"id": id})}).
			Executor().
			Exec(); err != nil {
			return fmt.Errorf("failed to release asset: %w", err)
		}

		return nil
	})
}

// MarkReturned closes the assignment and releases the asset back to
// available in the same transaction.
func (r *assignmentRepositoryImpl) MarkReturned(id int, returnedAt time.Time) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if _, err := tx.Update("assignments").
			Set(goqu.Record{
				"status":             models.AssignmentStatusReturned,
				"actual_return_date": returnedAt,
				"updated_at":         goqu.L("NOW()"),
			}).
			Where(goqu.Ex{"id": id}).
			Executor().
			Exec(); err != nil {
			return fmt.Errorf("failed to mark assignment returned: %w", err)
		}

		if _, err := tx.Update("assets").
			Set(goqu.Record{"status": models.AssetStatusAvailable, "updated_at": goqu.L("NOW()")}).
			Where(goqu.Ex{"id": tx.From("assignments").Select("asset_id").Where(goqu.Ex{"id": id})}).
			Executor().
			Exec(); err != nil {
			return fmt.Errorf("failed to release asset: %w", err)
		}

		return nil
	})
}

func (r *assignmentRepositoryImpl) DeleteAssignment(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("assignments").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to delete assignment", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("assignment")
	}

	return nil
}
