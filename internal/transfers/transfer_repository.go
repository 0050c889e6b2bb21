package transfers

import (
	"fmt"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"

	"github.com/doug-martin/goqu/v9"
)

type TransferRepository interface {
	GetTransfers(actor scope.Actor, statusFilter string) ([]models.Transfer, error)
	GetTransfer(id int) (*models.Transfer, error)
	PersistTransfer(req CreateTransferRequest, initiatedBy int) (int, error)
	UpdateTransferStatus(id int, status string, approvedBy *int) error
	UpdateTransferNotes(id int, notes string) error
	DeleteTransfer(id int) error
}

type transferRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) TransferRepository {
	return &transferRepositoryImpl{repository: r}
}

func (r *transferRepositoryImpl) transferSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("transfers").As("t")).
		Join(goqu.T("bases").As("fb"), goqu.On(goqu.I("t.from_base_id").Eq(goqu.I("fb.id")))).
		Join(goqu.T("bases").As("tb"), goqu.On(goqu.I("t.to_base_id").Eq(goqu.I("tb.id")))).
		Join(goqu.T("equipment_types").As("et"), goqu.On(goqu.I("t.equipment_type_id").Eq(goqu.I("et.id")))).
		Select(
			goqu.I("t.id").As("id"),
			goqu.I("fb.id").As("from_base_id"),
			goqu.I("fb.name").As("from_base_name"),
			goqu.I("fb.code").As("from_base_code"),
			goqu.I("tb.id").As("to_base_id"),
			goqu.I("tb.name").As("to_base_name"),
			goqu.I("tb.code").As("to_base_code"),
			goqu.I("et.id").As("equipment_type_id"),
			goqu.I("et.name").As("equipment_type_name"),
			goqu.I("et.category").As("equipment_category"),
			goqu.I("t.quantity").As("quantity"),
			goqu.I("t.transfer_date").As("transfer_date"),
			goqu.I("t.status").As("status"),
			goqu.I("t.notes").As("notes"),
			goqu.I("t.initiated_by").As("initiated_by"),
			goqu.I("t.approved_by").As("approved_by"),
			goqu.I("t.created_at").As("created_at"),
			goqu.I("t.updated_at").As("updated_at"),
		)
}

func (r *transferRepositoryImpl) GetTransfers(actor scope.Actor, statusFilter string) ([]models.Transfer, error) {
	query := r.transferSelect().Order(goqu.I("t.id").Desc())

	// A transfer is in scope when either endpoint is the actor's base.
	if filter := scope.EitherBaseFilter(actor, "t.from_base_id", "t.to_base_id"); filter != nil {
		query = query.Where(filter)
	}
	if statusFilter != "" {
		query = query.Where(goqu.I("t.status").Eq(statusFilter))
	}

	var flatRecords []models.FlatTransferRecord
	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("failed to fetch transfers: %w", err)
	}

	transfers := make([]models.Transfer, 0, len(flatRecords))
	for i := range flatRecords {
		transfers = append(transfers, flatRecords[i].TransformToTransfer())
	}

	return transfers, nil
}

func (r *transferRepositoryImpl) GetTransfer(id int) (*models.Transfer, error) {
	var flat models.FlatTransferRecord

	found, err := r.transferSelect().
		Where(goqu.I("t.id").Eq(id)).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfer: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("transfer")
	}

	transfer := flat.TransformToTransfer()
	return &transfer, nil
}

func (r *transferRepositoryImpl) PersistTransfer(req CreateTransferRequest, initiatedBy int) (int, error) {
	query := r.repository.GoquDBWrapper.Insert("transfers").
		Rows(goqu.Record{
			"from_base_id":      req.FromBaseID,
			"to_base_id":        req.ToBaseID,
			"equipment_type_id": req.EquipmentTypeID,
			"quantity":          req.Quantity,
			"transfer_date":     req.TransferDate,
			"status":            models.TransferStatusPending,
			"notes":             req.Notes,
			"initiated_by":      initiatedBy,
		}).
		Returning("id")

	var transferID int
	if _, err := query.Executor().ScanVal(&transferID); err != nil {
		return 0, apperrors.WrapDBError("failed to insert transfer", err)
	}

	return transferID, nil
}

func (r *transferRepositoryImpl) UpdateTransferStatus(id int, status string, approvedBy *int) error {
	record := goqu.Record{
		"status":     status,
		"updated_at": goqu.L("NOW()"),
	}
	if approvedBy != nil {
		record["approved_by"] = *approvedBy
	}

	query := r.repository.GoquDBWrapper.
		Update("transfers").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update transfer status: %w", err)
	}

	return nil
}

func (r *transferRepositoryImpl) UpdateTransferNotes(id int, notes string) error {
	query := r.repository.GoquDBWrapper.
		Update("transfers").
		Set(goqu.Record{"notes": notes, "updated_at": goqu.L("NOW()")}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update transfer notes: %w", err)
	}

	return nil
}

func (r *transferRepositoryImpl) DeleteTransfer(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("transfers").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to delete transfer", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("transfer")
	}

	return nil
}
