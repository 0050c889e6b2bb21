package transfers

import (
	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"
)

// transitions is the transfer lifecycle: the forward path is
// pending -> in_transit -> completed; cancellation aborts from either
// non-terminal state. completed and cancelled are terminal.
var transitions = map[string][]string{
	models.TransferStatusPending:   {models.TransferStatusInTransit, models.TransferStatusCancelled},
	models.TransferStatusInTransit: {models.TransferStatusCompleted, models.TransferStatusCancelled},
}

// CanTransition reports whether the transfer lifecycle defines a move
// from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type TransferService struct {
	repository TransferRepository
}

func NewService(r TransferRepository) *TransferService {
	return &TransferService{repository: r}
}

// CreateTransfer validates the request and persists a pending transfer
// stamped with the initiator. Source and destination must differ; the
// check runs before any row is created.
func (s *TransferService) CreateTransfer(req CreateTransferRequest, actor scope.Actor) (*models.Transfer, error) {
	if req.FromBaseID == req.ToBaseID {
		return nil, apperrors.NewValidation("source and destination base must differ")
	}
	if req.Quantity <= 0 {
		return nil, apperrors.NewValidation("quantity must be greater than zero")
	}

	transferID, err := s.repository.PersistTransfer(req, actor.UserID)
	if err != nil {
		return nil, err
	}

	return s.repository.GetTransfer(transferID)
}

// ChangeStatus moves a transfer along its lifecycle. Completing a
// transfer stamps the acting user as approver. Returns the pre- and
// post-transition snapshots for the caller's audit entry.
func (s *TransferService) ChangeStatus(transferID int, nextStatus string, actor scope.Actor) (*models.Transfer, *models.Transfer, error) {
	before, err := s.repository.GetTransfer(transferID)
	if err != nil {
		return nil, nil, err
	}

	if !scope.CanAccessEitherBase(actor, before.FromBase.ID, before.ToBase.ID) {
		return nil, nil, apperrors.NewAccessDenied("transfer %d does not involve your assigned base", transferID)
	}

	if !CanTransition(before.Status, nextStatus) {
		return nil, nil, apperrors.NewValidation("cannot transition transfer from %q to %q", before.Status, nextStatus)
	}

	var approvedBy *int
	if nextStatus == models.TransferStatusCompleted {
		userID := actor.UserID
		approvedBy = &userID
	}

	if err := s.repository.UpdateTransferStatus(transferID, nextStatus, approvedBy); err != nil {
		return nil, nil, err
	}

	after, err := s.repository.GetTransfer(transferID)
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}
