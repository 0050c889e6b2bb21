package assignments

import (
	"time"

	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"
)

// AssetGetter is the slice of the asset repository the service needs to
// resolve an assignment's base before any row exists.
type AssetGetter interface {
	GetAsset(id int) (*models.Asset, error)
}

type AssignmentService struct {
	repository AssignmentRepository
	assets     AssetGetter
}

func NewService(r AssignmentRepository, assets AssetGetter) *AssignmentService {
	return &AssignmentService{repository: r, assets: assets}
}

// CreateAssignment hands an asset out to a person. The asset must exist
// and, for non-admin actors, sit at the actor's base.
func (s *AssignmentService) CreateAssignment(req CreateAssignmentRequest, actor scope.Actor) (*models.Assignment, error) {
	asset, err := s.assets.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}

	if !scope.CanAccessBase(actor, asset.Base.ID) {
		return nil, apperrors.NewAccessDenied("asset %d is not at your assigned base", asset.ID)
	}

	assignmentID, err := s.repository.PersistAssignment(req, actor.UserID)
	if err != nil {
		return nil, err
	}

	return s.repository.GetAssignment(assignmentID)
}

// UpdateAssignment applies field changes. returned, lost and damaged
// are terminal: once there, an assignment stays closed and cannot be
// edited back to active. Returns before/after snapshots for audit.
func (s *AssignmentService) UpdateAssignment(assignmentID int, changes *AssignmentChanges, actor scope.Actor) (*models.Assignment, *models.Assignment, error) {
	before, err := s.repository.GetAssignment(assignmentID)
	if err != nil {
		return nil, nil, err
	}

	if !scope.CanAccessBase(actor, before.AssetBaseID) {
		return nil, nil, apperrors.NewAccessDenied("assignment %d is outside your assigned base", assignmentID)
	}

	if models.AssignmentTerminal(before.Status) {
		return nil, nil, apperrors.NewValidation("assignment is already %s and cannot be modified", before.Status)
	}

	if changes.Status != nil {
		switch *changes.Status {
		case models.AssignmentStatusReturned, models.AssignmentStatusLost, models.AssignmentStatusDamaged:
		default:
			return nil, nil, apperrors.NewValidation("invalid assignment status %q", *changes.Status)
		}
	}

	if err := s.repository.UpdateAssignment(assignmentID, changes); err != nil {
		return nil, nil, err
	}

	after, err := s.repository.GetAssignment(assignmentID)
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}

// MarkReturned closes an active assignment, stamping the actual return
// date with the current time.
func (s *AssignmentService) MarkReturned(assignmentID int, actor scope.Actor) (*models.Assignment, *models.Assignment, error) {
	before, err := s.repository.GetAssignment(assignmentID)
	if err != nil {
		return nil, nil, err
	}

	if !scope.CanAccessBase(actor, before.AssetBaseID) {
		return nil, nil, apperrors.NewAccessDenied("assignment %d is outside your assigned base", assignmentID)
	}

	if before.Status != models.AssignmentStatusActive {
		return nil, nil, apperrors.NewValidation("assignment is already %s", before.Status)
	}

	if err := s.repository.MarkReturned(assignmentID, time.Now()); err != nil {
		return nil, nil, err
	}

	after, err := s.repository.GetAssignment(assignmentID)
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}
