package bases

import (
	"fmt"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"

	"github.com/doug-martin/goqu/v9"
)

type BaseRepository interface {
	GetBases(actor scope.Actor) ([]models.Base, error)
	GetBase(id int) (*models.Base, error)
	PersistBase(req CreateBaseRequest) (*models.Base, error)
	UpdateBase(id int, changes *BaseChanges) error
	DeleteBase(id int) error
}

type baseRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) BaseRepository {
	return &baseRepositoryImpl{repository: r}
}

func (r *baseRepositoryImpl) GetBases(actor scope.Actor) ([]models.Base, error) {
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code", "location", "commander_id", "created_at", "updated_at").
		From("bases").
		Order(goqu.I("id").Asc())

	if filter := scope.BaseFilter(actor, "id"); filter != nil {
		query = query.Where(filter)
	}

	var bases []models.Base
	if err := query.Executor().ScanStructs(&bases); err != nil {
		return nil, fmt.Errorf("failed to fetch bases: %w", err)
	}

	return bases, nil
}

func (r *baseRepositoryImpl) GetBase(id int) (*models.Base, error) {
	var base models.Base

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code", "location", "commander_id", "created_at", "updated_at").
		From("bases").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&base)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch base: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("base")
	}

	return &base, nil
}

func (r *baseRepositoryImpl) PersistBase(req CreateBaseRequest) (*models.Base, error) {
	query := r.repository.GoquDBWrapper.Insert("bases").
		Rows(goqu.Record{
			"name":         req.Name,
			"code":         req.Code,
			"location":     req.Location,
			"commander_id": req.CommanderID,
		}).
		Returning("id")

	base := models.Base{
		Name:        req.Name,
		Code:        req.Code,
		Location:    req.Location,
		CommanderID: req.CommanderID,
	}

	if _, err := query.Executor().ScanVal(&base.ID); err != nil {
		return nil, apperrors.WrapDBError("failed to insert base", err)
	}

	return &base, nil
}

func (r *baseRepositoryImpl) UpdateBase(id int, changes *BaseChanges) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Code != nil {
		record["code"] = *changes.Code
	}
	if changes.Location != nil {
		record["location"] = *changes.Location
	}
	if changes.CommanderID != nil {
		record["commander_id"] = *changes.CommanderID
	}

	query := r.repository.GoquDBWrapper.
		Update("bases").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to update base", err)
	}

	return nil
}

func (r *baseRepositoryImpl) DeleteBase(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("bases").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to delete base", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete base: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("base")
	}

	return nil
}
