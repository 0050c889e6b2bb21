package equipment

import (
	"encoding/json"
	"fmt"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type EquipmentTypeRepository interface {
	GetEquipmentTypes(category string) ([]models.EquipmentType, error)
	GetEquipmentType(id int) (*models.EquipmentType, error)
	PersistEquipmentType(req CreateEquipmentTypeRequest) (*models.EquipmentType, error)
	UpdateEquipmentType(id int, changes *EquipmentTypeChanges) error
	DeleteEquipmentType(id int) error
}

type equipmentTypeRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) EquipmentTypeRepository {
	return &equipmentTypeRepositoryImpl{repository: r}
}

func (r *equipmentTypeRepositoryImpl) GetEquipmentTypes(category string) ([]models.EquipmentType, error) {
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "category", "specifications", "created_at").
		From("equipment_types").
		Order(goqu.I("name").Asc())

	if category != "" {
		query = query.Where(goqu.Ex{"category": category})
	}

	var types []models.EquipmentType
	if err := query.Executor().ScanStructs(&types); err != nil {
		return nil, fmt.Errorf("failed to fetch equipment types: %w", err)
	}

	for i := range types {
		types[i].LoadFromDB()
	}

	return types, nil
}

func (r *equipmentTypeRepositoryImpl) GetEquipmentType(id int) (*models.EquipmentType, error) {
	var equipmentType models.EquipmentType

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "category", "specifications", "created_at").
		From("equipment_types").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&equipmentType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch equipment type: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("equipment type")
	}

	equipmentType.LoadFromDB()
	return &equipmentType, nil
}

func (r *equipmentTypeRepositoryImpl) PersistEquipmentType(req CreateEquipmentTypeRequest) (*models.EquipmentType, error) {
	specsJSON, err := json.Marshal(req.Specifications)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal specifications: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("equipment_types").
		Rows(goqu.Record{
			"name":           req.Name,
			"category":       req.Category,
			"specifications": specsJSON,
		}).
		Returning("id")

	equipmentType := models.EquipmentType{
		Name:           req.Name,
		Category:       req.Category,
		Specifications: req.Specifications,
	}

	if _, err := query.Executor().ScanVal(&equipmentType.ID); err != nil {
		return nil, apperrors.WrapDBError("failed to insert equipment type", err)
	}

	return &equipmentType, nil
}

func (r *equipmentTypeRepositoryImpl) UpdateEquipmentType(id int, changes *EquipmentTypeChanges) error {
	record := goqu.Record{}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Category != nil {
		record["category"] = *changes.Category
	}
	if changes.Specifications != nil {
		specsJSON, err := json.Marshal(changes.Specifications)
		if err != nil {
			return fmt.Errorf("failed to marshal specifications: %w", err)
		}
		record["specifications"] = specsJSON
	}

	if len(record) == 0 {
		return nil
	}

	query := r.repository.GoquDBWrapper.
		Update("equipment_types").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to update equipment type", err)
	}

	return nil
}

func (r *equipmentTypeRepositoryImpl) DeleteEquipmentType(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("equipment_types").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to delete equipment type", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete equipment type: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("equipment type")
	}

	return nil
}
