package assets

import (
	"encoding/json"
	"fmt"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"

	"github.com/doug-martin/goqu/v9"
)

type AssetRepository interface {
	GetAssets(actor scope.Actor, statusFilter string) ([]models.Asset, error)
	GetAsset(id int) (*models.Asset, error)
	PersistAsset(req CreateAssetRequest) (int, error)
	UpdateAsset(id int, changes *AssetChanges) error
	DeleteAsset(id int) error
}

type assetRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) AssetRepository {
	return &assetRepositoryImpl{repository: r}
}

func (r *assetRepositoryImpl) assetSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("assets").As("a")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.I("a.base_id").Eq(goqu.I("b.id")))).
		Join(goqu.T("equipment_types").As("et"), goqu.On(goqu.I("a.equipment_type_id").Eq(goqu.I("et.id")))).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.serial_number").As("serial_number"),
			goqu.I("a.status").As("status"),
			goqu.I("a.condition").As("condition"),
			goqu.I("a.metadata").As("metadata"),
			goqu.I("b.id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("b.code").As("base_code"),
			goqu.I("et.id").As("equipment_type_id"),
			goqu.I("et.name").As("equipment_type_name"),
			goqu.I("et.category").As("equipment_category"),
			goqu.I("a.created_at").As("created_at"),
			goqu.I("a.updated_at").As("updated_at"),
		)
}

func (r *assetRepositoryImpl) GetAssets(actor scope.Actor, statusFilter string) ([]models.Asset, error) {
	query := r.assetSelect().Order(goqu.I("a.id").Asc())

	if filter := scope.BaseFilter(actor, "a.base_id"); filter != nil {
		query = query.Where(filter)
	}
	if statusFilter != "" {
		query = query.Where(goqu.I("a.status").Eq(statusFilter))
	}

	var flatRecords []models.FlatAssetRecord
	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	assets := make([]models.Asset, 0, len(flatRecords))
	for i := range flatRecords {
		assets = append(assets, flatRecords[i].TransformToAsset())
	}

	return assets, nil
}

func (r *assetRepositoryImpl) GetAsset(id int) (*models.Asset, error) {
	var flat models.FlatAssetRecord

	found, err := r.assetSelect().
		Where(goqu.I("a.id").Eq(id)).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("asset")
	}

	asset := flat.TransformToAsset()
	return &asset, nil
}

func (r *assetRepositoryImpl) PersistAsset(req CreateAssetRequest) (int, error) {
	metadataJSON, err := json.Marshal(req.Metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal asset metadata: %w", err)
	}

	status := req.Status
	if status == "" {
		status = models.AssetStatusAvailable
	}
	condition := req.Condition
	if condition == "" {
		condition = models.ConditionGood
	}

	query := r.repository.GoquDBWrapper.Insert("assets").
		Rows(goqu.Record{
			"serial_number":     req.SerialNumber,
			"equipment_type_id": req.EquipmentTypeID,
			"base_id":           req.BaseID,
			"status":            status,
			"condition":         condition,
			"metadata":          metadataJSON,
		}).
		Returning("id")

	var assetID int
	if _, err := query.Executor().ScanVal(&assetID); err != nil {
		return 0, apperrors.WrapDBError("failed to insert asset", err)
	}

	return assetID, nil
}

func (r *assetRepositoryImpl) UpdateAsset(id int, changes *AssetChanges) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if changes.SerialNumber != nil {
		record["serial_number"] = *changes.SerialNumber
	}
	if changes.EquipmentTypeID != nil {
		record["equipment_type_id"] = *changes.EquipmentTypeID
	}
	if changes.BaseID != nil {
		record["base_id"] = *changes.BaseID
	}
	if changes.Status != nil {
		record["status"] = *changes.Status
	}
	if changes.Condition != nil {
		record["condition"] = *changes.Condition
	}
	if changes.Metadata != nil {
		metadataJSON, err := json.Marshal(changes.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal asset metadata: %w", err)
		}
		record["metadata"] = metadataJSON
	}

	query := r.repository.GoquDBWrapper.
		Update("assets").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to update asset", err)
	}

	return nil
}

func (r *assetRepositoryImpl) DeleteAsset(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("assets").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to delete asset", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("asset")
	}

	return nil
}
