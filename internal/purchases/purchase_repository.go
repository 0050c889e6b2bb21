package purchases

import (
	"fmt"

	"armory/internal/repository"
	"armory/pkg/apperrors"
	"armory/pkg/models"
	"armory/pkg/scope"

	"github.com/doug-martin/goqu/v9"
)

type PurchaseRepository interface {
	GetPurchases(actor scope.Actor, baseFilter int) ([]models.Purchase, error)
	GetPurchase(id int) (*models.Purchase, error)
	PersistPurchase(req CreatePurchaseRequest, createdBy int, totalCost *float64) (int, error)
	UpdatePurchase(id int, changes *PurchaseChanges) error
	DeletePurchase(id int) error
}

type purchaseRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) PurchaseRepository {
	return &purchaseRepositoryImpl{repository: r}
}

func (r *purchaseRepositoryImpl) purchaseSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("purchases").As("p")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.I("p.base_id").Eq(goqu.I("b.id")))).
		Join(goqu.T("equipment_types").As("et"), goqu.On(goqu.I("p.equipment_type_id").Eq(goqu.I("et.id")))).
		Select(
			goqu.I("p.id").As("id"),
			goqu.I("b.id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("b.code").As("base_code"),
			goqu.I("et.id").As("equipment_type_id"),
			goqu.I("et.name").As("equipment_type_name"),
			goqu.I("et.category").As("equipment_category"),
			goqu.I("p.quantity").As("quantity"),
			goqu.I("p.unit_cost").As("unit_cost"),
			goqu.I("p.total_cost").As("total_cost"),
			goqu.I("p.supplier").As("supplier"),
			goqu.I("p.purchase_date").As("purchase_date"),
			goqu.I("p.po_number").As("po_number"),
			goqu.I("p.notes").As("notes"),
			goqu.I("p.created_by").As("created_by"),
			goqu.I("p.created_at").As("created_at"),
		)
}

func (r *purchaseRepositoryImpl) GetPurchases(actor scope.Actor, baseFilter int) ([]models.Purchase, error) {
	query := r.purchaseSelect().Order(goqu.I("p.purchase_date").Desc())

	if filter := scope.BaseFilter(actor, "p.base_id"); filter != nil {
		query = query.Where(filter)
	}
	// An explicit ?base= filter is honored for admins only; scoped
	// callers are already pinned to their own base.
	if baseFilter > 0 && actor.IsAdmin() {
		query = query.Where(goqu.I("p.base_id").Eq(baseFilter))
	}

	var flatRecords []models.FlatPurchaseRecord
	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("failed to fetch purchases: %w", err)
	}

	purchases := make([]models.Purchase, 0, len(flatRecords))
	for i := range flatRecords {
		purchases = append(purchases, flatRecords[i].TransformToPurchase())
	}

	return purchases, nil
}

func (r *purchaseRepositoryImpl) GetPurchase(id int) (*models.Purchase, error) {
	var flat models.FlatPurchaseRecord

	found, err := r.purchaseSelect().
		Where(goqu.I("p.id").Eq(id)).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("purchase")
	}

	purchase := flat.TransformToPurchase()
	return &purchase, nil
}

func (r *purchaseRepositoryImpl) PersistPurchase(req CreatePurchaseRequest, createdBy int, totalCost *float64) (int, error) {
	query := r.repository.GoquDBWrapper.Insert("purchases").
		Rows(goqu.Record{
			"base_id":           req.BaseID,
			"equipment_type_id": req.EquipmentTypeID,
			"quantity":          req.Quantity,
			"unit_cost":         req.UnitCost,
			"total_cost":        totalCost,
			"supplier":          req.Supplier,
			"purchase_date":     req.PurchaseDate,
			"po_number":         req.PONumber,
			"notes":             req.Notes,
			"created_by":        createdBy,
		}).
		Returning("id")

	var purchaseID int
	if _, err := query.Executor().ScanVal(&purchaseID); err != nil {
		return 0, apperrors.WrapDBError("failed to insert purchase", err)
	}

	return purchaseID, nil
}

func (r *purchaseRepositoryImpl) UpdatePurchase(id int, changes *PurchaseChanges) error {
	// created_by is immutable after creation and is deliberately absent
	// from the changes shape.
	record := goqu.Record{}
	if changes.Quantity != nil {
		record["quantity"] = *changes.Quantity
	}
	if changes.UnitCost != nil {
		record["unit_cost"] = *changes.UnitCost
	}
	if changes.TotalCost != nil {
		record["total_cost"] = *changes.TotalCost
	}
	if changes.Supplier != nil {
		record["supplier"] = *changes.Supplier
	}
	if changes.PurchaseDate != nil {
		record["purchase_date"] = *changes.PurchaseDate
	}
	if changes.PONumber != nil {
		record["po_number"] = *changes.PONumber
	}
	if changes.Notes != nil {
		record["notes"] = *changes.Notes
	}

	if len(record) == 0 {
		return nil
	}

	query := r.repository.GoquDBWrapper.
		Update("purchases").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to update purchase", err)
	}

	return nil
}

func (r *purchaseRepositoryImpl) DeletePurchase(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("purchases").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to delete purchase", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("purchase")
	}

	return nil
}

// DeriveTotalCost fills total cost from unit cost and quantity when the
// caller did not supply one.
func DeriveTotalCost(totalCost, unitCost *float64, quantity int) *float64 {
	if totalCost != nil {
		return totalCost
	}
	if unitCost == nil {
		return nil
	}
	derived := *unitCost * float64(quantity)
	return &derived
}
