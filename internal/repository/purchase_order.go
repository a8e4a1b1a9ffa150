package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/procurement/internal/database"
	"example.com/procurement/internal/models"
)

// PurchaseOrderRepository provides access to purchase orders
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, status string) ([]models.PurchaseOrder, error)
	CreateFromRequest(ctx context.Context, po *models.PurchaseOrder) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PurchaseOrderStatus) error
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Lines").First(&po, "id = ?", id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get purchase order by ID")
	}
	return &po, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Preload("Lines")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var pos []models.PurchaseOrder
	if err := query.Order("created_at DESC").Find(&pos).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list purchase orders")
	}
	return pos, nil
}

// CreateFromRequest persists the order and flips its source request from
// approved to ordered in one transaction. The flip is conditional on the
// request still being approved; when another order creation won the race the
// whole transaction rolls back and (false, nil) is returned, so a request can
// never produce two orders.
func (r *purchaseOrderRepository) CreateFromRequest(ctx context.Context, po *models.PurchaseOrder) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(po).Error; err != nil {
			return errors.Wrap(err, "failed to create purchase order")
		}

		result := tx.Model(&models.PurchaseRequest{}).
			Where("id = ? AND status = ?", po.PRID, models.PRStatusApproved).
			Updates(map[string]interface{}{
				"status": models.PRStatusOrdered,
				"po_id":  po.ID,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to mark purchase request as ordered")
		}
		if result.RowsAffected == 0 {
			return ErrRequestNotApproved
		}
		return nil
	})
	if errors.Is(err, ErrRequestNotApproved) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *purchaseOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PurchaseOrderStatus) error {
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return errors.Wrap(err, "failed to update purchase order status")
	}
	return nil
}
