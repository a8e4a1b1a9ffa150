package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/procurement/internal/database"
	"example.com/procurement/internal/models"
)

// GoodsReceiptRepository provides access to goods receipts
type GoodsReceiptRepository interface {
	List(ctx context.Context) ([]models.GoodsReceipt, error)
	FindByPO(ctx context.Context, poID uuid.UUID) ([]models.GoodsReceipt, error)
	PostReceipt(ctx context.Context, gr *models.GoodsReceipt) (models.PurchaseOrderStatus, error)
}

type goodsReceiptRepository struct {
	db *gorm.DB
}

// NewGoodsReceiptRepository creates a new goods receipt repository
func NewGoodsReceiptRepository(db *gorm.DB) GoodsReceiptRepository {
	return &goodsReceiptRepository{db: db}
}

func (r *goodsReceiptRepository) List(ctx context.Context) ([]models.GoodsReceipt, error) {
	var receipts []models.GoodsReceipt
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("created_at DESC").
		Find(&receipts).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list goods receipts")
	}
	return receipts, nil
}

func (r *goodsReceiptRepository) FindByPO(ctx context.Context, poID uuid.UUID) ([]models.GoodsReceipt, error) {
	var receipts []models.GoodsReceipt
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("po_id = ?", poID).
		Find(&receipts).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find goods receipts for purchase order")
	}
	return receipts, nil
}

// PostReceipt records a delivery in one transaction: the receipt and its
// lines are persisted, on-hand inventory is incremented per SKU, and the PO
// status is re-derived from the full receipt log. A per-PO advisory lock
// serializes the re-aggregation so concurrent deliveries against the same PO
// cannot compute the status from a stale read.
func (r *goodsReceiptRepository) PostReceipt(ctx context.Context, gr *models.GoodsReceipt) (models.PurchaseOrderStatus, error) {
	var newStatus models.PurchaseOrderStatus

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.AcquireReceiptPostingLock(tx, gr.POID.String()); err != nil {
			return err
		}

		var po models.PurchaseOrder
		if err := tx.Preload("Lines").First(&po, "id = ?", gr.POID).Error; err != nil {
			if database.IsRecordNotFoundError(err) {
				return ErrNotFound
			}
			return errors.Wrap(err, "failed to load purchase order for receipt")
		}

		if err := tx.Create(gr).Error; err != nil {
			return errors.Wrap(err, "failed to create goods receipt")
		}

		for _, line := range gr.Lines {
			if err := upsertInventoryIncrement(tx, line.SKU, line.UOM, line.QtyReceived); err != nil {
				return err
			}
		}

		var receipts []models.GoodsReceipt
		if err := tx.Preload("Lines").Where("po_id = ?", gr.POID).Find(&receipts).Error; err != nil {
			return errors.Wrap(err, "failed to re-aggregate goods receipts")
		}

		newStatus = models.DerivePurchaseOrderStatus(po.OrderedTotal(), models.ReceivedTotal(receipts))
		err := tx.Model(&models.PurchaseOrder{}).
			Where("id = ?", gr.POID).
			Update("status", newStatus).Error
		if err != nil {
			return errors.Wrap(err, "failed to update purchase order status")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}
