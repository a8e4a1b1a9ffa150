package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"example.com/procurement/internal/models"
)

// InventoryRepository provides access to on-hand inventory records
type InventoryRepository interface {
	List(ctx context.Context) ([]models.InventoryRecord, error)
	EnsureRecord(ctx context.Context, sku, uom string) error
	SumReceivedBySKU(ctx context.Context, sku string) (decimal.Decimal, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) List(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.WithContext(ctx).Order("sku ASC").Limit(500).Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list inventory records")
	}
	return records, nil
}

// EnsureRecord lazily creates a zero on-hand record for a SKU. Existing
// records are left untouched.
func (r *inventoryRepository) EnsureRecord(ctx context.Context, sku, uom string) error {
	record := models.InventoryRecord{
		ID:     uuid.New(),
		SKU:    sku,
		OnHand: decimal.Zero,
		UOM:    uom,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku"}},
			DoNothing: true,
		}).
		Create(&record).Error
	if err != nil {
		return errors.Wrap(err, "failed to ensure inventory record")
	}
	return nil
}

// SumReceivedBySKU re-derives the cumulative received quantity for a SKU from
// the goods receipt log. Used by the reconciliation job as a consistency
// check against the on-hand counter; the receipt log is the source of truth.
func (r *inventoryRepository) SumReceivedBySKU(ctx context.Context, sku string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.GoodsReceiptLine{}).
		Select("SUM(qty_received)").
		Where("sku = ?", sku).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum received quantity for SKU")
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// upsertInventoryIncrement atomically increments the on-hand quantity for a
// SKU inside the given transaction, creating the record from a zero baseline
// with the line's UOM when absent. The increment happens in the database so
// handlers never read-modify-write on-hand values.
func upsertInventoryIncrement(tx *gorm.DB, sku, uom string, qty decimal.Decimal) error {
	record := models.InventoryRecord{
		ID:     uuid.New(),
		SKU:    sku,
		OnHand: qty,
		UOM:    uom,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"on_hand":    gorm.Expr("inventory_records.on_hand + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&record).Error
	if err != nil {
		return errors.Wrapf(err, "failed to increment inventory for sku=%s", sku)
	}
	return nil
}
