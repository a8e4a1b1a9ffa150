package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/procurement/internal/database"
	"example.com/procurement/internal/models"
)

// ItemRepository provides access to item master data
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetBySKU(ctx context.Context, sku string) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return errors.Wrap(err, "failed to create item")
	}
	return nil
}

func (r *itemRepository) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&item).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get item by SKU")
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(200).Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}
	return items, nil
}
