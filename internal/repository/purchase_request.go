package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/procurement/internal/database"
	"example.com/procurement/internal/models"
)

// PurchaseRequestFilter narrows purchase request listings
type PurchaseRequestFilter struct {
	Status     string
	ManagerID  string
	EmployeeID string
}

// PurchaseRequestRepository provides access to purchase requests
type PurchaseRequestRepository interface {
	Create(ctx context.Context, pr *models.PurchaseRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error)
	List(ctx context.Context, filter PurchaseRequestFilter) ([]models.PurchaseRequest, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from models.PurchaseRequestStatus, updates map[string]interface{}) (bool, error)
}

type purchaseRequestRepository struct {
	db *gorm.DB
}

// NewPurchaseRequestRepository creates a new purchase request repository
func NewPurchaseRequestRepository(db *gorm.DB) PurchaseRequestRepository {
	return &purchaseRequestRepository{db: db}
}

func (r *purchaseRequestRepository) Create(ctx context.Context, pr *models.PurchaseRequest) error {
	if err := r.db.WithContext(ctx).Create(pr).Error; err != nil {
		return errors.Wrap(err, "failed to create purchase request")
	}
	return nil
}

func (r *purchaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	var pr models.PurchaseRequest
	err := r.db.WithContext(ctx).Preload("Lines").First(&pr, "id = ?", id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get purchase request by ID")
	}
	return &pr, nil
}

func (r *purchaseRequestRepository) List(ctx context.Context, filter PurchaseRequestFilter) ([]models.PurchaseRequest, error) {
	query := r.db.WithContext(ctx).Preload("Lines")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ManagerID != "" {
		query = query.Where("manager_id = ?", filter.ManagerID)
	}
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}

	var prs []models.PurchaseRequest
	if err := query.Order("created_at DESC").Find(&prs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list purchase requests")
	}
	return prs, nil
}

// TransitionStatus performs a conditional status update: the write only lands
// when the request is still in the expected `from` state. Returns false when
// no row matched, which means another decision already won the race.
func (r *purchaseRequestRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from models.PurchaseRequestStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PurchaseRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "failed to transition purchase request status")
	}
	return result.RowsAffected > 0, nil
}
