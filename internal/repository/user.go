package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/procurement/internal/database"
	"example.com/procurement/internal/models"
)

// UserRepository provides access to user records
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetActiveWithRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error)
	ListActive(ctx context.Context, role string) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get user by ID")
	}
	return &user, nil
}

// GetActiveWithRole looks up an active user that carries the given role.
// Used to validate the employee and manager references on PR submission.
func (r *userRepository) GetActiveWithRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ? AND is_active = ?", id, role, true).
		First(&user).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get user by ID and role")
	}
	return &user, nil
}

func (r *userRepository) ListActive(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Order("created_at DESC").Limit(100).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}
