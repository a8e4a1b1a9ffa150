package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
)

// CreateUserRequest is the input for user creation
type CreateUserRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	ManagerID  *string `json:"manager_id"`
}

// CreateSupplierRequest is the input for supplier creation
type CreateSupplierRequest struct {
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
}

// CreateItemRequest is the input for item creation
type CreateItemRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	UOM         string  `json:"uom"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type masterDataService struct {
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
	itemRepo     repository.ItemRepository
	invRepo      repository.InventoryRepository
}

// NewMasterDataService creates the master data service wired to the database
func NewMasterDataService(db *gorm.DB) MasterDataService {
	return &masterDataService{
		userRepo:     repository.NewUserRepository(db),
		supplierRepo: repository.NewSupplierRepository(db),
		itemRepo:     repository.NewItemRepository(db),
		invRepo:      repository.NewInventoryRepository(db),
	}
}

func (s *masterDataService) CreateUser(ctx context.Context, req *CreateUserRequest) (uuid.UUID, error) {
	if req.Name == "" || req.Email == "" || req.Role == "" {
		return uuid.Nil, NewValidationError("name, email and role are required")
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		id, err := parseID(*req.ManagerID)
		if err != nil {
			return uuid.Nil, err
		}
		managerID = &id
	}

	user := &models.User{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      req.Email,
		Role:       models.UserRole(req.Role),
		Department: req.Department,
		ManagerID:  managerID,
		IsActive:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", req.Role).Msg("User created")
	return user.ID, nil
}

func (s *masterDataService) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	return s.userRepo.ListActive(ctx, role)
}

func (s *masterDataService) CreateSupplier(ctx context.Context, req *CreateSupplierRequest) (uuid.UUID, error) {
	if req.Name == "" || req.Code == "" {
		return uuid.Nil, NewValidationError("name and code are required")
	}

	supplier := &models.Supplier{
		ID:           uuid.New(),
		Name:         req.Name,
		Code:         req.Code,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return uuid.Nil, NewValidationError("supplier code already exists")
		}
		return uuid.Nil, err
	}

	log.Info().Str("supplier_id", supplier.ID.String()).Str("code", req.Code).Msg("Supplier created")
	return supplier.ID, nil
}

func (s *masterDataService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

// CreateItem registers an item master record and lazily seeds a zero on-hand
// inventory record for its SKU.
func (s *masterDataService) CreateItem(ctx context.Context, req *CreateItemRequest) (uuid.UUID, error) {
	if req.SKU == "" || req.Name == "" || req.UOM == "" {
		return uuid.Nil, NewValidationError("sku, name and uom are required")
	}

	item := &models.Item{
		ID:          uuid.New(),
		SKU:         req.SKU,
		Name:        req.Name,
		UOM:         req.UOM,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return uuid.Nil, NewValidationError("item sku already exists")
		}
		return uuid.Nil, err
	}

	if err := s.invRepo.EnsureRecord(ctx, req.SKU, req.UOM); err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("item_id", item.ID.String()).Str("sku", req.SKU).Msg("Item created")
	return item.ID, nil
}

func (s *masterDataService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.itemRepo.List(ctx)
}

func (s *masterDataService) ListInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	return s.invRepo.List(ctx)
}
