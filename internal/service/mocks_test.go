package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"example.com/procurement/config"
	"example.com/procurement/internal/cache"
	"example.com/procurement/internal/metrics"
	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
	"example.com/procurement/internal/tracing"
)

// Mock repositories for testing

type MockPurchaseRequestRepository struct {
	mock.Mock
}

func (m *MockPurchaseRequestRepository) Create(ctx context.Context, pr *models.PurchaseRequest) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}

func (m *MockPurchaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) List(ctx context.Context, filter repository.PurchaseRequestFilter) ([]models.PurchaseRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from models.PurchaseRequestStatus, updates map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, from, updates)
	return args.Bool(0), args.Error(1)
}

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) List(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CreateFromRequest(ctx context.Context, po *models.PurchaseOrder) (bool, error) {
	args := m.Called(ctx, po)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PurchaseOrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockGoodsReceiptRepository struct {
	mock.Mock
}

func (m *MockGoodsReceiptRepository) List(ctx context.Context) ([]models.GoodsReceipt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindByPO(ctx context.Context, poID uuid.UUID) ([]models.GoodsReceipt, error) {
	args := m.Called(ctx, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) PostReceipt(ctx context.Context, gr *models.GoodsReceipt) (models.PurchaseOrderStatus, error) {
	args := m.Called(ctx, gr)
	return args.Get(0).(models.PurchaseOrderStatus), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetActiveWithRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListActive(ctx context.Context, role string) ([]models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Supplier), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context) ([]models.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) List(ctx context.Context) ([]models.InventoryRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) EnsureRecord(ctx context.Context, sku, uom string) error {
	args := m.Called(ctx, sku, uom)
	return args.Error(0)
}

func (m *MockInventoryRepository) SumReceivedBySKU(ctx context.Context, sku string) (decimal.Decimal, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListUnread(ctx context.Context, userID, role string) ([]models.Notification, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type serviceMocks struct {
	prRepo       *MockPurchaseRequestRepository
	poRepo       *MockPurchaseOrderRepository
	grRepo       *MockGoodsReceiptRepository
	userRepo     *MockUserRepository
	supplierRepo *MockSupplierRepository
	itemRepo     *MockItemRepository
	invRepo      *MockInventoryRepository
	notifRepo    *MockNotificationRepository
}

// newTestService builds a workflow service on mock repositories, with cache
// and search disabled and a no-op tracer.
func newTestService() (*procurementService, *serviceMocks) {
	m := &serviceMocks{
		prRepo:       new(MockPurchaseRequestRepository),
		poRepo:       new(MockPurchaseOrderRepository),
		grRepo:       new(MockGoodsReceiptRepository),
		userRepo:     new(MockUserRepository),
		supplierRepo: new(MockSupplierRepository),
		invRepo:      new(MockInventoryRepository),
		notifRepo:    new(MockNotificationRepository),
	}

	collector := metrics.NewMetrics()
	tracer, _ := tracing.NewTracer(config.TracingConfig{})

	svc := &procurementService{
		prRepo:       m.prRepo,
		poRepo:       m.poRepo,
		grRepo:       m.grRepo,
		userRepo:     m.userRepo,
		supplierRepo: m.supplierRepo,
		invRepo:      m.invRepo,
		notifier:     NewNotifier(m.notifRepo, collector),
		cache:        &cache.RedisCache{},
		metrics:      collector,
		tracer:       tracer,
	}
	return svc, m
}
