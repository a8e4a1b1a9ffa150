package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"example.com/procurement/internal/cache"
	"example.com/procurement/internal/metrics"
	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
	"example.com/procurement/internal/search"
	"example.com/procurement/internal/tracing"
)

// RequestLineInput is one requested item on a purchase request
type RequestLineInput struct {
	SKU  string          `json:"sku"`
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
	UOM  string          `json:"uom"`
}

// ReceiptLineInput is one delivered item on a goods receipt
type ReceiptLineInput struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	QtyReceived decimal.Decimal `json:"qty_received"`
	UOM         string          `json:"uom"`
}

// SubmitPurchaseRequestRequest is the input for PR submission
type SubmitPurchaseRequestRequest struct {
	EmployeeID string             `json:"employee_id"`
	ManagerID  string             `json:"manager_id"`
	Reason     *string            `json:"reason"`
	Lines      []RequestLineInput `json:"lines"`
}

// DecisionRequest is the input for a manager's PR decision
type DecisionRequest struct {
	PRID           string  `json:"-"`
	ManagerID      string  `json:"manager_id"`
	Approve        bool    `json:"approve"`
	RejectedReason *string `json:"rejected_reason"`
}

// CreatePurchaseOrderRequest is the input for PO creation
type CreatePurchaseOrderRequest struct {
	PRID       string `json:"pr_id"`
	SupplierID string `json:"supplier_id"`
}

// CreateGoodsReceiptRequest is the input for GR posting
type CreateGoodsReceiptRequest struct {
	POID   string             `json:"po_id"`
	Lines  []ReceiptLineInput `json:"lines"`
	Source string             `json:"-"`
}

// ProcurementService is the workflow engine: it enforces the
// PR -> PO -> GR -> Inventory lifecycle, status transitions, cross-entity
// reference validation and quantity aggregation for partial receipts.
type ProcurementService interface {
	SubmitPurchaseRequest(ctx context.Context, req *SubmitPurchaseRequestRequest) (uuid.UUID, error)
	DecidePurchaseRequest(ctx context.Context, req *DecisionRequest) error
	ListPurchaseRequests(ctx context.Context, filter repository.PurchaseRequestFilter) ([]models.PurchaseRequest, error)
	CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest) (uuid.UUID, error)
	ListPurchaseOrders(ctx context.Context, status string) ([]models.PurchaseOrder, error)
	CreateGoodsReceipt(ctx context.Context, req *CreateGoodsReceiptRequest) (uuid.UUID, error)
	ListGoodsReceipts(ctx context.Context) ([]models.GoodsReceipt, error)
	ReconcilePurchaseOrders(ctx context.Context) error
}

// MasterDataService manages the master data the workflow references
type MasterDataService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (uuid.UUID, error)
	ListUsers(ctx context.Context, role string) ([]models.User, error)
	CreateSupplier(ctx context.Context, req *CreateSupplierRequest) (uuid.UUID, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateItem(ctx context.Context, req *CreateItemRequest) (uuid.UUID, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListInventory(ctx context.Context) ([]models.InventoryRecord, error)
}

// NotificationService reads and acknowledges workflow notifications
type NotificationService interface {
	ListUnread(ctx context.Context, userID, role string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type procurementService struct {
	prRepo       repository.PurchaseRequestRepository
	poRepo       repository.PurchaseOrderRepository
	grRepo       repository.GoodsReceiptRepository
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
	invRepo      repository.InventoryRepository
	notifier     *Notifier
	cache        *cache.RedisCache
	search       *search.ElasticClient
	metrics      *metrics.Metrics
	tracer       tracing.Tracer
}

// NewProcurementService creates the workflow engine wired to the database
func NewProcurementService(
	db *gorm.DB,
	redisCache *cache.RedisCache,
	elasticClient *search.ElasticClient,
	collector *metrics.Metrics,
	tracer tracing.Tracer,
) ProcurementService {
	return &procurementService{
		prRepo:       repository.NewPurchaseRequestRepository(db),
		poRepo:       repository.NewPurchaseOrderRepository(db),
		grRepo:       repository.NewGoodsReceiptRepository(db),
		userRepo:     repository.NewUserRepository(db),
		supplierRepo: repository.NewSupplierRepository(db),
		invRepo:      repository.NewInventoryRepository(db),
		notifier:     NewNotifier(repository.NewNotificationRepository(db), collector),
		cache:        redisCache,
		search:       elasticClient,
		metrics:      collector,
		tracer:       tracer,
	}
}

// parseID validates an opaque identifier from a request body
func parseID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, NewValidationError("invalid id format")
	}
	return id, nil
}
