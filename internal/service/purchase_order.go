package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/procurement/internal/cache"
	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
)

const supplierCacheTTL = 10 * time.Minute

// CreatePurchaseOrder turns an approved purchase request into a supplier-facing
// order. The order's lines are copied from the request at creation time and the
// request flips to ordered; a request can never back two orders.
func (s *procurementService) CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest) (uuid.UUID, error) {
	txn := s.tracer.StartTransaction("CreatePurchaseOrder")
	defer s.tracer.EndTransaction(txn)

	start := time.Now()
	defer func() { s.metrics.RecordTimer("create_purchase_order", time.Since(start)) }()

	prID, err := parseID(req.PRID)
	if err != nil {
		return uuid.Nil, err
	}
	supplierID, err := parseID(req.SupplierID)
	if err != nil {
		return uuid.Nil, err
	}

	pr, err := s.prRepo.GetByID(ctx, prID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, NewNotFoundError("purchase request not found")
		}
		s.tracer.RecordError(txn, err)
		return uuid.Nil, err
	}
	if pr.Status != models.PRStatusApproved {
		return uuid.Nil, NewValidationError("purchase request is not approved")
	}

	if _, err := s.lookupSupplier(ctx, supplierID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, NewValidationError("invalid supplier_id")
		}
		s.tracer.RecordError(txn, err)
		return uuid.Nil, err
	}

	po := &models.PurchaseOrder{
		ID:         uuid.New(),
		PRID:       prID,
		SupplierID: supplierID,
		Status:     models.POStatusSent,
	}
	po.Lines = models.SnapshotOrderLines(po.ID, pr.Lines)

	matched, err := s.poRepo.CreateFromRequest(ctx, po)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return uuid.Nil, err
	}
	if !matched {
		return uuid.Nil, NewConflictError("purchase request was already ordered")
	}

	s.metrics.IncrementCounter("purchase_orders_created")
	log.Info().
		Str("po_id", po.ID.String()).
		Str("pr_id", prID.String()).
		Str("supplier_id", supplierID.String()).
		Msg("Purchase order created")

	s.notifier.NotifyUser(ctx, pr.EmployeeID,
		"PO Created",
		fmt.Sprintf("PO %s created from your PR", po.ID),
		models.LinkTypePO, po.ID)

	return po.ID, nil
}

// ListPurchaseOrders returns purchase orders, optionally filtered by status,
// newest first.
func (s *procurementService) ListPurchaseOrders(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	return s.poRepo.List(ctx, status)
}

func (s *procurementService) lookupSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	key := cache.SupplierCacheKey(id)

	var cached models.Supplier
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, supplier, supplierCacheTTL); err != nil && !errors.Is(err, cache.ErrDisabled) {
		log.Warn().Err(err).Str("supplier_id", id.String()).Msg("Failed to cache supplier")
	}
	return supplier, nil
}
