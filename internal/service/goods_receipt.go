package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
)

// CreateGoodsReceipt records a delivery against a purchase order. Posting is
// transactional: the receipt lands, per-SKU on-hand counters are incremented
// and the order's status is re-derived from the complete receipt log.
// Over-receipt is permitted; excess deliveries simply keep the order received.
func (s *procurementService) CreateGoodsReceipt(ctx context.Context, req *CreateGoodsReceiptRequest) (uuid.UUID, error) {
	txn := s.tracer.StartTransaction("CreateGoodsReceipt")
	defer s.tracer.EndTransaction(txn)

	start := time.Now()
	defer func() { s.metrics.RecordTimer("create_goods_receipt", time.Since(start)) }()

	poID, err := parseID(req.POID)
	if err != nil {
		return uuid.Nil, err
	}

	if len(req.Lines) == 0 {
		return uuid.Nil, NewValidationError("at least one line is required")
	}
	for _, line := range req.Lines {
		if !line.QtyReceived.GreaterThan(decimal.Zero) {
			return uuid.Nil, NewValidationError(fmt.Sprintf("line qty_received must be positive for sku %s", line.SKU))
		}
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	gr := &models.GoodsReceipt{
		ID:     uuid.New(),
		POID:   poID,
		Source: source,
	}
	gr.Lines = make([]models.GoodsReceiptLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		gr.Lines = append(gr.Lines, models.GoodsReceiptLine{
			ID:             uuid.New(),
			GoodsReceiptID: gr.ID,
			SKU:            line.SKU,
			Name:           line.Name,
			QtyReceived:    line.QtyReceived,
			UOM:            line.UOM,
		})
	}

	newStatus, err := s.grRepo.PostReceipt(ctx, gr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, NewNotFoundError("purchase order not found")
		}
		s.tracer.RecordError(txn, err)
		return uuid.Nil, err
	}

	s.metrics.IncrementCounter("goods_receipts_posted")
	log.Info().
		Str("gr_id", gr.ID.String()).
		Str("po_id", poID.String()).
		Str("po_status", string(newStatus)).
		Str("source", source).
		Msg("Goods receipt posted")

	s.notifyReceiptPosted(ctx, gr, poID)

	if err := s.search.IndexGoodsReceipt(ctx, gr, newStatus); err != nil {
		log.Warn().Err(err).Str("gr_id", gr.ID.String()).Msg("Failed to index goods receipt")
	}

	return gr.ID, nil
}

// ListGoodsReceipts returns all goods receipts, newest first.
func (s *procurementService) ListGoodsReceipts(ctx context.Context) ([]models.GoodsReceipt, error) {
	return s.grRepo.List(ctx)
}

// notifyReceiptPosted tells the requesting employee their goods arrived. The
// lookup chain back to the employee is best-effort; a broken link skips the
// notification without failing the posting.
func (s *procurementService) notifyReceiptPosted(ctx context.Context, gr *models.GoodsReceipt, poID uuid.UUID) {
	po, err := s.poRepo.GetByID(ctx, poID)
	if err != nil {
		log.Warn().Err(err).Str("po_id", poID.String()).Msg("Skipping receipt notification")
		return
	}
	pr, err := s.prRepo.GetByID(ctx, po.PRID)
	if err != nil {
		log.Warn().Err(err).Str("pr_id", po.PRID.String()).Msg("Skipping receipt notification")
		return
	}

	s.notifier.NotifyUser(ctx, pr.EmployeeID,
		"Goods Received",
		fmt.Sprintf("GR %s recorded and inventory updated", gr.ID),
		models.LinkTypeGR, gr.ID)
}
