package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"example.com/procurement/internal/models"
)

// ReconcilePurchaseOrders re-derives every purchase order's status from the
// goods receipt log and repairs any drift. It also cross-checks each on-hand
// counter against the sum of received quantities for its SKU; mismatches are
// logged for investigation, never auto-corrected, because the receipt log is
// the source of truth and a correction here would hide the underlying bug.
func (s *procurementService) ReconcilePurchaseOrders(ctx context.Context) error {
	txn := s.tracer.StartTransaction("ReconcilePurchaseOrders")
	defer s.tracer.EndTransaction(txn)

	orders, err := s.poRepo.List(ctx, "")
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	repaired := 0
	for _, po := range orders {
		receipts, err := s.grRepo.FindByPO(ctx, po.ID)
		if err != nil {
			s.tracer.RecordError(txn, err)
			return err
		}

		derived := models.DerivePurchaseOrderStatus(po.OrderedTotal(), models.ReceivedTotal(receipts))
		if derived == po.Status {
			continue
		}

		log.Warn().
			Str("po_id", po.ID.String()).
			Str("stored_status", string(po.Status)).
			Str("derived_status", string(derived)).
			Msg("Purchase order status drifted, repairing")
		if err := s.poRepo.UpdateStatus(ctx, po.ID, derived); err != nil {
			s.tracer.RecordError(txn, err)
			return err
		}
		repaired++
	}

	if err := s.checkInventoryConsistency(ctx); err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	s.metrics.IncrementCounter("reconcile_runs")
	s.metrics.SetGauge("reconcile_last_repaired", int64(repaired))
	log.Info().Int("orders", len(orders)).Int("repaired", repaired).Msg("Reconciliation pass complete")
	return nil
}

func (s *procurementService) checkInventoryConsistency(ctx context.Context) error {
	records, err := s.invRepo.List(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		received, err := s.invRepo.SumReceivedBySKU(ctx, record.SKU)
		if err != nil {
			return err
		}
		if !record.OnHand.Equal(received) {
			log.Error().
				Str("sku", record.SKU).
				Str("on_hand", record.OnHand.String()).
				Str("received_total", received.String()).
				Msg("On-hand counter disagrees with receipt log")
			s.metrics.IncrementCounter("inventory_drift_detected")
		}
	}
	return nil
}
