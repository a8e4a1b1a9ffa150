package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/procurement/internal/models"
)

func TestReconcilePurchaseOrders(t *testing.T) {
	t.Run("repairs drifted status from the receipt log", func(t *testing.T) {
		svc, m := newTestService()

		driftedID := uuid.New()
		consistentID := uuid.New()
		orders := []models.PurchaseOrder{
			{
				ID:     driftedID,
				Status: models.POStatusSent,
				Lines:  []models.PurchaseOrderLine{{SKU: "A1", Qty: decimal.NewFromInt(10)}},
			},
			{
				ID:     consistentID,
				Status: models.POStatusReceived,
				Lines:  []models.PurchaseOrderLine{{SKU: "B2", Qty: decimal.NewFromInt(2)}},
			},
		}

		m.poRepo.On("List", mock.Anything, "").Return(orders, nil)
		m.grRepo.On("FindByPO", mock.Anything, driftedID).Return([]models.GoodsReceipt{
			{Lines: []models.GoodsReceiptLine{{SKU: "A1", QtyReceived: decimal.NewFromInt(4)}}},
		}, nil)
		m.grRepo.On("FindByPO", mock.Anything, consistentID).Return([]models.GoodsReceipt{
			{Lines: []models.GoodsReceiptLine{{SKU: "B2", QtyReceived: decimal.NewFromInt(2)}}},
		}, nil)
		m.poRepo.On("UpdateStatus", mock.Anything, driftedID, models.POStatusPartiallyReceived).Return(nil)
		m.invRepo.On("List", mock.Anything).Return([]models.InventoryRecord{}, nil)

		err := svc.ReconcilePurchaseOrders(context.Background())
		require.NoError(t, err)

		m.poRepo.AssertExpectations(t)
		m.poRepo.AssertNumberOfCalls(t, "UpdateStatus", 1)
	})

	t.Run("flags on-hand counters that disagree with the receipt log", func(t *testing.T) {
		svc, m := newTestService()

		m.poRepo.On("List", mock.Anything, "").Return([]models.PurchaseOrder{}, nil)
		m.invRepo.On("List", mock.Anything).Return([]models.InventoryRecord{
			{SKU: "A1", OnHand: decimal.NewFromInt(10)},
			{SKU: "B2", OnHand: decimal.NewFromInt(3)},
		}, nil)
		m.invRepo.On("SumReceivedBySKU", mock.Anything, "A1").Return(decimal.NewFromInt(10), nil)
		m.invRepo.On("SumReceivedBySKU", mock.Anything, "B2").Return(decimal.NewFromInt(7), nil)

		err := svc.ReconcilePurchaseOrders(context.Background())
		require.NoError(t, err)

		counters := svc.metrics.GetCounters()
		require.Equal(t, int64(1), counters["inventory_drift_detected"])
	})
}
