package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
)

func TestCreateGoodsReceipt(t *testing.T) {
	poID := uuid.New()
	prID := uuid.New()
	employeeID := uuid.New()

	request := func() *CreateGoodsReceiptRequest {
		return &CreateGoodsReceiptRequest{
			POID: poID.String(),
			Lines: []ReceiptLineInput{
				{SKU: "A1", Name: "Widget", QtyReceived: decimal.NewFromInt(4), UOM: "pcs"},
			},
		}
	}

	t.Run("posts receipt and notifies the requesting employee", func(t *testing.T) {
		svc, m := newTestService()

		var posted *models.GoodsReceipt
		m.grRepo.On("PostReceipt", mock.Anything, mock.AnythingOfType("*models.GoodsReceipt")).
			Run(func(args mock.Arguments) { posted = args.Get(1).(*models.GoodsReceipt) }).
			Return(models.POStatusPartiallyReceived, nil)
		m.poRepo.On("GetByID", mock.Anything, poID).Return(&models.PurchaseOrder{ID: poID, PRID: prID}, nil)
		m.prRepo.On("GetByID", mock.Anything, prID).Return(&models.PurchaseRequest{ID: prID, EmployeeID: employeeID}, nil)
		m.notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

		id, err := svc.CreateGoodsReceipt(context.Background(), request())
		require.NoError(t, err)
		require.Equal(t, posted.ID, id)

		require.Equal(t, poID, posted.POID)
		require.Equal(t, "api", posted.Source)
		require.Len(t, posted.Lines, 1)
		require.True(t, posted.Lines[0].QtyReceived.Equal(decimal.NewFromInt(4)))
		require.Equal(t, posted.ID, posted.Lines[0].GoodsReceiptID)

		notification := m.notifRepo.Calls[0].Arguments.Get(1).(*models.Notification)
		require.NotNil(t, notification.ToUserID)
		require.Equal(t, employeeID, *notification.ToUserID)
		require.Equal(t, "Goods Received", notification.Title)
		require.Equal(t, models.LinkTypeGR, notification.LinkType)

		m.grRepo.AssertExpectations(t)
	})

	t.Run("queued receipts keep their source marker", func(t *testing.T) {
		svc, m := newTestService()
		req := request()
		req.Source = "warehouse-queue"

		var posted *models.GoodsReceipt
		m.grRepo.On("PostReceipt", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { posted = args.Get(1).(*models.GoodsReceipt) }).
			Return(models.POStatusReceived, nil)
		m.poRepo.On("GetByID", mock.Anything, poID).Return(&models.PurchaseOrder{ID: poID, PRID: prID}, nil)
		m.prRepo.On("GetByID", mock.Anything, prID).Return(&models.PurchaseRequest{ID: prID, EmployeeID: employeeID}, nil)
		m.notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.CreateGoodsReceipt(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, "warehouse-queue", posted.Source)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		svc, _ := newTestService()
		req := request()
		req.Lines = nil

		_, err := svc.CreateGoodsReceipt(context.Background(), req)
		requireKind(t, err, KindValidation)
	})

	t.Run("rejects non-positive qty_received", func(t *testing.T) {
		svc, _ := newTestService()
		req := request()
		req.Lines[0].QtyReceived = decimal.Zero

		_, err := svc.CreateGoodsReceipt(context.Background(), req)
		requireKind(t, err, KindValidation)
	})

	t.Run("missing purchase order yields not found", func(t *testing.T) {
		svc, m := newTestService()
		m.grRepo.On("PostReceipt", mock.Anything, mock.Anything).Return(models.PurchaseOrderStatus(""), repository.ErrNotFound)

		_, err := svc.CreateGoodsReceipt(context.Background(), request())
		requireKind(t, err, KindNotFound)
	})

	t.Run("broken notification chain does not fail the posting", func(t *testing.T) {
		svc, m := newTestService()
		m.grRepo.On("PostReceipt", mock.Anything, mock.Anything).Return(models.POStatusPartiallyReceived, nil)
		m.poRepo.On("GetByID", mock.Anything, poID).Return(nil, repository.ErrNotFound)

		_, err := svc.CreateGoodsReceipt(context.Background(), request())
		require.NoError(t, err)
		m.notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
