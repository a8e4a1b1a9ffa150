package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
	"example.com/procurement/internal/service"
)

type MockProcurementService struct {
	mock.Mock
}

func (m *MockProcurementService) SubmitPurchaseRequest(ctx context.Context, req *service.SubmitPurchaseRequestRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProcurementService) DecidePurchaseRequest(ctx context.Context, req *service.DecisionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockProcurementService) ListPurchaseRequests(ctx context.Context, filter repository.PurchaseRequestFilter) ([]models.PurchaseRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PurchaseRequest), args.Error(1)
}

func (m *MockProcurementService) CreatePurchaseOrder(ctx context.Context, req *service.CreatePurchaseOrderRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProcurementService) ListPurchaseOrders(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PurchaseOrder), args.Error(1)
}

func (m *MockProcurementService) CreateGoodsReceipt(ctx context.Context, req *service.CreateGoodsReceiptRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProcurementService) ListGoodsReceipts(ctx context.Context) ([]models.GoodsReceipt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GoodsReceipt), args.Error(1)
}

func (m *MockProcurementService) ReconcilePurchaseOrders(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) ListUnread(ctx context.Context, userID, role string) ([]models.Notification, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
