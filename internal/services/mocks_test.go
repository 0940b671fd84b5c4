package services

import (
	"context"
	"time"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and collaborators shared by the service tests.

type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) Create(ctx context.Context, item *models.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) GetBySKU(ctx context.Context, sku string) (*models.StockItem, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) Update(ctx context.Context, item *models.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) List(ctx context.Context, limit, offset int) ([]*models.StockItem, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) ListActiveTracked(ctx context.Context) ([]*models.StockItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) GetLevels(ctx context.Context, itemID uuid.UUID) ([]*models.StockLevel, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]*models.StockLevel), args.Error(1)
}

func (m *MockStockItemRepository) UpsertLevel(ctx context.Context, level *models.StockLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockStockItemRepository) Stats(ctx context.Context) (*models.InventoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryStats), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, adj *models.StockAdjustment, mv *models.StockMovement, level *models.StockLevel) error {
	args := m.Called(ctx, adj, mv, level)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecordTransfer(ctx context.Context, itemID uuid.UUID, out, in *models.StockMovement, from, to *models.StockLevel) error {
	args := m.Called(ctx, itemID, out, in, from, to)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListAdjustments(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error) {
	args := m.Called(ctx, itemID, limit, offset)
	return args.Get(0).([]*models.StockAdjustment), args.Error(1)
}

func (m *MockLedgerRepository) ListMovements(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	args := m.Called(ctx, itemID, limit, offset)
	return args.Get(0).([]*models.StockMovement), args.Error(1)
}

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *models.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Update(ctx context.Context, order *models.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) List(ctx context.Context, status *models.PurchaseOrderStatus, limit, offset int) ([]*models.PurchaseOrder, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.PurchaseOrder), args.Error(1)
}

type MockReceivingRepository struct {
	mock.Mock
}

func (m *MockReceivingRepository) Create(ctx context.Context, record *models.ReceivingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockReceivingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReceivingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceivingRecord), args.Error(1)
}

func (m *MockReceivingRepository) ListByPurchaseOrder(ctx context.Context, orderID uuid.UUID) ([]*models.ReceivingRecord, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*models.ReceivingRecord), args.Error(1)
}

func (m *MockReceivingRepository) SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

type MockStocktakeRepository struct {
	mock.Mock
}

func (m *MockStocktakeRepository) Create(ctx context.Context, stocktake *models.Stocktake) error {
	args := m.Called(ctx, stocktake)
	return args.Error(0)
}

func (m *MockStocktakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Stocktake, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stocktake), args.Error(1)
}

func (m *MockStocktakeRepository) Update(ctx context.Context, stocktake *models.Stocktake) error {
	args := m.Called(ctx, stocktake)
	return args.Error(0)
}

func (m *MockStocktakeRepository) UpdateItem(ctx context.Context, item *models.StocktakeItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStocktakeRepository) List(ctx context.Context, limit, offset int) ([]*models.Stocktake, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Stocktake), args.Error(1)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *models.StockTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTransfer), args.Error(1)
}

func (m *MockTransferRepository) Update(ctx context.Context, transfer *models.StockTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) List(ctx context.Context, status *models.TransferStatus, limit, offset int) ([]*models.StockTransfer, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.StockTransfer), args.Error(1)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *models.LowStockAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LowStockAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LowStockAlert), args.Error(1)
}

func (m *MockAlertRepository) GetUnacknowledged(ctx context.Context, itemID uuid.UUID, severity models.AlertSeverity) (*models.LowStockAlert, error) {
	args := m.Called(ctx, itemID, severity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LowStockAlert), args.Error(1)
}

func (m *MockAlertRepository) ListActive(ctx context.Context) ([]*models.LowStockAlert, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.LowStockAlert), args.Error(1)
}

func (m *MockAlertRepository) Acknowledge(ctx context.Context, id uuid.UUID, actor models.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetStockItem(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockCacheService) SetStockItem(ctx context.Context, item *models.StockItem, ttl time.Duration) error {
	args := m.Called(ctx, item, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteStockItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCacheService) GetInventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryStats), args.Error(1)
}

func (m *MockCacheService) SetInventoryStats(ctx context.Context, stats *models.InventoryStats, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteInventoryStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetActiveAlerts(ctx context.Context) ([]*models.LowStockAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LowStockAlert), args.Error(1)
}

func (m *MockCacheService) SetActiveAlerts(ctx context.Context, alerts []*models.LowStockAlert, ttl time.Duration) error {
	args := m.Called(ctx, alerts, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteActiveAlerts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockAlertEnqueuer struct {
	mock.Mock
}

func (m *MockAlertEnqueuer) EnqueueAlertScan(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockAdjustment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockAdjustment), args.Error(1)
}

func (m *MockLedgerService) GetAdjustments(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error) {
	args := m.Called(ctx, itemID, limit, offset)
	return args.Get(0).([]*models.StockAdjustment), args.Error(1)
}

func (m *MockLedgerService) GetMovements(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	args := m.Called(ctx, itemID, limit, offset)
	return args.Get(0).([]*models.StockMovement), args.Error(1)
}

type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) Create(ctx context.Context, input CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) Send(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, lines []ReceiveLineInput, actor models.Actor, notes string) (*models.ReceivingRecord, error) {
	args := m.Called(ctx, orderID, lines, actor, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceivingRecord), args.Error(1)
}

func (m *MockPurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) List(ctx context.Context, status *models.PurchaseOrderStatus, limit, offset int) ([]*models.PurchaseOrder, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) ListReceivings(ctx context.Context, orderID uuid.UUID) ([]*models.ReceivingRecord, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*models.ReceivingRecord), args.Error(1)
}
