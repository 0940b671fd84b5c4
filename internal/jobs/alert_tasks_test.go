package jobs

import (
	"context"
	"testing"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAlertService mocks services.AlertService for handler tests
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) GenerateLowStockAlerts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAlertService) AcknowledgeAlert(ctx context.Context, alertID uuid.UUID, actor models.Actor) (*models.LowStockAlert, error) {
	args := m.Called(ctx, alertID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LowStockAlert), args.Error(1)
}

func (m *MockAlertService) GetActiveAlerts(ctx context.Context) ([]*models.LowStockAlert, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.LowStockAlert), args.Error(1)
}

func (m *MockAlertService) GetLowStockItems(ctx context.Context) ([]*models.StockItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.StockItem), args.Error(1)
}

func (m *MockAlertService) GetOutOfStockItems(ctx context.Context) ([]*models.StockItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.StockItem), args.Error(1)
}

func (m *MockAlertService) GetInventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryStats), args.Error(1)
}

func (m *MockAlertService) CreateReorderDrafts(ctx context.Context, actor models.Actor) ([]*models.PurchaseOrder, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]*models.PurchaseOrder), args.Error(1)
}

func TestNewAlertScanTask(t *testing.T) {
	task, err := NewAlertScanTask()

	assert.NoError(t, err)
	assert.Equal(t, TypeAlertScan, task.Type())
	assert.NotEmpty(t, task.Payload())
}

func TestAlertScanHandler_RunsScan(t *testing.T) {
	alertSvc := new(MockAlertService)
	alertSvc.On("GenerateLowStockAlerts", mock.Anything).Return(3, nil)
	scanner := NewAlertScanner(alertSvc)

	task, err := NewAlertScanTask()
	assert.NoError(t, err)

	err = scanner.AlertScanHandler(context.Background(), task)

	assert.NoError(t, err)
	alertSvc.AssertExpectations(t)
}

func TestAlertScanHandler_PropagatesScanFailure(t *testing.T) {
	alertSvc := new(MockAlertService)
	alertSvc.On("GenerateLowStockAlerts", mock.Anything).Return(0, assert.AnError)
	scanner := NewAlertScanner(alertSvc)

	task, err := NewAlertScanTask()
	assert.NoError(t, err)

	err = scanner.AlertScanHandler(context.Background(), task)

	assert.Error(t, err)
}

func TestAlertScanHandler_RejectsBadPayload(t *testing.T) {
	alertSvc := new(MockAlertService)
	scanner := NewAlertScanner(alertSvc)

	err := scanner.AlertScanHandler(context.Background(), asynq.NewTask(TypeAlertScan, []byte("{not json")))

	assert.Error(t, err)
	alertSvc.AssertNotCalled(t, "GenerateLowStockAlerts")
}
