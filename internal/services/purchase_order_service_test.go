package services

import (
	"context"
	"testing"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PurchaseOrderServiceTestSuite struct {
	suite.Suite
	orderRepo     *MockPurchaseOrderRepository
	receivingRepo *MockReceivingRepository
	ledger        *MockLedgerService
	service       PurchaseOrderService
	ctx           context.Context
	actor         models.Actor
	supplierID    uuid.UUID
}

func (suite *PurchaseOrderServiceTestSuite) SetupTest() {
	suite.orderRepo = new(MockPurchaseOrderRepository)
	suite.receivingRepo = new(MockReceivingRepository)
	suite.ledger = new(MockLedgerService)
	suite.service = NewPurchaseOrderService(suite.orderRepo, suite.receivingRepo, suite.ledger)
	suite.ctx = context.Background()
	suite.actor = models.Actor{ID: uuid.New(), Name: "Test User"}
	suite.supplierID = uuid.New()
}

func TestPurchaseOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseOrderServiceTestSuite))
}

func (suite *PurchaseOrderServiceTestSuite) sentOrder(lines ...*models.PurchaseOrderItem) *models.PurchaseOrder {
	order := &models.PurchaseOrder{
		ID:           uuid.New(),
		OrderNumber:  "PO-20260829-ABCDEF",
		SupplierID:   suite.supplierID,
		SupplierName: "Beauty Wholesale Co",
		Status:       models.POStatusSent,
		Items:        lines,
	}
	for _, line := range lines {
		line.PurchaseOrderID = order.ID
	}
	return order
}

func (suite *PurchaseOrderServiceTestSuite) TestCreate_ComputesTotals() {
	suite.orderRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	order, err := suite.service.Create(suite.ctx, CreatePurchaseOrderInput{
		SupplierID:   suite.supplierID,
		SupplierName: "Beauty Wholesale Co",
		Lines: []PurchaseOrderLineInput{
			{ItemID: uuid.New(), QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(4.50)},
			{ItemID: uuid.New(), QuantityOrdered: 2, UnitCost: decimal.NewFromFloat(12.00)},
		},
		Tax:      decimal.NewFromFloat(6.90),
		Shipping: decimal.NewFromFloat(5.00),
		Actor:    suite.actor,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.POStatusDraft, order.Status)
	assert.True(suite.T(), order.Subtotal.Equal(decimal.NewFromFloat(69.00)))
	assert.True(suite.T(), order.Total.Equal(decimal.NewFromFloat(80.90)))
	assert.Len(suite.T(), order.Items, 2)
	assert.Contains(suite.T(), order.OrderNumber, "PO-")
}

func (suite *PurchaseOrderServiceTestSuite) TestCreate_RejectsEmptyOrder() {
	_, err := suite.service.Create(suite.ctx, CreatePurchaseOrderInput{
		SupplierID: suite.supplierID,
		Actor:      suite.actor,
	})

	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *PurchaseOrderServiceTestSuite) TestCreate_RejectsNonPositiveQuantity() {
	_, err := suite.service.Create(suite.ctx, CreatePurchaseOrderInput{
		SupplierID: suite.supplierID,
		Lines: []PurchaseOrderLineInput{
			{ItemID: uuid.New(), QuantityOrdered: 0, UnitCost: decimal.NewFromFloat(4.50)},
		},
		Actor: suite.actor,
	})

	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *PurchaseOrderServiceTestSuite) TestSend_OnlyFromDraft() {
	order := suite.sentOrder()
	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)

	_, err := suite.service.Send(suite.ctx, order.ID)

	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_PartialDelivery() {
	itemID := uuid.New()
	order := suite.sentOrder(&models.PurchaseOrderItem{
		ID:              uuid.New(),
		ItemID:          itemID,
		QuantityOrdered: 10,
		UnitCost:        decimal.NewFromFloat(4.50),
	})

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)
	suite.ledger.On("AdjustStock", suite.ctx, mock.MatchedBy(func(input AdjustStockInput) bool {
		return input.ItemID == itemID && input.Delta == 4 && input.Reason == models.ReasonReceived &&
			input.Reference != nil && input.Reference.Type == models.ReferencePurchaseOrder
	})).Return(&models.StockAdjustment{}, nil)
	suite.orderRepo.On("Update", suite.ctx, order).Return(nil)
	suite.receivingRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	record, err := suite.service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: itemID, QuantityReceived: 4}}, suite.actor, "")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.POStatusPartiallyReceived, order.Status)
	assert.Nil(suite.T(), order.ReceivedDate)
	assert.Len(suite.T(), record.Lines, 1)
	assert.Equal(suite.T(), 4, record.Lines[0].QuantityReceived)
	assert.Nil(suite.T(), record.Lines[0].Error)
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_FullDeliveryClosesOrder() {
	itemID := uuid.New()
	order := suite.sentOrder(&models.PurchaseOrderItem{
		ID:               uuid.New(),
		ItemID:           itemID,
		QuantityOrdered:  10,
		QuantityReceived: 4,
		UnitCost:         decimal.NewFromFloat(4.50),
	})
	order.Status = models.POStatusPartiallyReceived

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)
	suite.ledger.On("AdjustStock", suite.ctx, mock.Anything).Return(&models.StockAdjustment{}, nil)
	suite.orderRepo.On("Update", suite.ctx, order).Return(nil)
	suite.receivingRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	_, err := suite.service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: itemID, QuantityReceived: 6}}, suite.actor, "final delivery")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.POStatusReceived, order.Status)
	assert.NotNil(suite.T(), order.ReceivedDate)
	assert.Equal(suite.T(), 10, order.Items[0].QuantityReceived)
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_LineFailureDoesNotRollBackOthers() {
	goodItem := uuid.New()
	badItem := uuid.New()
	order := suite.sentOrder(
		&models.PurchaseOrderItem{ID: uuid.New(), ItemID: goodItem, QuantityOrdered: 5},
		&models.PurchaseOrderItem{ID: uuid.New(), ItemID: badItem, QuantityOrdered: 5},
	)

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)
	suite.ledger.On("AdjustStock", suite.ctx, mock.MatchedBy(func(input AdjustStockInput) bool {
		return input.ItemID == goodItem
	})).Return(&models.StockAdjustment{}, nil)
	suite.ledger.On("AdjustStock", suite.ctx, mock.MatchedBy(func(input AdjustStockInput) bool {
		return input.ItemID == badItem
	})).Return(nil, assert.AnError)
	suite.orderRepo.On("Update", suite.ctx, order).Return(nil)
	suite.receivingRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	record, err := suite.service.Receive(suite.ctx, order.ID, []ReceiveLineInput{
		{ItemID: goodItem, QuantityReceived: 5},
		{ItemID: badItem, QuantityReceived: 5},
	}, suite.actor, "")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), record.Lines, 2)
	assert.Nil(suite.T(), record.Lines[0].Error)
	assert.NotNil(suite.T(), record.Lines[1].Error)
	assert.Equal(suite.T(), 5, order.Items[0].QuantityReceived)
	assert.Equal(suite.T(), 0, order.Items[1].QuantityReceived)
	assert.Equal(suite.T(), models.POStatusPartiallyReceived, order.Status)
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_UnknownItemRejected() {
	order := suite.sentOrder(&models.PurchaseOrderItem{ID: uuid.New(), ItemID: uuid.New(), QuantityOrdered: 5})
	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)

	_, err := suite.service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: uuid.New(), QuantityReceived: 1}}, suite.actor, "")

	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.receivingRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_UnknownLineRejectedBeforeAnyStockMoves() {
	knownItem := uuid.New()
	order := suite.sentOrder(&models.PurchaseOrderItem{ID: uuid.New(), ItemID: knownItem, QuantityOrdered: 5})
	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)

	_, err := suite.service.Receive(suite.ctx, order.ID, []ReceiveLineInput{
		{ItemID: knownItem, QuantityReceived: 4},
		{ItemID: uuid.New(), QuantityReceived: 1},
	}, suite.actor, "")

	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.ledger.AssertNotCalled(suite.T(), "AdjustStock")
	suite.orderRepo.AssertNotCalled(suite.T(), "Update")
	suite.receivingRepo.AssertNotCalled(suite.T(), "Create")
	assert.Equal(suite.T(), 0, order.Items[0].QuantityReceived)
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_LocationTrackedItemBooksStock() {
	itemID := uuid.New()
	item := &models.StockItem{
		ID:           itemID,
		SKU:          "SHMP-001",
		Name:         "Argan Shampoo 250ml",
		CurrentStock: 10,
		TrackStock:   true,
		Status:       models.ItemStatusActive,
	}
	frontDesk := uuid.New()
	levels := []*models.StockLevel{
		{ItemID: itemID, LocationID: uuid.New(), LocationName: "Back room", Quantity: 4},
		{ItemID: itemID, LocationID: frontDesk, LocationName: "Front desk", Quantity: 6},
	}
	order := suite.sentOrder(&models.PurchaseOrderItem{ID: uuid.New(), ItemID: itemID, QuantityOrdered: 10})

	itemRepo := new(MockStockItemRepository)
	ledgerRepo := new(MockLedgerRepository)
	cacheSvc := new(MockCacheService)
	alerts := new(MockAlertEnqueuer)
	ledger := NewLedgerService(itemRepo, ledgerRepo, cacheSvc, alerts, NewItemLockMap())
	service := NewPurchaseOrderService(suite.orderRepo, suite.receivingRepo, ledger)

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)
	itemRepo.On("GetByID", suite.ctx, itemID).Return(item, nil)
	itemRepo.On("GetLevels", suite.ctx, itemID).Return(levels, nil)
	var recordedLevel *models.StockLevel
	ledgerRepo.On("Record", suite.ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recordedLevel = args.Get(3).(*models.StockLevel)
		}).Return(nil)
	cacheSvc.On("DeleteStockItem", suite.ctx, itemID).Return(nil)
	cacheSvc.On("DeleteInventoryStats", suite.ctx).Return(nil)
	alerts.On("EnqueueAlertScan", suite.ctx).Return(nil)
	suite.orderRepo.On("Update", suite.ctx, order).Return(nil)
	suite.receivingRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	record, err := service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: itemID, QuantityReceived: 4}}, suite.actor, "")

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), record.Lines[0].Error)
	assert.Equal(suite.T(), 4, order.Items[0].QuantityReceived)
	assert.Equal(suite.T(), models.POStatusPartiallyReceived, order.Status)
	assert.Equal(suite.T(), frontDesk, recordedLevel.LocationID)
	assert.Equal(suite.T(), 10, recordedLevel.Quantity)
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_LineLocationPassedToLedger() {
	itemID := uuid.New()
	backRoom := uuid.New()
	order := suite.sentOrder(&models.PurchaseOrderItem{ID: uuid.New(), ItemID: itemID, QuantityOrdered: 5})

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)
	suite.ledger.On("AdjustStock", suite.ctx, mock.MatchedBy(func(input AdjustStockInput) bool {
		return input.LocationID != nil && *input.LocationID == backRoom
	})).Return(&models.StockAdjustment{}, nil)
	suite.orderRepo.On("Update", suite.ctx, order).Return(nil)
	suite.receivingRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	_, err := suite.service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: itemID, QuantityReceived: 2, LocationID: &backRoom}}, suite.actor, "")

	assert.NoError(suite.T(), err)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_DraftOrderRejected() {
	order := suite.sentOrder(&models.PurchaseOrderItem{ID: uuid.New(), ItemID: uuid.New(), QuantityOrdered: 5})
	order.Status = models.POStatusDraft
	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)

	_, err := suite.service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: order.Items[0].ItemID, QuantityReceived: 1}}, suite.actor, "")

	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_ZeroQuantityLineMovesNoStock() {
	itemID := uuid.New()
	order := suite.sentOrder(&models.PurchaseOrderItem{ID: uuid.New(), ItemID: itemID, QuantityOrdered: 5})

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)
	suite.receivingRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	record, err := suite.service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: itemID, QuantityReceived: 0, Notes: "back-ordered"}}, suite.actor, "")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), record.Lines, 1)
	assert.Equal(suite.T(), models.POStatusSent, order.Status)
	suite.ledger.AssertNotCalled(suite.T(), "AdjustStock")
	suite.orderRepo.AssertNotCalled(suite.T(), "Update")
}

func (suite *PurchaseOrderServiceTestSuite) TestReceive_AllLinesFailedKeepsStatus() {
	itemID := uuid.New()
	order := suite.sentOrder(&models.PurchaseOrderItem{ID: uuid.New(), ItemID: itemID, QuantityOrdered: 5})

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)
	suite.ledger.On("AdjustStock", suite.ctx, mock.Anything).Return(nil, assert.AnError)
	suite.receivingRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	record, err := suite.service.Receive(suite.ctx, order.ID,
		[]ReceiveLineInput{{ItemID: itemID, QuantityReceived: 3}}, suite.actor, "")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), record.Lines[0].Error)
	assert.Equal(suite.T(), models.POStatusSent, order.Status)
	assert.Equal(suite.T(), 0, order.Items[0].QuantityReceived)
	suite.orderRepo.AssertNotCalled(suite.T(), "Update")
}

func (suite *PurchaseOrderServiceTestSuite) TestCancel_ReceivedOrderRejected() {
	order := suite.sentOrder()
	order.Status = models.POStatusReceived
	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil)

	_, err := suite.service.Cancel(suite.ctx, order.ID)

	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *PurchaseOrderServiceTestSuite) TestGetByID_NotFound() {
	orderID := uuid.New()
	suite.orderRepo.On("GetByID", suite.ctx, orderID).Return(nil, repositories.ErrNoRows)

	_, err := suite.service.GetByID(suite.ctx, orderID)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
