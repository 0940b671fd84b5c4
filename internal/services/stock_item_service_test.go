package services

import (
	"context"
	"testing"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StockItemServiceTestSuite struct {
	suite.Suite
	itemRepo *MockStockItemRepository
	cacheSvc *MockCacheService
	service  StockItemService
	ctx      context.Context
}

func (suite *StockItemServiceTestSuite) SetupTest() {
	suite.itemRepo = new(MockStockItemRepository)
	suite.cacheSvc = new(MockCacheService)
	suite.service = NewStockItemService(suite.itemRepo, suite.cacheSvc)
	suite.ctx = context.Background()
}

func TestStockItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockItemServiceTestSuite))
}

func validInput() StockItemInput {
	return StockItemInput{
		SKU:               "SHMP-001",
		Name:              "Argan Shampoo 250ml",
		LowStockThreshold: 5,
		ReorderQuantity:   20,
		TrackStock:        true,
		Status:            models.ItemStatusActive,
	}
}

func (suite *StockItemServiceTestSuite) TestCreate_Success() {
	suite.itemRepo.On("GetBySKU", suite.ctx, "SHMP-001").Return(nil, repositories.ErrNoRows)
	suite.itemRepo.On("Create", suite.ctx, mock.Anything).Return(nil)

	item, err := suite.service.Create(suite.ctx, validInput())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SHMP-001", item.SKU)
	assert.Equal(suite.T(), 0, item.CurrentStock)
	suite.itemRepo.AssertExpectations(suite.T())
}

func (suite *StockItemServiceTestSuite) TestCreate_DuplicateSKU() {
	existing := &models.StockItem{ID: uuid.New(), SKU: "SHMP-001"}
	suite.itemRepo.On("GetBySKU", suite.ctx, "SHMP-001").Return(existing, nil)

	_, err := suite.service.Create(suite.ctx, validInput())

	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.itemRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *StockItemServiceTestSuite) TestCreate_InvalidStatus() {
	input := validInput()
	input.Status = "archived"

	_, err := suite.service.Create(suite.ctx, input)

	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *StockItemServiceTestSuite) TestUpdate_SKUChangeChecksUniqueness() {
	item := &models.StockItem{ID: uuid.New(), SKU: "SHMP-001", Name: "Argan Shampoo 250ml", Status: models.ItemStatusActive}
	taken := &models.StockItem{ID: uuid.New(), SKU: "COND-001"}
	suite.itemRepo.On("GetByID", suite.ctx, item.ID).Return(item, nil)
	suite.itemRepo.On("GetBySKU", suite.ctx, "COND-001").Return(taken, nil)

	input := validInput()
	input.SKU = "COND-001"
	_, err := suite.service.Update(suite.ctx, item.ID, input)

	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.itemRepo.AssertNotCalled(suite.T(), "Update")
}

func (suite *StockItemServiceTestSuite) TestUpdate_CaseOnlySKUChangeSkipsCheck() {
	item := &models.StockItem{ID: uuid.New(), SKU: "shmp-001", Name: "Argan Shampoo 250ml", Status: models.ItemStatusActive}
	suite.itemRepo.On("GetByID", suite.ctx, item.ID).Return(item, nil)
	suite.itemRepo.On("Update", suite.ctx, item).Return(nil)
	suite.cacheSvc.On("DeleteStockItem", suite.ctx, item.ID).Return(nil)

	updated, err := suite.service.Update(suite.ctx, item.ID, validInput())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SHMP-001", updated.SKU)
	suite.itemRepo.AssertNotCalled(suite.T(), "GetBySKU")
}

func (suite *StockItemServiceTestSuite) TestGetByID_CacheHit() {
	item := &models.StockItem{ID: uuid.New(), SKU: "SHMP-001"}
	suite.cacheSvc.On("GetStockItem", suite.ctx, item.ID).Return(item, nil)

	got, err := suite.service.GetByID(suite.ctx, item.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), item, got)
	suite.itemRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *StockItemServiceTestSuite) TestGetByID_CacheMissFillsCache() {
	item := &models.StockItem{ID: uuid.New(), SKU: "SHMP-001"}
	suite.cacheSvc.On("GetStockItem", suite.ctx, item.ID).Return(nil, nil)
	suite.itemRepo.On("GetByID", suite.ctx, item.ID).Return(item, nil)
	suite.cacheSvc.On("SetStockItem", suite.ctx, item, itemCacheTTL).Return(nil)

	got, err := suite.service.GetByID(suite.ctx, item.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), item, got)
	suite.cacheSvc.AssertExpectations(suite.T())
}

func (suite *StockItemServiceTestSuite) TestGetByID_NotFound() {
	itemID := uuid.New()
	suite.cacheSvc.On("GetStockItem", suite.ctx, itemID).Return(nil, nil)
	suite.itemRepo.On("GetByID", suite.ctx, itemID).Return(nil, repositories.ErrNoRows)

	_, err := suite.service.GetByID(suite.ctx, itemID)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
