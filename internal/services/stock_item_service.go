package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"salonstock/internal/caching"
	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const itemCacheTTL = 10 * time.Minute

// StockItemInput is the catalog-owned part of an item. Stock quantities are
// absent on purpose: they change only through ledger adjustments.
type StockItemInput struct {
	SKU                string
	Barcode            *string
	Name               string
	LowStockThreshold  int
	ReorderPoint       int
	ReorderQuantity    int
	AllowNegativeStock bool
	TrackStock         bool
	Status             string
	CostPrice          decimal.Decimal
	RetailPrice        decimal.Decimal
	SupplierID         *uuid.UUID
	SupplierName       *string
}

// StockItemService is the registry surface consumed by the external catalog.
// It syncs item definitions in and serves lookups; it never touches stock.
type StockItemService interface {
	Create(ctx context.Context, input StockItemInput) (*models.StockItem, error)
	Update(ctx context.Context, itemID uuid.UUID, input StockItemInput) (*models.StockItem, error)
	GetByID(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error)
	GetBySKU(ctx context.Context, sku string) (*models.StockItem, error)
	List(ctx context.Context, limit, offset int) ([]*models.StockItem, error)
}

type stockItemService struct {
	itemRepo repositories.StockItemRepository
	cacheSvc caching.CacheService
}

func NewStockItemService(itemRepo repositories.StockItemRepository, cacheSvc caching.CacheService) StockItemService {
	return &stockItemService{itemRepo: itemRepo, cacheSvc: cacheSvc}
}

func validateItemInput(input StockItemInput) error {
	if input.SKU == "" {
		return fmt.Errorf("%w: sku is required", ErrValidation)
	}
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Status != models.ItemStatusActive && input.Status != models.ItemStatusInactive {
		return fmt.Errorf("%w: unknown item status %q", ErrValidation, input.Status)
	}
	if input.LowStockThreshold < 0 || input.ReorderPoint < 0 || input.ReorderQuantity < 0 {
		return fmt.Errorf("%w: thresholds must not be negative", ErrValidation)
	}
	if input.CostPrice.IsNegative() || input.RetailPrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", ErrValidation)
	}
	return nil
}

func (s *stockItemService) Create(ctx context.Context, input StockItemInput) (*models.StockItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	if _, err := s.itemRepo.GetBySKU(ctx, input.SKU); err == nil {
		return nil, fmt.Errorf("%w: sku %q already exists", ErrValidation, input.SKU)
	} else if !errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("look up sku: %w", err)
	}

	item := &models.StockItem{
		ID:                 uuid.New(),
		SKU:                input.SKU,
		Barcode:            input.Barcode,
		Name:               input.Name,
		LowStockThreshold:  input.LowStockThreshold,
		ReorderPoint:       input.ReorderPoint,
		ReorderQuantity:    input.ReorderQuantity,
		AllowNegativeStock: input.AllowNegativeStock,
		TrackStock:         input.TrackStock,
		Status:             input.Status,
		CostPrice:          input.CostPrice,
		RetailPrice:        input.RetailPrice,
		SupplierID:         input.SupplierID,
		SupplierName:       input.SupplierName,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create stock item: %w", err)
	}
	return item, nil
}

func (s *stockItemService) Update(ctx context.Context, itemID uuid.UUID, input StockItemInput) (*models.StockItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: stock item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("load stock item: %w", err)
	}

	if item.NormalizedSKU() != models.NormalizeSKU(input.SKU) {
		if _, err := s.itemRepo.GetBySKU(ctx, input.SKU); err == nil {
			return nil, fmt.Errorf("%w: sku %q already exists", ErrValidation, input.SKU)
		} else if !errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("look up sku: %w", err)
		}
	}

	item.SKU = input.SKU
	item.Barcode = input.Barcode
	item.Name = input.Name
	item.LowStockThreshold = input.LowStockThreshold
	item.ReorderPoint = input.ReorderPoint
	item.ReorderQuantity = input.ReorderQuantity
	item.AllowNegativeStock = input.AllowNegativeStock
	item.TrackStock = input.TrackStock
	item.Status = input.Status
	item.CostPrice = input.CostPrice
	item.RetailPrice = input.RetailPrice
	item.SupplierID = input.SupplierID
	item.SupplierName = input.SupplierName

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update stock item: %w", err)
	}
	if err := s.cacheSvc.DeleteStockItem(ctx, item.ID); err != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", item.ID, err)
	}
	return item, nil
}

func (s *stockItemService) GetByID(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error) {
	cached, err := s.cacheSvc.GetStockItem(ctx, itemID)
	if err != nil {
		log.Printf("Failed to read cache for item %s: %v", itemID, err)
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: stock item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("load stock item: %w", err)
	}
	if err := s.cacheSvc.SetStockItem(ctx, item, itemCacheTTL); err != nil {
		log.Printf("Failed to cache item %s: %v", item.ID, err)
	}
	return item, nil
}

func (s *stockItemService) GetBySKU(ctx context.Context, sku string) (*models.StockItem, error) {
	item, err := s.itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: stock item with sku %q", ErrNotFound, sku)
		}
		return nil, fmt.Errorf("load stock item: %w", err)
	}
	return item, nil
}

func (s *stockItemService) List(ctx context.Context, limit, offset int) ([]*models.StockItem, error) {
	limit, offset = clampPage(limit, offset)
	return s.itemRepo.List(ctx, limit, offset)
}
