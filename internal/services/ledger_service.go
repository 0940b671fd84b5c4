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
)

// AlertEnqueuer schedules an asynchronous low-stock scan after a ledger
// mutation. Enqueue failures are logged and never fail the mutation.
type AlertEnqueuer interface {
	EnqueueAlertScan(ctx context.Context) error
}

// AdjustStockInput describes one ledger mutation. Delta must be non-zero;
// positive is inbound, negative outbound. When the item carries a
// per-location breakdown the adjustment lands on LocationID, or on the
// item's primary location when none is given, so the conservation invariant
// (current stock == sum of location balances) survives the adjustment.
type AdjustStockInput struct {
	ItemID     uuid.UUID
	Delta      int
	Reason     models.AdjustmentReason
	Note       *string
	LocationID *uuid.UUID
	Actor      models.Actor
	Reference  *models.Reference
}

type LedgerService interface {
	AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockAdjustment, error)
	GetAdjustments(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error)
	GetMovements(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockMovement, error)
}

type ledgerService struct {
	itemRepo   repositories.StockItemRepository
	ledgerRepo repositories.LedgerRepository
	cacheSvc   caching.CacheService
	alerts     AlertEnqueuer
	locks      *ItemLockMap
}

func NewLedgerService(itemRepo repositories.StockItemRepository, ledgerRepo repositories.LedgerRepository,
	cacheSvc caching.CacheService, alerts AlertEnqueuer, locks *ItemLockMap) LedgerService {
	return &ledgerService{
		itemRepo:   itemRepo,
		ledgerRepo: ledgerRepo,
		cacheSvc:   cacheSvc,
		alerts:     alerts,
		locks:      locks,
	}
}

// AdjustStock is the only legal way to change an item's current stock. On
// success exactly one adjustment and one movement are appended, carrying the
// same previous/new quantities, atomically with the stock update. On any
// failure nothing is written.
func (s *ledgerService) AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockAdjustment, error) {
	if input.Delta == 0 {
		return nil, fmt.Errorf("%w: adjustment quantity must be non-zero", ErrValidation)
	}
	if !input.Reason.IsValid() {
		return nil, fmt.Errorf("%w: unknown adjustment reason %q", ErrValidation, input.Reason)
	}
	if input.Reference != nil && !input.Reference.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown reference type %q", ErrValidation, input.Reference.Type)
	}

	lock := s.locks.Get(input.ItemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: stock item %s", ErrNotFound, input.ItemID)
		}
		return nil, fmt.Errorf("load stock item: %w", err)
	}
	if !item.TrackStock {
		return nil, fmt.Errorf("%w: item %s is not stock-tracked", ErrValidation, item.SKU)
	}

	newQuantity := item.CurrentStock + input.Delta
	if newQuantity < 0 && !item.AllowNegativeStock {
		return nil, fmt.Errorf("%w: item %s has %d on hand, adjustment of %d rejected",
			ErrInsufficientStock, item.SKU, item.CurrentStock, input.Delta)
	}

	level, err := s.resolveLevel(ctx, item, input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	adjustment := &models.StockAdjustment{
		ID:                 uuid.New(),
		ItemID:             item.ID,
		PreviousQuantity:   item.CurrentStock,
		AdjustmentQuantity: input.Delta,
		NewQuantity:        newQuantity,
		Reason:             input.Reason,
		Note:               input.Note,
		Reference:          input.Reference,
		Actor:              input.Actor,
		CreatedAt:          now,
	}
	movement := &models.StockMovement{
		ID:            uuid.New(),
		ItemID:        item.ID,
		MovementType:  movementTypeForDelta(input.Delta),
		Quantity:      absInt(input.Delta),
		PreviousStock: item.CurrentStock,
		NewStock:      newQuantity,
		Reason:        input.Reason,
		Reference:     input.Reference,
		Actor:         input.Actor,
		CreatedAt:     now,
	}

	if err := s.ledgerRepo.Record(ctx, adjustment, movement, level); err != nil {
		return nil, fmt.Errorf("record ledger entry: %w", err)
	}

	s.invalidate(ctx, item.ID)
	if err := s.alerts.EnqueueAlertScan(ctx); err != nil {
		log.Printf("Failed to enqueue alert scan after adjusting item %s: %v", item.ID, err)
	}
	return adjustment, nil
}

// resolveLevel computes the location balance the adjustment lands on. Items
// without a location breakdown return nil and the current-stock column stays
// authoritative on its own. Adjustments that name no location land on the
// item's primary location, the one holding the most stock; workflows that
// count at the item level (receiving, stocktake reconciliation) go through
// this path.
func (s *ledgerService) resolveLevel(ctx context.Context, item *models.StockItem, input AdjustStockInput) (*models.StockLevel, error) {
	levels, err := s.itemRepo.GetLevels(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("load stock levels: %w", err)
	}
	if len(levels) == 0 {
		return nil, nil
	}

	locationID := input.LocationID
	if locationID == nil {
		primary := levels[0]
		for _, level := range levels[1:] {
			if level.Quantity > primary.Quantity {
				primary = level
			}
		}
		locationID = &primary.LocationID
	}

	for _, level := range levels {
		if level.LocationID == *locationID {
			newBalance := level.Quantity + input.Delta
			if newBalance < 0 && !item.AllowNegativeStock {
				return nil, fmt.Errorf("%w: location %s holds %d of item %s, adjustment of %d rejected",
					ErrInsufficientStock, level.LocationName, level.Quantity, item.SKU, input.Delta)
			}
			return &models.StockLevel{
				ItemID:       level.ItemID,
				LocationID:   level.LocationID,
				LocationName: level.LocationName,
				Quantity:     newBalance,
			}, nil
		}
	}

	// Unknown location on a tracked item: start it from zero.
	if input.Delta < 0 && !item.AllowNegativeStock {
		return nil, fmt.Errorf("%w: location %s holds no stock of item %s",
			ErrInsufficientStock, *locationID, item.SKU)
	}
	return &models.StockLevel{
		ItemID:     item.ID,
		LocationID: *locationID,
		Quantity:   input.Delta,
	}, nil
}

func (s *ledgerService) invalidate(ctx context.Context, itemID uuid.UUID) {
	if err := s.cacheSvc.DeleteStockItem(ctx, itemID); err != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", itemID, err)
	}
	if err := s.cacheSvc.DeleteInventoryStats(ctx); err != nil {
		log.Printf("Failed to invalidate inventory stats cache: %v", err)
	}
}

func (s *ledgerService) GetAdjustments(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error) {
	limit, offset = clampPage(limit, offset)
	return s.ledgerRepo.ListAdjustments(ctx, itemID, limit, offset)
}

func (s *ledgerService) GetMovements(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	limit, offset = clampPage(limit, offset)
	return s.ledgerRepo.ListMovements(ctx, itemID, limit, offset)
}

func movementTypeForDelta(delta int) models.MovementType {
	if delta > 0 {
		return models.MovementIn
	}
	return models.MovementOut
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
