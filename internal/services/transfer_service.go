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

type CreateTransferInput struct {
	ItemID           uuid.UUID
	FromLocationID   uuid.UUID
	FromLocationName string
	ToLocationID     uuid.UUID
	ToLocationName   string
	Quantity         int
	Notes            *string
	Actor            models.Actor
}

type TransferService interface {
	Create(ctx context.Context, input CreateTransferInput) (*models.StockTransfer, error)
	Complete(ctx context.Context, transferID uuid.UUID, actor models.Actor) (*models.StockTransfer, error)
	Cancel(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error)
	GetByID(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error)
	List(ctx context.Context, status *models.TransferStatus, limit, offset int) ([]*models.StockTransfer, error)
	GetStockByLocation(ctx context.Context, itemID uuid.UUID) ([]*models.StockLevel, error)
}

type transferService struct {
	transferRepo repositories.TransferRepository
	itemRepo     repositories.StockItemRepository
	ledgerRepo   repositories.LedgerRepository
	cacheSvc     caching.CacheService
	locks        *ItemLockMap
}

func NewTransferService(transferRepo repositories.TransferRepository,
	itemRepo repositories.StockItemRepository, ledgerRepo repositories.LedgerRepository,
	cacheSvc caching.CacheService, locks *ItemLockMap) TransferService {
	return &transferService{
		transferRepo: transferRepo,
		itemRepo:     itemRepo,
		ledgerRepo:   ledgerRepo,
		cacheSvc:     cacheSvc,
		locks:        locks,
	}
}

// Create validates the request and records a pending transfer. No stock moves
// until completion. The source balance is checked here for early feedback and
// re-checked at completion under the item lock.
func (s *transferService) Create(ctx context.Context, input CreateTransferInput) (*models.StockTransfer, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: transfer quantity must be positive", ErrValidation)
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, fmt.Errorf("%w: source and destination locations must differ", ErrValidation)
	}

	item, err := s.getItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.TrackStock {
		return nil, fmt.Errorf("%w: item %s is not stock-tracked", ErrValidation, item.SKU)
	}

	sourceBalance, _, err := s.locationBalances(ctx, item, input.FromLocationID, input.ToLocationID)
	if err != nil {
		return nil, err
	}
	if sourceBalance < input.Quantity && !item.AllowNegativeStock {
		return nil, fmt.Errorf("%w: location %s holds %d of item %s, cannot transfer %d",
			ErrInsufficientStock, input.FromLocationName, sourceBalance, item.SKU, input.Quantity)
	}

	transfer := &models.StockTransfer{
		ID:               uuid.New(),
		ItemID:           input.ItemID,
		FromLocationID:   input.FromLocationID,
		FromLocationName: input.FromLocationName,
		ToLocationID:     input.ToLocationID,
		ToLocationName:   input.ToLocationName,
		Quantity:         input.Quantity,
		Status:           models.TransferPending,
		Notes:            input.Notes,
		RequestedBy:      input.Actor,
		RequestedAt:      time.Now(),
	}
	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}
	return transfer, nil
}

// Complete moves the stock. The source balance is re-validated under the item
// lock because it may have changed since the transfer was requested. Both
// location balances and the recomputed current stock commit together with the
// paired transfer movements; the item total is conserved.
func (s *transferService) Complete(ctx context.Context, transferID uuid.UUID, actor models.Actor) (*models.StockTransfer, error) {
	transfer, err := s.getTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferPending {
		return nil, fmt.Errorf("%w: cannot complete transfer in status %s", ErrInvalidTransition, transfer.Status)
	}

	lock := s.locks.Get(transfer.ItemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.getItem(ctx, transfer.ItemID)
	if err != nil {
		return nil, err
	}
	sourceBalance, destBalance, err := s.locationBalances(ctx, item, transfer.FromLocationID, transfer.ToLocationID)
	if err != nil {
		return nil, err
	}
	if sourceBalance < transfer.Quantity && !item.AllowNegativeStock {
		return nil, fmt.Errorf("%w: location %s holds %d of item %s, cannot transfer %d",
			ErrInsufficientStock, transfer.FromLocationName, sourceBalance, item.SKU, transfer.Quantity)
	}

	from := &models.StockLevel{
		ItemID:       item.ID,
		LocationID:   transfer.FromLocationID,
		LocationName: transfer.FromLocationName,
		Quantity:     sourceBalance - transfer.Quantity,
	}
	to := &models.StockLevel{
		ItemID:       item.ID,
		LocationID:   transfer.ToLocationID,
		LocationName: transfer.ToLocationName,
		Quantity:     destBalance + transfer.Quantity,
	}

	now := time.Now()
	reference := &models.Reference{ID: transfer.ID, Type: models.ReferenceTransfer}
	out := &models.StockMovement{
		ID:            uuid.New(),
		ItemID:        item.ID,
		MovementType:  models.MovementTransfer,
		Quantity:      transfer.Quantity,
		PreviousStock: item.CurrentStock,
		NewStock:      item.CurrentStock,
		Reason:        models.ReasonTransferOut,
		Reference:     reference,
		Actor:         actor,
		CreatedAt:     now,
	}
	in := &models.StockMovement{
		ID:            uuid.New(),
		ItemID:        item.ID,
		MovementType:  models.MovementTransfer,
		Quantity:      transfer.Quantity,
		PreviousStock: item.CurrentStock,
		NewStock:      item.CurrentStock,
		Reason:        models.ReasonTransferIn,
		Reference:     reference,
		Actor:         actor,
		CreatedAt:     now,
	}

	if err := s.ledgerRepo.RecordTransfer(ctx, item.ID, out, in, from, to); err != nil {
		return nil, fmt.Errorf("record transfer: %w", err)
	}

	transfer.Status = models.TransferCompleted
	transfer.CompletedBy = &actor
	transfer.CompletedAt = &now
	if err := s.transferRepo.Update(ctx, transfer); err != nil {
		return nil, fmt.Errorf("update transfer: %w", err)
	}

	if err := s.cacheSvc.DeleteStockItem(ctx, item.ID); err != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", item.ID, err)
	}
	return transfer, nil
}

// Cancel flips a pending transfer to cancelled. Pending transfers never moved
// stock, so there is nothing to compensate.
func (s *transferService) Cancel(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error) {
	transfer, err := s.getTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferPending {
		return nil, fmt.Errorf("%w: cannot cancel transfer in status %s", ErrInvalidTransition, transfer.Status)
	}
	transfer.Status = models.TransferCancelled
	if err := s.transferRepo.Update(ctx, transfer); err != nil {
		return nil, fmt.Errorf("update transfer: %w", err)
	}
	return transfer, nil
}

func (s *transferService) GetByID(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error) {
	return s.getTransfer(ctx, transferID)
}

func (s *transferService) List(ctx context.Context, status *models.TransferStatus, limit, offset int) ([]*models.StockTransfer, error) {
	limit, offset = clampPage(limit, offset)
	return s.transferRepo.List(ctx, status, limit, offset)
}

func (s *transferService) GetStockByLocation(ctx context.Context, itemID uuid.UUID) ([]*models.StockLevel, error) {
	if _, err := s.getItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.itemRepo.GetLevels(ctx, itemID)
}

// locationBalances resolves the current balances of both endpoints, lazily
// seeding: an item with no location breakdown seeds the first location from
// CurrentStock; any other missing location seeds zero.
func (s *transferService) locationBalances(ctx context.Context, item *models.StockItem, fromID, toID uuid.UUID) (int, int, error) {
	levels, err := s.itemRepo.GetLevels(ctx, item.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("load stock levels: %w", err)
	}
	if len(levels) == 0 {
		return item.CurrentStock, 0, nil
	}

	sourceBalance, destBalance := 0, 0
	for _, level := range levels {
		switch level.LocationID {
		case fromID:
			sourceBalance = level.Quantity
		case toID:
			destBalance = level.Quantity
		}
	}
	return sourceBalance, destBalance, nil
}

func (s *transferService) getItem(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: stock item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("load stock item: %w", err)
	}
	return item, nil
}

func (s *transferService) getTransfer(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: transfer %s", ErrNotFound, transferID)
		}
		return nil, fmt.Errorf("load transfer: %w", err)
	}
	return transfer, nil
}
