package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StocktakeService interface {
	Create(ctx context.Context, name, description string, actor models.Actor) (*models.Stocktake, error)
	UpdateItem(ctx context.Context, stocktakeID, itemID uuid.UUID, counted int, notes string) (*models.Stocktake, error)
	Complete(ctx context.Context, stocktakeID uuid.UUID, actor models.Actor, applyAdjustments bool) (*models.Stocktake, error)
	Cancel(ctx context.Context, stocktakeID uuid.UUID) (*models.Stocktake, error)
	GetByID(ctx context.Context, stocktakeID uuid.UUID) (*models.Stocktake, error)
	List(ctx context.Context, limit, offset int) ([]*models.Stocktake, error)
}

type stocktakeService struct {
	stocktakeRepo repositories.StocktakeRepository
	itemRepo      repositories.StockItemRepository
	ledger        LedgerService
}

func NewStocktakeService(stocktakeRepo repositories.StocktakeRepository,
	itemRepo repositories.StockItemRepository, ledger LedgerService) StocktakeService {
	return &stocktakeService{
		stocktakeRepo: stocktakeRepo,
		itemRepo:      itemRepo,
		ledger:        ledger,
	}
}

// Create snapshots the expected quantity of every active, stock-tracked item.
// The snapshot is taken once; later stock changes do not move the expected
// values.
func (s *stocktakeService) Create(ctx context.Context, name, description string, actor models.Actor) (*models.Stocktake, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: stocktake name is required", ErrValidation)
	}

	items, err := s.itemRepo.ListActiveTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no active stock-tracked items to count", ErrValidation)
	}

	stocktake := &models.Stocktake{
		ID:          uuid.New(),
		Name:        name,
		Description: optionalString(description),
		Status:      models.StocktakeInProgress,
		TotalItems:  len(items),
		StartedBy:   actor,
		StartedAt:   time.Now(),
	}
	for _, item := range items {
		stocktake.Items = append(stocktake.Items, &models.StocktakeItem{
			ID:               uuid.New(),
			StocktakeID:      stocktake.ID,
			ItemID:           item.ID,
			ExpectedQuantity: item.CurrentStock,
			CostPrice:        item.CostPrice,
		})
	}

	if err := s.stocktakeRepo.Create(ctx, stocktake); err != nil {
		return nil, fmt.Errorf("create stocktake: %w", err)
	}
	return stocktake, nil
}

// UpdateItem records a count for one line. Re-counting overwrites the prior
// count; no count history is kept.
func (s *stocktakeService) UpdateItem(ctx context.Context, stocktakeID, itemID uuid.UUID, counted int, notes string) (*models.Stocktake, error) {
	if counted < 0 {
		return nil, fmt.Errorf("%w: counted quantity must not be negative", ErrValidation)
	}

	stocktake, err := s.getStocktake(ctx, stocktakeID)
	if err != nil {
		return nil, err
	}
	if stocktake.Status != models.StocktakeInProgress {
		return nil, fmt.Errorf("%w: stocktake %s is %s", ErrInvalidTransition, stocktake.Name, stocktake.Status)
	}

	var line *models.StocktakeItem
	for _, candidate := range stocktake.Items {
		if candidate.ItemID == itemID {
			line = candidate
			break
		}
	}
	if line == nil {
		return nil, fmt.Errorf("%w: item %s is not part of stocktake %s", ErrNotFound, itemID, stocktake.Name)
	}

	line.CountedQuantity = &counted
	line.Discrepancy = counted - line.ExpectedQuantity
	line.DiscrepancyValue = line.CostPrice.Mul(decimal.NewFromInt(int64(line.Discrepancy)))
	line.Notes = optionalString(notes)

	if err := s.stocktakeRepo.UpdateItem(ctx, line); err != nil {
		return nil, fmt.Errorf("update stocktake line: %w", err)
	}

	s.recomputeAggregates(stocktake)
	if err := s.stocktakeRepo.Update(ctx, stocktake); err != nil {
		return nil, fmt.Errorf("update stocktake aggregates: %w", err)
	}
	return stocktake, nil
}

// Complete closes the stocktake. With applyAdjustments, every counted line
// with a non-zero discrepancy is reconciled through the ledger; lines are
// independent and a failed reconciliation is logged without rolling back the
// others. Without applyAdjustments the count is kept for audit only.
func (s *stocktakeService) Complete(ctx context.Context, stocktakeID uuid.UUID, actor models.Actor, applyAdjustments bool) (*models.Stocktake, error) {
	stocktake, err := s.getStocktake(ctx, stocktakeID)
	if err != nil {
		return nil, err
	}
	if stocktake.Status != models.StocktakeInProgress {
		return nil, fmt.Errorf("%w: stocktake %s is %s", ErrInvalidTransition, stocktake.Name, stocktake.Status)
	}

	if applyAdjustments {
		reference := &models.Reference{ID: stocktake.ID, Type: models.ReferenceStocktake}
		for _, line := range stocktake.Items {
			if !line.Counted() || line.Discrepancy == 0 {
				continue
			}
			note := fmt.Sprintf("Stocktake %s reconciliation", stocktake.Name)
			_, err := s.ledger.AdjustStock(ctx, AdjustStockInput{
				ItemID:    line.ItemID,
				Delta:     line.Discrepancy,
				Reason:    models.ReasonStocktakeAdjustment,
				Note:      &note,
				Actor:     actor,
				Reference: reference,
			})
			if err != nil {
				log.Printf("Stocktake %s reconciliation failed for item %s: %v", stocktake.Name, line.ItemID, err)
			}
		}
	}

	now := time.Now()
	stocktake.Status = models.StocktakeCompleted
	stocktake.CompletedBy = &actor
	stocktake.CompletedAt = &now
	if err := s.stocktakeRepo.Update(ctx, stocktake); err != nil {
		return nil, fmt.Errorf("update stocktake: %w", err)
	}
	return stocktake, nil
}

func (s *stocktakeService) Cancel(ctx context.Context, stocktakeID uuid.UUID) (*models.Stocktake, error) {
	stocktake, err := s.getStocktake(ctx, stocktakeID)
	if err != nil {
		return nil, err
	}
	if stocktake.Status != models.StocktakeInProgress {
		return nil, fmt.Errorf("%w: stocktake %s is %s", ErrInvalidTransition, stocktake.Name, stocktake.Status)
	}
	stocktake.Status = models.StocktakeCancelled
	if err := s.stocktakeRepo.Update(ctx, stocktake); err != nil {
		return nil, fmt.Errorf("update stocktake: %w", err)
	}
	return stocktake, nil
}

func (s *stocktakeService) GetByID(ctx context.Context, stocktakeID uuid.UUID) (*models.Stocktake, error) {
	return s.getStocktake(ctx, stocktakeID)
}

func (s *stocktakeService) List(ctx context.Context, limit, offset int) ([]*models.Stocktake, error) {
	limit, offset = clampPage(limit, offset)
	return s.stocktakeRepo.List(ctx, limit, offset)
}

// Aggregates sum absolute discrepancies so shortages and overages do not
// cancel out.
func (s *stocktakeService) recomputeAggregates(stocktake *models.Stocktake) {
	counted := 0
	totalDiscrepancy := 0
	totalValue := decimal.Zero
	for _, line := range stocktake.Items {
		if !line.Counted() {
			continue
		}
		counted++
		totalDiscrepancy += absInt(line.Discrepancy)
		totalValue = totalValue.Add(line.DiscrepancyValue.Abs())
	}
	stocktake.CountedItems = counted
	stocktake.TotalDiscrepancy = totalDiscrepancy
	stocktake.TotalDiscrepancyValue = totalValue
}

func (s *stocktakeService) getStocktake(ctx context.Context, stocktakeID uuid.UUID) (*models.Stocktake, error) {
	stocktake, err := s.stocktakeRepo.GetByID(ctx, stocktakeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: stocktake %s", ErrNotFound, stocktakeID)
		}
		return nil, fmt.Errorf("load stocktake: %w", err)
	}
	return stocktake, nil
}
