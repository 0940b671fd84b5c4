package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StocktakeStatus string

const (
	StocktakeInProgress StocktakeStatus = "in_progress"
	StocktakeCompleted  StocktakeStatus = "completed"
	StocktakeCancelled  StocktakeStatus = "cancelled"
)

func (s StocktakeStatus) Terminal() bool {
	return s == StocktakeCompleted || s == StocktakeCancelled
}

// Stocktake is a count of physical stock against expected quantities
// snapshotted once at creation. Aggregates are recomputed whenever a
// line count changes.
type Stocktake struct {
	ID                    uuid.UUID        `json:"id" db:"id"`
	Name                  string           `json:"name" db:"name"`
	Description           *string          `json:"description" db:"description"`
	Items                 []*StocktakeItem `json:"items"`
	Status                StocktakeStatus  `json:"status" db:"status"`
	TotalItems            int              `json:"total_items" db:"total_items"`
	CountedItems          int              `json:"counted_items" db:"counted_items"`
	TotalDiscrepancy      int              `json:"total_discrepancy" db:"total_discrepancy"`
	TotalDiscrepancyValue decimal.Decimal  `json:"total_discrepancy_value" db:"total_discrepancy_value"`
	StartedBy             Actor            `json:"started_by"`
	StartedAt             time.Time        `json:"started_at" db:"started_at"`
	CompletedBy           *Actor           `json:"completed_by,omitempty"`
	CompletedAt           *time.Time       `json:"completed_at" db:"completed_at"`
}

type StocktakeItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	StocktakeID      uuid.UUID       `json:"stocktake_id" db:"stocktake_id"`
	ItemID           uuid.UUID       `json:"item_id" db:"item_id"`
	ExpectedQuantity int             `json:"expected_quantity" db:"expected_quantity"`
	CountedQuantity  *int            `json:"counted_quantity" db:"counted_quantity"`
	CostPrice        decimal.Decimal `json:"cost_price" db:"cost_price"`
	Discrepancy      int             `json:"discrepancy" db:"discrepancy"`
	DiscrepancyValue decimal.Decimal `json:"discrepancy_value" db:"discrepancy_value"`
	Notes            *string         `json:"notes" db:"notes"`
}

func (i *StocktakeItem) Counted() bool {
	return i.CountedQuantity != nil
}
