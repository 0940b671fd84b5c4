package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// LowStockAlert is a derived signal raised when an item's stock falls to or
// under its threshold (warning) or to zero and below (critical). Alerts carry
// a snapshot of the item state at creation time and are cleared only by
// acknowledgement, never automatically when stock recovers.
type LowStockAlert struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	ItemID          uuid.UUID     `json:"item_id" db:"item_id"`
	Severity        AlertSeverity `json:"severity" db:"severity"`
	CurrentStock    int           `json:"current_stock" db:"current_stock"`
	Threshold       int           `json:"threshold" db:"threshold"`
	ReorderQuantity int           `json:"reorder_quantity" db:"reorder_quantity"`
	SupplierID      *uuid.UUID    `json:"supplier_id" db:"supplier_id"`
	SupplierName    *string       `json:"supplier_name" db:"supplier_name"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	AcknowledgedBy  *Actor        `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time    `json:"acknowledged_at" db:"acknowledged_at"`
}

func (a *LowStockAlert) Acknowledged() bool {
	return a.AcknowledgedAt != nil
}

// InventoryStats is an on-demand aggregate over active items.
type InventoryStats struct {
	TotalProducts    int             `json:"total_products"`
	TotalValue       decimal.Decimal `json:"total_value"`
	TotalRetailValue decimal.Decimal `json:"total_retail_value"`
	LowStockCount    int             `json:"low_stock_count"`
	OutOfStockCount  int             `json:"out_of_stock_count"`
	ActiveCount      int             `json:"active_count"`
	InactiveCount    int             `json:"inactive_count"`
	ComputedAt       time.Time       `json:"computed_at"`
}
