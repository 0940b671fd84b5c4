package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"
)

type StockItem struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	SKU                string          `json:"sku" db:"sku"`
	Barcode            *string         `json:"barcode" db:"barcode"`
	Name               string          `json:"name" db:"name"`
	CurrentStock       int             `json:"current_stock" db:"current_stock"`
	LowStockThreshold  int             `json:"low_stock_threshold" db:"low_stock_threshold"`
	ReorderPoint       int             `json:"reorder_point" db:"reorder_point"`
	ReorderQuantity    int             `json:"reorder_quantity" db:"reorder_quantity"`
	AllowNegativeStock bool            `json:"allow_negative_stock" db:"allow_negative_stock"`
	TrackStock         bool            `json:"track_stock" db:"track_stock"`
	Status             string          `json:"status" db:"status"`
	CostPrice          decimal.Decimal `json:"cost_price" db:"cost_price"`
	RetailPrice        decimal.Decimal `json:"retail_price" db:"retail_price"`
	SupplierID         *uuid.UUID      `json:"supplier_id" db:"supplier_id"`
	SupplierName       *string         `json:"supplier_name" db:"supplier_name"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// NormalizeSKU is the canonical form used for uniqueness checks.
func NormalizeSKU(sku string) string {
	return strings.ToLower(strings.TrimSpace(sku))
}

func (i *StockItem) NormalizedSKU() string {
	return NormalizeSKU(i.SKU)
}

func (i *StockItem) IsActive() bool {
	return i.Status == ItemStatusActive
}

// StockLevel is the per-location quantity breakdown of a single item.
// An item with no stock levels is untracked by location and CurrentStock
// is authoritative on its own.
type StockLevel struct {
	ItemID       uuid.UUID `json:"item_id" db:"item_id"`
	LocationID   uuid.UUID `json:"location_id" db:"location_id"`
	LocationName string    `json:"location_name" db:"location_name"`
	Quantity     int       `json:"quantity" db:"quantity"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}
