package models

import (
	"time"

	"github.com/google/uuid"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// StockTransfer moves stock of one item between two locations. The move is
// deferred: creating a transfer reserves nothing and mutates nothing, the
// location balances change only at completion. A completed transfer leaves
// the item's CurrentStock unchanged.
type StockTransfer struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	ItemID           uuid.UUID      `json:"item_id" db:"item_id"`
	FromLocationID   uuid.UUID      `json:"from_location_id" db:"from_location_id"`
	FromLocationName string         `json:"from_location_name" db:"from_location_name"`
	ToLocationID     uuid.UUID      `json:"to_location_id" db:"to_location_id"`
	ToLocationName   string         `json:"to_location_name" db:"to_location_name"`
	Quantity         int            `json:"quantity" db:"quantity"`
	Status           TransferStatus `json:"status" db:"status"`
	Notes            *string        `json:"notes" db:"notes"`
	RequestedBy      Actor          `json:"requested_by"`
	RequestedAt      time.Time      `json:"requested_at" db:"requested_at"`
	CompletedBy      *Actor         `json:"completed_by,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at" db:"completed_at"`
}
