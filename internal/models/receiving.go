package models

import (
	"time"

	"github.com/google/uuid"
)

// ReceivingRecord captures one receiving action against a purchase order.
// A purchase order may accumulate several records over partial deliveries.
// Immutable once created.
type ReceivingRecord struct {
	ID              uuid.UUID              `json:"id" db:"id"`
	PurchaseOrderID uuid.UUID              `json:"purchase_order_id" db:"purchase_order_id"`
	OrderNumber     string                 `json:"order_number" db:"order_number"`
	SupplierID      uuid.UUID              `json:"supplier_id" db:"supplier_id"`
	SupplierName    string                 `json:"supplier_name" db:"supplier_name"`
	Lines           []*ReceivingRecordLine `json:"lines"`
	Notes           *string                `json:"notes" db:"notes"`
	DocumentKey     *string                `json:"document_key" db:"document_key"`
	ReceivedBy      Actor                  `json:"received_by"`
	ReceivedAt      time.Time              `json:"received_at" db:"received_at"`
}

// ReceivingRecordLine records the attempted receipt for one order line.
// Error is set when the stock adjustment for the line failed; the line is
// still recorded so the attempt stays auditable.
type ReceivingRecordLine struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ReceivingRecordID uuid.UUID `json:"receiving_record_id" db:"receiving_record_id"`
	ItemID            uuid.UUID `json:"item_id" db:"item_id"`
	QuantityExpected  int       `json:"quantity_expected" db:"quantity_expected"`
	QuantityReceived  int       `json:"quantity_received" db:"quantity_received"`
	Notes             *string   `json:"notes" db:"notes"`
	Error             *string   `json:"error,omitempty" db:"error"`
}
