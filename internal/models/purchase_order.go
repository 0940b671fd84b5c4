package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	POStatusDraft             PurchaseOrderStatus = "draft"
	POStatusSent              PurchaseOrderStatus = "sent"
	POStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	POStatusReceived          PurchaseOrderStatus = "received"
	POStatusCancelled         PurchaseOrderStatus = "cancelled"
)

func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusSent, POStatusPartiallyReceived, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// Receivable reports whether deliveries may still be booked against the order.
func (s PurchaseOrderStatus) Receivable() bool {
	return s == POStatusSent || s == POStatusPartiallyReceived
}

type PurchaseOrder struct {
	ID                   uuid.UUID            `json:"id" db:"id"`
	OrderNumber          string               `json:"order_number" db:"order_number"`
	SupplierID           uuid.UUID            `json:"supplier_id" db:"supplier_id"`
	SupplierName         string               `json:"supplier_name" db:"supplier_name"`
	Items                []*PurchaseOrderItem `json:"items"`
	Status               PurchaseOrderStatus  `json:"status" db:"status"`
	Subtotal             decimal.Decimal      `json:"subtotal" db:"subtotal"`
	Tax                  decimal.Decimal      `json:"tax" db:"tax"`
	Shipping             decimal.Decimal      `json:"shipping" db:"shipping"`
	Total                decimal.Decimal      `json:"total" db:"total"`
	OrderDate            time.Time            `json:"order_date" db:"order_date"`
	ExpectedDeliveryDate *time.Time           `json:"expected_delivery_date" db:"expected_delivery_date"`
	ReceivedDate         *time.Time           `json:"received_date" db:"received_date"`
	Notes                *string              `json:"notes" db:"notes"`
	CreatedBy            Actor                `json:"created_by"`
	CreatedAt            time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at" db:"updated_at"`
}

type PurchaseOrderItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	PurchaseOrderID  uuid.UUID       `json:"purchase_order_id" db:"purchase_order_id"`
	ItemID           uuid.UUID       `json:"item_id" db:"item_id"`
	QuantityOrdered  int             `json:"quantity_ordered" db:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received" db:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost" db:"unit_cost"`
}

// FullyReceived reports whether the cumulative received quantity covers the order line.
func (i *PurchaseOrderItem) FullyReceived() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}
