package models

import (
	"time"

	"github.com/google/uuid"
)

// AdjustmentReason is the closed set of causes for a stock change.
type AdjustmentReason string

const (
	ReasonReceived            AdjustmentReason = "received"
	ReasonSold                AdjustmentReason = "sold"
	ReasonUsedInService       AdjustmentReason = "used_in_service"
	ReasonStocktakeAdjustment AdjustmentReason = "stocktake_adjustment"
	ReasonDamaged             AdjustmentReason = "damaged"
	ReasonExpired             AdjustmentReason = "expired"
	ReasonReturned            AdjustmentReason = "returned"
	ReasonManualCorrection    AdjustmentReason = "manual_correction"
	ReasonTransferOut         AdjustmentReason = "transfer_out"
	ReasonTransferIn          AdjustmentReason = "transfer_in"
)

func (r AdjustmentReason) IsValid() bool {
	switch r {
	case ReasonReceived, ReasonSold, ReasonUsedInService, ReasonStocktakeAdjustment,
		ReasonDamaged, ReasonExpired, ReasonReturned, ReasonManualCorrection,
		ReasonTransferOut, ReasonTransferIn:
		return true
	}
	return false
}

// ReferenceType identifies the document a ledger entry originated from.
type ReferenceType string

const (
	ReferencePurchaseOrder ReferenceType = "purchase_order"
	ReferenceSale          ReferenceType = "sale"
	ReferenceStocktake     ReferenceType = "stocktake"
	ReferenceTransfer      ReferenceType = "transfer"
)

func (t ReferenceType) IsValid() bool {
	switch t {
	case ReferencePurchaseOrder, ReferenceSale, ReferenceStocktake, ReferenceTransfer:
		return true
	}
	return false
}

// Reference links a ledger entry back to its source document.
type Reference struct {
	ID   uuid.UUID     `json:"id" db:"reference_id"`
	Type ReferenceType `json:"type" db:"reference_type"`
}

// Actor identifies who performed an operation.
type Actor struct {
	ID   uuid.UUID `json:"id" db:"actor_id"`
	Name string    `json:"name" db:"actor_name"`
}

type MovementType string

const (
	MovementIn       MovementType = "in"
	MovementOut      MovementType = "out"
	MovementTransfer MovementType = "transfer"
)

// StockAdjustment is the signed-reason side of a ledger entry. Immutable
// once created; corrections are made with new adjustments.
type StockAdjustment struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	ItemID             uuid.UUID        `json:"item_id" db:"item_id"`
	PreviousQuantity   int              `json:"previous_quantity" db:"previous_quantity"`
	AdjustmentQuantity int              `json:"adjustment_quantity" db:"adjustment_quantity"`
	NewQuantity        int              `json:"new_quantity" db:"new_quantity"`
	Reason             AdjustmentReason `json:"reason" db:"reason"`
	Note               *string          `json:"note" db:"note"`
	Reference          *Reference       `json:"reference,omitempty"`
	Actor              Actor            `json:"actor"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
}

// StockMovement is the directional side paired with each adjustment.
// Transfer movements carry PreviousStock == NewStock because a transfer
// redistributes location balances without changing the item total.
type StockMovement struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	ItemID        uuid.UUID        `json:"item_id" db:"item_id"`
	MovementType  MovementType     `json:"movement_type" db:"movement_type"`
	Quantity      int              `json:"quantity" db:"quantity"`
	PreviousStock int              `json:"previous_stock" db:"previous_stock"`
	NewStock      int              `json:"new_stock" db:"new_stock"`
	Reason        AdjustmentReason `json:"reason" db:"reason"`
	Reference     *Reference       `json:"reference,omitempty"`
	Actor         Actor            `json:"actor"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}
