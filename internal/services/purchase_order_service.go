package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"github.com/shopspring/decimal"
)

type PurchaseOrderLineInput struct {
	ItemID          uuid.UUID
	QuantityOrdered int
	UnitCost        decimal.Decimal
}

type CreatePurchaseOrderInput struct {
	SupplierID           uuid.UUID
	SupplierName         string
	Lines                []PurchaseOrderLineInput
	Tax                  decimal.Decimal
	Shipping             decimal.Decimal
	ExpectedDeliveryDate *time.Time
	Notes                string
	Actor                models.Actor
}

// ReceiveLineInput is one delivered line of a receiving action. Lines with
// zero quantity are recorded on the receiving record but move no stock.
// LocationID states where the delivery landed; when nil the ledger places
// the stock on the item's primary location.
type ReceiveLineInput struct {
	ItemID           uuid.UUID
	QuantityReceived int
	LocationID       *uuid.UUID
	Notes            string
}

type PurchaseOrderService interface {
	Create(ctx context.Context, input CreatePurchaseOrderInput) (*models.PurchaseOrder, error)
	Send(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error)
	Receive(ctx context.Context, orderID uuid.UUID, lines []ReceiveLineInput, actor models.Actor, notes string) (*models.ReceivingRecord, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, status *models.PurchaseOrderStatus, limit, offset int) ([]*models.PurchaseOrder, error)
	ListReceivings(ctx context.Context, orderID uuid.UUID) ([]*models.ReceivingRecord, error)
}

type purchaseOrderService struct {
	orderRepo     repositories.PurchaseOrderRepository
	receivingRepo repositories.ReceivingRepository
	ledger        LedgerService
}

func NewPurchaseOrderService(orderRepo repositories.PurchaseOrderRepository,
	receivingRepo repositories.ReceivingRepository, ledger LedgerService) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:     orderRepo,
		receivingRepo: receivingRepo,
		ledger:        ledger,
	}
}

func generateOrderNumber() string {
	return fmt.Sprintf("PO-%s-%s", time.Now().Format("20060102"), strings.ToUpper(random.String(6)))
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *purchaseOrderService) Create(ctx context.Context, input CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: purchase order needs at least one line", ErrValidation)
	}
	for _, line := range input.Lines {
		if line.QuantityOrdered <= 0 {
			return nil, fmt.Errorf("%w: ordered quantity must be positive for item %s", ErrValidation, line.ItemID)
		}
		if line.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit cost must not be negative for item %s", ErrValidation, line.ItemID)
		}
	}

	now := time.Now()
	order := &models.PurchaseOrder{
		ID:                   uuid.New(),
		OrderNumber:          generateOrderNumber(),
		SupplierID:           input.SupplierID,
		SupplierName:         input.SupplierName,
		Status:               models.POStatusDraft,
		Tax:                  input.Tax,
		Shipping:             input.Shipping,
		OrderDate:            now,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Notes:                optionalString(input.Notes),
		CreatedBy:            input.Actor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	subtotal := decimal.Zero
	for _, line := range input.Lines {
		lineTotal := line.UnitCost.Mul(decimal.NewFromInt(int64(line.QuantityOrdered)))
		subtotal = subtotal.Add(lineTotal)
		order.Items = append(order.Items, &models.PurchaseOrderItem{
			ID:              uuid.New(),
			PurchaseOrderID: order.ID,
			ItemID:          line.ItemID,
			QuantityOrdered: line.QuantityOrdered,
			UnitCost:        line.UnitCost,
		})
	}
	// Totals are fixed at creation and not recomputed afterwards.
	order.Subtotal = subtotal
	order.Total = subtotal.Add(order.Tax).Add(order.Shipping)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	return order, nil
}

func (s *purchaseOrderService) Send(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.POStatusDraft {
		return nil, fmt.Errorf("%w: cannot send order %s in status %s", ErrInvalidTransition, order.OrderNumber, order.Status)
	}
	order.Status = models.POStatusSent
	order.UpdatedAt = time.Now()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update purchase order: %w", err)
	}
	return order, nil
}

// Receive applies one delivery against a sent or partially received order.
// Lines are independent: a line whose stock adjustment fails is recorded on
// the receiving record with its error and does not roll back earlier lines.
// Over-receiving beyond the ordered quantity is accepted and logged.
func (s *purchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, lines []ReceiveLineInput, actor models.Actor, notes string) (*models.ReceivingRecord, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: receiving needs at least one line", ErrValidation)
	}
	for _, line := range lines {
		if line.QuantityReceived < 0 {
			return nil, fmt.Errorf("%w: received quantity must not be negative for item %s", ErrValidation, line.ItemID)
		}
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Receivable() {
		return nil, fmt.Errorf("%w: cannot receive against order %s in status %s", ErrInvalidTransition, order.OrderNumber, order.Status)
	}

	orderLines := make(map[uuid.UUID]*models.PurchaseOrderItem, len(order.Items))
	for _, item := range order.Items {
		orderLines[item.ItemID] = item
	}
	// Every line must belong to the order before any stock moves, so a bad
	// line cannot leave earlier lines booked without a receiving record.
	for _, line := range lines {
		if _, ok := orderLines[line.ItemID]; !ok {
			return nil, fmt.Errorf("%w: item %s is not on order %s", ErrValidation, line.ItemID, order.OrderNumber)
		}
	}

	record := &models.ReceivingRecord{
		ID:              uuid.New(),
		PurchaseOrderID: order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		Notes:           optionalString(notes),
		ReceivedBy:      actor,
		ReceivedAt:      time.Now(),
	}

	reference := &models.Reference{ID: order.ID, Type: models.ReferencePurchaseOrder}
	progressed := false
	for _, line := range lines {
		orderLine := orderLines[line.ItemID]

		recordLine := &models.ReceivingRecordLine{
			ID:                uuid.New(),
			ReceivingRecordID: record.ID,
			ItemID:            line.ItemID,
			QuantityExpected:  orderLine.QuantityOrdered,
			QuantityReceived:  line.QuantityReceived,
			Notes:             optionalString(line.Notes),
		}
		record.Lines = append(record.Lines, recordLine)

		if line.QuantityReceived == 0 {
			continue
		}

		note := fmt.Sprintf("Received against %s", order.OrderNumber)
		_, err := s.ledger.AdjustStock(ctx, AdjustStockInput{
			ItemID:     line.ItemID,
			Delta:      line.QuantityReceived,
			Reason:     models.ReasonReceived,
			Note:       &note,
			LocationID: line.LocationID,
			Actor:      actor,
			Reference:  reference,
		})
		if err != nil {
			msg := err.Error()
			recordLine.Error = &msg
			log.Printf("Receiving line failed for item %s on order %s: %v", line.ItemID, order.OrderNumber, err)
			continue
		}

		orderLine.QuantityReceived += line.QuantityReceived
		progressed = true
		if orderLine.QuantityReceived > orderLine.QuantityOrdered {
			log.Printf("Over-received item %s on order %s: %d of %d ordered",
				line.ItemID, order.OrderNumber, orderLine.QuantityReceived, orderLine.QuantityOrdered)
		}
	}

	// Status moves only when some line actually booked stock; a delivery of
	// zero units or all-failed lines leaves the order as it was.
	if progressed {
		fullyReceived := true
		for _, item := range order.Items {
			if !item.FullyReceived() {
				fullyReceived = false
				break
			}
		}
		now := time.Now()
		if fullyReceived {
			order.Status = models.POStatusReceived
			order.ReceivedDate = &now
		} else {
			order.Status = models.POStatusPartiallyReceived
		}
		order.UpdatedAt = now

		if err := s.orderRepo.Update(ctx, order); err != nil {
			return nil, fmt.Errorf("update purchase order after receiving: %w", err)
		}
	}
	if err := s.receivingRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create receiving record: %w", err)
	}
	return record, nil
}

func (s *purchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.POStatusDraft && order.Status != models.POStatusSent {
		return nil, fmt.Errorf("%w: cannot cancel order %s in status %s", ErrInvalidTransition, order.OrderNumber, order.Status)
	}
	order.Status = models.POStatusCancelled
	order.UpdatedAt = time.Now()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update purchase order: %w", err)
	}
	return order, nil
}

func (s *purchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	return s.getOrder(ctx, orderID)
}

func (s *purchaseOrderService) List(ctx context.Context, status *models.PurchaseOrderStatus, limit, offset int) ([]*models.PurchaseOrder, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown purchase order status %q", ErrValidation, *status)
	}
	limit, offset = clampPage(limit, offset)
	return s.orderRepo.List(ctx, status, limit, offset)
}

func (s *purchaseOrderService) ListReceivings(ctx context.Context, orderID uuid.UUID) ([]*models.ReceivingRecord, error) {
	if _, err := s.getOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.receivingRepo.ListByPurchaseOrder(ctx, orderID)
}

func (s *purchaseOrderService) getOrder(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("load purchase order: %w", err)
	}
	return order, nil
}
