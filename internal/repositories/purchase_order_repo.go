package repositories

import (
	"context"
	"errors"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *models.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	Update(ctx context.Context, order *models.PurchaseOrder) error
	List(ctx context.Context, status *models.PurchaseOrderStatus, limit, offset int) ([]*models.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db DB
}

func NewPurchaseOrderRepository(db DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, order *models.PurchaseOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO purchase_orders (id, order_number, supplier_id, supplier_name, status,
			subtotal, tax, shipping, total, order_date, expected_delivery_date, received_date,
			notes, created_by_id, created_by_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, order.ID, order.OrderNumber, order.SupplierID,
		order.SupplierName, order.Status, order.Subtotal, order.Tax, order.Shipping,
		order.Total, order.OrderDate, order.ExpectedDeliveryDate, order.ReceivedDate,
		order.Notes, order.CreatedBy.ID, order.CreatedBy.Name)
	if err != nil {
		return err
	}

	for _, line := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, item_id, quantity_ordered, quantity_received, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, line.ID, order.ID, line.ItemID, line.QuantityOrdered, line.QuantityReceived, line.UnitCost)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `
		SELECT id, order_number, supplier_id, supplier_name, status, subtotal, tax, shipping,
			total, order_date, expected_delivery_date, received_date, notes,
			created_by_id, created_by_name, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.OrderNumber,
		&order.SupplierID, &order.SupplierName, &order.Status, &order.Subtotal,
		&order.Tax, &order.Shipping, &order.Total, &order.OrderDate,
		&order.ExpectedDeliveryDate, &order.ReceivedDate, &order.Notes,
		&order.CreatedBy.ID, &order.CreatedBy.Name, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *purchaseOrderRepo) loadItems(ctx context.Context, orderID uuid.UUID) ([]*models.PurchaseOrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, purchase_order_id, item_id, quantity_ordered, quantity_received, unit_cost
		FROM purchase_order_items
		WHERE purchase_order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PurchaseOrderItem
	for rows.Next() {
		line := &models.PurchaseOrderItem{}
		if err := rows.Scan(&line.ID, &line.PurchaseOrderID, &line.ItemID,
			&line.QuantityOrdered, &line.QuantityReceived, &line.UnitCost); err != nil {
			return nil, err
		}
		items = append(items, line)
	}
	return items, rows.Err()
}

// Update persists the order header and line received quantities. Lines are
// never added or removed after creation.
func (r *purchaseOrderRepo) Update(ctx context.Context, order *models.PurchaseOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE purchase_orders
		SET status = $1, subtotal = $2, tax = $3, shipping = $4, total = $5,
			expected_delivery_date = $6, received_date = $7, notes = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err = tx.Exec(ctx, query, order.Status, order.Subtotal, order.Tax,
		order.Shipping, order.Total, order.ExpectedDeliveryDate, order.ReceivedDate,
		order.Notes, order.ID)
	if err != nil {
		return err
	}

	for _, line := range order.Items {
		_, err = tx.Exec(ctx, `
			UPDATE purchase_order_items SET quantity_received = $1 WHERE id = $2
		`, line.QuantityReceived, line.ID)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *purchaseOrderRepo) List(ctx context.Context, status *models.PurchaseOrderStatus, limit, offset int) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier_id, supplier_name, status, subtotal, tax, shipping,
			total, order_date, expected_delivery_date, received_date, notes,
			created_by_id, created_by_name, created_at, updated_at
		FROM purchase_orders
	`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY order_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.PurchaseOrder
	for rows.Next() {
		order := &models.PurchaseOrder{}
		if err := rows.Scan(&order.ID, &order.OrderNumber, &order.SupplierID,
			&order.SupplierName, &order.Status, &order.Subtotal, &order.Tax,
			&order.Shipping, &order.Total, &order.OrderDate, &order.ExpectedDeliveryDate,
			&order.ReceivedDate, &order.Notes, &order.CreatedBy.ID, &order.CreatedBy.Name,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}
