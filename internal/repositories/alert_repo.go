package repositories

import (
	"context"
	"errors"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *models.LowStockAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LowStockAlert, error)
	GetUnacknowledged(ctx context.Context, itemID uuid.UUID, severity models.AlertSeverity) (*models.LowStockAlert, error)
	ListActive(ctx context.Context) ([]*models.LowStockAlert, error)
	Acknowledge(ctx context.Context, id uuid.UUID, actor models.Actor) error
}

type alertRepo struct {
	db DB
}

func NewAlertRepository(db DB) AlertRepository {
	return &alertRepo{db: db}
}

const alertColumns = `id, item_id, severity, current_stock, threshold, reorder_quantity,
	supplier_id, supplier_name, created_at, acknowledged_by_id, acknowledged_by_name, acknowledged_at`

func scanAlert(row pgx.Row) (*models.LowStockAlert, error) {
	alert := &models.LowStockAlert{}
	var ackByID *uuid.UUID
	var ackByName *string
	err := row.Scan(&alert.ID, &alert.ItemID, &alert.Severity, &alert.CurrentStock,
		&alert.Threshold, &alert.ReorderQuantity, &alert.SupplierID, &alert.SupplierName,
		&alert.CreatedAt, &ackByID, &ackByName, &alert.AcknowledgedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	if ackByID != nil && ackByName != nil {
		alert.AcknowledgedBy = &models.Actor{ID: *ackByID, Name: *ackByName}
	}
	return alert, nil
}

func (r *alertRepo) Create(ctx context.Context, alert *models.LowStockAlert) error {
	query := `
		INSERT INTO low_stock_alerts (id, item_id, severity, current_stock, threshold,
			reorder_quantity, supplier_id, supplier_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, alert.ID, alert.ItemID, alert.Severity,
		alert.CurrentStock, alert.Threshold, alert.ReorderQuantity,
		alert.SupplierID, alert.SupplierName, alert.CreatedAt)
	return err
}

func (r *alertRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.LowStockAlert, error) {
	query := fmt.Sprintf(`SELECT %s FROM low_stock_alerts WHERE id = $1`, alertColumns)
	return scanAlert(r.db.QueryRow(ctx, query, id))
}

func (r *alertRepo) GetUnacknowledged(ctx context.Context, itemID uuid.UUID, severity models.AlertSeverity) (*models.LowStockAlert, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM low_stock_alerts
		WHERE item_id = $1 AND severity = $2 AND acknowledged_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, alertColumns)
	return scanAlert(r.db.QueryRow(ctx, query, itemID, severity))
}

func (r *alertRepo) ListActive(ctx context.Context) ([]*models.LowStockAlert, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM low_stock_alerts
		WHERE acknowledged_at IS NULL
		ORDER BY created_at DESC
	`, alertColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*models.LowStockAlert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func (r *alertRepo) Acknowledge(ctx context.Context, id uuid.UUID, actor models.Actor) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE low_stock_alerts
		SET acknowledged_by_id = $1, acknowledged_by_name = $2, acknowledged_at = NOW()
		WHERE id = $3 AND acknowledged_at IS NULL
	`, actor.ID, actor.Name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
