package repositories

import (
	"context"
	"errors"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransferRepository interface {
	Create(ctx context.Context, transfer *models.StockTransfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error)
	Update(ctx context.Context, transfer *models.StockTransfer) error
	List(ctx context.Context, status *models.TransferStatus, limit, offset int) ([]*models.StockTransfer, error)
}

type transferRepo struct {
	db DB
}

func NewTransferRepository(db DB) TransferRepository {
	return &transferRepo{db: db}
}

func (r *transferRepo) Create(ctx context.Context, transfer *models.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (id, item_id, from_location_id, from_location_name,
			to_location_id, to_location_name, quantity, status, notes,
			requested_by_id, requested_by_name, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query, transfer.ID, transfer.ItemID,
		transfer.FromLocationID, transfer.FromLocationName,
		transfer.ToLocationID, transfer.ToLocationName,
		transfer.Quantity, transfer.Status, transfer.Notes,
		transfer.RequestedBy.ID, transfer.RequestedBy.Name, transfer.RequestedAt)
	return err
}

func scanTransfer(row pgx.Row) (*models.StockTransfer, error) {
	transfer := &models.StockTransfer{}
	var completedByID *uuid.UUID
	var completedByName *string
	err := row.Scan(&transfer.ID, &transfer.ItemID,
		&transfer.FromLocationID, &transfer.FromLocationName,
		&transfer.ToLocationID, &transfer.ToLocationName,
		&transfer.Quantity, &transfer.Status, &transfer.Notes,
		&transfer.RequestedBy.ID, &transfer.RequestedBy.Name, &transfer.RequestedAt,
		&completedByID, &completedByName, &transfer.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	if completedByID != nil && completedByName != nil {
		transfer.CompletedBy = &models.Actor{ID: *completedByID, Name: *completedByName}
	}
	return transfer, nil
}

const transferColumns = `id, item_id, from_location_id, from_location_name,
	to_location_id, to_location_name, quantity, status, notes,
	requested_by_id, requested_by_name, requested_at,
	completed_by_id, completed_by_name, completed_at`

func (r *transferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_transfers WHERE id = $1`, transferColumns)
	return scanTransfer(r.db.QueryRow(ctx, query, id))
}

func (r *transferRepo) Update(ctx context.Context, transfer *models.StockTransfer) error {
	var completedByID *uuid.UUID
	var completedByName *string
	if transfer.CompletedBy != nil {
		completedByID = &transfer.CompletedBy.ID
		completedByName = &transfer.CompletedBy.Name
	}
	query := `
		UPDATE stock_transfers
		SET status = $1, notes = $2, completed_by_id = $3, completed_by_name = $4, completed_at = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, transfer.Status, transfer.Notes,
		completedByID, completedByName, transfer.CompletedAt, transfer.ID)
	return err
}

func (r *transferRepo) List(ctx context.Context, status *models.TransferStatus, limit, offset int) ([]*models.StockTransfer, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_transfers`, transferColumns)
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY requested_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*models.StockTransfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}
