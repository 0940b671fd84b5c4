package repositories

import (
	"context"
	"errors"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReceivingRepository interface {
	Create(ctx context.Context, record *models.ReceivingRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReceivingRecord, error)
	ListByPurchaseOrder(ctx context.Context, orderID uuid.UUID) ([]*models.ReceivingRecord, error)
	SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error
}

type receivingRepo struct {
	db DB
}

func NewReceivingRepository(db DB) ReceivingRepository {
	return &receivingRepo{db: db}
}

func (r *receivingRepo) Create(ctx context.Context, record *models.ReceivingRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO receiving_records (id, purchase_order_id, order_number, supplier_id,
			supplier_name, notes, document_key, received_by_id, received_by_name, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query, record.ID, record.PurchaseOrderID, record.OrderNumber,
		record.SupplierID, record.SupplierName, record.Notes, record.DocumentKey,
		record.ReceivedBy.ID, record.ReceivedBy.Name, record.ReceivedAt)
	if err != nil {
		return err
	}

	for _, line := range record.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO receiving_record_lines (id, receiving_record_id, item_id,
				quantity_expected, quantity_received, notes, error)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, line.ID, record.ID, line.ItemID, line.QuantityExpected, line.QuantityReceived,
			line.Notes, line.Error)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *receivingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ReceivingRecord, error) {
	record := &models.ReceivingRecord{}
	query := `
		SELECT id, purchase_order_id, order_number, supplier_id, supplier_name, notes,
			document_key, received_by_id, received_by_name, received_at
		FROM receiving_records
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&record.ID, &record.PurchaseOrderID,
		&record.OrderNumber, &record.SupplierID, &record.SupplierName, &record.Notes,
		&record.DocumentKey, &record.ReceivedBy.ID, &record.ReceivedBy.Name, &record.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}

	lines, err := r.loadLines(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Lines = lines
	return record, nil
}

func (r *receivingRepo) loadLines(ctx context.Context, recordID uuid.UUID) ([]*models.ReceivingRecordLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, receiving_record_id, item_id, quantity_expected, quantity_received, notes, error
		FROM receiving_record_lines
		WHERE receiving_record_id = $1
		ORDER BY id
	`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.ReceivingRecordLine
	for rows.Next() {
		line := &models.ReceivingRecordLine{}
		if err := rows.Scan(&line.ID, &line.ReceivingRecordID, &line.ItemID,
			&line.QuantityExpected, &line.QuantityReceived, &line.Notes, &line.Error); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *receivingRepo) ListByPurchaseOrder(ctx context.Context, orderID uuid.UUID) ([]*models.ReceivingRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, purchase_order_id, order_number, supplier_id, supplier_name, notes,
			document_key, received_by_id, received_by_name, received_at
		FROM receiving_records
		WHERE purchase_order_id = $1
		ORDER BY received_at ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ReceivingRecord
	for rows.Next() {
		record := &models.ReceivingRecord{}
		if err := rows.Scan(&record.ID, &record.PurchaseOrderID, &record.OrderNumber,
			&record.SupplierID, &record.SupplierName, &record.Notes, &record.DocumentKey,
			&record.ReceivedBy.ID, &record.ReceivedBy.Name, &record.ReceivedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, record := range records {
		lines, err := r.loadLines(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		record.Lines = lines
	}
	return records, nil
}

func (r *receivingRepo) SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE receiving_records SET document_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
