package repositories

import (
	"context"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepository persists the append-only adjustment/movement ledger.
// Record and RecordTransfer run inside a single transaction so the item's
// current stock and the ledger entries change together or not at all.
type LedgerRepository interface {
	Record(ctx context.Context, adj *models.StockAdjustment, mv *models.StockMovement, level *models.StockLevel) error
	RecordTransfer(ctx context.Context, itemID uuid.UUID, out, in *models.StockMovement, from, to *models.StockLevel) error
	ListAdjustments(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error)
	ListMovements(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockMovement, error)
}

type ledgerRepo struct {
	db DB
}

func NewLedgerRepository(db DB) LedgerRepository {
	return &ledgerRepo{db: db}
}

func referenceColumns(ref *models.Reference) (*uuid.UUID, *string) {
	if ref == nil {
		return nil, nil
	}
	refType := string(ref.Type)
	return &ref.ID, &refType
}

func insertAdjustment(ctx context.Context, tx pgx.Tx, adj *models.StockAdjustment) error {
	refID, refType := referenceColumns(adj.Reference)
	query := `
		INSERT INTO stock_adjustments (id, item_id, previous_quantity, adjustment_quantity,
			new_quantity, reason, note, reference_id, reference_type, actor_id, actor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.Exec(ctx, query, adj.ID, adj.ItemID, adj.PreviousQuantity,
		adj.AdjustmentQuantity, adj.NewQuantity, adj.Reason, adj.Note,
		refID, refType, adj.Actor.ID, adj.Actor.Name, adj.CreatedAt)
	return err
}

func insertMovement(ctx context.Context, tx pgx.Tx, mv *models.StockMovement) error {
	refID, refType := referenceColumns(mv.Reference)
	query := `
		INSERT INTO stock_movements (id, item_id, movement_type, quantity, previous_stock,
			new_stock, reason, reference_id, reference_type, actor_id, actor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.Exec(ctx, query, mv.ID, mv.ItemID, mv.MovementType, mv.Quantity,
		mv.PreviousStock, mv.NewStock, mv.Reason, refID, refType,
		mv.Actor.ID, mv.Actor.Name, mv.CreatedAt)
	return err
}

func upsertLevelTx(ctx context.Context, tx pgx.Tx, level *models.StockLevel) error {
	query := `
		INSERT INTO stock_levels (item_id, location_id, location_name, quantity, last_updated)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, location_name = EXCLUDED.location_name, last_updated = NOW()
	`
	_, err := tx.Exec(ctx, query, level.ItemID, level.LocationID, level.LocationName, level.Quantity)
	return err
}

// Record applies one ledger mutation: the item's current stock, one adjustment
// row and one movement row, plus the touched location balance when the item is
// tracked by location.
func (r *ledgerRepo) Record(ctx context.Context, adj *models.StockAdjustment, mv *models.StockMovement, level *models.StockLevel) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE stock_items SET current_stock = $1, updated_at = NOW() WHERE id = $2`,
		adj.NewQuantity, adj.ItemID); err != nil {
		return fmt.Errorf("update current stock: %w", err)
	}
	if level != nil {
		if err := upsertLevelTx(ctx, tx, level); err != nil {
			return fmt.Errorf("update stock level: %w", err)
		}
	}
	if err := insertAdjustment(ctx, tx, adj); err != nil {
		return fmt.Errorf("append adjustment: %w", err)
	}
	if err := insertMovement(ctx, tx, mv); err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return tx.Commit(ctx)
}

// RecordTransfer redistributes location balances and appends the paired
// transfer movements. CurrentStock is recomputed from the levels inside the
// same transaction so the conservation invariant holds at commit.
func (r *ledgerRepo) RecordTransfer(ctx context.Context, itemID uuid.UUID, out, in *models.StockMovement, from, to *models.StockLevel) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := upsertLevelTx(ctx, tx, from); err != nil {
		return fmt.Errorf("update source level: %w", err)
	}
	if err := upsertLevelTx(ctx, tx, to); err != nil {
		return fmt.Errorf("update destination level: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE stock_items
		SET current_stock = (SELECT COALESCE(SUM(quantity), 0) FROM stock_levels WHERE item_id = $1),
			updated_at = NOW()
		WHERE id = $1
	`, itemID); err != nil {
		return fmt.Errorf("recompute current stock: %w", err)
	}
	if err := insertMovement(ctx, tx, out); err != nil {
		return fmt.Errorf("append transfer-out movement: %w", err)
	}
	if err := insertMovement(ctx, tx, in); err != nil {
		return fmt.Errorf("append transfer-in movement: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *ledgerRepo) ListAdjustments(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockAdjustment, error) {
	query := `
		SELECT id, item_id, previous_quantity, adjustment_quantity, new_quantity,
			reason, note, reference_id, reference_type, actor_id, actor_name, created_at
		FROM stock_adjustments
	`
	args := []interface{}{}
	if itemID != nil {
		query += ` WHERE item_id = $1`
		args = append(args, *itemID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []*models.StockAdjustment
	for rows.Next() {
		adj := &models.StockAdjustment{}
		var refID *uuid.UUID
		var refType *string
		if err := rows.Scan(&adj.ID, &adj.ItemID, &adj.PreviousQuantity,
			&adj.AdjustmentQuantity, &adj.NewQuantity, &adj.Reason, &adj.Note,
			&refID, &refType, &adj.Actor.ID, &adj.Actor.Name, &adj.CreatedAt); err != nil {
			return nil, err
		}
		if refID != nil && refType != nil {
			adj.Reference = &models.Reference{ID: *refID, Type: models.ReferenceType(*refType)}
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}

func (r *ledgerRepo) ListMovements(ctx context.Context, itemID *uuid.UUID, limit, offset int) ([]*models.StockMovement, error) {
	query := `
		SELECT id, item_id, movement_type, quantity, previous_stock, new_stock,
			reason, reference_id, reference_type, actor_id, actor_name, created_at
		FROM stock_movements
	`
	args := []interface{}{}
	if itemID != nil {
		query += ` WHERE item_id = $1`
		args = append(args, *itemID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.StockMovement
	for rows.Next() {
		mv := &models.StockMovement{}
		var refID *uuid.UUID
		var refType *string
		if err := rows.Scan(&mv.ID, &mv.ItemID, &mv.MovementType, &mv.Quantity,
			&mv.PreviousStock, &mv.NewStock, &mv.Reason, &refID, &refType,
			&mv.Actor.ID, &mv.Actor.Name, &mv.CreatedAt); err != nil {
			return nil, err
		}
		if refID != nil && refType != nil {
			mv.Reference = &models.Reference{ID: *refID, Type: models.ReferenceType(*refType)}
		}
		movements = append(movements, mv)
	}
	return movements, rows.Err()
}
