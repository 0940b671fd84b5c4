package repositories

import (
	"context"
	"errors"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StocktakeRepository interface {
	Create(ctx context.Context, stocktake *models.Stocktake) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Stocktake, error)
	Update(ctx context.Context, stocktake *models.Stocktake) error
	UpdateItem(ctx context.Context, item *models.StocktakeItem) error
	List(ctx context.Context, limit, offset int) ([]*models.Stocktake, error)
}

type stocktakeRepo struct {
	db DB
}

func NewStocktakeRepository(db DB) StocktakeRepository {
	return &stocktakeRepo{db: db}
}

func (r *stocktakeRepo) Create(ctx context.Context, stocktake *models.Stocktake) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO stocktakes (id, name, description, status, total_items, counted_items,
			total_discrepancy, total_discrepancy_value, started_by_id, started_by_name,
			started_at, completed_by_id, completed_by_name, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULL, NULL, NULL)
	`
	_, err = tx.Exec(ctx, query, stocktake.ID, stocktake.Name, stocktake.Description,
		stocktake.Status, stocktake.TotalItems, stocktake.CountedItems,
		stocktake.TotalDiscrepancy, stocktake.TotalDiscrepancyValue,
		stocktake.StartedBy.ID, stocktake.StartedBy.Name, stocktake.StartedAt)
	if err != nil {
		return err
	}

	for _, line := range stocktake.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO stocktake_items (id, stocktake_id, item_id, expected_quantity,
				counted_quantity, cost_price, discrepancy, discrepancy_value, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, line.ID, stocktake.ID, line.ItemID, line.ExpectedQuantity,
			line.CountedQuantity, line.CostPrice, line.Discrepancy, line.DiscrepancyValue, line.Notes)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *stocktakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Stocktake, error) {
	stocktake := &models.Stocktake{}
	var completedByID *uuid.UUID
	var completedByName *string
	query := `
		SELECT id, name, description, status, total_items, counted_items, total_discrepancy,
			total_discrepancy_value, started_by_id, started_by_name, started_at,
			completed_by_id, completed_by_name, completed_at
		FROM stocktakes
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&stocktake.ID, &stocktake.Name,
		&stocktake.Description, &stocktake.Status, &stocktake.TotalItems,
		&stocktake.CountedItems, &stocktake.TotalDiscrepancy, &stocktake.TotalDiscrepancyValue,
		&stocktake.StartedBy.ID, &stocktake.StartedBy.Name, &stocktake.StartedAt,
		&completedByID, &completedByName, &stocktake.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	if completedByID != nil && completedByName != nil {
		stocktake.CompletedBy = &models.Actor{ID: *completedByID, Name: *completedByName}
	}

	items, err := r.loadItems(ctx, stocktake.ID)
	if err != nil {
		return nil, err
	}
	stocktake.Items = items
	return stocktake, nil
}

func (r *stocktakeRepo) loadItems(ctx context.Context, stocktakeID uuid.UUID) ([]*models.StocktakeItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, stocktake_id, item_id, expected_quantity, counted_quantity,
			cost_price, discrepancy, discrepancy_value, notes
		FROM stocktake_items
		WHERE stocktake_id = $1
		ORDER BY id
	`, stocktakeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.StocktakeItem
	for rows.Next() {
		line := &models.StocktakeItem{}
		if err := rows.Scan(&line.ID, &line.StocktakeID, &line.ItemID,
			&line.ExpectedQuantity, &line.CountedQuantity, &line.CostPrice,
			&line.Discrepancy, &line.DiscrepancyValue, &line.Notes); err != nil {
			return nil, err
		}
		items = append(items, line)
	}
	return items, rows.Err()
}

func (r *stocktakeRepo) Update(ctx context.Context, stocktake *models.Stocktake) error {
	var completedByID *uuid.UUID
	var completedByName *string
	if stocktake.CompletedBy != nil {
		completedByID = &stocktake.CompletedBy.ID
		completedByName = &stocktake.CompletedBy.Name
	}
	query := `
		UPDATE stocktakes
		SET status = $1, counted_items = $2, total_discrepancy = $3, total_discrepancy_value = $4,
			completed_by_id = $5, completed_by_name = $6, completed_at = $7
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, stocktake.Status, stocktake.CountedItems,
		stocktake.TotalDiscrepancy, stocktake.TotalDiscrepancyValue,
		completedByID, completedByName, stocktake.CompletedAt, stocktake.ID)
	return err
}

func (r *stocktakeRepo) UpdateItem(ctx context.Context, item *models.StocktakeItem) error {
	query := `
		UPDATE stocktake_items
		SET counted_quantity = $1, discrepancy = $2, discrepancy_value = $3, notes = $4
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, item.CountedQuantity, item.Discrepancy,
		item.DiscrepancyValue, item.Notes, item.ID)
	return err
}

func (r *stocktakeRepo) List(ctx context.Context, limit, offset int) ([]*models.Stocktake, error) {
	query := `
		SELECT id, name, description, status, total_items, counted_items, total_discrepancy,
			total_discrepancy_value, started_by_id, started_by_name, started_at,
			completed_by_id, completed_by_name, completed_at
		FROM stocktakes
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocktakes []*models.Stocktake
	for rows.Next() {
		stocktake := &models.Stocktake{}
		var completedByID *uuid.UUID
		var completedByName *string
		if err := rows.Scan(&stocktake.ID, &stocktake.Name, &stocktake.Description,
			&stocktake.Status, &stocktake.TotalItems, &stocktake.CountedItems,
			&stocktake.TotalDiscrepancy, &stocktake.TotalDiscrepancyValue,
			&stocktake.StartedBy.ID, &stocktake.StartedBy.Name, &stocktake.StartedAt,
			&completedByID, &completedByName, &stocktake.CompletedAt); err != nil {
			return nil, err
		}
		if completedByID != nil && completedByName != nil {
			stocktake.CompletedBy = &models.Actor{ID: *completedByID, Name: *completedByName}
		}
		stocktakes = append(stocktakes, stocktake)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(stocktakes) == 0 {
		return stocktakes, nil
	}
	// Item lines are loaded per stocktake; list sizes are small enough that the
	// extra round trips do not matter here.
	for _, stocktake := range stocktakes {
		items, err := r.loadItems(ctx, stocktake.ID)
		if err != nil {
			return nil, fmt.Errorf("load stocktake items: %w", err)
		}
		stocktake.Items = items
	}
	return stocktakes, nil
}
