package repositories

import (
	"context"
	"errors"
	"fmt"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoRows is returned by lookups that match nothing. Services translate it
// into their own not-found error.
var ErrNoRows = errors.New("no rows found")

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies it
// too, which keeps repository tests off a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type StockItemRepository interface {
	Create(ctx context.Context, item *models.StockItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	GetBySKU(ctx context.Context, sku string) (*models.StockItem, error)
	Update(ctx context.Context, item *models.StockItem) error
	List(ctx context.Context, limit, offset int) ([]*models.StockItem, error)
	ListActiveTracked(ctx context.Context) ([]*models.StockItem, error)
	GetLevels(ctx context.Context, itemID uuid.UUID) ([]*models.StockLevel, error)
	UpsertLevel(ctx context.Context, level *models.StockLevel) error
	Stats(ctx context.Context) (*models.InventoryStats, error)
}

type stockItemRepo struct {
	db DB
}

func NewStockItemRepository(db DB) StockItemRepository {
	return &stockItemRepo{db: db}
}

const stockItemColumns = `id, sku, barcode, name, current_stock, low_stock_threshold,
	reorder_point, reorder_quantity, allow_negative_stock, track_stock, status,
	cost_price, retail_price, supplier_id, supplier_name, created_at, updated_at`

func scanStockItem(row pgx.Row) (*models.StockItem, error) {
	item := &models.StockItem{}
	err := row.Scan(&item.ID, &item.SKU, &item.Barcode, &item.Name, &item.CurrentStock,
		&item.LowStockThreshold, &item.ReorderPoint, &item.ReorderQuantity,
		&item.AllowNegativeStock, &item.TrackStock, &item.Status,
		&item.CostPrice, &item.RetailPrice, &item.SupplierID, &item.SupplierName,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	return item, nil
}

func (r *stockItemRepo) Create(ctx context.Context, item *models.StockItem) error {
	query := `
		INSERT INTO stock_items (id, sku, barcode, name, current_stock, low_stock_threshold,
			reorder_point, reorder_quantity, allow_negative_stock, track_stock, status,
			cost_price, retail_price, supplier_id, supplier_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.SKU, item.Barcode, item.Name,
		item.CurrentStock, item.LowStockThreshold, item.ReorderPoint, item.ReorderQuantity,
		item.AllowNegativeStock, item.TrackStock, item.Status,
		item.CostPrice, item.RetailPrice, item.SupplierID, item.SupplierName)
	return err
}

func (r *stockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_items WHERE id = $1`, stockItemColumns)
	return scanStockItem(r.db.QueryRow(ctx, query, id))
}

func (r *stockItemRepo) GetBySKU(ctx context.Context, sku string) (*models.StockItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_items WHERE LOWER(sku) = LOWER($1)`, stockItemColumns)
	return scanStockItem(r.db.QueryRow(ctx, query, sku))
}

func (r *stockItemRepo) Update(ctx context.Context, item *models.StockItem) error {
	query := `
		UPDATE stock_items
		SET sku = $1, barcode = $2, name = $3, low_stock_threshold = $4, reorder_point = $5,
			reorder_quantity = $6, allow_negative_stock = $7, track_stock = $8, status = $9,
			cost_price = $10, retail_price = $11, supplier_id = $12, supplier_name = $13,
			updated_at = NOW()
		WHERE id = $14
	`
	_, err := r.db.Exec(ctx, query, item.SKU, item.Barcode, item.Name,
		item.LowStockThreshold, item.ReorderPoint, item.ReorderQuantity,
		item.AllowNegativeStock, item.TrackStock, item.Status,
		item.CostPrice, item.RetailPrice, item.SupplierID, item.SupplierName, item.ID)
	return err
}

func (r *stockItemRepo) List(ctx context.Context, limit, offset int) ([]*models.StockItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_items
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`, stockItemColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStockItems(rows)
}

func (r *stockItemRepo) ListActiveTracked(ctx context.Context) ([]*models.StockItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_items
		WHERE status = 'active' AND track_stock = true
		ORDER BY name ASC
	`, stockItemColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStockItems(rows)
}

func collectStockItems(rows pgx.Rows) ([]*models.StockItem, error) {
	var items []*models.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *stockItemRepo) GetLevels(ctx context.Context, itemID uuid.UUID) ([]*models.StockLevel, error) {
	query := `
		SELECT item_id, location_id, location_name, quantity, last_updated
		FROM stock_levels
		WHERE item_id = $1
		ORDER BY location_name ASC
	`
	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*models.StockLevel
	for rows.Next() {
		level := &models.StockLevel{}
		if err := rows.Scan(&level.ItemID, &level.LocationID, &level.LocationName,
			&level.Quantity, &level.LastUpdated); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

// Stats aggregates inventory totals in one query. Value sums cover active
// items only; low/out-of-stock counts cover active, stock-tracked items.
func (r *stockItemRepo) Stats(ctx context.Context) (*models.InventoryStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'inactive'),
			COUNT(*) FILTER (WHERE status = 'active' AND track_stock AND current_stock <= 0),
			COUNT(*) FILTER (WHERE status = 'active' AND track_stock AND current_stock > 0 AND current_stock <= low_stock_threshold),
			COALESCE(SUM(cost_price * current_stock) FILTER (WHERE status = 'active'), 0),
			COALESCE(SUM(retail_price * current_stock) FILTER (WHERE status = 'active'), 0)
		FROM stock_items
	`
	stats := &models.InventoryStats{}
	err := r.db.QueryRow(ctx, query).Scan(&stats.TotalProducts, &stats.ActiveCount,
		&stats.InactiveCount, &stats.OutOfStockCount, &stats.LowStockCount,
		&stats.TotalValue, &stats.TotalRetailValue)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *stockItemRepo) UpsertLevel(ctx context.Context, level *models.StockLevel) error {
	query := `
		INSERT INTO stock_levels (item_id, location_id, location_name, quantity, last_updated)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, location_name = EXCLUDED.location_name, last_updated = NOW()
	`
	_, err := r.db.Exec(ctx, query, level.ItemID, level.LocationID, level.LocationName, level.Quantity)
	return err
}
