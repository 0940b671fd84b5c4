package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"salonstock/internal/caching"
	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
)

const (
	statsCacheTTL  = 5 * time.Minute
	alertsCacheTTL = time.Minute
)

type AlertService interface {
	GenerateLowStockAlerts(ctx context.Context) (int, error)
	AcknowledgeAlert(ctx context.Context, alertID uuid.UUID, actor models.Actor) (*models.LowStockAlert, error)
	GetActiveAlerts(ctx context.Context) ([]*models.LowStockAlert, error)
	GetLowStockItems(ctx context.Context) ([]*models.StockItem, error)
	GetOutOfStockItems(ctx context.Context) ([]*models.StockItem, error)
	GetInventoryStats(ctx context.Context) (*models.InventoryStats, error)
	CreateReorderDrafts(ctx context.Context, actor models.Actor) ([]*models.PurchaseOrder, error)
}

type alertService struct {
	alertRepo repositories.AlertRepository
	itemRepo  repositories.StockItemRepository
	orders    PurchaseOrderService
	cacheSvc  caching.CacheService
}

func NewAlertService(alertRepo repositories.AlertRepository, itemRepo repositories.StockItemRepository,
	orders PurchaseOrderService, cacheSvc caching.CacheService) AlertService {
	return &alertService{
		alertRepo: alertRepo,
		itemRepo:  itemRepo,
		orders:    orders,
		cacheSvc:  cacheSvc,
	}
}

// GenerateLowStockAlerts scans all active, stock-tracked items and makes sure
// each one at or under its threshold has an unacknowledged alert of the right
// severity. Idempotent: an existing unacknowledged alert for the same item and
// severity is left alone. Alerts are never resolved here; acknowledgement is
// the only way to clear one. Returns the number of alerts created.
func (s *alertService) GenerateLowStockAlerts(ctx context.Context) (int, error) {
	items, err := s.itemRepo.ListActiveTracked(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stock items: %w", err)
	}

	created := 0
	for _, item := range items {
		severity, ok := severityFor(item)
		if !ok {
			continue
		}
		madeNew, err := s.ensureAlert(ctx, item, severity)
		if err != nil {
			return created, err
		}
		if madeNew {
			created++
		}
	}

	if created > 0 {
		if err := s.cacheSvc.DeleteActiveAlerts(ctx); err != nil {
			log.Printf("Failed to invalidate alert cache: %v", err)
		}
	}
	return created, nil
}

func severityFor(item *models.StockItem) (models.AlertSeverity, bool) {
	if item.CurrentStock <= 0 {
		return models.SeverityCritical, true
	}
	if item.CurrentStock <= item.LowStockThreshold {
		return models.SeverityWarning, true
	}
	return "", false
}

func (s *alertService) ensureAlert(ctx context.Context, item *models.StockItem, severity models.AlertSeverity) (bool, error) {
	_, err := s.alertRepo.GetUnacknowledged(ctx, item.ID, severity)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNoRows) {
		return false, fmt.Errorf("look up alert for item %s: %w", item.ID, err)
	}

	alert := &models.LowStockAlert{
		ID:              uuid.New(),
		ItemID:          item.ID,
		Severity:        severity,
		CurrentStock:    item.CurrentStock,
		Threshold:       item.LowStockThreshold,
		ReorderQuantity: item.ReorderQuantity,
		SupplierID:      item.SupplierID,
		SupplierName:    item.SupplierName,
		CreatedAt:       time.Now(),
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return false, fmt.Errorf("create alert for item %s: %w", item.ID, err)
	}
	return true, nil
}

func (s *alertService) AcknowledgeAlert(ctx context.Context, alertID uuid.UUID, actor models.Actor) (*models.LowStockAlert, error) {
	if err := s.alertRepo.Acknowledge(ctx, alertID, actor); err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("%w: unacknowledged alert %s", ErrNotFound, alertID)
		}
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}
	if err := s.cacheSvc.DeleteActiveAlerts(ctx); err != nil {
		log.Printf("Failed to invalidate alert cache: %v", err)
	}
	return s.alertRepo.GetByID(ctx, alertID)
}

func (s *alertService) GetActiveAlerts(ctx context.Context) ([]*models.LowStockAlert, error) {
	cached, err := s.cacheSvc.GetActiveAlerts(ctx)
	if err != nil {
		log.Printf("Failed to read alert cache: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	alerts, err := s.alertRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	if err := s.cacheSvc.SetActiveAlerts(ctx, alerts, alertsCacheTTL); err != nil {
		log.Printf("Failed to cache active alerts: %v", err)
	}
	return alerts, nil
}

func (s *alertService) GetLowStockItems(ctx context.Context) ([]*models.StockItem, error) {
	items, err := s.itemRepo.ListActiveTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	var low []*models.StockItem
	for _, item := range items {
		if item.CurrentStock > 0 && item.CurrentStock <= item.LowStockThreshold {
			low = append(low, item)
		}
	}
	return low, nil
}

func (s *alertService) GetOutOfStockItems(ctx context.Context) ([]*models.StockItem, error) {
	items, err := s.itemRepo.ListActiveTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	var out []*models.StockItem
	for _, item := range items {
		if item.CurrentStock <= 0 {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *alertService) GetInventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	cached, err := s.cacheSvc.GetInventoryStats(ctx)
	if err != nil {
		log.Printf("Failed to read stats cache: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	stats, err := s.itemRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute inventory stats: %w", err)
	}
	stats.ComputedAt = time.Now()
	if err := s.cacheSvc.SetInventoryStats(ctx, stats, statsCacheTTL); err != nil {
		log.Printf("Failed to cache inventory stats: %v", err)
	}
	return stats, nil
}

// CreateReorderDrafts turns the unacknowledged alerts into draft purchase
// orders, one per supplier, using each alert's reorder snapshot. Alerts
// without a supplier or a positive reorder quantity are skipped.
func (s *alertService) CreateReorderDrafts(ctx context.Context, actor models.Actor) ([]*models.PurchaseOrder, error) {
	alerts, err := s.alertRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}

	type supplierGroup struct {
		name  string
		lines []PurchaseOrderLineInput
	}
	groups := make(map[uuid.UUID]*supplierGroup)
	seen := make(map[uuid.UUID]bool)
	var supplierOrder []uuid.UUID

	for _, alert := range alerts {
		if alert.SupplierID == nil || alert.ReorderQuantity <= 0 || seen[alert.ItemID] {
			continue
		}
		seen[alert.ItemID] = true

		item, err := s.itemRepo.GetByID(ctx, alert.ItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("load stock item %s: %w", alert.ItemID, err)
		}

		group, ok := groups[*alert.SupplierID]
		if !ok {
			name := ""
			if alert.SupplierName != nil {
				name = *alert.SupplierName
			}
			group = &supplierGroup{name: name}
			groups[*alert.SupplierID] = group
			supplierOrder = append(supplierOrder, *alert.SupplierID)
		}
		group.lines = append(group.lines, PurchaseOrderLineInput{
			ItemID:          item.ID,
			QuantityOrdered: alert.ReorderQuantity,
			UnitCost:        item.CostPrice,
		})
	}

	var orders []*models.PurchaseOrder
	for _, supplierID := range supplierOrder {
		group := groups[supplierID]
		order, err := s.orders.Create(ctx, CreatePurchaseOrderInput{
			SupplierID:   supplierID,
			SupplierName: group.name,
			Lines:        group.lines,
			Notes:        "Reorder draft generated from low-stock alerts",
			Actor:        actor,
		})
		if err != nil {
			return orders, fmt.Errorf("create reorder draft for supplier %s: %w", supplierID, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
