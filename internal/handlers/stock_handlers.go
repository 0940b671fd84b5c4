package handlers

import (
	"net/http"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// StockHandlers exposes the item registry and the ledger API.
type StockHandlers struct {
	itemService   services.StockItemService
	ledgerService services.LedgerService
}

func NewStockHandlers(itemService services.StockItemService, ledgerService services.LedgerService) *StockHandlers {
	return &StockHandlers{
		itemService:   itemService,
		ledgerService: ledgerService,
	}
}

// StockItemRequest represents the item create/update payload
type StockItemRequest struct {
	SKU                string          `json:"sku"`
	Barcode            *string         `json:"barcode"`
	Name               string          `json:"name"`
	LowStockThreshold  int             `json:"low_stock_threshold"`
	ReorderPoint       int             `json:"reorder_point"`
	ReorderQuantity    int             `json:"reorder_quantity"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	TrackStock         bool            `json:"track_stock"`
	Status             string          `json:"status"`
	CostPrice          decimal.Decimal `json:"cost_price"`
	RetailPrice        decimal.Decimal `json:"retail_price"`
	SupplierID         *uuid.UUID      `json:"supplier_id"`
	SupplierName       *string         `json:"supplier_name"`
}

func (r *StockItemRequest) toInput() services.StockItemInput {
	status := r.Status
	if status == "" {
		status = models.ItemStatusActive
	}
	return services.StockItemInput{
		SKU:                r.SKU,
		Barcode:            r.Barcode,
		Name:               r.Name,
		LowStockThreshold:  r.LowStockThreshold,
		ReorderPoint:       r.ReorderPoint,
		ReorderQuantity:    r.ReorderQuantity,
		AllowNegativeStock: r.AllowNegativeStock,
		TrackStock:         r.TrackStock,
		Status:             status,
		CostPrice:          r.CostPrice,
		RetailPrice:        r.RetailPrice,
		SupplierID:         r.SupplierID,
		SupplierName:       r.SupplierName,
	}
}

// CreateItem handles registering a new item from the catalog
func (h *StockHandlers) CreateItem(c echo.Context) error {
	var req StockItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.itemService.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem handles catalog edits of non-stock fields
func (h *StockHandlers) UpdateItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	var req StockItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.itemService.Update(c.Request().Context(), itemID, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// GetItem handles getting item details by ID
func (h *StockHandlers) GetItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	item, err := h.itemService.GetByID(c.Request().Context(), itemID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListItemsRequest represents query parameters for listing items
type ListItemsRequest struct {
	SKU    string `query:"sku"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListItems handles listing items, optionally looking one up by SKU
func (h *StockHandlers) ListItems(c echo.Context) error {
	var req ListItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	ctx := c.Request().Context()
	if req.SKU != "" {
		item, err := h.itemService.GetBySKU(ctx, req.SKU)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"items": []*models.StockItem{item},
		})
	}

	items, err := h.itemService.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// AdjustStockRequest represents the ledger mutation payload
type AdjustStockRequest struct {
	ItemID     uuid.UUID         `json:"item_id"`
	Delta      int               `json:"delta"`
	Reason     string            `json:"reason"`
	Note       *string           `json:"note"`
	LocationID *uuid.UUID        `json:"location_id"`
	Reference  *models.Reference `json:"reference"`
}

// AdjustStock handles a single ledger mutation
func (h *StockHandlers) AdjustStock(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.ItemID == uuid.Nil {
		return common.SendValidationError(c, "item_id is required")
	}

	adjustment, err := h.ledgerService.AdjustStock(c.Request().Context(), services.AdjustStockInput{
		ItemID:     req.ItemID,
		Delta:      req.Delta,
		Reason:     models.AdjustmentReason(req.Reason),
		Note:       req.Note,
		LocationID: req.LocationID,
		Actor:      actor,
		Reference:  req.Reference,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, adjustment)
}

// LedgerListRequest represents query parameters for ledger history reads
type LedgerListRequest struct {
	ItemID *uuid.UUID `query:"item_id"`
	Limit  int        `query:"limit"`
	Offset int        `query:"offset"`
}

// ListAdjustments handles reading the adjustment history
func (h *StockHandlers) ListAdjustments(c echo.Context) error {
	var req LedgerListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	adjustments, err := h.ledgerService.GetAdjustments(c.Request().Context(), req.ItemID, req.Limit, req.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"adjustments": adjustments,
	})
}

// ListMovements handles reading the movement history
func (h *StockHandlers) ListMovements(c echo.Context) error {
	var req LedgerListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	movements, err := h.ledgerService.GetMovements(c.Request().Context(), req.ItemID, req.Limit, req.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
	})
}
