package handlers

import (
	"net/http"

	"salonstock/internal/common"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

// StocktakeHandlers handles stocktake workflow HTTP requests.
type StocktakeHandlers struct {
	stocktakeService services.StocktakeService
}

func NewStocktakeHandlers(stocktakeService services.StocktakeService) *StocktakeHandlers {
	return &StocktakeHandlers{stocktakeService: stocktakeService}
}

// CreateStocktakeRequest represents the stocktake creation payload
type CreateStocktakeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateStocktake handles snapshotting a new stocktake
func (h *StocktakeHandlers) CreateStocktake(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req CreateStocktakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	stocktake, err := h.stocktakeService.Create(c.Request().Context(), req.Name, req.Description, actor)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, stocktake)
}

// UpdateStocktakeItemRequest represents one line count
type UpdateStocktakeItemRequest struct {
	CountedQuantity int    `json:"counted_quantity"`
	Notes           string `json:"notes"`
}

// UpdateStocktakeItem handles recording a count for one line
func (h *StocktakeHandlers) UpdateStocktakeItem(c echo.Context) error {
	stocktakeID, err := common.ValidateUUID(c.Param("id"), "stocktake id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}
	itemID, err := common.ValidateUUID(c.Param("itemId"), "item id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	var req UpdateStocktakeItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	stocktake, err := h.stocktakeService.UpdateItem(c.Request().Context(), stocktakeID, itemID, req.CountedQuantity, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stocktake)
}

// CompleteStocktakeRequest controls whether discrepancies get reconciled
type CompleteStocktakeRequest struct {
	ApplyAdjustments *bool `json:"apply_adjustments"`
}

// CompleteStocktake handles closing a stocktake, reconciling by default
func (h *StocktakeHandlers) CompleteStocktake(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	stocktakeID, err := common.ValidateUUID(c.Param("id"), "stocktake id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	var req CompleteStocktakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	applyAdjustments := true
	if req.ApplyAdjustments != nil {
		applyAdjustments = *req.ApplyAdjustments
	}

	stocktake, err := h.stocktakeService.Complete(c.Request().Context(), stocktakeID, actor, applyAdjustments)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stocktake)
}

// CancelStocktake handles abandoning an in-progress stocktake
func (h *StocktakeHandlers) CancelStocktake(c echo.Context) error {
	stocktakeID, err := common.ValidateUUID(c.Param("id"), "stocktake id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	stocktake, err := h.stocktakeService.Cancel(c.Request().Context(), stocktakeID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stocktake)
}

// GetStocktake handles getting stocktake details by ID
func (h *StocktakeHandlers) GetStocktake(c echo.Context) error {
	stocktakeID, err := common.ValidateUUID(c.Param("id"), "stocktake id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	stocktake, err := h.stocktakeService.GetByID(c.Request().Context(), stocktakeID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stocktake)
}

// ListStocktakesRequest represents query parameters for listing stocktakes
type ListStocktakesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListStocktakes handles listing stocktakes newest first
func (h *StocktakeHandlers) ListStocktakes(c echo.Context) error {
	var req ListStocktakesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	stocktakes, err := h.stocktakeService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stocktakes": stocktakes,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}
