package handlers

import (
	"net/http"

	"salonstock/internal/common"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

// AlertHandlers handles low-stock alert and inventory stats HTTP requests.
type AlertHandlers struct {
	alertService services.AlertService
}

func NewAlertHandlers(alertService services.AlertService) *AlertHandlers {
	return &AlertHandlers{alertService: alertService}
}

// ListActiveAlerts handles listing unacknowledged alerts
func (h *AlertHandlers) ListActiveAlerts(c echo.Context) error {
	alerts, err := h.alertService.GetActiveAlerts(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts": alerts,
	})
}

// AcknowledgeAlert handles clearing one alert
func (h *AlertHandlers) AcknowledgeAlert(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	alertID, err := common.ValidateUUID(c.Param("id"), "alert id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	alert, err := h.alertService.AcknowledgeAlert(c.Request().Context(), alertID, actor)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, alert)
}

// RunAlertScan handles an on-demand low-stock scan
func (h *AlertHandlers) RunAlertScan(c echo.Context) error {
	created, err := h.alertService.GenerateLowStockAlerts(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts_created": created,
	})
}

// ListLowStockItems handles listing items at or under their threshold
func (h *AlertHandlers) ListLowStockItems(c echo.Context) error {
	items, err := h.alertService.GetLowStockItems(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// ListOutOfStockItems handles listing items with zero or negative stock
func (h *AlertHandlers) ListOutOfStockItems(c echo.Context) error {
	items, err := h.alertService.GetOutOfStockItems(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// GetInventoryStats handles the aggregate dashboard read
func (h *AlertHandlers) GetInventoryStats(c echo.Context) error {
	stats, err := h.alertService.GetInventoryStats(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// CreateReorderDrafts handles turning active alerts into draft purchase orders
func (h *AlertHandlers) CreateReorderDrafts(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	orders, err := h.alertService.CreateReorderDrafts(c.Request().Context(), actor)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"orders": orders,
	})
}
