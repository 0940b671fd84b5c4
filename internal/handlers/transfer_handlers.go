package handlers

import (
	"net/http"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransferHandlers handles inter-location transfer HTTP requests.
type TransferHandlers struct {
	transferService services.TransferService
}

func NewTransferHandlers(transferService services.TransferService) *TransferHandlers {
	return &TransferHandlers{transferService: transferService}
}

// CreateTransferRequest represents the transfer request payload
type CreateTransferRequest struct {
	ItemID           uuid.UUID `json:"item_id"`
	FromLocationID   uuid.UUID `json:"from_location_id"`
	FromLocationName string    `json:"from_location_name"`
	ToLocationID     uuid.UUID `json:"to_location_id"`
	ToLocationName   string    `json:"to_location_name"`
	Quantity         int       `json:"quantity"`
	Notes            *string   `json:"notes"`
}

// CreateTransfer handles requesting a pending transfer
func (h *TransferHandlers) CreateTransfer(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req CreateTransferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.ItemID == uuid.Nil {
		return common.SendValidationError(c, "item_id is required")
	}

	transfer, err := h.transferService.Create(c.Request().Context(), services.CreateTransferInput{
		ItemID:           req.ItemID,
		FromLocationID:   req.FromLocationID,
		FromLocationName: req.FromLocationName,
		ToLocationID:     req.ToLocationID,
		ToLocationName:   req.ToLocationName,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
		Actor:            actor,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, transfer)
}

// CompleteTransfer handles executing a pending transfer
func (h *TransferHandlers) CompleteTransfer(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	transferID, err := common.ValidateUUID(c.Param("id"), "transfer id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	transfer, err := h.transferService.Complete(c.Request().Context(), transferID, actor)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, transfer)
}

// CancelTransfer handles cancelling a pending transfer
func (h *TransferHandlers) CancelTransfer(c echo.Context) error {
	transferID, err := common.ValidateUUID(c.Param("id"), "transfer id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	transfer, err := h.transferService.Cancel(c.Request().Context(), transferID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, transfer)
}

// GetTransfer handles getting transfer details by ID
func (h *TransferHandlers) GetTransfer(c echo.Context) error {
	transferID, err := common.ValidateUUID(c.Param("id"), "transfer id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	transfer, err := h.transferService.GetByID(c.Request().Context(), transferID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, transfer)
}

// ListTransfersRequest represents query parameters for listing transfers
type ListTransfersRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListTransfers handles listing transfers with optional status filter
func (h *TransferHandlers) ListTransfers(c echo.Context) error {
	var req ListTransfersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	var status *models.TransferStatus
	if req.Status != "" {
		s := models.TransferStatus(req.Status)
		status = &s
	}

	transfers, err := h.transferService.List(c.Request().Context(), status, req.Limit, req.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"transfers": transfers,
		"limit":     req.Limit,
		"offset":    req.Offset,
	})
}

// GetItemLocations handles reading an item's per-location balances
func (h *TransferHandlers) GetItemLocations(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	levels, err := h.transferService.GetStockByLocation(c.Request().Context(), itemID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"locations": levels,
	})
}
