package handlers

import (
	"net/http"
	"time"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PurchaseOrderHandlers handles purchase-order lifecycle HTTP requests.
type PurchaseOrderHandlers struct {
	orderService    services.PurchaseOrderService
	documentService services.DocumentService
}

func NewPurchaseOrderHandlers(orderService services.PurchaseOrderService, documentService services.DocumentService) *PurchaseOrderHandlers {
	return &PurchaseOrderHandlers{
		orderService:    orderService,
		documentService: documentService,
	}
}

// CreatePurchaseOrderRequest represents the order creation payload
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID       `json:"supplier_id"`
	SupplierName         string          `json:"supplier_name"`
	Tax                  decimal.Decimal `json:"tax"`
	Shipping             decimal.Decimal `json:"shipping"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	Notes                string          `json:"notes"`
	Lines                []struct {
		ItemID          uuid.UUID       `json:"item_id"`
		QuantityOrdered int             `json:"quantity_ordered"`
		UnitCost        decimal.Decimal `json:"unit_cost"`
	} `json:"lines"`
}

// CreatePurchaseOrder handles creating a draft order
func (h *PurchaseOrderHandlers) CreatePurchaseOrder(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req CreatePurchaseOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.SupplierID == uuid.Nil {
		return common.SendValidationError(c, "supplier_id is required")
	}

	input := services.CreatePurchaseOrderInput{
		SupplierID:           req.SupplierID,
		SupplierName:         req.SupplierName,
		Tax:                  req.Tax,
		Shipping:             req.Shipping,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		Actor:                actor,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, services.PurchaseOrderLineInput{
			ItemID:          line.ItemID,
			QuantityOrdered: line.QuantityOrdered,
			UnitCost:        line.UnitCost,
		})
	}

	order, err := h.orderService.Create(c.Request().Context(), input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// SendPurchaseOrder handles the draft to sent transition
func (h *PurchaseOrderHandlers) SendPurchaseOrder(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	order, err := h.orderService.Send(c.Request().Context(), orderID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ReceivePurchaseOrderRequest represents one receiving action
type ReceivePurchaseOrderRequest struct {
	Notes string `json:"notes"`
	Lines []struct {
		ItemID           uuid.UUID  `json:"item_id"`
		QuantityReceived int        `json:"quantity_received"`
		LocationID       *uuid.UUID `json:"location_id"`
		Notes            string     `json:"notes"`
	} `json:"lines"`
}

// ReceivePurchaseOrder handles booking a delivery against an order
func (h *PurchaseOrderHandlers) ReceivePurchaseOrder(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	var req ReceivePurchaseOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	var lines []services.ReceiveLineInput
	for _, line := range req.Lines {
		lines = append(lines, services.ReceiveLineInput{
			ItemID:           line.ItemID,
			QuantityReceived: line.QuantityReceived,
			LocationID:       line.LocationID,
			Notes:            line.Notes,
		})
	}

	record, err := h.orderService.Receive(c.Request().Context(), orderID, lines, actor, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, record)
}

// CancelPurchaseOrder handles cancellation from draft or sent
func (h *PurchaseOrderHandlers) CancelPurchaseOrder(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	order, err := h.orderService.Cancel(c.Request().Context(), orderID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// GetPurchaseOrder handles getting order details by ID
func (h *PurchaseOrderHandlers) GetPurchaseOrder(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	order, err := h.orderService.GetByID(c.Request().Context(), orderID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListPurchaseOrdersRequest represents query parameters for listing orders
type ListPurchaseOrdersRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListPurchaseOrders handles listing orders with optional status filter
func (h *PurchaseOrderHandlers) ListPurchaseOrders(c echo.Context) error {
	var req ListPurchaseOrdersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	var status *models.PurchaseOrderStatus
	if req.Status != "" {
		s := models.PurchaseOrderStatus(req.Status)
		status = &s
	}

	orders, err := h.orderService.List(c.Request().Context(), status, req.Limit, req.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// ListReceivings handles listing the receiving records of an order
func (h *PurchaseOrderHandlers) ListReceivings(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	records, err := h.orderService.ListReceivings(c.Request().Context(), orderID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"receiving_records": records,
	})
}

// AttachReceivingDocument handles uploading a delivery note scan against a
// receiving record
func (h *PurchaseOrderHandlers) AttachReceivingDocument(c echo.Context) error {
	recordID, err := common.ValidateUUID(c.Param("recordId"), "receiving record id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	file, err := c.FormFile("document")
	if err != nil {
		return common.SendValidationError(c, "document file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.documentService.AttachReceivingDocument(c.Request().Context(),
		recordID, file.Filename, contentType, src, file.Size)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"document_key": key})
}

// GetReceivingDocumentURL hands out a presigned download link
func (h *PurchaseOrderHandlers) GetReceivingDocumentURL(c echo.Context) error {
	recordID, err := common.ValidateUUID(c.Param("recordId"), "receiving record id")
	if err != nil {
		return common.SendValidationError(c, err.Error())
	}

	url, err := h.documentService.GetDocumentURL(c.Request().Context(), recordID, 15*time.Minute)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
