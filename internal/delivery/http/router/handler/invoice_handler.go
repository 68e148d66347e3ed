package handler

import (
	"log/slog"
	"net/http"

	"blitzshop/internal/delivery/http/middleware"
	"blitzshop/internal/delivery/http/response"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InvoiceHandler holds dependencies for invoice-related handlers.
type InvoiceHandler struct {
	invoiceUC usecase.InvoiceUsecase
	logger    *slog.Logger
}

// NewInvoiceHandler is the constructor for InvoiceHandler, injected by Fx.
func NewInvoiceHandler(invoiceUC usecase.InvoiceUsecase, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceUC: invoiceUC,
		logger:    logger,
	}
}

// ListMyInvoices handles listing the current user's invoices.
func (h *InvoiceHandler) ListMyInvoices(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	output, err := h.invoiceUC.ListMyInvoices(c.Request().Context(), userID,
		queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Invoices retrieved successfully")
}

// GetInvoice handles retrieving a single invoice.
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid invoice ID")
	}

	invoice, err := h.invoiceUC.GetInvoice(c.Request().Context(), middleware.GetActor(c), invoiceID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, invoice, "Invoice retrieved successfully")
}

// GetInvoiceByOrder handles retrieving the invoice issued for an order.
func (h *InvoiceHandler) GetInvoiceByOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	invoice, err := h.invoiceUC.GetInvoiceByOrder(c.Request().Context(), middleware.GetActor(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, invoice, "Invoice retrieved successfully")
}
