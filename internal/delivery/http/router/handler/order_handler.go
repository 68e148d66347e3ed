package handler

import (
	"log/slog"
	"net/http"

	"blitzshop/internal/delivery/http/middleware"
	"blitzshop/internal/delivery/http/response"
	"blitzshop/internal/domain/entity"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	CheckoutUC usecase.CheckoutUsecase
	OrderUC    usecase.OrderUsecase
	PaymentUC  usecase.PaymentUsecase
	Logger     *slog.Logger
}

// OrderHandler holds dependencies for checkout, order and payment handlers.
// The three usecases share the order resource so they live behind one
// handler.
type OrderHandler struct {
	checkoutUC usecase.CheckoutUsecase
	orderUC    usecase.OrderUsecase
	paymentUC  usecase.PaymentUsecase
	logger     *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		checkoutUC: params.CheckoutUC,
		orderUC:    params.OrderUC,
		paymentUC:  params.PaymentUC,
		logger:     params.Logger,
	}
}

// CheckoutRequest represents the request body for converting the cart into
// an order.
type CheckoutRequest struct {
	CouponCode      string `json:"coupon_code"`
	ShippingAddress string `json:"shipping_address" validate:"required,max=500"`
	BillingAddress  string `json:"billing_address" validate:"omitempty,max=500"`
}

// UpdateOrderStatusRequest represents the request body for moving an order
// along its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout handles converting the current user's cart into an order.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.checkoutUC.Checkout(c.Request().Context(), usecase.CheckoutInput{
		UserID:          userID,
		CouponCode:      req.CouponCode,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order created successfully")
}

// ListMyOrders handles listing the current user's orders.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	output, err := h.orderUC.ListMyOrders(c.Request().Context(), userID, usecase.ListOrdersInput{
		Status:   entity.OrderStatus(c.QueryParam("status")),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Orders retrieved successfully")
}

// GetOrder handles retrieving a single order.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), middleware.GetActor(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// CancelOrder handles cancelling the current user's own order.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	order, err := h.orderUC.CancelOrder(c.Request().Context(), middleware.GetActor(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order cancelled successfully")
}

// CreatePaymentIntent handles registering an order with the payment gateway.
func (h *OrderHandler) CreatePaymentIntent(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	output, err := h.paymentUC.CreatePaymentIntent(c.Request().Context(), middleware.GetActor(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Payment intent created successfully")
}

// ConfirmPayment handles settling an order's payment and issuing its invoice.
func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	output, err := h.paymentUC.ConfirmPayment(c.Request().Context(), middleware.GetActor(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Payment confirmed successfully")
}

// AdminListOrders handles listing every user's orders.
func (h *OrderHandler) AdminListOrders(c echo.Context) error {
	output, err := h.orderUC.ListAllOrders(c.Request().Context(), middleware.GetActor(c), usecase.ListOrdersInput{
		Status:   entity.OrderStatus(c.QueryParam("status")),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Orders retrieved successfully")
}

// AdminUpdateStatus handles moving an order along its lifecycle.
func (h *OrderHandler) AdminUpdateStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), middleware.GetActor(c), orderID, entity.OrderStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated successfully")
}
