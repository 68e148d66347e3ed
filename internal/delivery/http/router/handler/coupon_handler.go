package handler

import (
	"log/slog"
	"net/http"
	"time"

	"blitzshop/internal/delivery/http/middleware"
	"blitzshop/internal/delivery/http/response"
	"blitzshop/internal/domain/entity"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CouponHandler holds dependencies for coupon-related handlers.
type CouponHandler struct {
	couponUC usecase.CouponUsecase
	logger   *slog.Logger
}

// NewCouponHandler is the constructor for CouponHandler, injected by Fx.
func NewCouponHandler(couponUC usecase.CouponUsecase, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		couponUC: couponUC,
		logger:   logger,
	}
}

// ValidateCouponRequest represents the request body for a coupon dry run.
type ValidateCouponRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}

// CreateCouponRequest represents the request body for creating a coupon.
type CreateCouponRequest struct {
	Code              string           `json:"code" validate:"required,max=50"`
	Description       string           `json:"description"`
	DiscountType      string           `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     decimal.Decimal  `json:"discount_value" validate:"required"`
	MinPurchase       *decimal.Decimal `json:"min_purchase"`
	MaxDiscount       *decimal.Decimal `json:"max_discount"`
	UsageLimit        *int             `json:"usage_limit"`
	UsageLimitPerUser *int             `json:"usage_limit_per_user"`
	ValidFrom         time.Time        `json:"valid_from" validate:"required"`
	ValidUntil        *time.Time       `json:"valid_until"`
	IsActive          bool             `json:"is_active"`
}

// UpdateCouponRequest represents the request body for updating a coupon.
// Absent fields are left unchanged; the code is immutable.
type UpdateCouponRequest struct {
	Description       *string          `json:"description"`
	DiscountValue     *decimal.Decimal `json:"discount_value"`
	MinPurchase       *decimal.Decimal `json:"min_purchase"`
	MaxDiscount       *decimal.Decimal `json:"max_discount"`
	UsageLimit        *int             `json:"usage_limit"`
	UsageLimitPerUser *int             `json:"usage_limit_per_user"`
	ValidUntil        *time.Time       `json:"valid_until"`
	IsActive          *bool            `json:"is_active"`
}

// ValidateCoupon handles the customer-facing coupon dry run against the
// current cart.
func (h *CouponHandler) ValidateCoupon(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req ValidateCouponRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid coupon input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.couponUC.ValidateCoupon(c.Request().Context(), userID, req.Code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Coupon validated")
}

// AdminCreateCoupon handles coupon creation.
func (h *CouponHandler) AdminCreateCoupon(c echo.Context) error {
	var req CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid coupon input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	coupon, err := h.couponUC.CreateCoupon(c.Request().Context(), middleware.GetActor(c), usecase.CreateCouponInput{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      entity.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		MinPurchase:       req.MinPurchase,
		MaxDiscount:       req.MaxDiscount,
		UsageLimit:        req.UsageLimit,
		UsageLimitPerUser: req.UsageLimitPerUser,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, coupon, "Coupon created successfully")
}

// AdminUpdateCoupon handles coupon configuration updates.
func (h *CouponHandler) AdminUpdateCoupon(c echo.Context) error {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid coupon ID")
	}

	var req UpdateCouponRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid coupon input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	coupon, err := h.couponUC.UpdateCoupon(c.Request().Context(), middleware.GetActor(c), couponID, usecase.UpdateCouponInput{
		Description:       req.Description,
		DiscountValue:     req.DiscountValue,
		MinPurchase:       req.MinPurchase,
		MaxDiscount:       req.MaxDiscount,
		UsageLimit:        req.UsageLimit,
		UsageLimitPerUser: req.UsageLimitPerUser,
		ValidUntil:        req.ValidUntil,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, coupon, "Coupon updated successfully")
}

// AdminListCoupons handles listing all coupons.
func (h *CouponHandler) AdminListCoupons(c echo.Context) error {
	output, err := h.couponUC.ListCoupons(c.Request().Context(), middleware.GetActor(c),
		queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Coupons retrieved successfully")
}

// AdminGetCoupon handles retrieving a single coupon.
func (h *CouponHandler) AdminGetCoupon(c echo.Context) error {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid coupon ID")
	}

	coupon, err := h.couponUC.GetCoupon(c.Request().Context(), middleware.GetActor(c), couponID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, coupon, "Coupon retrieved successfully")
}
