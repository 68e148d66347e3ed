package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"blitzshop/internal/delivery/http/middleware"
	"blitzshop/internal/delivery/http/response"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductHandler holds dependencies for catalog-related handlers, covering
// both the public browsing surface and the admin management surface.
type ProductHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(catalogUC usecase.CatalogUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalogUC: catalogUC,
		logger:    logger,
	}
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,max=100"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest represents the request body for updating a product.
// Absent fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
}

// AdjustStockRequest represents the request body for a stock adjustment.
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ListProducts handles the public catalog listing.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	input := usecase.ListProductsInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}

	output, err := h.catalogUC.ListProducts(c.Request().Context(), nil, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Products retrieved successfully")
}

// GetProduct handles the public single-product view.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	output, err := h.catalogUC.GetProduct(c.Request().Context(), nil, productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Product retrieved successfully")
}

// AdminListProducts handles the admin catalog listing, including inactive
// products.
func (h *ProductHandler) AdminListProducts(c echo.Context) error {
	actor := middleware.GetActor(c)

	input := usecase.ListProductsInput{
		Category:        c.QueryParam("category"),
		Search:          c.QueryParam("search"),
		Page:            queryInt(c, "page"),
		PageSize:        queryInt(c, "page_size"),
		IncludeInactive: true,
	}

	output, err := h.catalogUC.ListProducts(c.Request().Context(), &actor, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Products retrieved successfully")
}

// CreateProduct handles product creation.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), middleware.GetActor(c), usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// UpdateProduct handles product updates.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), middleware.GetActor(c), productID, usecase.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// AdjustStock handles manual stock adjustments.
func (h *ProductHandler) AdjustStock(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stock adjustment input")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.catalogUC.AdjustStock(c.Request().Context(), middleware.GetActor(c), productID, req.Delta)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Stock adjusted successfully")
}

// queryInt parses an integer query parameter, returning zero when absent or
// malformed so the usecase layer applies its defaults.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}

	return v
}
