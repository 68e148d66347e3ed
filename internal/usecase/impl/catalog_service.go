package impl

import (
	"context"
	"log/slog"

	"blitzshop/config"
	deliverycontext "blitzshop/internal/delivery/context"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/domain/service"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	authorizer  service.Authorizer
	config      *config.Config
	logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	authorizer service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		authorizer:  authorizer,
		config:      cfg,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// isCatalogAdmin reports whether the actor may manage the catalog.
func (srv *catalogService) isCatalogAdmin(actor *service.Actor) bool {
	if actor == nil {
		return false
	}

	return srv.authorizer.Authorize(*actor, service.ActionManage, service.Resource{Kind: "product"}) == nil
}

// ListProducts returns a page of products. Non-admin listings only ever see
// active products, regardless of the requested filter.
func (srv *catalogService) ListProducts(ctx context.Context, actor *service.Actor, input usecase.ListProductsInput) (*usecase.ProductListOutput, error) {
	page, pageSize, offset := normalizePaging(srv.config, input.Page, input.PageSize)

	filter := repository.ProductFilter{
		Category:        input.Category,
		Search:          input.Search,
		IncludeInactive: input.IncludeInactive && srv.isCatalogAdmin(actor),
	}

	products, total, err := srv.productRepo.List(ctx, filter, offset, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return &usecase.ProductListOutput{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetProduct returns a single product with its review summary. Inactive
// products are visible to admins only.
func (srv *catalogService) GetProduct(ctx context.Context, actor *service.Actor, productID uuid.UUID) (*usecase.ProductDetailOutput, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	if !product.IsActive && !srv.isCatalogAdmin(actor) {
		// Deactivated products disappear from the public surface.
		return nil, domainerrors.ErrProductNotFound
	}

	avg, err := srv.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute average rating")
	}

	_, reviewCount, err := srv.reviewRepo.ListByProduct(ctx, productID, 0, 1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count reviews")
	}

	return &usecase.ProductDetailOutput{
		Product:       product,
		AverageRating: avg,
		ReviewCount:   reviewCount,
	}, nil
}

// CreateProduct adds a product to the catalog.
func (srv *catalogService) CreateProduct(ctx context.Context, actor service.Actor, input usecase.CreateProductInput) (*entity.Product, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "product"}); err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("product name is required")
	}
	if input.Price.IsNegative() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("stock must not be negative")
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Stock:       input.Stock,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created",
		slog.String("productId", product.ID.String()),
		slog.String("name", product.Name),
	)

	return product, nil
}

// UpdateProduct modifies a product. Nil input fields are left unchanged.
func (srv *catalogService) UpdateProduct(ctx context.Context, actor service.Actor, productID uuid.UUID, input usecase.UpdateProductInput) (*entity.Product, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "product"}); err != nil {
		return nil, err
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domainerrors.ErrValidationFailed.WithDetails("product name is required")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// AdjustStock adds delta to a product's stock, clamping at zero.
func (srv *catalogService) AdjustStock(ctx context.Context, actor service.Actor, productID uuid.UUID, delta int) (*entity.Product, error) {
	if err := srv.authorizer.Authorize(actor, service.ActionManage, service.Resource{Kind: "product"}); err != nil {
		return nil, err
	}

	if err := srv.productRepo.AdjustStock(ctx, productID, delta); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to adjust stock")
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload product")
	}

	srv.log(ctx).Info("Stock adjusted",
		slog.String("productId", productID.String()),
		slog.Int("delta", delta),
		slog.Int("stock", product.Stock),
	)

	return product, nil
}
