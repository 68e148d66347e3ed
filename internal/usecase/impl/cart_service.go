package impl

import (
	"context"
	"log/slog"

	"blitzshop/config"
	deliverycontext "blitzshop/internal/delivery/context"
	"blitzshop/internal/domain/entity"
	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/repository"
	"blitzshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	config      *config.Config
	logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		config:      cfg,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the user's cart lines with current product data and the
// cart total. Lines always price at the product's current price; the order
// snapshot only happens at checkout.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	items, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}

	return srv.buildCartOutput(ctx, items)
}

// AddItem puts quantity units of a product into the cart, summing with any
// existing line for the same product.
func (srv *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*usecase.CartOutput, error) {
	if quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}
	if !product.IsActive {
		// A deactivated product is indistinguishable from a missing one here.
		return nil, domainerrors.ErrProductNotFound
	}

	existing, err := srv.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, repository.ErrCartItemNotFound) {
		return nil, errors.Wrap(err, "failed to find cart item")
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock {
		return nil, domainerrors.ErrInsufficientStock.WithDetails(product.Name)
	}

	if existing != nil {
		if err := srv.cartRepo.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, errors.Wrap(err, "failed to update cart item quantity")
		}
	} else {
		item := &entity.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := srv.cartRepo.Create(ctx, item); err != nil {
			return nil, errors.Wrap(err, "failed to create cart item")
		}
	}

	return srv.GetCart(ctx, userID)
}

// UpdateItemQuantity sets the quantity of an existing cart line. A quantity
// of zero removes the line.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*usecase.CartOutput, error) {
	if quantity < 0 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	item, err := srv.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := srv.cartRepo.Delete(ctx, item.ID); err != nil {
			return nil, errors.Wrap(err, "failed to delete cart item")
		}

		return srv.GetCart(ctx, userID)
	}

	product, err := srv.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductUnavailable
		}

		return nil, errors.Wrap(err, "failed to find product")
	}
	if quantity > product.Stock {
		return nil, domainerrors.ErrInsufficientStock.WithDetails(product.Name)
	}

	if err := srv.cartRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, errors.Wrap(err, "failed to update cart item quantity")
	}

	return srv.GetCart(ctx, userID)
}

// RemoveItem deletes a single line from the cart.
func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*usecase.CartOutput, error) {
	item, err := srv.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := srv.cartRepo.Delete(ctx, item.ID); err != nil {
		return nil, errors.Wrap(err, "failed to delete cart item")
	}

	return srv.GetCart(ctx, userID)
}

// ClearCart removes every line from the cart.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := srv.cartRepo.ClearByUser(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}

	return nil
}

// findOwnedItem loads a cart line and verifies it belongs to the user.
// Another user's line is reported as not found rather than forbidden.
func (srv *cartService) findOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*entity.CartItem, error) {
	item, err := srv.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, domainerrors.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item")
	}
	if item.UserID != userID {
		return nil, domainerrors.ErrCartItemNotFound
	}

	return item, nil
}

// buildCartOutput joins cart lines with their products and sums the total.
// Lines whose product has vanished or been deactivated are skipped rather
// than failing the read.
func (srv *cartService) buildCartOutput(ctx context.Context, items []*entity.CartItem) (*usecase.CartOutput, error) {
	output := &usecase.CartOutput{
		Lines: make([]usecase.CartLine, 0, len(items)),
		Total: decimal.Zero,
	}

	for _, item := range items {
		product, err := srv.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				srv.log(ctx).Warn("Cart line references missing product",
					slog.String("cartItemId", item.ID.String()),
					slog.String("productId", item.ProductID.String()),
				)

				continue
			}

			return nil, errors.Wrap(err, "failed to find product for cart line")
		}
		if !product.IsActive {
			srv.log(ctx).Warn("Cart line references deactivated product",
				slog.String("cartItemId", item.ID.String()),
				slog.String("productId", item.ProductID.String()),
			)

			continue
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		output.Lines = append(output.Lines, usecase.CartLine{
			Item:     item,
			Product:  product,
			Subtotal: subtotal,
		})
		output.Total = output.Total.Add(subtotal)
	}

	return output, nil
}
