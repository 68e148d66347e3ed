package main

import (
	"context"
	"log/slog"
	"os"

	"blitzshop/config"
	"blitzshop/internal/delivery"
	"blitzshop/internal/delivery/http"
	"blitzshop/internal/delivery/http/middleware"
	"blitzshop/internal/delivery/http/router/handler"
	"blitzshop/internal/domain/service"
	"blitzshop/internal/infra/auth"
	"blitzshop/internal/infra/authz"
	logs "blitzshop/internal/infra/log"
	"blitzshop/internal/infra/payment"
	"blitzshop/internal/infra/persistence/postgres"
	"blitzshop/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewProductRepository,
			postgres.NewCartRepository,
			postgres.NewCouponRepository,
			postgres.NewOrderRepository,
			postgres.NewInvoiceRepository,
			postgres.NewReviewRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			authz.NewPolicy,
			newPaymentGateway,
		),
	)
}

// newPaymentGateway creates the payment gateway selected by configuration.
// Only the in-process sandbox gateway is available for now.
func newPaymentGateway(cfg *config.Config, logger *slog.Logger) service.PaymentGateway {
	return payment.NewSandboxGateway(logger)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewCatalogService,
			impl.NewCartService,
			impl.NewCouponService,
			impl.NewCheckoutService,
			impl.NewOrderService,
			impl.NewPaymentService,
			impl.NewInvoiceService,
			impl.NewReviewService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestContextMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewCouponHandler,
			handler.NewInvoiceHandler,
			handler.NewReviewHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
