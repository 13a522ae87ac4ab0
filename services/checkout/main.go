package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/checkout"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/config"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/database"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/external"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/httpmetrics"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/logging"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/pricing"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/telemetry"
)

const serviceName = "checkout-service"

// collaborators agrupa as dependências externas da saga
type collaborators struct {
	customers checkout.CustomerLookup
	carts     checkout.CartLookup
	stock     checkout.StockService
	payment   checkout.PaymentService
	close     func()
}

func main() {
	logger, err := logging.New(serviceName)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize OpenTelemetry
	tp, err := telemetry.InitTracer(ctx, serviceName)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	mp, err := telemetry.InitMetrics(ctx, serviceName)
	if err != nil {
		logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down meter", zap.Error(err))
		}
	}()

	deps, err := newCollaborators(ctx, config.GetEnv("COLLABORATORS", "http"), logger)
	if err != nil {
		logger.Fatal("Failed to initialize collaborators", zap.Error(err))
	}
	defer deps.close()

	// Initialize dependencies
	calculator := pricing.NewCalculator()
	useCase := checkout.NewCheckoutUseCase(deps.customers, deps.carts, deps.stock, deps.payment, calculator, logger)
	handler := NewCheckoutHandler(useCase, calculator, tp.Tracer(serviceName), logger)

	registry := prometheus.NewRegistry()
	r := setupRouter(handler, httpmetrics.NewServerMetrics("checkout", registry), registry)

	port := config.GetEnv("PORT", "8080")
	logger.Info("🚀 Checkout Service listening", zap.String("port", port))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func setupRouter(handler *CheckoutHandler, metrics *httpmetrics.ServerMetrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(metrics.Middleware())

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(httpmetrics.Handler(registry)))

	r.POST("/api/checkout", handler.FinalizePurchase)
	r.POST("/api/quotes", handler.Quote)
	r.POST("/api/totals", handler.CalculateTotal)
	r.GET("/api/carts/:cartID/total", handler.CartTotal)

	return r
}

// newCollaborators escolhe entre os serviços HTTP com Postgres e os dublês em memória
func newCollaborators(ctx context.Context, mode string, logger *zap.Logger) (*collaborators, error) {
	if mode == "stub" {
		logger.Info("ℹ️ Using in-memory collaborators")
		return newStubCollaborators(), nil
	}

	dbPool, err := database.InitDB(ctx, "checkout_db", logger)
	if err != nil {
		return nil, err
	}

	timeout := config.GetEnvDuration("HTTP_CLIENT_TIMEOUT", 5*time.Second)
	return &collaborators{
		customers: checkout.NewCustomerRepository(dbPool),
		carts:     checkout.NewCartRepository(dbPool),
		stock:     external.NewStockClient(config.GetEnv("STOCK_SERVICE_URL", "http://inventory-service:8080"), timeout),
		payment:   external.NewPaymentClient(config.GetEnv("PAYMENTS_SERVICE_URL", "http://payments-service:8080"), timeout),
		close:     dbPool.Close,
	}, nil
}

// newStubCollaborators monta um catálogo de demonstração com um cliente e um carrinho
func newStubCollaborators() *collaborators {
	store := checkout.NewMemoryStore()
	store.SaveCustomer(&domain.Customer{
		ID:          1,
		Name:        "Cliente Demo",
		Region:      domain.RegionSoutheast,
		LoyaltyTier: domain.LoyaltyBronze,
	})

	price := decimal.RequireFromString("10.00")
	weight := decimal.RequireFromString("1.0")
	zero := decimal.Zero
	fragile := false
	quantity := int64(3)
	store.SaveCart(&domain.Cart{
		ID:         1,
		CustomerID: 1,
		Items: []*domain.CartItem{{
			ID: 1,
			Product: &domain.Product{
				ID:             1,
				Name:           "Livro",
				Price:          &price,
				PhysicalWeight: &weight,
				Length:         &zero,
				Width:          &zero,
				Height:         &zero,
				Fragile:        &fragile,
				Type:           domain.ProductTypeBook,
			},
			Quantity: &quantity,
		}},
	})

	return &collaborators{
		customers: store,
		carts:     store,
		stock:     external.NewStockStub(map[int64]int64{1: 100}),
		payment:   external.NewPaymentStub(),
		close:     func() {},
	}
}
