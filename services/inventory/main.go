package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/config"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/database"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/external"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/httpmetrics"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/logging"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/telemetry"
)

const serviceName = "inventory-service"

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

	// Initialize database
	dbPool, err := database.InitDB(ctx, "inventory_db", logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbPool.Close()

	repository := NewStockRepository(dbPool)
	usecases := NewStockUseCase(repository, logger)
	handler := NewStockHandler(usecases, logger)

	registry := prometheus.NewRegistry()
	r := setupRouter(handler, httpmetrics.NewServerMetrics("inventory", registry), registry)

	port := config.GetEnv("PORT", "8080")
	logger.Info("🚀 Inventory Service listening", zap.String("port", port))

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

func setupRouter(handler *StockHandler, metrics *httpmetrics.ServerMetrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(metrics.Middleware())

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(httpmetrics.Handler(registry)))

	r.POST(external.AvailabilityPath, handler.CheckAvailability)
	r.POST(external.DebitPath, handler.Debit)

	return r
}
