package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/config"
)

const connectAttempts = 30

// DSN monta a string de conexão a partir das variáveis DATABASE_*
func DSN(defaultName string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&pool_max_conns=25&pool_min_conns=5",
		config.GetEnv("DATABASE_USER", "root"),
		config.GetEnv("DATABASE_PASSWORD", "pass"),
		config.GetEnv("DATABASE_HOST", "localhost"),
		config.GetEnv("DATABASE_PORT", "5432"),
		config.GetEnv("DATABASE_NAME", defaultName),
	)
}

// InitDB cria o pool de conexões e espera o banco ficar disponível
func InitDB(ctx context.Context, defaultName string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(DSN(defaultName))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	cfg.MaxConns = int32(config.GetEnvInt("DATABASE_MAX_CONNS", 10))
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	for i := 0; i < connectAttempts; i++ {
		if err := pool.Ping(ctx); err == nil {
			logger.Info("✅ Connected to database", zap.String("database", cfg.ConnConfig.Database))
			return pool, nil
		}
		logger.Info("⏳ Waiting for database...", zap.Int("attempt", i+1), zap.Int("max_attempts", connectAttempts))

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts", connectAttempts)
}
