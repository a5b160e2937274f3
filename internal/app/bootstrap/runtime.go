package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	appconfig "autoshop/internal/config"
	"autoshop/pkg/logging"
)

// OpenPgxPool opens the primary pgx connection pool.
func OpenPgxPool(ctx context.Context, cfg *appconfig.Config) (*pgxpool.Pool, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("bootstrap: database url is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping database: %w", err)
	}
	return pool, nil
}

// OpenSQLDB opens a database/sql handle over the pgx stdlib driver. Used
// by the repositories built on database/sql.
func OpenSQLDB(ctx context.Context, cfg *appconfig.Config) (*sql.DB, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("bootstrap: database url is required")
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open sql db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap: ping sql db: %w", err)
	}
	return db, nil
}

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, catalog cache disabled", "error", err)
		return nil
	}
	return client
}
