package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/config"
	"github.com/rl1809/food-delivery/internal/port"
)

// Open connects the record store selected by cfg.StoreBackend. The returned
// close function releases the underlying connection.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (port.RecordStore, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
		return NewRedisAdapter(rdb, logger), rdb.Close, nil

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("connect mysql: %w", err)
		}
		store := NewMySQLAdapter(db, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info().Msg("connected to mysql")
		return store, db.Close, nil

	default:
		logger.Info().Str("dir", cfg.DataDir).Msg("using file store")
		return NewFileAdapter(cfg.DataDir, logger), func() error { return nil }, nil
	}
}
