package calllog

import (
	"context"
	"fmt"

	"callsim/internal/config"
	"callsim/pkg/utils"
)

// OpenBackend builds the backend selected by cfg.Storage.Driver.
// The returned close func releases connections and is never nil.
func OpenBackend(ctx context.Context, cfg *config.Config) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return NewMemoryBackend(), noop, nil

	case config.DriverFile:
		b, err := NewFileBackend(cfg.Storage.Path)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil

	case config.DriverSQLite:
		db, err := utils.OpenSQLite(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("sqlite init failed: %w", err)
		}
		b := NewSQLBackend(db, DialectSQLite)
		if err := b.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("sqlite schema failed: %w", err)
		}
		return b, db.Close, nil

	case config.DriverPostgres:
		db, err := utils.OpenPostgres(ctx, cfg.PostgresDSN(), utils.PoolConfig{})
		if err != nil {
			return nil, noop, fmt.Errorf("postgres init failed: %w", err)
		}
		b := NewSQLBackend(db, DialectPostgres)
		if err := b.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("postgres schema failed: %w", err)
		}
		return b, db.Close, nil

	case config.DriverRedis:
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr(), Password: cfg.Redis.Password})
		if err != nil {
			return nil, noop, fmt.Errorf("redis init failed: %w", err)
		}
		return NewRedisBackend(rdb, cfg.Redis.Prefix), rdb.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
