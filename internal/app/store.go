package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	badgerstore "github.com/MrSnakeDoc/bookmarks/internal/store/badger"
	"github.com/MrSnakeDoc/bookmarks/internal/store/memory"
	"github.com/MrSnakeDoc/bookmarks/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
)

// OpenStore connects the backend selected by cfg.Store and brings its schema up to date.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	st, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to migrate %s store: %w", cfg.Store, err)
	}
	return st, nil
}

func openBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		log.Info("opening postgres store")
		st, err := postgres.Open(ctx, postgres.OptionsFromConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return st, nil

	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewStore(client), nil

	case config.StoreBadger:
		log.Info("opening badger store", logger.String("path", cfg.BadgerPath))
		st, err := badgerstore.Open(cfg.BadgerPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger: %w", err)
		}
		return st, nil

	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
