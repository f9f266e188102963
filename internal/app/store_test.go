package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store/badger"
	"github.com/MrSnakeDoc/bookmarks/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	t.Run("memory", func(t *testing.T) {
		st, err := OpenStore(ctx, &config.Config{Store: config.StoreMemory}, log)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, st)
		assert.NoError(t, st.Close())
	})

	t.Run("badger", func(t *testing.T) {
		st, err := OpenStore(ctx, &config.Config{Store: config.StoreBadger, BadgerPath: t.TempDir()}, log)
		require.NoError(t, err)
		assert.IsType(t, &badger.Store{}, st)
		_, ok := st.(gcRunner)
		assert.True(t, ok, "badger store must expose RunGC")
		assert.NoError(t, st.Close())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			Store:               config.StoreRedis,
			RedisAddr:           mr.Addr(),
			RedisConnectTimeout: 2 * time.Second,
			RedisRetryInterval:  10 * time.Millisecond,
			RedisMaxWait:        100 * time.Millisecond,
			RedisPingTimeout:    time.Second,
		}
		st, err := OpenStore(ctx, cfg, log)
		require.NoError(t, err)
		assert.IsType(t, &redisstore.Store{}, st)
		assert.NoError(t, st.Ping(ctx))
		assert.NoError(t, st.Close())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := OpenStore(ctx, &config.Config{Store: "sqlite"}, log)
		assert.Error(t, err)
	})
}

func TestNewDeps(t *testing.T) {
	cfg := &config.Config{
		Store:          config.StoreMemory,
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		JWTIssuer:      "bookmarks",
		JWTAccessTTL:   time.Minute,
		JWTRefreshTTL:  time.Hour,
		BcryptCost:     4,
		DefaultPerPage: 5,
		MaxPerPage:     100,
	}
	d := NewDeps(cfg, logger.NewNop(), memory.New())

	require.NotNil(t, d.Auth)
	require.NotNil(t, d.Bookmarks)
	require.NotNil(t, d.Redirects)
	require.NotNil(t, d.Metrics)

	raw, err := d.Tokens.IssueAccess(1)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
