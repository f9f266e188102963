// Package redis implements store.Store on Redis. Records are JSON strings,
// unique fields are index keys guarded by WATCH/MULTI, visit counts are
// separate INCR counters.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// maxTxAttempts bounds optimistic-lock retries of a single write.
const maxTxAttempts = 32

// schemaVersion is written by Migrate.
const schemaVersion = "1"

// Store handles Redis operations for users and bookmarks
type Store struct {
	client *redis.Client
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// NewStore wraps a connected client. The store owns it from now on.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.client.SetNX(ctx, keySchema, schemaVersion, 0).Err(); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// watch runs fn under WATCH keys, retrying while another client touched them.
func (s *Store) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxAttempts; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxTxAttempts, redis.TxFailedErr)
}

// getID reads an index key holding an id. Missing keys map to store.ErrNotFound.
func getID(ctx context.Context, c redis.Cmdable, key string) (int64, error) {
	id, err := c.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return id, nil
}

// getJSON decodes the JSON value at key into v. Missing keys map to store.ErrNotFound.
func getJSON(ctx context.Context, c redis.Cmdable, key string, v any) error {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func parseIDs(members []string) ([]int64, error) {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt id %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
