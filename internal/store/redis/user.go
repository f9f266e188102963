package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

type userRecord struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CreateUser stores u and its email/username index keys in one MULTI.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	emailKey := UserEmailKey(u.Email)
	nameKey := UserNameKey(u.Username)

	return s.watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, emailKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if n > 0 {
			return store.Conflict(store.FieldEmail)
		}
		if n, err = tx.Exists(ctx, nameKey).Result(); err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if n > 0 {
			return store.Conflict(store.FieldUsername)
		}

		id, err := tx.Incr(ctx, keyUserSeq).Result()
		if err != nil {
			return fmt.Errorf("failed to allocate user id: %w", err)
		}
		now := s.now()
		rec := userRecord{
			ID:           id,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, UserKey(id), data, 0)
			pipe.Set(ctx, emailKey, id, 0)
			pipe.Set(ctx, nameKey, id, 0)
			return nil
		})
		if err != nil {
			return err
		}

		u.ID = id
		u.CreatedAt, u.UpdatedAt = now, now
		return nil
	}, emailKey, nameKey)
}

func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	var rec userRecord
	if err := getJSON(ctx, s.client, UserKey(id), &rec); err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := getID(ctx, s.client, UserEmailKey(email))
	if err != nil {
		return nil, err
	}
	return s.UserByID(ctx, id)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	id, err := getID(ctx, s.client, UserNameKey(username))
	if err != nil {
		return nil, err
	}
	return s.UserByID(ctx, id)
}
