package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

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

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	emailKey := key(prefixUserEmail, []byte(u.Email))
	nameKey := key(prefixUserName, []byte(u.Username))

	var rec userRecord
	err := s.update(ctx, func(txn *badger.Txn) error {
		if ok, err := exists(txn, emailKey); err != nil || ok {
			if ok {
				return store.Conflict(store.FieldEmail)
			}
			return err
		}
		if ok, err := exists(txn, nameKey); err != nil || ok {
			if ok {
				return store.Conflict(store.FieldUsername)
			}
			return err
		}

		id, err := nextID(txn, keyUserSeq)
		if err != nil {
			return err
		}
		now := s.now()
		rec = userRecord{
			ID:           id,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := setJSON(txn, key(prefixUser, idBytes(id)), rec); err != nil {
			return err
		}
		if err := txn.Set(emailKey, idBytes(id)); err != nil {
			return err
		}
		return txn.Set(nameKey, idBytes(id))
	})
	if err != nil {
		return err
	}

	u.ID = rec.ID
	u.CreatedAt, u.UpdatedAt = rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (s *Store) UserByID(_ context.Context, id int64) (*domain.User, error) {
	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, key(prefixUser, idBytes(id)), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.userByIndex(key(prefixUserEmail, []byte(email)))
}

func (s *Store) UserByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.userByIndex(key(prefixUserName, []byte(username)))
}

func (s *Store) userByIndex(indexKey []byte) (*domain.User, error) {
	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getID(txn, indexKey)
		if err != nil {
			return err
		}
		return getJSON(txn, key(prefixUser, idBytes(id)), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}
