package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

type bookmarkRecord struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	ShortURL  string    `json:"short_url"`
	Body      string    `json:"body"`
	Visits    int64     `json:"visits"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *bookmarkRecord) toDomain() *domain.Bookmark {
	return &domain.Bookmark{
		ID:        r.ID,
		URL:       r.URL,
		ShortURL:  r.ShortURL,
		Body:      r.Body,
		Visits:    r.Visits,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func bookmarkKey(id int64) []byte { return key(prefixBookmark, idBytes(id)) }

func ownerKey(userID, id int64) []byte {
	return key(prefixUserBookmarks, idBytes(userID), idBytes(id))
}

func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark, code store.ShortCodeFunc) error {
	urlKey := key(prefixBookmarkURL, []byte(b.URL))

	var rec bookmarkRecord
	err := s.update(ctx, func(txn *badger.Txn) error {
		if ok, err := exists(txn, urlKey); err != nil || ok {
			if ok {
				return store.Conflict(store.FieldURL)
			}
			return err
		}

		id, err := nextID(txn, keyBookmarkSeq)
		if err != nil {
			return err
		}
		short := code(id)
		shortKey := key(prefixShortURL, []byte(short))
		if ok, err := exists(txn, shortKey); err != nil || ok {
			if ok {
				return store.Conflict(store.FieldShortURL)
			}
			return err
		}

		now := s.now()
		rec = bookmarkRecord{
			ID:        id,
			URL:       b.URL,
			ShortURL:  short,
			Body:      b.Body,
			UserID:    b.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := setJSON(txn, bookmarkKey(id), rec); err != nil {
			return err
		}
		if err := txn.Set(urlKey, idBytes(id)); err != nil {
			return err
		}
		if err := txn.Set(shortKey, idBytes(id)); err != nil {
			return err
		}
		return txn.Set(ownerKey(b.UserID, id), []byte{})
	})
	if err != nil {
		return err
	}

	*b = *rec.toDomain()
	return nil
}

func (s *Store) BookmarkByURL(_ context.Context, url string) (*domain.Bookmark, error) {
	var rec bookmarkRecord
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getID(txn, key(prefixBookmarkURL, []byte(url)))
		if err != nil {
			return err
		}
		return getJSON(txn, bookmarkKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (s *Store) Bookmark(_ context.Context, userID, id int64) (*domain.Bookmark, error) {
	var rec bookmarkRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, bookmarkKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, store.ErrNotFound
	}
	return rec.toDomain(), nil
}

// ListBookmarks walks the owner index keys only, then loads the selected records.
func (s *Store) ListBookmarks(_ context.Context, userID int64, offset, limit int) ([]*domain.Bookmark, int, error) {
	out := make([]*domain.Bookmark, 0)
	total := 0
	if offset < 0 {
		offset = 0
	}

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := key(prefixUserBookmarks, idBytes(userID))
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		var ids []int64
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if total >= offset && len(ids) < limit {
				k := it.Item().Key()
				ids = append(ids, int64(binary.BigEndian.Uint64(k[len(prefix):])))
			}
			total++
		}

		for _, id := range ids {
			var rec bookmarkRecord
			if err := getJSON(txn, bookmarkKey(id), &rec); err != nil {
				return err
			}
			out = append(out, rec.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) UserBookmarks(ctx context.Context, userID int64) ([]*domain.Bookmark, error) {
	out, _, err := s.ListBookmarks(ctx, userID, 0, int(^uint(0)>>1))
	return out, err
}

func (s *Store) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	var rec bookmarkRecord
	err := s.update(ctx, func(txn *badger.Txn) error {
		if err := getJSON(txn, bookmarkKey(b.ID), &rec); err != nil {
			return err
		}
		if rec.UserID != b.UserID {
			return store.ErrNotFound
		}

		newURLKey := key(prefixBookmarkURL, []byte(b.URL))
		owner, err := getID(txn, newURLKey)
		switch {
		case err == nil && owner != rec.ID:
			return store.Conflict(store.FieldURL)
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return err
		}

		if rec.URL != b.URL {
			if err := txn.Delete(key(prefixBookmarkURL, []byte(rec.URL))); err != nil {
				return err
			}
			if err := txn.Set(newURLKey, idBytes(rec.ID)); err != nil {
				return err
			}
		}
		rec.URL = b.URL
		rec.Body = b.Body
		rec.UpdatedAt = s.now()
		return setJSON(txn, bookmarkKey(rec.ID), rec)
	})
	if err != nil {
		return err
	}

	*b = *rec.toDomain()
	return nil
}

func (s *Store) DeleteBookmark(ctx context.Context, userID, id int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var rec bookmarkRecord
		if err := getJSON(txn, bookmarkKey(id), &rec); err != nil {
			return err
		}
		if rec.UserID != userID {
			return store.ErrNotFound
		}

		for _, k := range [][]byte{
			bookmarkKey(id),
			key(prefixBookmarkURL, []byte(rec.URL)),
			key(prefixShortURL, []byte(rec.ShortURL)),
			ownerKey(userID, id),
		} {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Visit is a read-modify-write; concurrent visits conflict and retry in update.
func (s *Store) Visit(ctx context.Context, shortURL string) (*domain.Bookmark, error) {
	var rec bookmarkRecord
	err := s.update(ctx, func(txn *badger.Txn) error {
		id, err := getID(txn, key(prefixShortURL, []byte(shortURL)))
		if err != nil {
			return err
		}
		if err := getJSON(txn, bookmarkKey(id), &rec); err != nil {
			return err
		}
		rec.Visits++
		return setJSON(txn, bookmarkKey(id), rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}
