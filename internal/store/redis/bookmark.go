package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// bookmarkRecord is the stored JSON. Visits live in VisitsKey.
type bookmarkRecord struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	ShortURL  string    `json:"short_url"`
	Body      string    `json:"body"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *bookmarkRecord) toDomain(visits int64) *domain.Bookmark {
	return &domain.Bookmark{
		ID:        r.ID,
		URL:       r.URL,
		ShortURL:  r.ShortURL,
		Body:      r.Body,
		Visits:    visits,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CreateBookmark stores b with its url, short code and owner index entries in one MULTI.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark, code store.ShortCodeFunc) error {
	urlKey := BookmarkURLKey(b.URL)

	return s.watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, urlKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check url: %w", err)
		}
		if n > 0 {
			return store.Conflict(store.FieldURL)
		}

		id, err := tx.Incr(ctx, keyBookmarkSeq).Result()
		if err != nil {
			return fmt.Errorf("failed to allocate bookmark id: %w", err)
		}
		short := code(id)
		shortKey := ShortURLKey(short)
		if n, err = tx.Exists(ctx, shortKey).Result(); err != nil {
			return fmt.Errorf("failed to check short url: %w", err)
		}
		if n > 0 {
			return store.Conflict(store.FieldShortURL)
		}

		now := s.now()
		rec := bookmarkRecord{
			ID:        id,
			URL:       b.URL,
			ShortURL:  short,
			Body:      b.Body,
			UserID:    b.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, BookmarkKey(id), data, 0)
			pipe.Set(ctx, urlKey, id, 0)
			pipe.Set(ctx, shortKey, id, 0)
			pipe.Set(ctx, VisitsKey(id), 0, 0)
			pipe.ZAdd(ctx, UserBookmarksKey(b.UserID), redis.Z{Score: float64(id), Member: id})
			return nil
		})
		if err != nil {
			return err
		}

		b.ID = id
		b.ShortURL = short
		b.Visits = 0
		b.CreatedAt, b.UpdatedAt = now, now
		return nil
	}, urlKey)
}

func (s *Store) BookmarkByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	id, err := getID(ctx, s.client, BookmarkURLKey(url))
	if err != nil {
		return nil, err
	}
	list, err := s.loadBookmarks(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, store.ErrNotFound
	}
	return list[0], nil
}

func (s *Store) Bookmark(ctx context.Context, userID, id int64) (*domain.Bookmark, error) {
	list, err := s.loadBookmarks(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 || !list[0].OwnedBy(userID) {
		return nil, store.ErrNotFound
	}
	return list[0], nil
}

func (s *Store) ListBookmarks(ctx context.Context, userID int64, offset, limit int) ([]*domain.Bookmark, int, error) {
	key := UserBookmarksKey(userID)
	total, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	if offset < 0 {
		offset = 0
	}
	if int64(offset) >= total || limit <= 0 {
		return []*domain.Bookmark{}, int(total), nil
	}
	stop := int64(-1)
	if int64(limit) < total-int64(offset) {
		stop = int64(offset + limit - 1)
	}

	members, err := s.client.ZRange(ctx, key, int64(offset), stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	ids, err := parseIDs(members)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.loadBookmarks(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return list, int(total), nil
}

func (s *Store) UserBookmarks(ctx context.Context, userID int64) ([]*domain.Bookmark, error) {
	members, err := s.client.ZRange(ctx, UserBookmarksKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	ids, err := parseIDs(members)
	if err != nil {
		return nil, err
	}
	return s.loadBookmarks(ctx, ids)
}

// UpdateBookmark rewrites url and body under WATCH of the record and the new url index key.
func (s *Store) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	bmKey := BookmarkKey(b.ID)
	newURLKey := BookmarkURLKey(b.URL)

	return s.watch(ctx, func(tx *redis.Tx) error {
		var rec bookmarkRecord
		if err := getJSON(ctx, tx, bmKey, &rec); err != nil {
			return err
		}
		if rec.UserID != b.UserID {
			return store.ErrNotFound
		}

		owner, err := getID(ctx, tx, newURLKey)
		switch {
		case err == nil && owner != rec.ID:
			return store.Conflict(store.FieldURL)
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return err
		}

		oldURL := rec.URL
		rec.URL = b.URL
		rec.Body = b.Body
		rec.UpdatedAt = s.now()
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark: %w", err)
		}

		var visits *redis.StringCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if oldURL != rec.URL {
				pipe.Del(ctx, BookmarkURLKey(oldURL))
				pipe.Set(ctx, newURLKey, rec.ID, 0)
			}
			pipe.Set(ctx, bmKey, data, 0)
			visits = pipe.Get(ctx, VisitsKey(rec.ID))
			return nil
		})
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		*b = *rec.toDomain(parseCount(visits.Val()))
		return nil
	}, bmKey, newURLKey)
}

func (s *Store) DeleteBookmark(ctx context.Context, userID, id int64) error {
	bmKey := BookmarkKey(id)

	return s.watch(ctx, func(tx *redis.Tx) error {
		var rec bookmarkRecord
		if err := getJSON(ctx, tx, bmKey, &rec); err != nil {
			return err
		}
		if rec.UserID != userID {
			return store.ErrNotFound
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, bmKey, BookmarkURLKey(rec.URL), ShortURLKey(rec.ShortURL), VisitsKey(id))
			pipe.ZRem(ctx, UserBookmarksKey(userID), id)
			return nil
		})
		return err
	}, bmKey)
}

// Visit increments the counter under WATCH of the short code, so a
// concurrent delete aborts the increment instead of resurrecting the counter.
func (s *Store) Visit(ctx context.Context, shortURL string) (*domain.Bookmark, error) {
	shortKey := ShortURLKey(shortURL)
	var out *domain.Bookmark

	err := s.watch(ctx, func(tx *redis.Tx) error {
		id, err := getID(ctx, tx, shortKey)
		if err != nil {
			return err
		}
		var rec bookmarkRecord
		if err := getJSON(ctx, tx, BookmarkKey(id), &rec); err != nil {
			return err
		}

		var incr *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, VisitsKey(id))
			return nil
		})
		if err != nil {
			return err
		}
		out = rec.toDomain(incr.Val())
		return nil
	}, shortKey)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// loadBookmarks fetches records and counters for ids with two MGETs,
// preserving order and skipping ids whose record is gone.
func (s *Store) loadBookmarks(ctx context.Context, ids []int64) ([]*domain.Bookmark, error) {
	out := make([]*domain.Bookmark, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	recKeys := make([]string, len(ids))
	visitKeys := make([]string, len(ids))
	for i, id := range ids {
		recKeys[i] = BookmarkKey(id)
		visitKeys[i] = VisitsKey(id)
	}

	recs, err := s.client.MGet(ctx, recKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}
	visits, err := s.client.MGet(ctx, visitKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get visit counters: %w", err)
	}

	for i, raw := range recs {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var rec bookmarkRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bookmark %d: %w", ids[i], err)
		}
		count, _ := visits[i].(string)
		out = append(out, rec.toDomain(parseCount(count)))
	}
	return out, nil
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
