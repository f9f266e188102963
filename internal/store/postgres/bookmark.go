package postgres

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

const bookmarkColumns = `id, url, short_url, body, visits, user_id, created_at, updated_at`

func scanBookmark(row rowScanner) (*domain.Bookmark, error) {
	var b domain.Bookmark
	if err := row.Scan(&b.ID, &b.URL, &b.ShortURL, &b.Body, &b.Visits, &b.UserID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}

// CreateBookmark reserves the id from the sequence first so the short code
// is written by the same INSERT.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark, code store.ShortCodeFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval(pg_get_serial_sequence('bookmarks', 'id'))`).Scan(&id); err != nil {
		return fmt.Errorf("failed to reserve bookmark id: %w", err)
	}

	now := s.now()
	short := code(id)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookmarks (id, url, short_url, body, visits, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $6)`,
		id, b.URL, short, b.Body, b.UserID, now,
	)
	if err != nil {
		return conflict(err)
	}
	if err := tx.Commit(); err != nil {
		return conflict(err)
	}

	b.ID = id
	b.ShortURL = short
	b.Visits = 0
	b.CreatedAt, b.UpdatedAt = now, now
	return nil
}

func (s *Store) BookmarkByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks WHERE url = $1`, url)
	return scanBookmark(row)
}

func (s *Store) Bookmark(ctx context.Context, userID, id int64) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = $1 AND user_id = $2`, id, userID)
	return scanBookmark(row)
}

func (s *Store) ListBookmarks(ctx context.Context, userID int64, offset, limit int) ([]*domain.Bookmark, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM bookmarks WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return []*domain.Bookmark{}, total, nil
	}
	if limit > total-offset {
		limit = total - offset
	}

	list, err := s.queryBookmarks(ctx, `
		SELECT `+bookmarkColumns+` FROM bookmarks
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Store) UserBookmarks(ctx context.Context, userID int64) ([]*domain.Bookmark, error) {
	return s.queryBookmarks(ctx, `
		SELECT `+bookmarkColumns+` FROM bookmarks
		WHERE user_id = $1
		ORDER BY id`, userID)
}

func (s *Store) queryBookmarks(ctx context.Context, query string, args ...any) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	row := s.db.QueryRowContext(ctx, `
		UPDATE bookmarks SET url = $1, body = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING `+bookmarkColumns,
		b.URL, b.Body, s.now(), b.ID, b.UserID,
	)
	got, err := scanBookmark(row)
	if err != nil {
		return conflict(err)
	}
	*b = *got
	return nil
}

func (s *Store) DeleteBookmark(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Visit is a single UPDATE; the row lock serializes concurrent increments.
func (s *Store) Visit(ctx context.Context, shortURL string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE bookmarks SET visits = visits + 1
		WHERE short_url = $1
		RETURNING `+bookmarkColumns, shortURL)
	return scanBookmark(row)
}
