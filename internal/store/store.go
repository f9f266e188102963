// Package store defines the persistence contract shared by every backend
// (postgres, redis, badger, memory).
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned by the caller.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("store: conflict")
)

// Unique fields reported by ConflictError.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldURL      = "url"
	FieldShortURL = "short_url"
)

// ConflictError names the unique field that rejected a write.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: %s already exists", e.Field)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Conflict returns a ConflictError for field.
func Conflict(field string) error {
	return &ConflictError{Field: field}
}

// ConflictField returns the field of a ConflictError in err's chain, or "".
func ConflictField(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}

// ShortCodeFunc derives a bookmark's short_url from the id assigned by the store.
type ShortCodeFunc func(id int64) string

// Users persists accounts.
type Users interface {
	// CreateUser assigns u.ID and timestamps. Duplicate email or username
	// fails with a ConflictError.
	CreateUser(ctx context.Context, u *domain.User) error
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Bookmarks persists bookmarks. Every read or write that takes a userID is
// ownership-scoped: a bookmark of another user behaves as missing.
type Bookmarks interface {
	// CreateBookmark assigns b.ID, b.ShortURL (via code), b.Visits = 0 and
	// timestamps in one atomic write. A duplicate url fails with a ConflictError.
	CreateBookmark(ctx context.Context, b *domain.Bookmark, code ShortCodeFunc) error
	// BookmarkByURL looks up a url across all users.
	BookmarkByURL(ctx context.Context, url string) (*domain.Bookmark, error)
	Bookmark(ctx context.Context, userID, id int64) (*domain.Bookmark, error)
	// ListBookmarks returns the owner's bookmarks in ascending id order,
	// skipping offset and returning at most limit, plus the owner's total count.
	ListBookmarks(ctx context.Context, userID int64, offset, limit int) ([]*domain.Bookmark, int, error)
	// UserBookmarks returns all of the owner's bookmarks in ascending id order.
	UserBookmarks(ctx context.Context, userID int64) ([]*domain.Bookmark, error)
	// UpdateBookmark replaces url and body of the bookmark identified by
	// b.ID and b.UserID and bumps UpdatedAt. ShortURL, Visits and CreatedAt
	// are kept and written back into b.
	UpdateBookmark(ctx context.Context, b *domain.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, id int64) error
	// Visit atomically increments the visits of the bookmark with the given
	// short_url and returns it. Not ownership-scoped.
	Visit(ctx context.Context, shortURL string) (*domain.Bookmark, error)
}

// Store is a complete backend.
type Store interface {
	Users
	Bookmarks

	// Migrate creates the backend's schema if needed. Idempotent.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
