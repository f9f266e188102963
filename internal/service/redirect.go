package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/shortcode"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// RedirectService resolves public short codes. It is not scoped to a user.
type RedirectService struct {
	store store.Bookmarks
}

func NewRedirectService(s store.Bookmarks) *RedirectService {
	return &RedirectService{store: s}
}

// Resolve counts one visit and returns the bookmark behind code.
// Codes that are not valid base62 never reach the store.
func (s *RedirectService) Resolve(ctx context.Context, code string) (*domain.Bookmark, error) {
	if !shortcode.Valid(code) {
		return nil, domain.ErrShortURLNotFound
	}

	b, err := s.store.Visit(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrShortURLNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("visit %s: %w", code, err)
	}
	return b, nil
}
