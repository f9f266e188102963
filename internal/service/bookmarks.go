package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/shortcode"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Page is one slice of a user's bookmarks plus where it sits.
type Page struct {
	Items []*domain.Bookmark
	Meta  domain.PageMeta
}

// BookmarkService manages bookmarks on behalf of their owner.
// Every method is scoped to userID; other users' bookmarks look missing.
type BookmarkService struct {
	store          store.Bookmarks
	check          *checker
	defaultPerPage int
	maxPerPage     int
}

func NewBookmarkService(s store.Bookmarks, defaultPerPage, maxPerPage int) *BookmarkService {
	if defaultPerPage <= 0 {
		defaultPerPage = 5
	}
	return &BookmarkService{
		store:          s,
		check:          newChecker(),
		defaultPerPage: defaultPerPage,
		maxPerPage:     maxPerPage,
	}
}

func (s *BookmarkService) Create(ctx context.Context, userID int64, url, body string) (*domain.Bookmark, error) {
	if !s.check.httpURL(url) {
		return nil, domain.ErrURLInvalid
	}

	if _, err := s.store.BookmarkByURL(ctx, url); err == nil {
		return nil, domain.ErrURLTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup url: %w", err)
	}

	b := &domain.Bookmark{UserID: userID, URL: url, Body: body}
	if err := s.store.CreateBookmark(ctx, b, shortcode.Encode); err != nil {
		if store.ConflictField(err) == store.FieldURL {
			return nil, domain.ErrURLTaken
		}
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return b, nil
}

// List returns one page. page and perPage below 1 fall back to defaults,
// perPage is capped at the configured maximum.
func (s *BookmarkService) List(ctx context.Context, userID int64, page, perPage int) (*Page, error) {
	req := domain.NormalizePage(page, perPage, s.defaultPerPage, s.maxPerPage)

	items, total, err := s.store.ListBookmarks(ctx, userID, req.Offset(), req.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return &Page{Items: items, Meta: domain.Paginate(req, total)}, nil
}

func (s *BookmarkService) Get(ctx context.Context, userID, id int64) (*domain.Bookmark, error) {
	b, err := s.store.Bookmark(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrBookmarkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return b, nil
}

// Update replaces url and body. Existence is checked before the url so a
// missing bookmark is reported as such whatever the payload.
func (s *BookmarkService) Update(ctx context.Context, userID, id int64, url, body string) (*domain.Bookmark, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if !s.check.httpURL(url) {
		return nil, domain.ErrURLInvalid
	}

	b := &domain.Bookmark{ID: id, UserID: userID, URL: url, Body: body}
	err := s.store.UpdateBookmark(ctx, b)
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, domain.ErrBookmarkNotFound
	case store.ConflictField(err) == store.FieldURL:
		return nil, domain.ErrURLTaken
	default:
		return nil, fmt.Errorf("update bookmark: %w", err)
	}
}

func (s *BookmarkService) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.DeleteBookmark(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrBookmarkNotFound
	}
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// Stats lists the visit summary of every bookmark the user owns.
func (s *BookmarkService) Stats(ctx context.Context, userID int64) ([]domain.BookmarkStats, error) {
	all, err := s.store.UserBookmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("bookmark stats: %w", err)
	}
	out := make([]domain.BookmarkStats, 0, len(all))
	for _, b := range all {
		out = append(out, b.Stats())
	}
	return out, nil
}
