// Package storetest is a conformance suite run by every store backend's tests.
package storetest

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/shortcode"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Factory returns an empty, migrated store. Cleanup is the caller's job (t.Cleanup).
type Factory func(t *testing.T) store.Store

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"CreateUser", testCreateUser},
		{"DuplicateUser", testDuplicateUser},
		{"UserLookupMissing", testUserLookupMissing},
		{"CreateBookmark", testCreateBookmark},
		{"DuplicateURL", testDuplicateURL},
		{"OwnershipScoping", testOwnershipScoping},
		{"ListBookmarks", testListBookmarks},
		{"ListBookmarksBounds", testListBookmarksBounds},
		{"UpdateBookmark", testUpdateBookmark},
		{"UpdateBookmarkURLConflict", testUpdateBookmarkURLConflict},
		{"DeleteBookmark", testDeleteBookmark},
		{"Visit", testVisit},
		{"ConcurrentVisits", testConcurrentVisits},
		{"MigrateIdempotent", testMigrateIdempotent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func mustUser(t *testing.T, s store.Store, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "$2a$04$notarealhashnotarealhashnotarealhashnotarealhash",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustBookmark(t *testing.T, s store.Store, userID int64, url string) *domain.Bookmark {
	t.Helper()
	b := &domain.Bookmark{UserID: userID, URL: url, Body: "note for " + url}
	require.NoError(t, s.CreateBookmark(context.Background(), b, shortcode.Encode))
	return b
}

func testCreateUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	assert.Positive(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.False(t, u.UpdatedAt.IsZero())

	byEmail, err := s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "alice", byEmail.Username)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)

	byName, err := s.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.WithinDuration(t, u.CreatedAt, byID.CreatedAt, time.Millisecond)

	other := mustUser(t, s, "bob")
	assert.NotEqual(t, u.ID, other.ID)
}

func testDuplicateUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustUser(t, s, "alice")

	err := s.CreateUser(ctx, &domain.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, store.FieldEmail, store.ConflictField(err))

	err = s.CreateUser(ctx, &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, store.FieldUsername, store.ConflictField(err))

	// The rejected writes must not leave partial index entries behind.
	_, err = s.UserByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UserByUsername(ctx, "alice2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testUserLookupMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.UserByID(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testCreateBookmark(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	b := mustBookmark(t, s, u.ID, "https://example.com")
	assert.Positive(t, b.ID)
	assert.Equal(t, shortcode.Encode(b.ID), b.ShortURL)
	assert.Zero(t, b.Visits)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := s.Bookmark(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, b.ShortURL, got.ShortURL)
	assert.Equal(t, "note for https://example.com", got.Body)
	assert.Equal(t, u.ID, got.UserID)

	byURL, err := s.BookmarkByURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byURL.ID)

	_, err = s.BookmarkByURL(ctx, "https://missing.example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	b2 := mustBookmark(t, s, u.ID, "https://example.org")
	assert.NotEqual(t, b.ShortURL, b2.ShortURL)
}

func testDuplicateURL(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	mustBookmark(t, s, alice.ID, "https://example.com")

	err := s.CreateBookmark(ctx, &domain.Bookmark{UserID: bob.ID, URL: "https://example.com"}, shortcode.Encode)
	require.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, store.FieldURL, store.ConflictField(err))

	list, total, err := s.ListBookmarks(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func testOwnershipScoping(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	b := mustBookmark(t, s, alice.ID, "https://alice.example.com")

	_, err := s.Bookmark(ctx, bob.ID, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.UpdateBookmark(ctx, &domain.Bookmark{ID: b.ID, UserID: bob.ID, URL: "https://bob.example.com"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteBookmark(ctx, bob.ID, b.ID), store.ErrNotFound)

	all, err := s.UserBookmarks(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, all)

	still, err := s.Bookmark(ctx, alice.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://alice.example.com", still.URL)
}

func testListBookmarks(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	var ids []int64
	for i := 0; i < 7; i++ {
		b := mustBookmark(t, s, alice.ID, fmt.Sprintf("https://example.com/%d", i))
		ids = append(ids, b.ID)
		mustBookmark(t, s, bob.ID, fmt.Sprintf("https://bob.example.com/%d", i))
	}

	page, total, err := s.ListBookmarks(ctx, alice.ID, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, page, 5)
	for i, b := range page {
		assert.Equal(t, ids[i], b.ID)
		assert.Equal(t, alice.ID, b.UserID)
	}

	page, total, err = s.ListBookmarks(ctx, alice.ID, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[5], page[0].ID)
	assert.Equal(t, ids[6], page[1].ID)

	page, total, err = s.ListBookmarks(ctx, alice.ID, 50, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Empty(t, page)

	all, err := s.UserBookmarks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, all, 7)
	for i, b := range all {
		assert.Equal(t, ids[i], b.ID)
	}
}

func testListBookmarksBounds(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	for i := 0; i < 3; i++ {
		mustBookmark(t, s, u.ID, fmt.Sprintf("https://example.com/%d", i))
	}

	far := domain.NormalizePage((1<<61)+1, 5, 5, 100)
	tests := []struct {
		name          string
		offset, limit int
		want          int
	}{
		{name: "page far past the end", offset: far.Offset(), limit: far.PerPage, want: 0},
		{name: "max offset", offset: math.MaxInt, limit: 100, want: 0},
		{name: "negative offset reads from the start", offset: -10, limit: 2, want: 2},
		{name: "limit at the cap", offset: 0, limit: 100, want: 3},
		{name: "limit far above the cap", offset: 1, limit: math.MaxInt, want: 2},
		{name: "zero limit", offset: 0, limit: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total, err := s.ListBookmarks(ctx, u.ID, tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			assert.Len(t, page, tt.want)
		})
	}
}

func testUpdateBookmark(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	b := mustBookmark(t, s, u.ID, "https://example.com")
	_, err := s.Visit(ctx, b.ShortURL)
	require.NoError(t, err)

	upd := &domain.Bookmark{ID: b.ID, UserID: u.ID, URL: "https://example.org", Body: "changed"}
	require.NoError(t, s.UpdateBookmark(ctx, upd))
	assert.Equal(t, b.ShortURL, upd.ShortURL)
	assert.Equal(t, int64(1), upd.Visits)
	assert.WithinDuration(t, b.CreatedAt, upd.CreatedAt, time.Millisecond)
	assert.False(t, upd.UpdatedAt.Before(b.UpdatedAt))

	got, err := s.Bookmark(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", got.URL)
	assert.Equal(t, "changed", got.Body)
	assert.Equal(t, b.ShortURL, got.ShortURL)
	assert.Equal(t, int64(1), got.Visits)

	// The old url is free again, the new one is taken.
	_, err = s.BookmarkByURL(ctx, "https://example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	byURL, err := s.BookmarkByURL(ctx, "https://example.org")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byURL.ID)

	// Same url again is not a conflict with itself.
	same := &domain.Bookmark{ID: b.ID, UserID: u.ID, URL: "https://example.org", Body: "again"}
	require.NoError(t, s.UpdateBookmark(ctx, same))

	missing := &domain.Bookmark{ID: b.ID + 1000, UserID: u.ID, URL: "https://x.example.com"}
	assert.ErrorIs(t, s.UpdateBookmark(ctx, missing), store.ErrNotFound)
}

func testUpdateBookmarkURLConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	mustBookmark(t, s, alice.ID, "https://taken.example.com")
	b := mustBookmark(t, s, bob.ID, "https://bob.example.com")

	err := s.UpdateBookmark(ctx, &domain.Bookmark{ID: b.ID, UserID: bob.ID, URL: "https://taken.example.com"})
	require.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, store.FieldURL, store.ConflictField(err))

	got, err := s.Bookmark(ctx, bob.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://bob.example.com", got.URL)
}

func testDeleteBookmark(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	b := mustBookmark(t, s, u.ID, "https://example.com")

	require.NoError(t, s.DeleteBookmark(ctx, u.ID, b.ID))

	_, err := s.Bookmark(ctx, u.ID, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Visit(ctx, b.ShortURL)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBookmark(ctx, u.ID, b.ID), store.ErrNotFound)

	// The url can be bookmarked again after a hard delete.
	again := mustBookmark(t, s, u.ID, "https://example.com")
	assert.NotEqual(t, b.ID, again.ID)
	assert.NotEqual(t, b.ShortURL, again.ShortURL)
}

func testVisit(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	b := mustBookmark(t, s, u.ID, "https://example.com")

	for i := int64(1); i <= 3; i++ {
		got, err := s.Visit(ctx, b.ShortURL)
		require.NoError(t, err)
		assert.Equal(t, i, got.Visits)
		assert.Equal(t, "https://example.com", got.URL)
	}

	_, err := s.Visit(ctx, "doesnotexist")
	assert.ErrorIs(t, err, store.ErrNotFound)

	stats, err := s.UserBookmarks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(3), stats[0].Visits)
}

func testConcurrentVisits(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	b := mustBookmark(t, s, u.ID, "https://example.com")

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Visit(ctx, b.ShortURL); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Bookmark(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Visits, "every concurrent visit must be counted")
}

func testMigrateIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))
	_, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err, "migrate must not drop existing rows")
	require.NoError(t, s.Ping(ctx))
}
