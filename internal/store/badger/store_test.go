package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/shortcode"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/store/storetest"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s := openTestStore(t, t.TempDir())
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open("", logger.NewNop())
	assert.Error(t, err)
}

func TestDataSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := openTestStore(t, dir)
	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))
	b := &domain.Bookmark{UserID: u.ID, URL: "https://example.com"}
	require.NoError(t, s.CreateBookmark(ctx, b, shortcode.Encode))
	_, err := s.Visit(ctx, b.ShortURL)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = openTestStore(t, dir)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Visit(ctx, b.ShortURL)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Visits)

	// Sequences continue after a restart.
	next := &domain.Bookmark{UserID: u.ID, URL: "https://example.org"}
	require.NoError(t, s.CreateBookmark(ctx, next, shortcode.Encode))
	assert.Equal(t, b.ID+1, next.ID)
}

func TestPingAfterClose(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(context.Background()))
}

func TestRunGCStopsOnCancel(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunGC(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunGC did not return after cancel")
	}
}
