package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/shortcode"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/store/storetest"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s, mr
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, _ := newTestStore(t)
		return s
	})
}

func TestKeyLayout(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))
	b := &domain.Bookmark{UserID: u.ID, URL: "https://example.com"}
	require.NoError(t, s.CreateBookmark(ctx, b, shortcode.Encode))
	_, err := s.Visit(ctx, b.ShortURL)
	require.NoError(t, err)

	mr.CheckGet(t, "bookmarks:schema", "1")
	mr.CheckGet(t, "bookmarks:user:email:alice@example.com", "1")
	mr.CheckGet(t, "bookmarks:user:name:alice", "1")
	mr.CheckGet(t, "bookmarks:bookmark:url:https://example.com", "1")
	mr.CheckGet(t, "bookmarks:short:1", "1")
	mr.CheckGet(t, "bookmarks:visits:1", "1")

	members, err := mr.ZMembers("bookmarks:user:bookmarks:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)

	require.NoError(t, s.DeleteBookmark(ctx, u.ID, b.ID))
	assert.False(t, mr.Exists("bookmarks:bookmark:1"))
	assert.False(t, mr.Exists("bookmarks:short:1"))
	assert.False(t, mr.Exists("bookmarks:visits:1"))
	assert.False(t, mr.Exists("bookmarks:bookmark:url:https://example.com"))
}

func TestPingFailsWhenServerIsDown(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}
