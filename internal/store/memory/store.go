// Package memory is an in-process store.Store used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Store keeps users and bookmarks in maps guarded by one RWMutex.
// Values handed out are copies; callers never alias internal state.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users        map[int64]*domain.User // ID -> User
	usersByEmail map[string]int64
	usersByName  map[string]int64
	lastUserID   int64

	bookmarks  map[int64]*domain.Bookmark // ID -> Bookmark
	byURL      map[string]int64
	byShortURL map[string]int64
	lastBmID   int64
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		now:          func() time.Time { return time.Now().UTC() },
		users:        make(map[int64]*domain.User),
		usersByEmail: make(map[string]int64),
		usersByName:  make(map[string]int64),
		bookmarks:    make(map[int64]*domain.Bookmark),
		byURL:        make(map[string]int64),
		byShortURL:   make(map[string]int64),
	}
}

func (s *Store) Migrate(context.Context) error { return nil }
func (s *Store) Ping(context.Context) error    { return nil }
func (s *Store) Close() error                  { return nil }

// ─────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[u.Email]; ok {
		return store.Conflict(store.FieldEmail)
	}
	if _, ok := s.usersByName[u.Username]; ok {
		return store.Conflict(store.FieldUsername)
	}

	s.lastUserID++
	now := s.now()
	u.ID = s.lastUserID
	u.CreatedAt, u.UpdatedAt = now, now

	cp := *u
	s.users[u.ID] = &cp
	s.usersByEmail[u.Email] = u.ID
	s.usersByName[u.Username] = u.ID
	return nil
}

func (s *Store) UserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked(id)
}

func (s *Store) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.userLocked(id)
}

func (s *Store) UserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByName[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.userLocked(id)
}

func (s *Store) userLocked(id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

func (s *Store) CreateBookmark(_ context.Context, b *domain.Bookmark, code store.ShortCodeFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byURL[b.URL]; ok {
		return store.Conflict(store.FieldURL)
	}

	id := s.lastBmID + 1
	short := code(id)
	if _, ok := s.byShortURL[short]; ok {
		return store.Conflict(store.FieldShortURL)
	}
	s.lastBmID = id

	now := s.now()
	b.ID = id
	b.ShortURL = short
	b.Visits = 0
	b.CreatedAt, b.UpdatedAt = now, now

	cp := *b
	s.bookmarks[id] = &cp
	s.byURL[b.URL] = id
	s.byShortURL[short] = id
	return nil
}

func (s *Store) BookmarkByURL(_ context.Context, url string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byURL[url]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s.bookmarks[id]
	return &cp, nil
}

func (s *Store) Bookmark(_ context.Context, userID, id int64) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := s.ownedLocked(userID, id)
	if err != nil {
		return nil, err
	}
	cp := *b
	return &cp, nil
}

func (s *Store) ListBookmarks(_ context.Context, userID int64, offset, limit int) ([]*domain.Bookmark, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.userBookmarksLocked(userID)
	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return []*domain.Bookmark{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (s *Store) UserBookmarks(_ context.Context, userID int64) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userBookmarksLocked(userID), nil
}

func (s *Store) userBookmarksLocked(userID int64) []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.OwnedBy(userID) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) UpdateBookmark(_ context.Context, b *domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.ownedLocked(b.UserID, b.ID)
	if err != nil {
		return err
	}
	if other, ok := s.byURL[b.URL]; ok && other != cur.ID {
		return store.Conflict(store.FieldURL)
	}

	delete(s.byURL, cur.URL)
	cur.URL = b.URL
	cur.Body = b.Body
	cur.UpdatedAt = s.now()
	s.byURL[cur.URL] = cur.ID

	*b = *cur
	return nil
}

func (s *Store) DeleteBookmark(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ownedLocked(userID, id)
	if err != nil {
		return err
	}
	delete(s.bookmarks, id)
	delete(s.byURL, b.URL)
	delete(s.byShortURL, b.ShortURL)
	return nil
}

func (s *Store) Visit(_ context.Context, shortURL string) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byShortURL[shortURL]
	if !ok {
		return nil, store.ErrNotFound
	}
	b := s.bookmarks[id]
	b.Visits++
	cp := *b
	return &cp, nil
}

func (s *Store) ownedLocked(userID, id int64) (*domain.Bookmark, error) {
	b, ok := s.bookmarks[id]
	if !ok || !b.OwnedBy(userID) {
		return nil, store.ErrNotFound
	}
	return b, nil
}
