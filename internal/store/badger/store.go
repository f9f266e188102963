// Package badger implements store.Store on an embedded BadgerDB.
package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// Key layout. Ids are 8-byte big endian so prefix scans come back in id order.
var (
	prefixUser          = []byte("u/")
	prefixUserEmail     = []byte("ue/")
	prefixUserName      = []byte("un/")
	prefixBookmark      = []byte("b/")
	prefixBookmarkURL   = []byte("bu/")
	prefixShortURL      = []byte("bs/")
	prefixUserBookmarks = []byte("ub/")

	keyUserSeq     = []byte("seq/user")
	keyBookmarkSeq = []byte("seq/bookmark")
	keySchema      = []byte("meta/schema")
)

const (
	schemaVersion = "1"
	gcDiscard     = 0.5
)

// Store is a BadgerDB-backed store.
type Store struct {
	db  *badger.DB
	log logger.Logger
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at dir.
func Open(dir string, log logger.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	log = log.With(logger.String("component", "badger"))

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dir, err)
	}
	log.Info("badger opened", logger.String("dir", dir))

	return &Store{
		db:  db,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(keySchema)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set(keySchema, []byte(schemaVersion))
		}
		return err
	})
}

func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger: db is closed")
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		s.log.Error("error closing badger", logger.Error(err))
		return err
	}
	s.log.Info("badger closed")
	return nil
}

// RunGC reclaims value log space every interval until ctx is done.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rewrites := 0
			for {
				err := s.db.RunValueLogGC(gcDiscard)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
						s.log.Warn("value log gc failed", logger.Error(err))
					}
					break
				}
				rewrites++
			}
			if rewrites > 0 {
				s.log.Debug("value log gc done", logger.Int("rewrites", rewrites))
			}
		}
	}
}

// update runs fn in a read-write transaction, retrying on write conflicts
// until it commits or ctx is done.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func idBytes(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func key(prefix []byte, parts ...[]byte) []byte {
	n := len(prefix)
	for _, p := range parts {
		n += len(p)
	}
	k := make([]byte, 0, n)
	k = append(k, prefix...)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

// nextID increments the counter at k inside txn.
func nextID(txn *badger.Txn, k []byte) (int64, error) {
	var cur int64
	item, err := txn.Get(k)
	switch {
	case err == nil:
		if err := item.Value(func(v []byte) error {
			cur = int64(binary.BigEndian.Uint64(v))
			return nil
		}); err != nil {
			return 0, err
		}
	case !errors.Is(err, badger.ErrKeyNotFound):
		return 0, err
	}
	cur++
	return cur, txn.Set(k, idBytes(cur))
}

// getID reads an index entry. Missing keys map to store.ErrNotFound.
func getID(txn *badger.Txn, k []byte) (int64, error) {
	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int64
	err = item.Value(func(v []byte) error {
		id = int64(binary.BigEndian.Uint64(v))
		return nil
	})
	return id, err
}

func exists(txn *badger.Txn, k []byte) (bool, error) {
	_, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// getJSON decodes the value at k. Missing keys map to store.ErrNotFound.
func getJSON(txn *badger.Txn, k []byte, v any) error {
	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("failed to unmarshal %q: %w", k, err)
		}
		return nil
	})
}

func setJSON(txn *badger.Txn, k []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", k, err)
	}
	return txn.Set(k, data)
}

// badgerLogger adapts logger.Logger to Badger's logger interface.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warnf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }
