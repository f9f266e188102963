package homepage

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/store/memory"
)

func TestImport(t *testing.T) {
	st := memory.New()
	svc := service.NewBookmarkService(st, 5, 100)
	im := NewImporter(svc, logger.NewNop())
	ctx := context.Background()

	entries := []Entry{
		{Category: "Dev", Name: "Github", URL: "https://github.com/"},
		{Category: "Dev", Name: "Go", URL: "https://go.dev/"},
		{Category: "Dev", Name: "Broken", URL: "not a url"},
		{Category: "Dev", Name: "Github again", URL: "https://github.com/"},
	}

	rep, err := im.Import(ctx, 1, entries)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if rep != (Report{Created: 2, Duplicate: 1, Invalid: 1}) {
		t.Errorf("report = %+v", rep)
	}

	b, err := st.BookmarkByURL(ctx, "https://github.com/")
	if err != nil {
		t.Fatal(err)
	}
	if b.Body != "Dev / Github" || b.UserID != 1 {
		t.Errorf("stored bookmark = %+v", b)
	}

	// Running it again creates nothing.
	rep, err = im.Import(ctx, 1, entries)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if rep.Created != 0 || rep.Duplicate != 3 {
		t.Errorf("second report = %+v", rep)
	}
}

type failingCreator struct{}

func (failingCreator) Create(context.Context, int64, string, string) (*domain.Bookmark, error) {
	return nil, errors.New("store down")
}

func TestImportStopsOnStoreError(t *testing.T) {
	im := NewImporter(failingCreator{}, logger.NewNop())
	_, err := im.Import(context.Background(), 1, []Entry{{Name: "a", URL: "https://a.example.com"}})
	if err == nil {
		t.Fatal("Import() should fail when the store fails")
	}
}

func TestImportHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	im := NewImporter(service.NewBookmarkService(memory.New(), 5, 100), logger.NewNop())
	_, err := im.Import(ctx, 1, []Entry{{Name: "a", URL: "https://a.example.com"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
