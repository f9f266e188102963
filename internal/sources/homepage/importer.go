package homepage

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Creator is the slice of the bookmark service the importer needs.
type Creator interface {
	Create(ctx context.Context, userID int64, url, body string) (*domain.Bookmark, error)
}

// Report counts what an import did.
type Report struct {
	Created   int
	Duplicate int // url already stored, by anyone
	Invalid   int // url rejected by validation
}

// Importer creates one bookmark per entry for a single owner.
type Importer struct {
	creator Creator
	log     logger.Logger
}

func NewImporter(creator Creator, log logger.Logger) *Importer {
	return &Importer{creator: creator, log: log}
}

// Import is idempotent: entries whose url is already stored are counted and skipped.
// It stops at the first error that is not about the entry itself.
func (im *Importer) Import(ctx context.Context, userID int64, entries []Entry) (Report, error) {
	var rep Report
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		b, err := im.creator.Create(ctx, userID, e.URL, e.Note())
		switch {
		case err == nil:
			rep.Created++
			im.log.Debug("imported bookmark",
				logger.String("url", e.URL),
				logger.String("short_url", b.ShortURL))
		case errors.Is(err, domain.ErrURLTaken):
			rep.Duplicate++
			im.log.Debug("skipping existing url", logger.String("url", e.URL))
		case errors.Is(err, domain.ErrURLInvalid):
			rep.Invalid++
			im.log.Warn("skipping invalid url",
				logger.String("name", e.Name),
				logger.String("url", e.URL))
		default:
			return rep, fmt.Errorf("import %s: %w", e.URL, err)
		}
	}
	return rep, nil
}
