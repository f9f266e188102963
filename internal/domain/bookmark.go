package domain

import "time"

// Bookmark is a URL saved by one user, reachable publicly through ShortURL.
type Bookmark struct {
	ID int64

	// URL is the redirect target. Unique across all users.
	URL string

	// ShortURL is the base62 encoding of ID. Set once at creation.
	ShortURL string

	// Body is a free-text note, may be empty.
	Body string

	// Visits counts resolved redirects.
	Visits int64

	// UserID is the owner.
	UserID int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether userID owns the bookmark.
func (b *Bookmark) OwnedBy(userID int64) bool {
	return b != nil && b.UserID == userID
}

// BookmarkStats is the per-bookmark visit summary.
type BookmarkStats struct {
	ID       int64
	Visits   int64
	ShortURL string
	URL      string
}

// Stats projects the bookmark onto its visit summary.
func (b *Bookmark) Stats() BookmarkStats {
	return BookmarkStats{
		ID:       b.ID,
		Visits:   b.Visits,
		ShortURL: b.ShortURL,
		URL:      b.URL,
	}
}
