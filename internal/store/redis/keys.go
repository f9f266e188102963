package redis

import "strconv"

const (
	// KeyPrefix namespaces every key written by the store.
	KeyPrefix = "bookmarks:"

	keyUserSeq     = KeyPrefix + "seq:user"
	keyBookmarkSeq = KeyPrefix + "seq:bookmark"
	keySchema      = KeyPrefix + "schema"

	prefixUser          = KeyPrefix + "user:"
	prefixUserEmail     = KeyPrefix + "user:email:"
	prefixUserName      = KeyPrefix + "user:name:"
	prefixUserBookmarks = KeyPrefix + "user:bookmarks:"
	prefixBookmark      = KeyPrefix + "bookmark:"
	prefixBookmarkURL   = KeyPrefix + "bookmark:url:"
	prefixShortURL      = KeyPrefix + "short:"
	prefixVisits        = KeyPrefix + "visits:"
)

// UserKey holds the JSON user record.
func UserKey(id int64) string { return prefixUser + strconv.FormatInt(id, 10) }

// UserEmailKey maps an email to a user id.
func UserEmailKey(email string) string { return prefixUserEmail + email }

// UserNameKey maps a username to a user id.
func UserNameKey(username string) string { return prefixUserName + username }

// UserBookmarksKey is a sorted set of the user's bookmark ids, scored by id.
func UserBookmarksKey(userID int64) string {
	return prefixUserBookmarks + strconv.FormatInt(userID, 10)
}

// BookmarkKey holds the JSON bookmark record, without its visit count.
func BookmarkKey(id int64) string { return prefixBookmark + strconv.FormatInt(id, 10) }

// BookmarkURLKey maps a url to a bookmark id.
func BookmarkURLKey(url string) string { return prefixBookmarkURL + url }

// ShortURLKey maps a short code to a bookmark id.
func ShortURLKey(code string) string { return prefixShortURL + code }

// VisitsKey is the INCR counter of a bookmark.
func VisitsKey(id int64) string { return prefixVisits + strconv.FormatInt(id, 10) }
