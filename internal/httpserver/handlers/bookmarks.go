package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
)

type bookmarkRequest struct {
	URL  string `json:"url"`
	Body string `json:"body"`
}

type bookmarkResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	ShortURL  string    `json:"short_url"`
	Visits    int64     `json:"visits"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type metaResponse struct {
	Page       int  `json:"page"`
	Pages      int  `json:"pages"`
	TotalCount int  `json:"total_count"`
	PrevPage   *int `json:"prev_page"`
	NextPage   *int `json:"next_page"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type listResponse struct {
	Data []bookmarkResponse `json:"data"`
	Meta metaResponse       `json:"meta"`
}

type statsItem struct {
	ID       int64  `json:"id"`
	Visits   int64  `json:"visits"`
	ShortURL string `json:"short_url"`
	URL      string `json:"url"`
}

type statsResponse struct {
	Data []statsItem `json:"data"`
}

func toBookmark(b *domain.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		ID:        b.ID,
		URL:       b.URL,
		ShortURL:  b.ShortURL,
		Visits:    b.Visits,
		Body:      b.Body,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// callerID is the authenticated user. Routes using it sit behind RequireAccessToken.
func callerID(r *http.Request) (int64, error) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return 0, domain.ErrMissingToken
	}
	return id.UserID, nil
}

// bookmarkID parses the {id} URL param. Anything unparsable cannot name a bookmark.
func bookmarkID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrBookmarkNotFound
	}
	return id, nil
}

// queryInt returns 0 for a missing or malformed value, letting the service apply defaults.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		var req bookmarkRequest
		if err := decode(r, &req); err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Create(r.Context(), userID, req.URL, req.Body)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		JSON(w, http.StatusCreated, toBookmark(b))
	}
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		page, err := d.Bookmarks.List(r.Context(), userID, queryInt(r, "page"), queryInt(r, "per_page"))
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		resp := listResponse{
			Data: make([]bookmarkResponse, 0, len(page.Items)),
			Meta: metaResponse{
				Page:       page.Meta.Page,
				Pages:      page.Meta.Pages,
				TotalCount: page.Meta.TotalCount,
				PrevPage:   page.Meta.PrevPage,
				NextPage:   page.Meta.NextPage,
				HasNext:    page.Meta.HasNext,
				HasPrev:    page.Meta.HasPrev,
			},
		}
		for _, b := range page.Items {
			resp.Data = append(resp.Data, toBookmark(b))
		}
		JSON(w, http.StatusOK, resp)
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		id, err := bookmarkID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Get(r.Context(), userID, id)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		JSON(w, http.StatusOK, toBookmark(b))
	}
}

// UpdateBookmark serves both PUT and PATCH; both replace url and body.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		id, err := bookmarkID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		var req bookmarkRequest
		if err := decode(r, &req); err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Update(r.Context(), userID, id, req.URL, req.Body)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		JSON(w, http.StatusOK, toBookmark(b))
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		id, err := bookmarkID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		if err := d.Bookmarks.Delete(r.Context(), userID, id); err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func BookmarkStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		stats, err := d.Bookmarks.Stats(r.Context(), userID)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		resp := statsResponse{Data: make([]statsItem, 0, len(stats))}
		for _, s := range stats {
			resp.Data = append(resp.Data, statsItem{
				ID:       s.ID,
				Visits:   s.Visits,
				ShortURL: s.ShortURL,
				URL:      s.URL,
			})
		}
		JSON(w, http.StatusOK, resp)
	}
}
