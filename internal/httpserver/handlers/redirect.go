package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
)

// Redirect resolves /{short_url}, counts the visit and answers 302 to the stored url.
func Redirect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "short_url")

		b, err := d.Redirects.Resolve(r.Context(), code)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				observeRedirect(d, metrics.RedirectNotFound)
			} else {
				observeRedirect(d, metrics.RedirectError)
			}
			Fail(w, r, d.Logger, err)
			return
		}

		observeRedirect(d, metrics.RedirectFound)
		d.Logger.Debug("redirect",
			logger.String("short_url", code),
			logger.Int64("bookmark_id", b.ID),
			logger.Int64("visits", b.Visits),
		)
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, b.URL, http.StatusFound)
	}
}

func observeRedirect(d deps.Deps, result string) {
	if d.Metrics != nil {
		d.Metrics.Redirects.WithLabelValues(result).Inc()
	}
}
