package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

const pingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports ready only while the store answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readyz: store ping failed",
				logger.String("backend", d.StoreBackend),
				logger.Error(err))
			JSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		JSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
