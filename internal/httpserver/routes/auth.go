package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
)

func init() { Register("auth", registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.AuthRateBurst,
		RefillPerIPPerMin: d.AuthRatePerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(limit).Post("/register", handlers.Register(d))
		r.With(limit).Post("/login", handlers.Login(d))
		r.With(mw.RequireAccessToken(d.Tokens, d.Logger)).Get("/me", handlers.Me(d))
		r.With(mw.RequireRefreshToken(d.Tokens, d.Logger)).Get("/token/refresh", handlers.RefreshToken(d))
	})
}
