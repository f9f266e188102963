package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
)

func init() { Register("redirect", registerRedirect) }

// registerRedirect serves public short links at the root. Static routes
// such as /healthz take precedence in chi's tree.
func registerRedirect(r chi.Router, d deps.Deps) {
	r.Get("/{short_url}", handlers.Redirect(d))
}
