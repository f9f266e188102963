package mw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// RequireAccessToken rejects requests without a valid access token and
// stores the caller's identity in the request context.
func RequireAccessToken(tokens *auth.Issuer, log logger.Logger) func(http.Handler) http.Handler {
	return requireToken(tokens, auth.AccessToken, log)
}

// RequireRefreshToken is RequireAccessToken for refresh tokens.
func RequireRefreshToken(tokens *auth.Issuer, log logger.Logger) func(http.Handler) http.Handler {
	return requireToken(tokens, auth.RefreshToken, log)
}

func requireToken(tokens *auth.Issuer, want auth.TokenType, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				handlers.Fail(w, r, log, domain.ErrMissingToken)
				return
			}

			id, err := tokens.Validate(raw, want)
			if err != nil {
				log.Debug("token rejected",
					logger.String("want", string(want)),
					logger.String("path", r.URL.Path),
					logger.Error(err))
				if errors.Is(err, auth.ErrTokenWrongType) {
					handlers.Fail(w, r, log, domain.ErrWrongTokenType)
					return
				}
				handlers.Fail(w, r, log, domain.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// bearer extracts the token from an "Authorization: Bearer <token>" header.
func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
