package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
)

// hostRules holds exact hostnames and "*.domain" suffixes, lower-cased.
type hostRules struct {
	exact    map[string]struct{}
	suffixes []string
}

func newHostRules(patterns []string) hostRules {
	hr := hostRules{exact: make(map[string]struct{}, len(patterns))}
	for _, p := range patterns {
		p = normalizeHost(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "*."):
			hr.suffixes = append(hr.suffixes, p[1:])
		default:
			hr.exact[p] = struct{}{}
		}
	}
	return hr
}

func (hr hostRules) empty() bool { return len(hr.exact) == 0 && len(hr.suffixes) == 0 }

// match reports whether host is allowed. A wildcard never matches its bare domain.
func (hr hostRules) match(host string) bool {
	host = normalizeHost(host)
	if _, ok := hr.exact[host]; ok {
		return true
	}
	for _, s := range hr.suffixes {
		if strings.HasSuffix(host, s) && len(host) > len(s) {
			return true
		}
	}
	return false
}

func normalizeHost(h string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
}

// EnforceHost answers 403 unless the Host header, port ignored, is one of allowedHosts.
// An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	rules := newHostRules(allowedHosts)
	if rules.empty() {
		return func(next http.Handler) http.Handler { return next }
	}
	log.Debug("host enforcement enabled", logger.Any("hosts", allowedHosts))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := utils.ParseHostNoPort(r.Host)
			if !rules.match(host) {
				log.Warn("host rejected", logger.String("host", host), logger.String("path", r.URL.Path))
				handlers.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
