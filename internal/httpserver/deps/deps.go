package deps

import (
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed to access the server
	AllowedCIDRS   []string         // IPs allowed to access healthz/readyz/infra/metrics
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins    []string         // empty disables CORS
	AuthRateBurst  int              // register/login burst per client IP
	AuthRatePerMin int              // register/login refill per client IP

	StoreBackend string      // postgres | redis | badger | memory
	Store        store.Store // pinged by readyz and infra

	Tokens    *auth.Issuer
	Auth      *service.AuthService
	Bookmarks *service.BookmarkService
	Redirects *service.RedirectService
	Metrics   *metrics.Registry
}

// Now returns d.TimeNow() or time.Now() when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
