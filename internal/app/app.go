package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

// startupTimeout bounds store connection and migration at boot.
const startupTimeout = time.Minute

// gcRunner is implemented by stores that need periodic maintenance (badger).
type gcRunner interface {
	RunGC(ctx context.Context, interval time.Duration)
}

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
	store  store.Store
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Fail fast if the store is unavailable
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	st, err := OpenStore(ctx, cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open store: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("store initialized", logger.String("backend", cfg.Store))

	d := NewDeps(cfg, loggerClient, st)
	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: server,
		store:  st,
	}
}

// NewDeps wires services around st. Shared by the server and bookmarksctl.
func NewDeps(cfg *config.Config, log logger.Logger, st store.Store) deps.Deps {
	tokens := NewIssuer(cfg)
	return deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		CORSOrigins:    cfg.CORSOrigins,
		AuthRateBurst:  cfg.AuthRateBurst,
		AuthRatePerMin: cfg.AuthRatePerMin,
		StoreBackend:   cfg.Store,
		Store:          st,
		Tokens:         tokens,
		Auth:           service.NewAuthService(st, auth.NewHasher(cfg.BcryptCost), tokens, log),
		Bookmarks:      service.NewBookmarkService(st, cfg.DefaultPerPage, cfg.MaxPerPage),
		Redirects:      service.NewRedirectService(st),
		Metrics:        metrics.New(),
	}
}

func NewIssuer(cfg *config.Config) *auth.Issuer {
	return auth.NewIssuer(auth.IssuerConfig{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.JWTAccessTTL,
		RefreshTTL: cfg.JWTRefreshTTL,
	})
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bookmarks v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if gc, ok := a.store.(gcRunner); ok && a.cfg.BadgerGCInterval > 0 {
		go gc.RunGC(ctx, a.cfg.BadgerGCInterval)
		a.logger.Info("value log gc started",
			logger.Duration("interval", a.cfg.BadgerGCInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.closeStore()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.closeStore()
	a.logger.Info("✅ bookmarks stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close %s store: %v", a.cfg.Store, err)
		return
	}
	a.logger.Infof("✅ %s store closed cleanly", a.cfg.Store)
}
