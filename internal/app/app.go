// Package app wires configuration, storage, services, and the HTTP server
// into one runnable application.
package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/category"
	"github.com/linkden/api/internal/config"
	"github.com/linkden/api/internal/database"
	"github.com/linkden/api/internal/handler"
	"github.com/linkden/api/internal/link"
	"github.com/linkden/api/internal/ogfetch"
	"github.com/linkden/api/internal/ratelimit"
	"github.com/linkden/api/internal/server"
	"github.com/linkden/api/internal/telemetry"
	"github.com/linkden/api/internal/user"
)

type App struct {
	Config       *config.Config
	DB           *database.DB
	Server       *server.Server
	RateLimiter  *ratelimit.Limiter
	SessionStore *auth.SessionStore
}

func New(cfg *config.Config) (*App, error) {
	// Open database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	sink := telemetry.NewSink(slog.Default())

	// Initialize repositories
	linkRepo := link.NewRepository(db.DB)
	categoryRepo := category.NewRepository(db.DB)
	userRepo := user.NewRepository(db.DB)
	resolver := category.NewResolver(categoryRepo)

	// Pick the metadata fetch client
	var ogClient ogfetch.Client
	if cfg.OG.Mode == "crawler" {
		ogClient = ogfetch.NewCrawlerClient(cfg.OG.Endpoint, nil)
	} else {
		ogClient = ogfetch.NewDirectClient(nil)
	}

	linkService := link.NewService(linkRepo, resolver, ogClient, cfg.OG.Timeout, sink)

	// Initialize session store
	sessionStore := auth.NewSessionStore(db.DB, cfg.Auth.SessionDuration)

	h := handler.New(handler.Dependencies{
		LinkService:  linkService,
		LinkRepo:     linkRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		SessionStore: sessionStore,
		Sink:         sink,
	})

	// Build rate limiter (nil if disabled)
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	router := otelhttp.NewHandler(
		server.NewRouter(h, sessionStore, limiter, cfg.Server.AllowedOrigins),
		"linkden.http",
	)

	// Build TLS options
	tlsOpts := server.TLSOptions{
		Mode:     cfg.Server.TLS.Mode,
		CertFile: cfg.Server.TLS.CertFile,
		KeyFile:  cfg.Server.TLS.KeyFile,
		Domain:   cfg.Server.TLS.Auto.Domain,
		Email:    cfg.Server.TLS.Auto.Email,
		CacheDir: cfg.Server.TLS.Auto.CacheDir,
	}
	if tlsOpts.Mode == "auto" {
		if err := os.MkdirAll(tlsOpts.CacheDir, 0700); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	srv := server.New(cfg.Server.Host, cfg.Server.Port, router, tlsOpts)

	return &App{
		Config:       cfg,
		DB:           db,
		Server:       srv,
		RateLimiter:  limiter,
		SessionStore: sessionStore,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	// Start rate limiter cleanup
	if a.RateLimiter != nil {
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					a.RateLimiter.Cleanup(time.Hour)
				}
			}
		}()
	}

	// Start expired session cleanup
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = a.SessionStore.DeleteExpired()
			}
		}
	}()

	slog.Info("starting linkden backend",
		"addr", a.Server.Addr(),
		"database", a.Config.Database.Path,
		"og_mode", a.Config.OG.Mode,
		"tls", a.Server.TLSMode(),
	)

	return a.Server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Server.Shutdown(ctx); err != nil {
		return err
	}
	return a.DB.Close()
}
