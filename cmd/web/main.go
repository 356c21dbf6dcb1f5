// cmd/web/main.go
//
// Contact service – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (host-wide file → .env fallback).
//
//  2. Resolve the service root and start the daily rotating logger (tees to
//     console when running in a TTY).
//
//  3. Connect to Vault only when conf/global.yaml carries `vault:` values,
//     then load and validate configuration and apply `log.level`.
//
//  4. Install the CSRF key, open the optional GeoIP database, and Init every
//     registered component (forms, templates, overrides).
//
//  5. Build the chi router:
//
//     • RequestID → RealIP → request logger → Recoverer
//     • Security headers → ForceHTTPS → requestinfo.Enrich
//     • component routes copied onto the root, Prometheus at /metrics
//
//  6. Serve until SIGINT or SIGTERM, then shut down gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/adept-contact/internal/component"
	"github.com/yanizio/adept-contact/internal/config"
	"github.com/yanizio/adept-contact/internal/form"
	"github.com/yanizio/adept-contact/internal/logger"
	"github.com/yanizio/adept-contact/internal/middleware"
	"github.com/yanizio/adept-contact/internal/requestinfo"
	"github.com/yanizio/adept-contact/internal/server"
	"github.com/yanizio/adept-contact/internal/vault"

	_ "github.com/yanizio/adept-contact/components/contact"
)

const serverEnvPath = "/usr/local/etc/adept-contact/global.env"

// loadEnv prefers the host-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.RootDir()
	logOut, err := logger.New(root, runningInTTY(), os.Getenv("CONTACT_LOG__LEVEL"))
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	if err := run(ctx, root, logOut); err != nil {
		logOut.Errorw("contact service stopped", "err", err)
		_ = logOut.Sync()
		os.Exit(1)
	}
	logOut.Infow("contact service stopped")
}

func run(ctx context.Context, root string, logOut *zap.SugaredLogger) error {
	//
	// ── 1.  Configuration (Vault only when referenced) ──────────────────
	//
	var secrets config.SecretSource
	if config.HasSecretRefs(root) {
		cli, err := vault.New(logOut)
		if err != nil {
			return err
		}
		secrets = cli
	}
	cfg, err := config.LoadFrom(ctx, root, secrets)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	logOut.Infow("log level applied", "level", logger.Level().String())

	//
	// ── 2.  Process-wide services ───────────────────────────────────────
	//
	if cfg.Security.CSRFKey != "" {
		if err := form.SetSecret([]byte(cfg.Security.CSRFKey)); err != nil {
			return err
		}
	}
	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		return err
	}
	defer func() { _ = requestinfo.CloseGeo() }()

	if err := component.InitAll(cfg.Paths.Root); err != nil {
		return err
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(requestinfo.Enrich)

	r.Handle("/metrics", promhttp.Handler())
	for _, c := range component.All() {
		if err := mount(r, c); err != nil {
			return err
		}
		logOut.Infow("component mounted", "component", c.Name())
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/contact", http.StatusFound)
	})

	//
	// ── 4.  Serve until signalled ───────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		return server.Run(gctx, srv)
	})
	g.Go(func() error {
		<-gctx.Done()
		logOut.Infow("shutdown requested", "grace", server.ShutdownGrace.String())
		return nil
	})
	return g.Wait()
}

// mount copies every route of c onto r so several components can share “/”.
func mount(r chi.Router, c component.Component) error {
	return chi.Walk(c.Routes(), func(method, route string, h http.Handler, mws ...func(http.Handler) http.Handler) error {
		r.With(mws...).Method(method, route, h)
		return nil
	})
}
