package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focuai/focusd/internal/api"
	"github.com/focuai/focusd/internal/app/classify"
	"github.com/focuai/focusd/internal/app/gamification"
	"github.com/focuai/focusd/internal/app/leaderboard"
	"github.com/focuai/focusd/internal/app/usage"
	"github.com/focuai/focusd/internal/health"
	_ "github.com/focuai/focusd/internal/infra/metrics" // Register Prometheus metrics
	"github.com/focuai/focusd/internal/infra/sqlite"
)

// Daemon is the core focusd runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Usage  *usage.Service
	Engine *gamification.Engine
	Ranker *leaderboard.Ranker
	Server *api.Server
	Health *health.Checker
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = focusdHome()
	}
	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	rules := classify.DefaultRules().Merge(classify.Rules{
		ProductiveApps:   cfg.Classifier.ProductiveApps,
		DistractingApps:  cfg.Classifier.DistractingApps,
		ProductiveSites:  cfg.Classifier.ProductiveSites,
		DistractingSites: cfg.Classifier.DistractingSites,
	})
	classifier := classify.New(rules)

	usageSvc := usage.NewService(db, classifier)
	usageSvc.SetTopN(cfg.Usage.TopN)
	engine := gamification.NewEngine(db)
	ranker := leaderboard.NewRanker(db)

	checker := health.NewChecker(db, dir)

	srv := api.NewServer(usageSvc, engine, ranker)
	srv.SetHealth(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Usage:  usageSvc,
		Engine: engine,
		Ranker: ranker,
		Server: srv,
		Health: checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("focusd serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		log.Printf("[daemon] shutdown complete")
		return nil
	}
	return err
}

// Stop triggers a graceful shutdown.
func (d *Daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Close releases resources for short-lived (non-serving) uses.
func (d *Daemon) Close() error {
	return d.DB.Close()
}
