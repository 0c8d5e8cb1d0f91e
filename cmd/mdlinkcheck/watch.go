package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
	"git.home.luguber.info/inful/mdlinkcheck/internal/config"
	"git.home.luguber.info/inful/mdlinkcheck/internal/logfields"
	"git.home.luguber.info/inful/mdlinkcheck/internal/metrics"
	"git.home.luguber.info/inful/mdlinkcheck/internal/report"
	"git.home.luguber.info/inful/mdlinkcheck/internal/watch"
)

// WatchCmd implements the 'watch' command: scan, then rescan on file
// changes and on a periodic schedule until interrupted.
type WatchCmd struct {
	Roots []string `arg:"" optional:"" help:"Directories to watch. Defaults to the configured roots."`

	ShowExternalLinks bool   `short:"e" help:"List external links that were not checked"`
	RaspiBackupDoc    bool   `name:"raspiBackupDoc" help:"Resolve links across the language directory layout"`
	Format            string `short:"f" enum:",text,json" default:"" help:"Output format (text or json)"`
	Quiet             bool   `short:"q" help:"Suppress the summary line"`

	RescanInterval string `help:"Periodic full rescan interval (e.g. 15m)"`
	MetricsListen  string `help:"Address to serve Prometheus metrics on (e.g. :9090)"`
}

// Run executes the watch command.
func (c *WatchCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	c.applyTo(cfg)

	roots := cfg.Roots
	chk := checker.New(checker.Options{
		AsymmetricLayout: cfg.RaspiBackupDoc,
		LanguageDirs:     cfg.LanguageDirs,
	})
	formatter := report.NewFormatter(cfg.Format)
	opts := report.Options{
		ShowExternal: cfg.ShowExternalLinks,
		Quiet:        c.Quiet,
	}
	recorder := metrics.NewRecorder()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch.MetricsListen != "" {
		srv := &http.Server{
			Addr:              cfg.Watch.MetricsListen,
			Handler:           recorder.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("serving metrics", logfields.URL(cfg.Watch.MetricsListen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	scan := func(_ context.Context) error {
		start := time.Now()
		rep, err := chk.Run(roots)
		if err != nil {
			return err
		}
		recorder.RecordScan(rep, time.Since(start))

		if err := formatter.Format(os.Stdout, rep, opts); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
		if cfg.Notify.Enabled && rep.HasBroken() {
			publishBrokenLinks(cfg, rep)
		}
		return nil
	}

	runner, err := watch.NewRunner(roots, cfg.Watch.DebounceDuration(), cfg.Watch.RescanDuration(), scan)
	if err != nil {
		return err
	}
	return runner.Run(ctx)
}

// applyTo overlays command-line flags on the loaded configuration.
func (c *WatchCmd) applyTo(cfg *config.Config) {
	if len(c.Roots) > 0 {
		cfg.Roots = c.Roots
	}
	if c.ShowExternalLinks {
		cfg.ShowExternalLinks = true
	}
	if c.RaspiBackupDoc {
		cfg.RaspiBackupDoc = true
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.RescanInterval != "" {
		cfg.Watch.RescanInterval = c.RescanInterval
	}
	if c.MetricsListen != "" {
		cfg.Watch.MetricsListen = c.MetricsListen
	}
}
