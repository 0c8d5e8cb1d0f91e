package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
	"git.home.luguber.info/inful/mdlinkcheck/internal/config"
	"git.home.luguber.info/inful/mdlinkcheck/internal/gitsource"
	"git.home.luguber.info/inful/mdlinkcheck/internal/logfields"
	"git.home.luguber.info/inful/mdlinkcheck/internal/notify"
	"git.home.luguber.info/inful/mdlinkcheck/internal/report"
	"git.home.luguber.info/inful/mdlinkcheck/internal/verify"
	"git.home.luguber.info/inful/mdlinkcheck/internal/workspace"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Roots []string `arg:"" optional:"" help:"Directories (or single Markdown files) to scan. Defaults to the configured roots."`

	ShowExternalLinks bool   `short:"e" help:"List external links that were not checked"`
	RaspiBackupDoc    bool   `name:"raspiBackupDoc" help:"Resolve links across the language directory layout"`
	Format            string `short:"f" enum:",text,json" default:"" help:"Output format (text or json)"`
	Quiet             bool   `short:"q" help:"Suppress the summary line"`
	VerifyExternal    bool   `help:"Probe external http(s) links and report unreachable ones"`
	Publish           bool   `help:"Publish broken-link events to the configured message bus"`

	Repo   string `help:"Git repository URL to clone and scan instead of local roots"`
	Branch string `help:"Branch to check out when --repo is given"`
}

// Run executes the check command.
func (c *CheckCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	c.applyTo(cfg)

	roots := cfg.Roots
	cleanup := func() {}
	if c.Repo != "" {
		ws := workspace.NewManager(os.TempDir())
		if err := ws.Create(); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}
		cleanup = func() { _ = ws.Cleanup() }
		defer cleanup()

		client := gitsource.NewClient(ws.Path())
		repoDir, err := client.Clone(c.Repo, c.Branch)
		if err != nil {
			return fmt.Errorf("cloning repository: %w", err)
		}
		roots = []string{repoDir}
	}

	chk := checker.New(checker.Options{
		AsymmetricLayout: cfg.RaspiBackupDoc,
		LanguageDirs:     cfg.LanguageDirs,
	})

	start := time.Now()
	rep, err := chk.Run(roots)
	if err != nil {
		return err
	}
	slog.Debug("scan complete",
		logfields.RunID(rep.RunID),
		logfields.Count(len(rep.Findings)),
		slog.Duration("elapsed", time.Since(start)))

	formatter := report.NewFormatter(cfg.Format)
	opts := report.Options{
		ShowExternal: cfg.ShowExternalLinks,
		Quiet:        c.Quiet,
	}
	if err := formatter.Format(os.Stdout, rep, opts); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if c.VerifyExternal || cfg.Verify.Enabled {
		if err := verifyExternalLinks(cfg, rep); err != nil {
			slog.Warn("external link verification incomplete", logfields.Error(err))
		}
	}

	if cfg.Notify.Enabled {
		publishBrokenLinks(cfg, rep)
	}

	if rep.HasBroken() {
		// os.Exit skips deferred functions; release the workspace first.
		cleanup()
		os.Exit(report.ExitCode(rep))
	}
	return nil
}

// applyTo overlays command-line flags on the loaded configuration.
// Flags win over file values only when the user set them.
func (c *CheckCmd) applyTo(cfg *config.Config) {
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
	if c.Publish {
		cfg.Notify.Enabled = true
	}
}

// verifyExternalLinks probes external findings and prints advisory lines
// for unreachable targets to stderr. Verification never affects the exit
// code; it is informational only.
func verifyExternalLinks(cfg *config.Config, rep *checker.Report) error {
	verifier, err := verify.New(cfg.Verify)
	if err != nil {
		return err
	}
	defer func() { _ = verifier.Close() }()

	outcomes := verifier.VerifyExternal(context.Background(), rep.External())
	for _, o := range outcomes {
		if o.OK {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s:%d: unreachable external link: '%s' (%s)\n",
			o.Finding.File, o.Finding.Line, o.Finding.Target, o.Error)
	}
	return nil
}

// publishBrokenLinks sends one event per broken finding to NATS.
// Publish failures are logged, not fatal; the report on stdout is the
// source of truth.
func publishBrokenLinks(cfg *config.Config, rep *checker.Report) {
	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		slog.Warn("cannot connect to message bus", logfields.Error(err))
		return
	}
	defer notifier.Close()

	if err := notifier.PublishReport(rep); err != nil {
		slog.Warn("publishing broken-link events failed", logfields.Error(err))
	}
}
