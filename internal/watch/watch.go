package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
	"git.home.luguber.info/inful/mdlinkcheck/internal/logfields"
)

// ScanFunc runs one scan and handles its report (formatting, metrics,
// notifications). Errors are logged but do not stop the watch loop.
type ScanFunc func(ctx context.Context) error

// Runner re-runs a scan whenever Markdown files under the watched roots
// change, with a debounce window against editor save bursts and a periodic
// full rescan as a safety net for missed events.
type Runner struct {
	roots          []string
	debounce       time.Duration
	rescanInterval time.Duration
	scan           ScanFunc

	watcher *fsnotify.Watcher
	trigger chan struct{}
}

// NewRunner creates a watch runner over the given roots.
func NewRunner(roots []string, debounce, rescanInterval time.Duration, scan ScanFunc) (*Runner, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Runner{
		roots:          roots,
		debounce:       debounce,
		rescanInterval: rescanInterval,
		scan:           scan,
		watcher:        watcher,
		trigger:        make(chan struct{}, 1),
	}, nil
}

// Run blocks until ctx is canceled, rescanning on changes.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		_ = r.watcher.Close()
	}()

	for _, root := range r.roots {
		if err := r.addTree(root); err != nil {
			return err
		}
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(r.rescanInterval),
		gocron.NewTask(r.requestScan),
		gocron.WithName("periodic-rescan"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule periodic rescan: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()

	slog.Info("Watching for changes",
		slog.Int("roots", len(r.roots)),
		slog.Duration("debounce", r.debounce),
		slog.Duration("rescan_interval", r.rescanInterval))

	// Initial scan before settling into the event loop.
	r.runScan(ctx)

	go r.eventLoop(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.trigger:
			if timer == nil {
				timer = time.NewTimer(r.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			r.runScan(ctx)
		}
	}
}

func (r *Runner) runScan(ctx context.Context) {
	if err := r.scan(ctx); err != nil {
		slog.Error("Scan failed", logfields.Error(err))
	}
}

// requestScan coalesces triggers; a pending trigger is enough.
func (r *Runner) requestScan() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// eventLoop translates file-system events into scan triggers and keeps the
// watch set in sync as directories appear.
func (r *Runner) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if r.relevant(event) {
				slog.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				r.requestScan()
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (r *Runner) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := r.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return true
		}
	}
	return checker.IsMarkdownFile(event.Name)
}

// addTree registers root and every non-hidden directory beneath it.
func (r *Runner) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return r.watcher.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
			return fs.SkipDir
		}
		if err := r.watcher.Add(path); err != nil {
			slog.Warn("Failed to watch directory", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
