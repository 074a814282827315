// Package watch regenerates the combined document whenever the manifest or
// one of the files it references changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quantmind-br/conceptmerge/internal/combiner"
	"github.com/quantmind-br/conceptmerge/internal/utils"
)

// DefaultDebounce coalesces bursts of file events into one rebuild
const DefaultDebounce = 500 * time.Millisecond

// Watcher reruns a full combine on relevant file changes
type Watcher struct {
	combiner     *combiner.Combiner
	manifestPath string
	outputPath   string
	sourceRoot   string
	debounce     time.Duration
	logger       *utils.Logger
	onResult     func(*combiner.Result, error)

	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	dirs    map[string]bool
	targets map[string]bool
}

// Options configures a Watcher
type Options struct {
	Combiner     *combiner.Combiner
	ManifestPath string
	OutputPath   string
	// SourceRoot must match the combiner's so watched paths line up
	SourceRoot string
	Debounce   time.Duration
	Logger     *utils.Logger
	// OnResult is called after every rebuild
	OnResult func(*combiner.Result, error)
}

// New creates a Watcher. Call Close when done.
func New(opts Options) (*Watcher, error) {
	if opts.Combiner == nil {
		return nil, fmt.Errorf("combiner is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		combiner:     opts.Combiner,
		manifestPath: opts.ManifestPath,
		outputPath:   opts.OutputPath,
		sourceRoot:   opts.SourceRoot,
		debounce:     opts.Debounce,
		logger:       opts.Logger.WithComponent("watcher"),
		onResult:     opts.OnResult,
		fsw:          fsw,
		dirs:         make(map[string]bool),
		targets:      make(map[string]bool),
	}, nil
}

// Close releases the underlying file watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run builds once, then rebuilds after every debounced change until ctx is
// cancelled. Failed rebuilds are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	w.rebuild()
	w.logger.Info().Str("manifest", w.manifestPath).Msg("Watching for changes")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping watcher")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Change detected")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("Watcher error")

		case <-fire:
			fire = nil
			w.rebuild()
		}
	}
}

func (w *Watcher) rebuild() {
	res, err := w.combiner.Combine(w.manifestPath, w.outputPath)
	if err != nil {
		w.logger.Error().Err(err).Msg("Rebuild failed")
	}
	w.refresh()

	if w.onResult != nil {
		w.onResult(res, err)
	}
}

// refresh recomputes the watched set from the current manifest. The
// manifest itself is always watched, even when it cannot be loaded.
func (w *Watcher) refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	targets := map[string]bool{abs(w.manifestPath): true}
	if m, err := w.combiner.Load(w.manifestPath); err == nil {
		for _, f := range m.Files() {
			targets[abs(utils.ResolvePath(w.sourceRoot, f))] = true
		}
	}
	delete(targets, abs(w.outputPath))
	w.targets = targets

	for path := range targets {
		dir := filepath.Dir(path)
		if w.dirs[dir] {
			continue
		}
		// Directories are watched rather than files so editors that
		// replace files on save keep triggering events
		if err := w.fsw.Add(dir); err != nil {
			// A missing directory is expected until the file is created
			event := w.logger.Warn()
			if utils.IsNotExist(err) {
				event = w.logger.Debug()
			}
			event.Err(err).Str("dir", dir).Msg("Cannot watch directory")
			continue
		}
		w.dirs[dir] = true
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.targets[abs(event.Name)]
}

// Targets returns the files currently being watched
func (w *Watcher) Targets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.targets))
	for t := range w.targets {
		out = append(out, t)
	}
	return out
}

func abs(path string) string {
	if a, err := filepath.Abs(path); err == nil {
		return a
	}
	return filepath.Clean(path)
}
