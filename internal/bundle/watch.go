package bundle

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/demo112/docling-mine/internal/debug"
	"github.com/demo112/docling-mine/internal/fsutil"
)

// watchDebounce coalesces the burst of events an editor save or a large
// copy produces into a single rebuild.
const watchDebounce = 500 * time.Millisecond

// Watch re-runs onChange whenever the descriptor at specPath or any of the
// descriptor's data sources changes. Blocks until ctx is cancelled.
// Rebuilds are serialized: events arriving during onChange schedule one
// more run, never concurrent ones.
func Watch(ctx context.Context, spec *Spec, specPath string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch directories, not files: most editors replace files on save,
	// which drops a file-level watch.
	dirs := map[string]bool{}
	addDir := func(p string) {
		dir := filepath.Dir(p)
		if fsutil.DirExists(p) {
			dir = p
		}
		if dirs[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			debug.Logf("watch %s: %v", dir, err)
			return
		}
		dirs[dir] = true
	}

	abs, err := filepath.Abs(specPath)
	if err != nil {
		return fmt.Errorf("resolve descriptor path: %w", err)
	}
	addDir(abs)
	for _, d := range spec.Data {
		addDir(spec.Resolve(d.Src))
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	fire := make(chan struct{}, 1)

	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fire:
			onChange()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Ignore the dist directory so our own output does not retrigger
			if strings.HasPrefix(event.Name, spec.OutDir()) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debug.Logf("watch event: %s", event)
				schedule()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Logf("watch error: %v", err)
		}
	}
}
