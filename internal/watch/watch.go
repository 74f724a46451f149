// Package watch turns video files appearing under a folder into batches.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"vidbatch/internal/util/media"
)

// DefaultDebounce is how long a file must stay quiet before it is batched.
const DefaultDebounce = 2 * time.Second

// Watcher observes a directory tree recursively.
type Watcher struct {
	root     string
	ignore   []string
	debounce time.Duration
	logger   hclog.Logger
	fw       *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore skips events below dir (typically the output directory).
func WithIgnore(dir string) Option {
	return func(w *Watcher) {
		if abs, err := filepath.Abs(dir); err == nil {
			w.ignore = append(w.ignore, abs)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching root and every directory below it.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		root:     abs,
		debounce: DefaultDebounce,
		logger:   hclog.NewNullLogger(),
		fw:       fw,
	}
	for _, o := range opts {
		o(w)
	}
	if err := w.addRecursive(abs); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(p) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(p); err != nil {
			w.logger.Debug("failed to watch directory", "path", p, "error", err)
		}
		return nil
	})
}

func (w *Watcher) ignored(p string) bool {
	for _, ig := range w.ignore {
		if p == ig || strings.HasPrefix(p, ig+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run delivers settled video files to handle until ctx is done. handle runs
// on its own goroutine, one batch at a time, so a long encode does not stall
// event collection.
func (w *Watcher) Run(ctx context.Context, handle func(ctx context.Context, files []string)) error {
	batches := make(chan []string, 16)
	handlerDone := make(chan struct{})
	go func() {
		defer close(handlerDone)
		for files := range batches {
			handle(ctx, files)
		}
	}()
	defer func() {
		close(batches)
		<-handlerDone
	}()

	pending := make(map[string]time.Time) // path -> last event
	emitted := make(map[string]bool)
	var queued [][]string

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, pending, emitted)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)

		case now := <-ticker.C:
			if ready := settled(pending, now, w.debounce); len(ready) > 0 {
				for _, p := range ready {
					emitted[p] = true
				}
				w.logger.Info("new files settled", "count", len(ready))
				queued = append(queued, ready)
			}
			for len(queued) > 0 {
				select {
				case batches <- queued[0]:
					queued = queued[1:]
					continue
				default:
				}
				break
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, pending map[string]time.Time, emitted map[string]bool) {
	if w.ignored(ev.Name) {
		return
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		delete(pending, ev.Name)
		delete(emitted, ev.Name)
		return
	case ev.Has(fsnotify.Create):
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.logger.Debug("watching new directory", "path", ev.Name)
			_ = w.addRecursive(ev.Name)
			// Files copied in together with the directory produce no events.
			_ = filepath.WalkDir(ev.Name, func(p string, d fs.DirEntry, err error) error {
				if err == nil && !d.IsDir() && media.IsVideoFile(p) && !emitted[p] {
					pending[p] = time.Now()
				}
				return nil
			})
			return
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if !media.IsVideoFile(ev.Name) || emitted[ev.Name] {
		return
	}
	pending[ev.Name] = time.Now()
}

// settled removes and returns, sorted, the paths quiet for at least d.
func settled(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var ready []string
	for p, last := range pending {
		if now.Sub(last) >= d {
			ready = append(ready, p)
			delete(pending, p)
		}
	}
	sort.Strings(ready)
	return ready
}
