// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch runs exports for job descriptors dropped into a hotfolder.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/pdf-folder-export/internal/jobfile"
	"github.com/pdiddy/pdf-folder-export/internal/logging"
	"github.com/pdiddy/pdf-folder-export/pkg/types"
)

const (
	// DoneSuffix is appended to a descriptor after a successful export.
	DoneSuffix = ".done"
	// FailedSuffix is appended to a descriptor after a failed export.
	FailedSuffix = ".failed"

	defaultDebounce = 200 * time.Millisecond
)

// ExportFunc runs one export.
type ExportFunc func(ctx context.Context, job types.Job) (types.Outcome, error)

// LoadFunc decodes a descriptor.
type LoadFunc func(path string) (types.Job, error)

// Watcher processes descriptors in Dir one at a time.
type Watcher struct {
	Dir      string
	Load     LoadFunc
	Export   ExportFunc
	Logger   logging.Logger
	Debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	queue   chan string
	done    chan struct{}
}

// Run processes the descriptors already in Dir, then watches it until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Logger == nil {
		w.Logger = logging.NoopLogger{}
	}
	if w.Debounce <= 0 {
		w.Debounce = defaultDebounce
	}
	w.pending = make(map[string]*time.Timer)
	w.queue = make(chan string, 64)
	w.done = make(chan struct{})
	defer close(w.done)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.Dir, err)
	}
	w.Logger.Info("watching hotfolder", logging.String("dir", w.Dir))

	existing, err := Pending(w.Dir)
	if err != nil {
		return err
	}
	for _, path := range existing {
		w.Process(ctx, path)
	}

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil

		case path := <-w.queue:
			w.Process(ctx, path)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !jobfile.IsDescriptor(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounce(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watcher error", logging.Err(err))
		}
	}
}

// debounce queues path once writes to it have settled.
func (w *Watcher) debounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case w.queue <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// Process exports the job described at path and renames the descriptor to
// mark the result. It reports whether the export succeeded.
func (w *Watcher) Process(ctx context.Context, path string) bool {
	log := w.Logger
	if log == nil {
		log = logging.NoopLogger{}
	}
	if _, err := os.Stat(path); err != nil {
		// Already processed and renamed.
		return false
	}

	ok := false
	job, err := w.Load(path)
	if err != nil {
		log.Error("invalid job descriptor", logging.String("path", path), logging.Err(err))
	} else {
		out, err := w.Export(ctx, job)
		switch {
		case err != nil:
			log.Error("export failed", logging.Int("process_id", job.ID), logging.Err(err))
		case !out.Success:
			for _, p := range out.Problems {
				log.Warn("export problem", logging.Int("process_id", job.ID), logging.String("problem", p))
			}
		default:
			ok = true
		}
	}

	suffix := FailedSuffix
	if ok {
		suffix = DoneSuffix
	}
	if err := os.Rename(path, path+suffix); err != nil {
		log.Error("cannot mark job descriptor", logging.String("path", path), logging.Err(err))
	}
	return ok
}

// Pending lists the descriptors in dir in name order.
func Pending(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading hotfolder %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !jobfile.IsDescriptor(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
