package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gallery-engine/internal/gallery"
)

// ErrUnknownTemplate is returned when an exhibition names a template the
// catalog does not hold.
var ErrUnknownTemplate = errors.New("catalog: unknown template")

// Catalog holds the templates found in one directory.
type Catalog struct {
	dir string
	log *slog.Logger

	mu        sync.RWMutex
	templates map[string]gallery.Template
}

// Open loads every template in dir.
func Open(dir string, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Catalog{dir: dir, log: log}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the directory. Files that fail to parse are skipped and
// logged; the previous set is replaced only when the directory is readable.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("catalog: read dir %s: %w", c.dir, err)
	}

	next := make(map[string]gallery.Template)
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		t, err := DecodeTemplate(path)
		if err != nil {
			c.log.Warn("catalog: skipping template", "path", path, "err", err)
			continue
		}
		if _, dup := next[t.ID]; dup {
			c.log.Warn("catalog: duplicate template id", "id", t.ID, "path", path)
		}
		next[t.ID] = t
	}

	c.mu.Lock()
	c.templates = next
	c.mu.Unlock()
	c.log.Debug("catalog: loaded", "dir", c.dir, "templates", len(next))
	return nil
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (gallery.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[id]
	return t, ok
}

// IDs returns the template ids in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Resolve populates ex's gallery template from the catalog when the
// exhibition carries only a template id.
func (c *Catalog) Resolve(ex *gallery.Exhibition) error {
	if ex.Gallery.Resolved() {
		return nil
	}
	t, ok := c.Get(ex.Gallery.ID)
	if !ok {
		return fmt.Errorf("%w %q (exhibition %s)", ErrUnknownTemplate, ex.Gallery.ID, ex.ID)
	}
	ex.Gallery.Template = &t
	return nil
}

// Watch reloads the catalog whenever a template file changes, until ctx is
// done. Bursts of events within settle are coalesced into one reload.
// onReload, if set, is called after every reload attempt.
func (c *Catalog) Watch(ctx context.Context, settle time.Duration, onReload func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(c.dir); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", c.dir, err)
	}
	if settle <= 0 {
		settle = 200 * time.Millisecond
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !Supported(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			err := c.Reload()
			if err != nil {
				c.log.Error("catalog: reload failed", "err", err)
			}
			if onReload != nil {
				onReload(err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("catalog: watcher error", "err", err)
		}
	}
}
