package zone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pixil98/ithoria-client/internal/storage"
)

const catalogDebounce = 100 * time.Millisecond

// Catalog feeds the registry from a directory of zone spec assets. The
// directory is scanned and registered at construction time, before any
// worker runs, so zones are known by the time anything asks for them; the
// Start loop then watches for specs dropped in while the client is up
// (content patches land this way).
type Catalog struct {
	path     string
	store    *storage.FileStore[*Spec]
	registry *Registry
}

func NewCatalog(path string, registry *Registry) (*Catalog, error) {
	store, err := storage.NewFileStore[*Spec](path)
	if err != nil {
		return nil, fmt.Errorf("loading zone catalog: %w", err)
	}

	c := &Catalog{
		path:     path,
		store:    store,
		registry: registry,
	}

	for id := range store.GetAll() {
		if err := registry.RegisterZone(id.String()); err != nil {
			return nil, fmt.Errorf("registering zone %s: %w", id, err)
		}
	}

	return c, nil
}

// Specs exposes the catalog records (display names, default waypoints).
func (c *Catalog) Specs() storage.Storer[*Spec] {
	return c.store
}

func (c *Catalog) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating catalog watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.path); err != nil {
		return fmt.Errorf("watching catalog path: %w", err)
	}

	slog.InfoContext(ctx, "watching zone catalog", "path", c.path)

	// Editors and patchers write files in bursts; collect events briefly
	// before ingesting.
	pending := map[string]struct{}{}
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if filepath.Ext(ev.Name) != ".json" {
				continue
			}
			pending[ev.Name] = struct{}{}
			flush = time.After(catalogDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "catalog watcher error", "error", err)

		case <-flush:
			for path := range pending {
				c.ingest(ctx, path)
			}
			pending = map[string]struct{}{}
			flush = nil
		}
	}
}

func (c *Catalog) ingest(ctx context.Context, path string) {
	id, _, err := c.store.LoadFile(path)
	if err != nil {
		slog.WarnContext(ctx, "ignoring catalog file", "path", path, "error", err)
		return
	}

	err = c.registry.RegisterZone(id.String())
	switch {
	case err == nil:
		slog.InfoContext(ctx, "zone registered from catalog", "zone", id)
	case errors.Is(err, ErrZoneExists):
		// Spec refresh for a zone we already track
		slog.DebugContext(ctx, "catalog spec refreshed", "zone", id)
	default:
		slog.WarnContext(ctx, "cannot register catalog zone", "zone", id, "error", err)
	}
}
