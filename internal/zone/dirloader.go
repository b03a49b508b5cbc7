package zone

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pixil98/ithoria-client/internal/content"
)

// DirLoader mounts content partitions from a directory tree. Each zone's
// partition lives at <root>/<name>/ with a manifest listing the asset
// files to bring resident.
type DirLoader struct {
	root string

	mu         sync.RWMutex
	partitions map[string]*Partition
}

// Partition is a mounted set of content assets.
type Partition struct {
	Manifest *content.Manifest
	Assets   map[string][]byte
}

func (p *Partition) Size() int64 {
	var total int64
	for _, data := range p.Assets {
		total += int64(len(data))
	}
	return total
}

func NewDirLoader(root string) (*DirLoader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", root)
	}

	return &DirLoader{
		root:       root,
		partitions: map[string]*Partition{},
	}, nil
}

func (l *DirLoader) BeginLoad(name string) Handle {
	t := NewTask()
	go func() {
		t.Complete(l.load(name))
	}()
	return t
}

func (l *DirLoader) BeginUnload(name string) Handle {
	t := NewTask()
	go func() {
		t.Complete(l.unload(name))
	}()
	return t
}

func (l *DirLoader) IsLoaded(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.partitions[name]
	return ok
}

// Mounted returns the partition for a loaded zone.
func (l *DirLoader) Mounted(name string) (*Partition, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.partitions[name]
	return p, ok
}

func (l *DirLoader) load(name string) error {
	dir := filepath.Join(l.root, name)

	m, err := content.LoadManifest(dir)
	if err != nil {
		return fmt.Errorf("partition %s: %w", name, err)
	}
	if m.Name != name {
		return fmt.Errorf("partition %s: manifest names %q", name, m.Name)
	}

	assets := make(map[string][]byte, len(m.Assets))
	for _, rel := range m.Assets {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return fmt.Errorf("partition %s: reading asset: %w", name, err)
		}
		assets[rel] = data
	}

	p := &Partition{Manifest: m, Assets: assets}

	l.mu.Lock()
	l.partitions[name] = p
	l.mu.Unlock()

	slog.Info("content partition mounted", "partition", name, "assets", len(assets), "bytes", p.Size())
	return nil
}

func (l *DirLoader) unload(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.partitions[name]; !ok {
		return nil
	}
	delete(l.partitions, name)

	slog.Info("content partition unmounted", "partition", name)
	return nil
}
