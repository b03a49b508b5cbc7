package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/ithoria-client/internal/zone"
)

type ZonesConfig struct {
	// ContentPath is the root holding one partition directory per zone
	ContentPath string `json:"content_path"`

	// CatalogPath holds the zone descriptor assets
	CatalogPath string `json:"catalog_path"`

	// Protected names zones that may never be loaded or unloaded, on top
	// of the built-in ones
	Protected []string `json:"protected,omitempty"`
}

func (c *ZonesConfig) Validate() error {
	el := errors.NewErrorList()

	for name, path := range map[string]string{
		"content_path": c.ContentPath,
		"catalog_path": c.CatalogPath,
	} {
		if path == "" {
			el.Add(fmt.Errorf("%s is required", name))
			continue
		}
		if _, err := os.Stat(path); err != nil {
			el.Add(fmt.Errorf("%s: invalid path %q: %w", name, path, err))
		}
	}

	return el.Err()
}

func (c *ZonesConfig) BuildLoader() (*zone.DirLoader, error) {
	return zone.NewDirLoader(c.ContentPath)
}

func (c *ZonesConfig) BuildRegistry(loader zone.ContentLoader) *zone.Registry {
	var opts []zone.RegistryOpt
	if len(c.Protected) > 0 {
		opts = append(opts, zone.WithProtectedZones(c.Protected...))
	}
	return zone.NewRegistry(loader, opts...)
}

func (c *ZonesConfig) BuildCatalog(registry *zone.Registry) (*zone.Catalog, error) {
	return zone.NewCatalog(c.CatalogPath, registry)
}
