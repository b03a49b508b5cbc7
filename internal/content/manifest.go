// Package content describes locally installed world content. Each content
// partition is a directory holding a manifest.yaml and the asset files the
// manifest lists.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

const ManifestFile = "manifest.yaml"

type Manifest struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Assets      []string `yaml:"assets"`
}

func (m *Manifest) Validate() error {
	el := errors.NewErrorList()

	if m.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	if len(m.Assets) == 0 {
		el.Add(fmt.Errorf("at least one asset is required"))
	}

	for _, a := range m.Assets {
		if filepath.IsAbs(a) {
			el.Add(fmt.Errorf("asset %q must be a relative path", a))
			continue
		}
		// Assets may not reach outside their partition directory
		if strings.Contains(a, "..") {
			el.Add(fmt.Errorf("asset %q must not escape the partition", a))
		}
	}

	return el.Err()
}

// LoadManifest reads and validates the manifest of the partition rooted at
// dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating manifest: %w", err)
	}

	return &m, nil
}
