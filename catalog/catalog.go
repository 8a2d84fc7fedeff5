// Package catalog holds the plan and feature flag definitions. The embedded
// catalog.yaml is used unless a path is given.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/feature"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is a raw catalog document.
type Catalog struct {
	data []byte
}

// Default returns the embedded catalog.
func Default() *Catalog {
	return &Catalog{data: defaultCatalog}
}

// Load reads the catalog at path, or returns Default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &Catalog{data: data}, nil
}

// Plans returns the "plans" section as a limits.Source.
func (c *Catalog) Plans() limits.Source {
	return limits.NewYAMLSource(bytes.NewReader(c.data))
}

// Flags parses the "flags" section.
func (c *Catalog) Flags() ([]*feature.Flag, error) {
	return feature.LoadYAML(bytes.NewReader(c.data))
}
