package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/AnyUserName/imgvariant/internal/profile"
)

// FileSource reads the catalog from a YAML file:
//
//	types:
//	  - {id: avatar, name: Avatar, file_type: jpg, width: 256, height: 256}
//	profiles:
//	  - {id: thumb-jpg, name: thumb, file_type: jpg, max_width: 64, pregenerate: true}
//	links:
//	  - {type: avatar, profile: thumb-jpg}
type FileSource struct {
	Path string
}

// Load parses and validates the file on every call so edits are picked up
// by the next refresh.
func (f FileSource) Load(_ context.Context) (profile.Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return profile.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes and validates a catalog document.
func ParseYAML(data []byte) (profile.Catalog, error) {
	var c profile.Catalog
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return profile.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return profile.Catalog{}, fmt.Errorf("validate catalog: %w", err)
	}
	return c, nil
}
