package loader

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Manifest names the flat-file sources: one operations file and any number
// of per-platform advertising files.
//
//	[operations]
//	path = "data/business.csv"
//
//	[[platforms]]
//	name = "facebook"
//	path = "data/Facebook.csv"
type Manifest struct {
	Operations Source           `toml:"operations"`
	Platforms  []PlatformSource `toml:"platforms"`
}

type Source struct {
	Path string `toml:"path"`
}

type PlatformSource struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// LoadManifest reads and validates the TOML manifest. The operations source
// is required; platforms may be empty.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	if m.Operations.Path == "" {
		return Manifest{}, fmt.Errorf("manifest %s: operations.path is required", path)
	}
	for i, p := range m.Platforms {
		if p.Name == "" || p.Path == "" {
			return Manifest{}, fmt.Errorf("manifest %s: platforms[%d] needs name and path", path, i)
		}
	}
	return m, nil
}
