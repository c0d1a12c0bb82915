package ingestion

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the input files for one load run. Files are processed
// strictly in the order they appear; the category applies to every record in
// its file.
type Manifest struct {
	Files []ManifestEntry `yaml:"files"`
}

type ManifestEntry struct {
	Path     string `yaml:"path"`
	Category string `yaml:"category"`
}

func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("manifest %s lists no files", path)
	}
	for i, entry := range m.Files {
		if entry.Path == "" {
			return nil, fmt.Errorf("manifest entry %d: missing path", i)
		}
		if entry.Category == "" {
			return nil, fmt.Errorf("manifest entry %d (%s): missing category", i, entry.Path)
		}
	}
	return &m, nil
}
