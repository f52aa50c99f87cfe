package scene

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed *.yaml
var ScenesFS embed.FS

// DefaultName is the embedded scene used when no path is given.
const DefaultName = "default.yaml"

// Load reads a scene file from disk, falling back to the embedded copy with
// the same base name.
func Load(path string) ([]byte, error) {
	if path == "" {
		path = DefaultName
	}
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	data, err := ScenesFS.ReadFile(filepath.Base(filepath.ToSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	return data, nil
}
