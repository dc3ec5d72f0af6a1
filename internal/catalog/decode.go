// Package catalog is a directory of gallery templates in JSON, YAML or TOML
// that can be reloaded while sessions run.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gallery-engine/internal/gallery"
)

// Supported reports whether path has a template extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// DecodeTemplate reads one template file, choosing the decoder by
// extension. A template without an id takes the file's base name.
func DecodeTemplate(path string) (gallery.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gallery.Template{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var t gallery.Template
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &t)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).Decode(&t)
	default:
		return gallery.Template{}, fmt.Errorf("catalog: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return gallery.Template{}, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	if t.ID == "" {
		t.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if !t.Dimensions.Valid() {
		return gallery.Template{}, fmt.Errorf("catalog: %s: room dimensions must be positive", path)
	}
	return t, nil
}
