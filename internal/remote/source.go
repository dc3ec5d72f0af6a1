package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gallery-engine/internal/gallery"
)

// ErrNotFound is returned by a Source that has no such exhibition.
var ErrNotFound = errors.New("remote: exhibition not found")

// Source fetches exhibition documents by id. The backend client satisfies
// it.
type Source interface {
	Exhibition(ctx context.Context, id string) (gallery.Exhibition, error)
}

// TemplateResolver fills in an exhibition's gallery template.
type TemplateResolver interface {
	Resolve(ex *gallery.Exhibition) error
}

// DirSource serves <dir>/<id>.json files.
type DirSource string

func (d DirSource) Exhibition(_ context.Context, id string) (gallery.Exhibition, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return gallery.Exhibition{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	path := filepath.Join(string(d), id+".json")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return gallery.Exhibition{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return gallery.LoadExhibition(path)
}
