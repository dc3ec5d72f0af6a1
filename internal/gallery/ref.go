package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GalleryRef is the exhibition's "gallery" field: either a bare template id
// or the populated template.
type GalleryRef struct {
	ID       string
	Template *Template
}

// Resolved reports whether the template is populated.
func (g GalleryRef) Resolved() bool {
	return g.Template != nil
}

func (g *GalleryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = GalleryRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("gallery: ref: %w", err)
		}
		*g = GalleryRef{ID: id}
		return nil
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("gallery: template: %w", err)
	}
	*g = GalleryRef{ID: t.ID, Template: &t}
	return nil
}

func (g GalleryRef) MarshalJSON() ([]byte, error) {
	if g.Template != nil {
		return json.Marshal(g.Template)
	}
	return json.Marshal(g.ID)
}

// UnmarshalJSON accepts either an artwork id string or a populated artwork.
func (a *Artwork) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("gallery: artwork ref: %w", err)
		}
		*a = Artwork{ID: id}
		return nil
	}
	type plain Artwork
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("gallery: artwork: %w", err)
	}
	*a = Artwork(p)
	return nil
}
