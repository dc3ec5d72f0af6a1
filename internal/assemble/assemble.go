// Package assemble merges an exhibition document and its gallery template
// into one scene descriptor.
package assemble

import (
	"log/slog"

	"gallery-engine/internal/gallery"
	"gallery-engine/internal/mathutil"
)

type Vec3 = mathutil.Vec3

const (
	// DefaultName is used when an exhibition carries no content at all.
	DefaultName = "Default Gallery Name"
	// DefaultWallHeight is the room model's wall height when the template
	// declares none.
	DefaultWallHeight = 3.0
)

// Likes is the per-artwork subset of an exhibition's likes.
type Likes struct {
	UserIDs []string `json:"userIds"`
	Count   int      `json:"count"`
}

// Artwork is one placed artwork: metadata, pose and likes.
type Artwork struct {
	ID            string          `json:"id"`
	Meta          gallery.Artwork `json:"artwork"`
	PositionIndex int             `json:"positionIndex"`
	Position      Vec3            `json:"position"`
	Rotation      Vec3            `json:"rotation"`
	Likes         Likes           `json:"likes"`
}

// RoomModel is the template data needed to build the room and its colliders.
type RoomModel struct {
	TemplateID      string                   `json:"templateId"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description,omitempty"`
	Dimensions      gallery.RoomDimensions   `json:"dimensions"`
	WallThickness   float64                  `json:"wallThickness"`
	WallHeight      float64                  `json:"wallHeight"`
	ModelPath       string                   `json:"modelPath"`
	ModelPosition   Vec3                     `json:"modelPosition"`
	ModelRotation   Vec3                     `json:"modelRotation"`
	ModelScale      float64                  `json:"modelScale"`
	Placements      []gallery.Placement      `json:"artworkPlacements"`
	CustomColliders []gallery.ColliderConfig `json:"customColliders"`
}

// Template returns the room as a gallery template, with the resolved wall
// height.
func (r RoomModel) Template() gallery.Template {
	return gallery.Template{
		ID:                r.TemplateID,
		Name:              r.Name,
		Description:       r.Description,
		Dimensions:        r.Dimensions,
		WallThickness:     r.WallThickness,
		WallHeight:        r.WallHeight,
		ModelPath:         r.ModelPath,
		ModelPosition:     r.ModelPosition,
		ModelRotation:     r.ModelRotation,
		ModelScale:        r.ModelScale,
		ArtworkPlacements: r.Placements,
		CustomColliders:   r.CustomColliders,
	}
}

// Config is the assembled, renderable gallery.
type Config struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Locale      string    `json:"locale,omitempty"`
	Room        RoomModel `json:"room"`
	Artworks    []Artwork `json:"artworks"`

	byID map[string]int
}

// Lookup returns the placed artwork with the given id.
func (c Config) Lookup(id string) (Artwork, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Artwork{}, false
	}
	return c.Artworks[i], true
}

// Assemble builds the gallery config for ex. Placements with an out-of-range
// position index are dropped. It never fails.
func Assemble(ex gallery.Exhibition, localeHint string) Config {
	return assemble(ex, localeHint, slog.Default())
}

func assemble(ex gallery.Exhibition, localeHint string, log *slog.Logger) Config {
	content, locale := SelectContent(ex, localeHint)

	var tpl gallery.Template
	if ex.Gallery.Template != nil {
		tpl = *ex.Gallery.Template
	}

	cfg := Config{
		ID:          ex.ID,
		Name:        content.Name,
		Description: content.Description,
		Locale:      locale,
		Room:        roomModel(ex.Gallery.ID, tpl),
		Artworks:    make([]Artwork, 0, len(ex.ArtworkPositions)),
		byID:        make(map[string]int, len(ex.ArtworkPositions)),
	}

	placements := tpl.ArtworkPlacements
	for _, ap := range ex.ArtworkPositions {
		idx := ap.PositionIndex
		if idx < 0 || idx >= len(placements) {
			log.Debug("assemble: dropping placement",
				"exhibition", ex.ID, "artwork", ap.Artwork.ID, "index", idx, "slots", len(placements))
			continue
		}
		p := placements[idx]
		cfg.byID[ap.Artwork.ID] = len(cfg.Artworks)
		cfg.Artworks = append(cfg.Artworks, Artwork{
			ID:            ap.Artwork.ID,
			Meta:          ap.Artwork,
			PositionIndex: idx,
			Position:      p.Position,
			Rotation:      p.Rotation,
			Likes:         LikesFor(ex.Result.Likes, ap.Artwork.ID),
		})
	}
	return cfg
}

// LikesFor filters likes down to one artwork.
func LikesFor(likes []gallery.Like, artworkID string) Likes {
	out := Likes{UserIDs: []string{}}
	for _, l := range likes {
		if l.ArtworkID == artworkID {
			out.UserIDs = append(out.UserIDs, l.UserID)
		}
	}
	out.Count = len(out.UserIDs)
	return out
}

func roomModel(refID string, t gallery.Template) RoomModel {
	id := t.ID
	if id == "" {
		id = refID
	}
	h := t.WallHeight
	if h <= 0 {
		h = DefaultWallHeight
	}
	placements := make([]gallery.Placement, len(t.ArtworkPlacements))
	copy(placements, t.ArtworkPlacements)
	colliders := make([]gallery.ColliderConfig, len(t.CustomColliders))
	copy(colliders, t.CustomColliders)

	return RoomModel{
		TemplateID:      id,
		Name:            t.Name,
		Description:     t.Description,
		Dimensions:      t.Dimensions,
		WallThickness:   t.WallThickness,
		WallHeight:      h,
		ModelPath:       t.ModelPath,
		ModelPosition:   t.ModelPosition,
		ModelRotation:   t.ModelRotation,
		ModelScale:      t.ModelScale,
		Placements:      placements,
		CustomColliders: colliders,
	}
}
