package gallery

import "gallery-engine/internal/mathutil"

// Vec3 is the [x, y, z] triple used throughout gallery documents.
type Vec3 = mathutil.Vec3

// RoomDimensions are the room extents (width, height, depth).
type RoomDimensions struct {
	XAxis float64 `json:"xAxis" yaml:"xAxis" toml:"xAxis"`
	YAxis float64 `json:"yAxis" yaml:"yAxis" toml:"yAxis"`
	ZAxis float64 `json:"zAxis" yaml:"zAxis" toml:"zAxis"`
}

// Valid reports whether all extents are positive.
func (d RoomDimensions) Valid() bool {
	return d.XAxis > 0 && d.YAxis > 0 && d.ZAxis > 0
}

// Placement is one slot in a template's ordered placement list.
type Placement struct {
	Position Vec3 `json:"position" yaml:"position" toml:"position"`
	Rotation Vec3 `json:"rotation" yaml:"rotation" toml:"rotation"`
}

// ColliderShape selects how a custom collider expands into boxes.
type ColliderShape string

const (
	ShapeBox    ColliderShape = "box"
	ShapeCurved ColliderShape = "curved"
	ShapeStairs ColliderShape = "stairs"
)

// ColliderConfig is a template-declared collision volume.
// Only the fields relevant to Shape are read.
type ColliderConfig struct {
	Shape    ColliderShape `json:"shape" yaml:"shape" toml:"shape"`
	Name     string        `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Position Vec3          `json:"position" yaml:"position" toml:"position"`
	Rotation Vec3          `json:"rotation" yaml:"rotation" toml:"rotation"`
	Friction float64       `json:"friction,omitempty" yaml:"friction,omitempty" toml:"friction,omitempty"`

	// box
	Args Vec3 `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`

	// curved
	Radius   float64 `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	Height   float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Segments int     `json:"segments,omitempty" yaml:"segments,omitempty" toml:"segments,omitempty"`
	Arc      float64 `json:"arc,omitempty" yaml:"arc,omitempty" toml:"arc,omitempty"`

	// stairs
	Steps      int     `json:"steps,omitempty" yaml:"steps,omitempty" toml:"steps,omitempty"`
	StepHeight float64 `json:"stepHeight,omitempty" yaml:"stepHeight,omitempty" toml:"stepHeight,omitempty"`
	StepDepth  float64 `json:"stepDepth,omitempty" yaml:"stepDepth,omitempty" toml:"stepDepth,omitempty"`
}

// Template is a gallery room template.
type Template struct {
	ID                string           `json:"_id" yaml:"id" toml:"id"`
	Name              string           `json:"name" yaml:"name" toml:"name"`
	Description       string           `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Dimensions        RoomDimensions   `json:"dimensions" yaml:"dimensions" toml:"dimensions"`
	WallThickness     float64          `json:"wallThickness" yaml:"wallThickness" toml:"wallThickness"`
	WallHeight        float64          `json:"wallHeight,omitempty" yaml:"wallHeight,omitempty" toml:"wallHeight,omitempty"`
	ModelPath         string           `json:"modelPath" yaml:"modelPath" toml:"modelPath"`
	ModelPosition     Vec3             `json:"modelPosition" yaml:"modelPosition" toml:"modelPosition"`
	ModelRotation     Vec3             `json:"modelRotation" yaml:"modelRotation" toml:"modelRotation"`
	ModelScale        float64          `json:"modelScale" yaml:"modelScale" toml:"modelScale"`
	PreviewImage      string           `json:"previewImage,omitempty" yaml:"previewImage,omitempty" toml:"previewImage,omitempty"`
	IsPremium         bool             `json:"isPremium,omitempty" yaml:"isPremium,omitempty" toml:"isPremium,omitempty"`
	ArtworkPlacements []Placement      `json:"artworkPlacements" yaml:"artworkPlacements" toml:"artworkPlacements"`
	CustomColliders   []ColliderConfig `json:"customColliders" yaml:"customColliders" toml:"customColliders"`
}

// Artwork is the artwork metadata embedded in an exhibition.
// Exhibitions may carry only the id; the remaining fields are then empty.
type Artwork struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    []string `json:"category,omitempty"`
	Dimensions  struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"dimensions"`
	LowResURL string  `json:"lowResUrl,omitempty"`
	Status    string  `json:"status,omitempty"`
	Views     int     `json:"views,omitempty"`
	Price     float64 `json:"price,omitempty"`
	ArtistID  string  `json:"artistId,omitempty"`
}

// ArtworkPosition assigns an artwork to a template placement slot.
type ArtworkPosition struct {
	Artwork       Artwork `json:"artwork"`
	PositionIndex int     `json:"positionIndex"`
}

// Content is one localized name/description pair.
type Content struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

// LanguageOption declares a language the exhibition is offered in.
type LanguageOption struct {
	Name      string `json:"name,omitempty"`
	Code      string `json:"code"`
	IsDefault bool   `json:"isDefault"`
}

// Like is one user's like of one artwork.
type Like struct {
	ArtworkID string `json:"artworkId"`
	UserID    string `json:"userId"`
	Count     int    `json:"count,omitempty"`
}

// Result holds the exhibition's analytics.
type Result struct {
	Visits    int     `json:"visits"`
	Likes     []Like  `json:"likes"`
	TotalTime float64 `json:"totalTime"`
}

// Exhibition is the document supplied by the exhibition API.
type Exhibition struct {
	ID               string            `json:"_id"`
	LinkName         string            `json:"linkName,omitempty"`
	Status           string            `json:"status,omitempty"`
	BackgroundAudio  string            `json:"backgroundAudio,omitempty"`
	Contents         []Content         `json:"contents"`
	Gallery          GalleryRef        `json:"gallery"`
	ArtworkPositions []ArtworkPosition `json:"artworkPositions"`
	Result           Result            `json:"result"`
	LanguageOptions  []LanguageOption  `json:"languageOptions"`
}
