package assemble

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-engine/internal/gallery"
)

func exhibition() gallery.Exhibition {
	tpl := &gallery.Template{
		ID:            "g1",
		Name:          "Modern A1",
		Dimensions:    gallery.RoomDimensions{XAxis: 18.8, YAxis: 14, ZAxis: 30},
		WallThickness: 0.2,
		ArtworkPlacements: []gallery.Placement{
			{Position: Vec3{-3, 4, -14.85}},
			{Position: Vec3{0, 4, -14.85}},
			{Position: Vec3{3, 4, -14.85}, Rotation: Vec3{0, 1, 0}},
		},
	}
	return gallery.Exhibition{
		ID: "e1",
		Contents: []gallery.Content{
			{LanguageCode: "vi", Name: "Triển lãm", Description: "mô tả"},
			{LanguageCode: "en", Name: "Exhibition", Description: "desc"},
		},
		LanguageOptions: []gallery.LanguageOption{
			{Code: "en"},
			{Code: "vi", IsDefault: true},
		},
		Gallery: gallery.GalleryRef{ID: "g1", Template: tpl},
		ArtworkPositions: []gallery.ArtworkPosition{
			{Artwork: gallery.Artwork{ID: "a1", Title: "One"}, PositionIndex: 0},
			{Artwork: gallery.Artwork{ID: "a2"}, PositionIndex: 2},
			{Artwork: gallery.Artwork{ID: "a3"}, PositionIndex: 3},
			{Artwork: gallery.Artwork{ID: "a4"}, PositionIndex: -1},
		},
		Result: gallery.Result{Likes: []gallery.Like{
			{ArtworkID: "a1", UserID: "u1"},
			{ArtworkID: "a2", UserID: "u2"},
			{ArtworkID: "a1", UserID: "u3"},
		}},
	}
}

func TestLikesExample(t *testing.T) {
	likes := []gallery.Like{
		{ArtworkID: "a1", UserID: "u1"},
		{ArtworkID: "a2", UserID: "u2"},
		{ArtworkID: "a1", UserID: "u3"},
	}
	assert.Equal(t, Likes{UserIDs: []string{"u1", "u3"}, Count: 2}, LikesFor(likes, "a1"))
	assert.Equal(t, Likes{UserIDs: []string{}, Count: 0}, LikesFor(likes, "zz"))
	assert.Equal(t, Likes{UserIDs: []string{}, Count: 0}, LikesFor(nil, "a1"))
}

func TestAssembleDropsOutOfRange(t *testing.T) {
	cfg := Assemble(exhibition(), "en")
	require.Len(t, cfg.Artworks, 2)

	a1 := cfg.Artworks[0]
	assert.Equal(t, "a1", a1.ID)
	assert.Equal(t, "One", a1.Meta.Title)
	assert.Equal(t, Vec3{-3, 4, -14.85}, a1.Position)
	assert.Equal(t, []string{"u1", "u3"}, a1.Likes.UserIDs)
	assert.Equal(t, 2, a1.Likes.Count)

	a2 := cfg.Artworks[1]
	assert.Equal(t, 2, a2.PositionIndex)
	assert.Equal(t, Vec3{0, 1, 0}, a2.Rotation)
	assert.Equal(t, 1, a2.Likes.Count)

	_, ok := cfg.Lookup("a3")
	assert.False(t, ok)
	got, ok := cfg.Lookup("a2")
	require.True(t, ok)
	assert.Equal(t, a2, got)
}

func TestAssembleWithoutTemplate(t *testing.T) {
	ex := exhibition()
	ex.Gallery = gallery.GalleryRef{ID: "g9"}
	cfg := Assemble(ex, "en")
	assert.Empty(t, cfg.Artworks)
	assert.NotNil(t, cfg.Artworks)
	assert.Equal(t, "g9", cfg.Room.TemplateID)
	assert.Equal(t, DefaultWallHeight, cfg.Room.WallHeight)
}

func TestAssembleRoomModel(t *testing.T) {
	ex := exhibition()
	ex.Gallery.Template.WallHeight = 7
	ex.Gallery.Template.CustomColliders = []gallery.ColliderConfig{{Shape: gallery.ShapeBox}}
	cfg := Assemble(ex, "")
	assert.Equal(t, 7.0, cfg.Room.WallHeight)
	assert.Len(t, cfg.Room.Placements, 3)
	assert.Len(t, cfg.Room.CustomColliders, 1)

	tpl := cfg.Room.Template()
	assert.Equal(t, "g1", tpl.ID)
	assert.Equal(t, 7.0, tpl.WallHeight)

	// the room model does not alias the template's slices
	cfg.Room.Placements[0].Position = Vec3{}
	assert.Equal(t, Vec3{-3, 4, -14.85}, ex.Gallery.Template.ArtworkPlacements[0].Position)
}

func TestSelectContent(t *testing.T) {
	ex := exhibition()
	tests := []struct {
		hint, name, locale string
	}{
		{"en", "Exhibition", "en"},
		{"en-US", "Exhibition", "en"},
		{"en_GB", "Exhibition", "en"},
		{"vi", "Triển lãm", "vi"},
		{"fr", "Triển lãm", "vi"},
		{"", "Triển lãm", "vi"},
		{"not a tag!", "Triển lãm", "vi"},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			c, loc := SelectContent(ex, tt.hint)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.locale, loc)
		})
	}

	ex.LanguageOptions = nil
	c, _ := SelectContent(ex, "fr")
	assert.Equal(t, "Triển lãm", c.Name, "first entry when no default")

	ex.Contents = nil
	c, loc := SelectContent(ex, "en")
	assert.Equal(t, DefaultName, c.Name)
	assert.Empty(t, loc)
}

func fingerprint(t *testing.T, ex gallery.Exhibition, hint string) uint64 {
	t.Helper()
	key, err := Fingerprint(ex, hint)
	require.NoError(t, err)
	return key
}

func TestAssemblerMemo(t *testing.T) {
	a := NewAssembler(nil)
	ex := exhibition()

	first := a.Assemble(ex, "en")
	again := a.Assemble(ex, "en")
	assert.Equal(t, first, again)
	assert.Equal(t, fingerprint(t, ex, "en"), fingerprint(t, exhibition(), "en"))

	ex.Result.Likes = append(ex.Result.Likes, gallery.Like{ArtworkID: "a2", UserID: "u9"})
	assert.NotEqual(t, fingerprint(t, exhibition(), "en"), fingerprint(t, ex, "en"))
	changed := a.Assemble(ex, "en")
	a2, _ := changed.Lookup("a2")
	assert.Equal(t, 2, a2.Likes.Count)

	assert.NotEqual(t, fingerprint(t, ex, "en"), fingerprint(t, ex, "vi"))
}

func TestAssemblerSkipsUnencodableInput(t *testing.T) {
	a := NewAssembler(nil)
	ex := exhibition()
	ex.Gallery.Template.Dimensions.YAxis = math.NaN()

	_, err := Fingerprint(ex, "en")
	require.Error(t, err)

	first := a.Assemble(ex, "en")
	a1, ok := first.Lookup("a1")
	require.True(t, ok)
	assert.Equal(t, Vec3{-3, 4, -14.85}, a1.Position)

	// template edits are picked up even though nothing is cached
	ex.Gallery.Template.ArtworkPlacements[0].Position = Vec3{-4, 4, -14.85}
	second := a.Assemble(ex, "en")
	a1, _ = second.Lookup("a1")
	assert.Equal(t, Vec3{-4, 4, -14.85}, a1.Position)
}

func TestDecodeAndAssemble(t *testing.T) {
	doc := `{"data":{"exhibition":{
		"_id":"e2",
		"contents":[{"languageCode":"en","name":"Light","description":""}],
		"gallery":{"_id":"g2","name":"Box","dimensions":{"xAxis":10,"yAxis":4,"zAxis":10},
			"wallThickness":0.2,"wallHeight":4,"modelPath":"m.glb",
			"artworkPlacements":[{"position":[0,2,-4.85],"rotation":[0,0,0]}]},
		"artworkPositions":[{"artwork":"a1","positionIndex":0},{"artwork":{"_id":"a2","title":"T"},"positionIndex":5}],
		"result":{"visits":3,"likes":[{"artworkId":"a1","userId":"u1"}],"totalTime":0},
		"languageOptions":[{"code":"en","isDefault":true}]}}}`
	ex, err := gallery.DecodeExhibition(strings.NewReader(doc))
	require.NoError(t, err)

	cfg := Assemble(ex, "en")
	assert.Equal(t, "Light", cfg.Name)
	require.Len(t, cfg.Artworks, 1)
	assert.Equal(t, "a1", cfg.Artworks[0].ID)
	assert.Equal(t, Vec3{0, 2, -4.85}, cfg.Artworks[0].Position)
	assert.Equal(t, 1, cfg.Artworks[0].Likes.Count)
}
