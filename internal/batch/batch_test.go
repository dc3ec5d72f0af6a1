package batch

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-engine/internal/gallery"
)

const embedded = `{
  "_id": "ex-embedded",
  "contents": [{"languageCode": "en", "name": "Spring Show"}],
  "gallery": {
    "_id": "hall",
    "dimensions": {"xAxis": 10, "yAxis": 4, "zAxis": 20},
    "wallThickness": 0.2,
    "artworkPlacements": [{"position": [0, 2, -9.8], "rotation": [0, 0, 0]}]
  },
  "artworkPositions": [
    {"artwork": "a1", "positionIndex": 0},
    {"artwork": "a2", "positionIndex": 9}
  ]
}`

const byRef = `{
  "_id": "ex-ref",
  "gallery": "shared",
  "artworkPositions": [{"artwork": "a1", "positionIndex": 0}, {"artwork": "a2", "positionIndex": 1}]
}`

type fakeTemplates map[string]gallery.Template

func (f fakeTemplates) Resolve(ex *gallery.Exhibition) error {
	t, ok := f[ex.Gallery.ID]
	if !ok {
		return errors.New("unknown template")
	}
	ex.Gallery.Template = &t
	return nil
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.json", "{}")
	write(t, dir, "a.JSON", "{}")
	write(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.JSON"), filepath.Join(dir, "b.json")}, paths)

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	write(t, in, "1.json", embedded)
	write(t, in, "2.json", byRef)
	write(t, in, "3.json", `{"_id": "ex-missing", "gallery": "nope"}`)
	write(t, in, "4.json", `{`)

	paths, err := Discover(in)
	require.NoError(t, err)

	templates := fakeTemplates{
		"shared": {ID: "shared", Dimensions: gallery.RoomDimensions{XAxis: 8, YAxis: 3, ZAxis: 8}, WallThickness: 0.1},
	}
	results := Run(Config{
		OutputDir:   out,
		Templates:   templates,
		Locale:      "en",
		PreviewSize: 64,
		Supersample: 2,
		Workers:     3,
	}, paths)
	require.Len(t, results, 4)

	r := results[0]
	require.True(t, r.Success, r.Error)
	assert.Equal(t, "ex-embedded", r.ID)
	assert.Equal(t, "Spring Show", r.Name)
	assert.Equal(t, "hall", r.TemplateID)
	assert.Equal(t, 1, r.Artworks)
	assert.Equal(t, 1, r.Dropped)
	assert.Equal(t, 4, r.Colliders)
	assert.FileExists(t, filepath.Join(out, "ex-embedded.webp"))

	r = results[1]
	require.True(t, r.Success, r.Error)
	assert.Equal(t, "shared", r.TemplateID)
	assert.Equal(t, 2, r.Artworks, "slots are generated for templates without placements")
	assert.Equal(t, 0, r.Dropped)
	assert.FileExists(t, filepath.Join(out, "ex-ref.webp"))

	assert.False(t, results[2].Success)
	assert.NotEmpty(t, results[2].Error)
	assert.False(t, results[3].Success)

	m := NewManifest(results, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 2, m.Succeeded)
	assert.Equal(t, 2, m.Failed)

	mp := filepath.Join(out, "manifest.json")
	require.NoError(t, WriteManifest(mp, m))
	data, err := os.ReadFile(mp)
	require.NoError(t, err)
	var back Manifest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m.Succeeded, back.Succeeded)
	assert.Equal(t, "ex-embedded.webp", back.Entries[0].Image)
}

func TestRunWithoutResolver(t *testing.T) {
	in := t.TempDir()
	write(t, in, "x.json", byRef)
	results := Run(Config{OutputDir: t.TempDir(), PreviewSize: 16}, []string{filepath.Join(in, "x.json")})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "not embedded")
}
