package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-engine/internal/gallery"
)

const jsonTemplate = `{
  "_id": "tpl-json",
  "name": "Json Hall",
  "dimensions": {"xAxis": 10, "yAxis": 4, "zAxis": 20},
  "wallThickness": 0.2,
  "artworkPlacements": [{"position": [0, 2, -9.8], "rotation": [0, 0, 0]}],
  "customColliders": [{"shape": "stairs", "position": [0, 0, 0], "rotation": [0, 1.57, 0]}]
}`

const yamlTemplate = `id: tpl-yaml
name: Yaml Hall
dimensions:
  xAxis: 8
  yAxis: 3
  zAxis: 12
wallThickness: 0.1
artworkPlacements:
  - position: [1, 2, 3]
    rotation: [0, 3.14, 0]
customColliders:
  - shape: curved
    position: [0, 0, 0]
    rotation: [0, 0, 0]
    radius: 2
    height: 3
`

const tomlTemplate = `name = "Toml Hall"
wallThickness = 0.3

[dimensions]
xAxis = 6
yAxis = 3
zAxis = 6

[[artworkPlacements]]
position = [0.0, 2.0, -2.9]
rotation = [0.0, 0.0, 0.0]
`

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDecodeTemplateFormats(t *testing.T) {
	dir := t.TempDir()

	jt, err := DecodeTemplate(writeFile(t, dir, "a.json", jsonTemplate))
	require.NoError(t, err)
	assert.Equal(t, "tpl-json", jt.ID)
	assert.Equal(t, 20.0, jt.Dimensions.ZAxis)
	require.Len(t, jt.CustomColliders, 1)
	assert.Equal(t, gallery.ShapeStairs, jt.CustomColliders[0].Shape)

	yt, err := DecodeTemplate(writeFile(t, dir, "b.yaml", yamlTemplate))
	require.NoError(t, err)
	assert.Equal(t, "tpl-yaml", yt.ID)
	require.Len(t, yt.ArtworkPlacements, 1)
	assert.Equal(t, gallery.Vec3{1, 2, 3}, yt.ArtworkPlacements[0].Position)
	assert.Equal(t, 2.0, yt.CustomColliders[0].Radius)

	tt, err := DecodeTemplate(writeFile(t, dir, "hall.toml", tomlTemplate))
	require.NoError(t, err)
	assert.Equal(t, "hall", tt.ID, "id falls back to the file name")
	assert.Equal(t, "Toml Hall", tt.Name)
	assert.InDelta(t, -2.9, tt.ArtworkPlacements[0].Position[2], 1e-9)
}

func TestDecodeTemplateErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := DecodeTemplate(writeFile(t, dir, "x.txt", "{}"))
	assert.Error(t, err)

	_, err = DecodeTemplate(writeFile(t, dir, "bad.json", "{"))
	assert.Error(t, err)

	_, err = DecodeTemplate(writeFile(t, dir, "flat.json", `{"_id":"f","dimensions":{"xAxis":1,"yAxis":0,"zAxis":1}}`))
	assert.Error(t, err)

	_, err = DecodeTemplate(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestOpenAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", jsonTemplate)
	writeFile(t, dir, "b.yml", yamlTemplate)
	writeFile(t, dir, "broken.json", "{")
	writeFile(t, dir, "notes.md", "ignored")

	c, err := Open(dir, quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"tpl-json", "tpl-yaml"}, c.IDs())

	ex := &gallery.Exhibition{ID: "ex1", Gallery: gallery.GalleryRef{ID: "tpl-yaml"}}
	require.NoError(t, c.Resolve(ex))
	require.True(t, ex.Gallery.Resolved())
	assert.Equal(t, "Yaml Hall", ex.Gallery.Template.Name)

	// already resolved refs are left alone
	inline := &gallery.Template{ID: "inline", Name: "Inline"}
	ex2 := &gallery.Exhibition{Gallery: gallery.GalleryRef{ID: "inline", Template: inline}}
	require.NoError(t, c.Resolve(ex2))
	assert.Same(t, inline, ex2.Gallery.Template)

	ex3 := &gallery.Exhibition{Gallery: gallery.GalleryRef{ID: "nope"}}
	assert.ErrorIs(t, c.Resolve(ex3), ErrUnknownTemplate)
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"), quiet())
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", jsonTemplate)

	c, err := Open(dir, quiet())
	require.NoError(t, err)
	_, ok := c.Get("tpl-yaml")
	require.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan error, 8)
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, 20*time.Millisecond, func(err error) { reloaded <- err }) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "b.yaml", yamlTemplate)

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after template write")
	}
	_, ok = c.Get("tpl-yaml")
	assert.True(t, ok)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
