// Package batch renders plan previews for a directory of exhibitions with
// a worker pool and records them in a manifest.
package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/collider"
	"gallery-engine/internal/gallery"
	"gallery-engine/internal/placement"
	"gallery-engine/internal/raster"
	"gallery-engine/internal/session"
	"gallery-engine/internal/texture"
)

// TemplateResolver fills in an exhibition's gallery template.
type TemplateResolver interface {
	Resolve(ex *gallery.Exhibition) error
}

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Templates   TemplateResolver
	Textures    texture.Resolver
	Locale      string
	PreviewSize int
	Supersample int
	Workers     int
	// Placement fills templates that declare no placements.
	Placement placement.Options
	// Progress receives periodic progress lines; nil discards them.
	Progress io.Writer
}

// Result holds the outcome of processing one exhibition file.
type Result struct {
	Source     string `json:"source"`
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Locale     string `json:"locale,omitempty"`
	TemplateID string `json:"template,omitempty"`
	Artworks   int    `json:"artworks"`
	Dropped    int    `json:"dropped"`
	Colliders  int    `json:"colliders"`
	Image      string `json:"image,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// Discover lists the exhibition documents (*.json) in dir, sorted.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Run processes all files using a worker pool. Results are in input order.
func Run(cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Fprintf(progress, "  [%d/%d] %.1f exhibitions/sec\n", p, total, rate)
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processFile(cfg, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, path string) Result {
	res := Result{Source: filepath.Base(path)}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	ex, err := gallery.LoadExhibition(path)
	if err != nil {
		return fail(err)
	}
	res.ID = ex.ID
	if !ex.Gallery.Resolved() {
		if cfg.Templates == nil {
			return fail(fmt.Errorf("batch: %s: template %q is not embedded", path, ex.Gallery.ID))
		}
		if err := cfg.Templates.Resolve(&ex); err != nil {
			return fail(err)
		}
	}
	res.TemplateID = ex.Gallery.ID
	if res.TemplateID == "" {
		res.TemplateID = ex.Gallery.Template.ID
	}

	if len(ex.Gallery.Template.ArtworkPlacements) == 0 && len(ex.ArtworkPositions) > 0 {
		// give the room evenly spaced slots on the four walls
		tpl := *ex.Gallery.Template
		tpl.ArtworkPlacements = placement.PlanRoom(tpl.Dimensions, placement.Spread(len(ex.ArtworkPositions)), cfg.Placement)
		ex.Gallery.Template = &tpl
	}

	sc := assemble.Assemble(ex, cfg.Locale)
	res.Name = sc.Name
	res.Locale = sc.Locale
	res.Artworks = len(sc.Artworks)
	res.Dropped = len(ex.ArtworkPositions) - len(sc.Artworks)

	set := collider.Synthesize(sc.Room.Template(), collider.Options{})
	res.Colliders = set.Count()

	spawn := session.DefaultSpawn(sc)
	img := raster.RenderPlan(sc, set, raster.Options{
		Size:        cfg.PreviewSize,
		Supersample: cfg.Supersample,
		Margin:      8,
		Spawn:       &spawn,
		Textures:    cfg.Textures,
	})

	name := ex.ID
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	res.Image = name + ".webp"

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fail(err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fail(fmt.Errorf("batch: webp encode %s: %w", outPath, err))
	}

	res.Success = true
	return res
}
