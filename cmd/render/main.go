package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gallery-engine/internal/batch"
	"gallery-engine/internal/catalog"
	"gallery-engine/internal/config"
	"gallery-engine/internal/placement"
	"gallery-engine/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only the first N exhibitions")
	only := flag.String("only", "", "Render only the exhibition file with this name (without .json)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/previews)")
	size := flag.Int("size", 0, "Preview long side in pixels (default: 512)")
	locale := flag.String("locale", "", "Preferred content language (default: en)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file and environment
	cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		OutputDir: *outputDir,
		Locale:    *locale,
		Workers:   *workers,
		Size:      *size,
	})

	if cfg.BaseDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find a data directory with templates/. Use -data flag or config.json.")
		os.Exit(1)
	}

	paths, err := batch.Discover(cfg.ExhibitionDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *only != "" {
		var filtered []string
		for _, p := range paths {
			if strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)) == *only {
				filtered = append(filtered, p)
			}
		}
		paths = filtered
	}

	// Limit for testing
	if *testN > 0 && *testN < len(paths) {
		paths = paths[:*testN]
	}

	if len(paths) == 0 {
		fmt.Println("No exhibitions to render.")
		os.Exit(0)
	}

	templates, err := catalog.Open(cfg.TemplateDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: template catalog: %v\n", err)
	} else {
		fmt.Printf("Templates: %d loaded\n", len(templates.IDs()))
	}

	texIndex := texture.BuildIndex(cfg.ArtworkDir)
	texCache := texture.NewCache(texIndex, 256)
	fmt.Printf("Artwork images: %d indexed\n", texIndex.Len())

	mode := ""
	if *only != "" {
		mode = fmt.Sprintf(" (only %s)", *only)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Gallery plan previews → WebP%s\n", mode)
	fmt.Printf("Exhibitions: %d, Workers: %d\n", len(paths), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Textures:    texCache,
		Locale:      cfg.Locale,
		PreviewSize: cfg.PreviewSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Placement: placement.Options{
			WallOffset:     cfg.WallOffset,
			HeightPosition: cfg.HeightPosition,
		},
		Progress: os.Stdout,
	}
	if templates != nil {
		batchCfg.Templates = templates
	}

	results := batch.Run(batchCfg, paths)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	manifest := batch.NewManifest(results, time.Now())
	fmt.Printf("Rendered: %d/%d\n", manifest.Succeeded, manifest.Total)

	if manifest.Failed > 0 {
		fmt.Printf("\nFailed (%d):\n", manifest.Failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			fmt.Printf("  %s: %s\n", r.Source, r.Error)
			if shown++; shown == 20 {
				break
			}
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0o755)
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if manifest.Failed > 0 {
		os.Exit(1)
	}
}
