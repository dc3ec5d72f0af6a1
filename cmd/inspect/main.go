package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/catalog"
	"gallery-engine/internal/collider"
	"gallery-engine/internal/gallery"
	"gallery-engine/internal/placement"
	"gallery-engine/internal/session"
)

func main() {
	templateDir := flag.String("templates", "", "Template directory for exhibitions that reference a template by id")
	locale := flag.String("locale", "", "Preferred content language")
	asJSON := flag.Bool("json", false, "Print the assembled gallery and colliders as JSON")
	wall := flag.String("wall", "", "Instead of an exhibition, lay out -count artworks on this wall of a template file (back, front, left, right)")
	count := flag.Int("count", 3, "Artwork count for -wall")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [flags] <exhibition.json | template file with -wall>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *wall != "" {
		if err := inspectWall(path, placement.WallType(*wall), *count); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ex, err := gallery.LoadExhibition(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ex.Gallery.Resolved() {
		if *templateDir == "" {
			fmt.Fprintf(os.Stderr, "Error: template %q is not embedded; pass -templates\n", ex.Gallery.ID)
			os.Exit(1)
		}
		cat, err := catalog.Open(*templateDir, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cat.Resolve(&ex); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg := assemble.Assemble(ex, *locale)
	set := collider.Synthesize(cfg.Room.Template(), collider.Options{})

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Gallery   assemble.Config `json:"gallery"`
			Colliders collider.Set    `json:"colliders"`
		}{cfg, set}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	room := cfg.Room
	fmt.Printf("Exhibition: %s %q (locale %s)\n", cfg.ID, cfg.Name, cfg.Locale)
	fmt.Printf("Template: %s %q\n", room.TemplateID, room.Name)
	fmt.Printf("  Room: %.2f x %.2f x %.2f, walls %.2f thick, %.2f high\n",
		room.Dimensions.XAxis, room.Dimensions.YAxis, room.Dimensions.ZAxis, room.WallThickness, room.WallHeight)
	fmt.Printf("  Model: %q scale %.2f at %v\n", room.ModelPath, room.ModelScale, room.ModelPosition)
	spawn := session.DefaultSpawn(cfg)
	fmt.Printf("  Spawn: (%.2f, %.2f, %.2f)\n", spawn[0], spawn[1], spawn[2])

	fmt.Printf("Artworks: %d placed, %d dropped, %d slots\n",
		len(cfg.Artworks), len(ex.ArtworkPositions)-len(cfg.Artworks), len(room.Placements))
	for _, a := range cfg.Artworks {
		title := a.Meta.Title
		if title == "" {
			title = "-"
		}
		fmt.Printf("  [%d] %s %q pos=(%.2f, %.2f, %.2f) rot=(%.2f, %.2f, %.2f) likes=%d\n",
			a.PositionIndex, a.ID, title,
			a.Position[0], a.Position[1], a.Position[2],
			a.Rotation[0], a.Rotation[1], a.Rotation[2],
			a.Likes.Count)
	}

	fmt.Printf("Colliders: %d (+ floor)\n", set.Count())
	list := func(kind string, cs []collider.Collider) {
		for _, c := range cs {
			fmt.Printf("  %-6s %-12s %-7s boxes=%d", kind, c.Name, c.Shape, len(c.Boxes))
			if len(c.Boxes) > 0 {
				b := c.Boxes[0]
				fmt.Printf(" first=(%.2f, %.2f, %.2f) size=(%.2f, %.2f, %.2f) friction=%.2f",
					b.Position[0], b.Position[1], b.Position[2],
					b.Extents[0], b.Extents[1], b.Extents[2], b.Friction)
			}
			fmt.Println()
		}
	}
	list("wall", set.Walls)
	list("custom", set.Custom)
	f := set.Floor
	fmt.Printf("  floor  size=(%.2f, %.2f, %.2f) at y=%.2f\n", f.Extents[0], f.Extents[1], f.Extents[2], f.Position[1])
}

func inspectWall(path string, wall placement.WallType, count int) error {
	t, err := catalog.DecodeTemplate(path)
	if err != nil {
		return err
	}
	var dim float64
	switch wall {
	case placement.Back, placement.Front:
		dim = t.Dimensions.XAxis
	case placement.Left, placement.Right:
		dim = t.Dimensions.ZAxis
	default:
		return fmt.Errorf("unknown wall %q", wall)
	}

	l := placement.ComputeWallPositions(placement.WallSpec{Type: wall}, dim, count, t.Dimensions, placement.Options{})
	fmt.Printf("Template %s, %s wall (%.2f wide), %d artworks\n", t.ID, wall, dim, count)
	for i, s := range placement.Slots(l) {
		fmt.Printf("  [%d] pos=(%.2f, %.2f, %.2f) rot=(%.2f, %.2f, %.2f)\n", i,
			s.Position[0], s.Position[1], s.Position[2],
			s.Rotation[0], s.Rotation[1], s.Rotation[2])
	}
	return nil
}
