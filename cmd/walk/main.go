// Command walk opens a desktop window with a top-down view of an exhibition
// and lets you walk through it with the first-person controls: click to
// capture the pointer, WASD or arrows to move, Enter to focus the artwork
// you are facing, Escape to step back, C to continue, L to like, Q to quit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/backend"
	"gallery-engine/internal/catalog"
	"gallery-engine/internal/config"
	"gallery-engine/internal/focus"
	"gallery-engine/internal/gallery"
	"gallery-engine/internal/navigation"
	"gallery-engine/internal/raster"
	"gallery-engine/internal/session"
	"gallery-engine/internal/texture"
)

// pickAngle is how far off the line of sight Enter still selects an artwork.
const pickAngle = math.Pi / 6

var keyCodes = []struct {
	key  ebiten.Key
	code string
}{
	{ebiten.KeyW, "KeyW"},
	{ebiten.KeyA, "KeyA"},
	{ebiten.KeyS, "KeyS"},
	{ebiten.KeyD, "KeyD"},
	{ebiten.KeyArrowUp, "ArrowUp"},
	{ebiten.KeyArrowDown, "ArrowDown"},
	{ebiten.KeyArrowLeft, "ArrowLeft"},
	{ebiten.KeyArrowRight, "ArrowRight"},
}

// surface maps pointer capture onto ebiten's captured cursor mode.
type surface struct{}

func (surface) RequestPointerCapture() { ebiten.SetCursorMode(ebiten.CursorModeCaptured) }
func (surface) ExitPointerCapture()    { ebiten.SetCursorMode(ebiten.CursorModeVisible) }
func (surface) PointerCaptured() bool  { return ebiten.CursorMode() == ebiten.CursorModeCaptured }

type game struct {
	s    *session.Session
	plan *ebiten.Image
	proj raster.Projection

	last     time.Time
	captured bool
	cursorX  int
	cursorY  int
	snap     session.Snapshot
	status   string
}

func (g *game) Update() error {
	now := time.Now()
	dt := math.Min(now.Sub(g.last).Seconds(), 0.1)
	g.last = now

	if c := ebiten.CursorMode() == ebiten.CursorModeCaptured; c != g.captured {
		g.captured = c
		g.s.Enqueue(navigation.CaptureChanged{Captured: c})
		g.cursorX, g.cursorY = ebiten.CursorPosition()
	}

	for _, k := range keyCodes {
		if inpututil.IsKeyJustPressed(k.key) {
			g.s.Enqueue(navigation.KeyDown{Code: k.code})
		}
		if inpututil.IsKeyJustReleased(k.key) {
			g.s.Enqueue(navigation.KeyUp{Code: k.code})
		}
	}

	if g.captured {
		x, y := ebiten.CursorPosition()
		if dx, dy := x-g.cursorX, y-g.cursorY; dx != 0 || dy != 0 {
			g.s.Enqueue(navigation.Look{DX: float64(dx), DY: float64(dy)})
		}
		g.cursorX, g.cursorY = x, y
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.s.Nav.Active():
		g.s.Enqueue(session.Activate{})
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if a, ok := focus.Pick(g.s.Config, g.s.Camera.Position, g.s.Camera.Forward(), pickAngle); ok {
			g.s.Enqueue(session.Select{ArtworkID: a.ID})
			g.status = "focused " + title(a)
		} else {
			g.status = "no artwork in view"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if g.s.State.HasTarget() {
			g.s.Enqueue(session.CloseArtwork{})
		} else {
			g.s.Enqueue(session.Deactivate{})
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.s.Enqueue(session.Resume{})
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		if id := g.s.State.TargetID; id != "" {
			g.s.Enqueue(session.Like{ArtworkID: id})
			g.status = "liked " + id
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	}

	g.snap = g.s.Frame(now, dt)
	return nil
}

func title(a assemble.Artwork) string {
	if a.Meta.Title != "" {
		return a.Meta.Title
	}
	return a.ID
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{24, 24, 28, 255})
	screen.DrawImage(g.plan, nil)

	x, y := g.proj.Pixel(g.snap.Position)
	fwd := g.s.Camera.Forward()
	hx, hz := fwd[0], fwd[2]
	if l := math.Hypot(hx, hz); l > 1e-9 {
		hx, hz = hx/l, hz/l
	}
	reach := 1.2 * g.proj.Scale
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+hx*reach), float32(y+hz*reach), 2, color.NRGBA{250, 250, 250, 255}, true)
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(math.Max(3, 0.3*g.proj.Scale)), color.NRGBA{40, 140, 220, 255}, true)

	hud := fmt.Sprintf("%s  state=%s  pos=(%.1f, %.1f, %.1f)", g.s.Config.Name, g.snap.State,
		g.snap.Position[0], g.snap.Position[1], g.snap.Position[2])
	if g.snap.TargetID != "" {
		hud += "  target=" + g.snap.TargetID
	}
	if g.status != "" {
		hud += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.proj.Width, g.proj.Height
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	apiURL := flag.String("api", "", "Backend base URL for analytics and likes (default: none)")
	locale := flag.String("locale", "", "Preferred content language")
	size := flag.Int("size", 0, "Window long side in pixels (default: 720)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: walk [flags] <exhibition.json>")
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *size <= 0 && cfg.PreviewSize <= 0 {
		*size = 720
	}
	cfg.Resolve(config.Flags{DataDir: *dataDir, APIURL: *apiURL, Locale: *locale, Size: *size})

	if err := run(cfg, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, path string) error {
	log := slog.Default()

	ex, err := gallery.LoadExhibition(path)
	if err != nil {
		return err
	}
	if !ex.Gallery.Resolved() {
		cat, err := catalog.Open(cfg.TemplateDir, log)
		if err != nil {
			return err
		}
		if err := cat.Resolve(&ex); err != nil {
			return err
		}
	}
	scene := assemble.Assemble(ex, cfg.Locale)

	opts := session.Options{
		Navigation: navigation.Options{
			CaptureDelay: cfg.CaptureDelay,
			Speed:        cfg.MoveSpeed,
			PointerSpeed: cfg.PointerSpeed,
		},
		Logger: log,
	}
	var dispatcher *backend.Dispatcher
	if cfg.APIURL != "" {
		client, err := backend.NewClient(cfg.APIURL, cfg.APIToken, nil)
		if err != nil {
			return err
		}
		dispatcher = backend.NewDispatcher(client, backend.DispatcherOptions{Logger: log})
		opts.Outbound = dispatcher
	}

	s := session.New(scene, surface{}, time.Now(), opts)

	ropts := raster.Options{
		Size:        cfg.PreviewSize,
		Supersample: cfg.Supersample,
		Margin:      12,
		Textures:    texture.NewCache(texture.BuildIndex(cfg.ArtworkDir), 256),
	}
	img := raster.RenderPlan(scene, s.Colliders, ropts)

	g := &game{
		s:    s,
		plan: ebiten.NewImageFromImage(img),
		proj: raster.Project(s.Colliders, ropts),
		last: time.Now(),
	}

	ebiten.SetWindowTitle("Gallery walk: " + scene.Name)
	ebiten.SetWindowSize(g.proj.Width, g.proj.Height)
	ebiten.SetTPS(60)
	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}

	s.Close(time.Now())
	if dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := dispatcher.Close(ctx); cerr != nil {
			log.Warn("walk: backend flush", "err", cerr)
		}
		sent, failed, dropped := dispatcher.Stats()
		log.Info("walk: backend notifications", "sent", sent, "failed", failed, "dropped", dropped)
	}
	return err
}
