package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds paths, preview settings, backend and session settings.
// Precedence: CLI flags, then GALLERY_* environment, then the JSON file,
// then defaults.
type Config struct {
	// Paths
	BaseDir       string `json:"base_dir" env:"GALLERY_BASE_DIR"`
	ExhibitionDir string `json:"exhibition_dir" env:"GALLERY_EXHIBITION_DIR"`
	TemplateDir   string `json:"template_dir" env:"GALLERY_TEMPLATE_DIR"`
	ArtworkDir    string `json:"artwork_dir" env:"GALLERY_ARTWORK_DIR"`
	OutputDir     string `json:"output_dir" env:"GALLERY_OUTPUT_DIR"`

	// Plan preview settings
	PreviewSize int `json:"preview_size" env:"GALLERY_PREVIEW_SIZE"`
	Supersample int `json:"supersample" env:"GALLERY_SUPERSAMPLE"`
	Workers     int `json:"workers" env:"GALLERY_WORKERS"`

	// Backend
	APIURL   string `json:"api_url" env:"GALLERY_API_URL"`
	APIToken string `json:"-" env:"GALLERY_API_TOKEN"`

	// Session server
	ListenAddr string `json:"listen_addr" env:"GALLERY_LISTEN_ADDR"`
	Locale     string `json:"locale" env:"GALLERY_LOCALE"`

	// Navigation tuning; zero keeps the engine defaults.
	CaptureDelay time.Duration `json:"capture_delay" env:"GALLERY_CAPTURE_DELAY"`
	MoveSpeed    float64       `json:"move_speed" env:"GALLERY_MOVE_SPEED"`
	PointerSpeed float64       `json:"pointer_speed" env:"GALLERY_POINTER_SPEED"`

	// Placement tuning; unset keeps the engine defaults, 0 is honoured.
	WallOffset     *float64 `json:"wall_offset" env:"GALLERY_WALL_OFFSET"`
	HeightPosition *float64 `json:"height_position" env:"GALLERY_HEIGHT_POSITION"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from GALLERY_* environment variables.
// Unset variables leave fields untouched.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// ApplyEnvFrom is ApplyEnv over an explicit environment.
func (c *Config) ApplyEnvFrom(environ map[string]string) error {
	if err := env.ParseWithOptions(c, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	OutputDir string
	APIURL    string
	Listen    string
	Locale    string
	Workers   int
	Size      int
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file and environment
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.APIURL != "" {
		c.APIURL = flags.APIURL
	}
	if flags.Listen != "" {
		c.ListenAddr = flags.Listen
	}
	if flags.Locale != "" {
		c.Locale = flags.Locale
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.PreviewSize = flags.Size
	}

	// Auto-detect base dir if still empty
	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		c.ExhibitionDir = resolvePath(c.BaseDir, c.ExhibitionDir, "exhibitions")
		c.TemplateDir = resolvePath(c.BaseDir, c.TemplateDir, "templates")
		c.ArtworkDir = resolvePath(c.BaseDir, c.ArtworkDir, "artworks")
		c.OutputDir = resolvePath(c.BaseDir, c.OutputDir, "previews")
	}

	// Defaults
	if c.PreviewSize <= 0 {
		c.PreviewSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
}

func resolvePath(base, p, def string) string {
	switch {
	case p == "":
		return filepath.Join(base, def)
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(base, p)
	}
}

// detectBaseDir looks for a directory holding templates/ next to the
// executable or the working directory.
func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if _, err := os.Stat(filepath.Join(base, "templates")); err == nil {
				return base
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, "templates")); err == nil {
		return cwd
	}

	// Try parent of cwd
	parent := filepath.Dir(cwd)
	if _, err := os.Stat(filepath.Join(parent, "templates")); err == nil {
		return parent
	}

	return ""
}
