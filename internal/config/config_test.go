package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-raster/internal/engine/lighting"
	"github.com/Faultbox/midgard-raster/internal/engine/shader"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test render defaults
	if cfg.Render.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Render.Width)
	}
	if cfg.Render.Height != 600 {
		t.Errorf("expected height 600, got %d", cfg.Render.Height)
	}
	if cfg.Render.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Render.Workers)
	}
	if cfg.Render.MaskBlurRadius != -1 {
		t.Errorf("expected automatic blur radius, got %d", cfg.Render.MaskBlurRadius)
	}

	// Test shadow defaults
	if !cfg.Shadow.Enabled {
		t.Error("expected shadows enabled by default")
	}
	if cfg.Shadow.Filter != "pcss" {
		t.Errorf("expected filter pcss, got %s", cfg.Shadow.Filter)
	}
	if cfg.Shadow.Resolution != 2048 {
		t.Errorf("expected resolution 2048, got %d", cfg.Shadow.Resolution)
	}

	// Test window defaults
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
render:
  width: 1920
  height: 1080
  workers: 6
  shader: unlit
  background: [0, 0.25, 1]

camera:
  fov_y: 60

shadow:
  filter: pcf
  pcf_radius: 3
  penumbra_mask: false

window:
  fullscreen: true
  vsync: false

scene:
  path: "scenes/demo.yaml"
  texture_max_size: 512

logging:
  level: "debug"
  log_file: "render.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Render.Width != 1920 || cfg.Render.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Workers != 6 {
		t.Errorf("expected 6 workers, got %d", cfg.Render.Workers)
	}
	if cfg.Render.Shader != "unlit" {
		t.Errorf("expected shader unlit, got %s", cfg.Render.Shader)
	}
	if len(cfg.Render.Background) != 3 || cfg.Render.Background[2] != 1 {
		t.Errorf("unexpected background %v", cfg.Render.Background)
	}
	if cfg.Camera.FovY != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FovY)
	}
	// Unset keys keep their defaults
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected near 0.1, got %f", cfg.Camera.Near)
	}
	if cfg.Shadow.Filter != "pcf" || cfg.Shadow.PCFRadius != 3 {
		t.Errorf("unexpected shadow config %+v", cfg.Shadow)
	}
	if cfg.Shadow.PenumbraMask {
		t.Error("expected penumbra mask to be disabled")
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Scene.Path != "scenes/demo.yaml" || cfg.Scene.TextureMaxSize != 512 {
		t.Errorf("unexpected scene config %+v", cfg.Scene)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "render.log" {
		t.Errorf("expected log file 'render.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
render:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Window.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "size flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Width != 2560 || cfg.Render.Height != 1440 {
					t.Errorf("expected render 2560x1440, got %dx%d", cfg.Render.Width, cfg.Render.Height)
				}
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected window 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "zero workers flag",
			setup: func() { *flagWorkers = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Workers != 0 {
					t.Errorf("expected workers 0, got %d", cfg.Render.Workers)
				}
			},
			teardown: func() { *flagWorkers = -1 },
		},
		{
			name: "shadow flags",
			setup: func() {
				*flagShadow = "direct"
				*flagNoShadows = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shadow.Filter != "direct" {
					t.Errorf("expected filter direct, got %s", cfg.Shadow.Filter)
				}
				if cfg.Shadow.Enabled {
					t.Error("expected shadows disabled")
				}
			},
			teardown: func() {
				*flagShadow = ""
				*flagNoShadows = false
			},
		},
		{
			name: "scene and output flags",
			setup: func() {
				*flagScene = "a.yaml"
				*flagOutput = "b.png"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Path != "a.yaml" || cfg.Render.Output != "b.png" {
					t.Errorf("unexpected paths %s, %s", cfg.Scene.Path, cfg.Render.Output)
				}
			},
			teardown: func() {
				*flagScene = ""
				*flagOutput = ""
			},
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
render:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Render.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Render.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Render.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Render.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Shadow.Filter = "pcf"
	cfg.Render.Background = []float64{0.1, 0.2, 0.3}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got := Default()
	if err := loadFromFile(got, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if got.Shadow.Filter != "pcf" || got.Render.Background[1] != 0.2 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestSceneOptions(t *testing.T) {
	cfg := Default()
	cfg.Render.Ambient = "per_light"
	cfg.Render.Background = []float64{0, 0, 1}

	sc, err := cfg.SceneOptions(nil)
	if err != nil {
		t.Fatalf("SceneOptions: %v", err)
	}
	if sc.Width != 800 || sc.Background != (math.Vec3{0, 0, 1}) {
		t.Errorf("unexpected scene config %+v", sc)
	}
	bp, ok := sc.Shader.(*shader.BlinnPhong)
	if !ok || bp.Mode != shader.AmbientPerLight {
		t.Errorf("shader = %#v, want per-light Blinn-Phong", sc.Shader)
	}

	bad := []func(*Config){
		func(c *Config) { c.Render.Shader = "toon" },
		func(c *Config) { c.Render.Ambient = "global" },
		func(c *Config) { c.Render.Background = []float64{1, 1} },
	}
	for i, mutate := range bad {
		c := Default()
		mutate(c)
		if _, err := c.SceneOptions(nil); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestShadowSettings(t *testing.T) {
	cfg := Default()
	cfg.Shadow.Filter = "pcf"
	cfg.Shadow.Resolution = 512

	s, err := cfg.ShadowSettings()
	if err != nil {
		t.Fatalf("ShadowSettings: %v", err)
	}
	if s.Filter != lighting.PCF || s.Width != 512 || s.Height != 512 {
		t.Errorf("unexpected settings %+v", s)
	}

	cfg.Shadow.Filter = "vsm"
	if _, err := cfg.ShadowSettings(); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestLoadFromFileStrict(t *testing.T) {
	dir := t.TempDir()

	typo := filepath.Join(dir, "typo.yaml")
	if err := os.WriteFile(typo, []byte("render:\n  widht: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), typo); err == nil {
		t.Error("expected error for unknown key")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, empty); err != nil {
		t.Errorf("empty file: %v", err)
	}
	if cfg.Render.Width != 800 {
		t.Errorf("empty file changed width to %d", cfg.Render.Width)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"negative frames", func(c *Config) { c.Render.Frames = -1 }},
		{"near after far", func(c *Config) { c.Camera.Near, c.Camera.Far = 10, 1 }},
		{"flat fov", func(c *Config) { c.Camera.FovY = 180 }},
		{"unknown shader", func(c *Config) { c.Render.Shader = "toon" }},
		{"unknown filter", func(c *Config) { c.Shadow.Filter = "vsm" }},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Render.Height = -5
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected error saving invalid config")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("invalid config was written: %v", err)
	}

	// The directory holds only the saved file after a good save
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.yaml" {
		t.Errorf("unexpected files after save: %v", entries)
	}
}

func TestConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("render:\n  width: 320\n  height: 200\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Width != 320 || cfg.Render.Height != 200 {
		t.Errorf("expected 320x200 from %s, got %dx%d", EnvConfig, cfg.Render.Width, cfg.Render.Height)
	}

	// The flag wins over the environment
	*flagConfig = filepath.Join(t.TempDir(), "missing.yaml")
	defer func() { *flagConfig = "" }()
	if _, err := Load(); err == nil {
		t.Error("expected error for missing -config file")
	}
}
