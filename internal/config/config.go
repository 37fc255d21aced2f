// Package config handles renderer configuration loading and management.
package config

// Config holds all renderer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Shadow  ShadowConfig  `yaml:"shadow"`
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds image and pipeline settings.
type RenderConfig struct {
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	Workers    int       `yaml:"workers"` // 0 uses every CPU
	Shader     string    `yaml:"shader"`  // blinn_phong, unlit or normals
	Ambient    string    `yaml:"ambient_mode"`
	Background []float64 `yaml:"background"`

	// MaskBlurRadius is in mask cells; negative derives it from the size.
	MaskBlurRadius int  `yaml:"mask_blur_radius"`
	FitShadows     bool `yaml:"fit_directional_shadows"`

	Output string `yaml:"output"` // PNG path for headless renders
	Frames int    `yaml:"frames"` // headless frames, the last one is saved
}

// CameraConfig holds the default projection.
type CameraConfig struct {
	FovY float64 `yaml:"fov_y"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// ShadowConfig holds shadow defaults applied to every light unless the
// scene file overrides them.
type ShadowConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Resolution   int     `yaml:"resolution"`
	Filter       string  `yaml:"filter"` // direct, pcf or pcss
	PCFRadius    int     `yaml:"pcf_radius"`
	LightSize    float64 `yaml:"light_size"`
	BiasScale    float64 `yaml:"bias_scale"`
	PCFAccel     bool    `yaml:"pcf_accel"`
	PCSSAccel    bool    `yaml:"pcss_accel"`
	Samples      int     `yaml:"samples"`
	Clump        float64 `yaml:"clump"`
	PenumbraMask bool    `yaml:"penumbra_mask"`
}

// WindowConfig holds viewer window settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	ShowFPS    bool   `yaml:"show_fps"`
}

// SceneConfig holds scene file settings.
type SceneConfig struct {
	Path           string `yaml:"path"`
	TextureMaxSize int    `yaml:"texture_max_size"` // 0 keeps full size
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:          800,
			Height:         600,
			Workers:        0,
			Shader:         "blinn_phong",
			Ambient:        "per_pixel",
			Background:     []float64{0.7, 0.7, 0.7},
			MaskBlurRadius: -1,
			FitShadows:     false,
			Output:         "frame.png",
			Frames:         1,
		},
		Camera: CameraConfig{
			FovY: 45,
			Near: 0.1,
			Far:  100,
		},
		Shadow: ShadowConfig{
			Enabled:      true,
			Resolution:   2048,
			Filter:       "pcss",
			PCFRadius:    1,
			LightSize:    1,
			BiasScale:    0.05,
			PCFAccel:     false,
			PCSSAccel:    true,
			Samples:      64,
			Clump:        1,
			PenumbraMask: true,
		},
		Window: WindowConfig{
			Title:      "midgard-raster",
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			ShowFPS:    true,
		},
		Scene: SceneConfig{
			Path:           "scenes/demo.yaml",
			TextureMaxSize: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
