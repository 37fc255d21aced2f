package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Scene description file")
	flagOutput     = flag.String("out", "", "Output PNG path")
	flagWidth      = flag.Int("width", 0, "Image width")
	flagHeight     = flag.Int("height", 0, "Image height")
	flagWorkers    = flag.Int("workers", -1, "Worker count (0 = all CPUs)")
	flagFrames     = flag.Int("frames", 0, "Frames to render headless")
	flagShadow     = flag.String("shadow", "", "Shadow filter: direct, pcf or pcss")
	flagNoShadows  = flag.Bool("no-shadows", false, "Disable shadow maps")
	flagShader     = flag.String("shader", "", "Shader: blinn_phong, unlit or normals")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Window.ShowFPS = true
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagOutput != "" {
		cfg.Render.Output = *flagOutput
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
		cfg.Window.Height = *flagHeight
	}
	if *flagWorkers >= 0 {
		cfg.Render.Workers = *flagWorkers
	}
	if *flagFrames > 0 {
		cfg.Render.Frames = *flagFrames
	}
	if *flagShadow != "" {
		cfg.Shadow.Filter = *flagShadow
	}
	if *flagNoShadows {
		cfg.Shadow.Enabled = false
	}
	if *flagShader != "" {
		cfg.Render.Shader = *flagShader
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
}
