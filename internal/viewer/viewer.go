// Package viewer implements the interactive render loop: it re-renders the
// scene when the orbit camera moves and presents every frame in a window.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-raster/internal/engine/camera"
	"github.com/Faultbox/midgard-raster/internal/engine/debug"
	"github.com/Faultbox/midgard-raster/internal/engine/input"
	"github.com/Faultbox/midgard-raster/internal/engine/scene"
	"github.com/Faultbox/midgard-raster/internal/engine/window"
)

// Config holds viewer configuration.
type Config struct {
	Window  window.Config
	ShowFPS bool

	// Screenshots receives F12 captures; nil disables them.
	Screenshots *debug.ScreenshotCapture
	Logger      *zap.Logger
}

// Viewer is the interactive presenter.
type Viewer struct {
	config  Config
	log     *zap.Logger
	running bool
	dirty   bool

	scene  *scene.Scene
	camera *camera.OrbitCamera
	window *window.Window
	input  *input.Input
	rgb    []byte
}

// New creates a viewer showing s through cam.
func New(cfg Config, s *scene.Scene, cam *camera.OrbitCamera) (*Viewer, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Window.Logger = log

	w, err := window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	log.Info("viewer initialized",
		zap.Int("image_width", s.Width()),
		zap.Int("image_height", s.Height()))
	return &Viewer{
		config: cfg,
		log:    log,
		dirty:  true,
		scene:  s,
		camera: cam,
		window: w,
		input:  input.New(),
	}, nil
}

// Run starts the main loop. It returns when the window closes, Escape is
// pressed or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	// Timing
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		if ctx.Err() != nil {
			break
		}

		// 1. Process input
		if v.input.Update() {
			break
		}
		for _, event := range v.input.Events() {
			switch event.Type {
			case input.EventKeyDown:
				switch event.Key {
				case sdl.SCANCODE_ESCAPE:
					v.running = false
				case sdl.SCANCODE_F12:
					v.screenshot()
				}
			case input.EventMouseDown:
				if event.Button == sdl.BUTTON_RIGHT {
					v.pick(event.MouseX, event.MouseY)
				}
			}
		}
		if v.input.ApplyOrbit(v.camera) {
			v.dirty = true
		}

		// 2. Render when the view changed
		if v.dirty {
			v.scene.SetEye(v.camera.Eye())
			v.scene.SetViewDir(v.camera.Direction())
			if err := v.scene.Render(ctx); err != nil {
				return fmt.Errorf("render error: %w", err)
			}
			v.rgb = v.scene.GBuffer().RGB(v.rgb)
			v.dirty = false
			frameCount++
		}

		// 3. Present
		if err := v.window.Present(v.rgb, v.scene.Width(), v.scene.Height()); err != nil {
			return fmt.Errorf("present error: %w", err)
		}

		// FPS counter
		if time.Since(fpsTimer) >= time.Second {
			st := v.scene.Stats()
			v.log.Debug("fps",
				zap.Int("rendered", frameCount),
				zap.Duration("frame", st.Total),
				zap.Int("triangles", st.Triangles))
			if v.config.ShowFPS {
				v.window.SetTitle(fmt.Sprintf("%s - %.1f fps (%d frames/s rendered)",
					v.config.Window.Title, st.FPS(), frameCount))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) screenshot() {
	if v.config.Screenshots == nil {
		return
	}
	path, err := v.config.Screenshots.Capture(v.scene.Image())
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// pick logs the model under a window position. The image is stretched to
// the window, so the position is rescaled to image pixels first.
func (v *Viewer) pick(wx, wy int) {
	ww, wh := v.window.GetSize()
	if ww <= 0 || wh <= 0 {
		return
	}
	x := wx * v.scene.Width() / ww
	y := wy * v.scene.Height() / wh

	id, hit, ok := v.scene.Pick(x, y)
	if !ok {
		v.log.Info("pick: nothing", zap.Int("x", x), zap.Int("y", y))
		return
	}
	v.log.Info("pick",
		zap.Int("model_id", int(id)),
		zap.String("model", hit.Model.Name),
		zap.String("node", hit.Node.Name),
		zap.Float64("distance", hit.T),
		zap.Float64s("point", hit.Point[:]))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.window != nil {
		v.window.Close()
	}
}
