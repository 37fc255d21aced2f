// Package window presents CPU-rendered frames in an SDL2 window.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

func init() {
	// SDL video calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Logger     *zap.Logger
}

// Window wraps an SDL2 window with a renderer and a streaming texture
// that receives each frame.
type Window struct {
	config    Config
	log       *zap.Logger
	sdlWindow *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
	texW      int
	texH      int
}

// New creates a new window.
func New(cfg Config) (*Window, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	w := &Window{
		config: cfg,
		log:    log,
	}

	log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	rflags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		rflags |= sdl.RENDERER_PRESENTVSYNC
	}
	w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, rflags)
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// Present uploads a packed RGB24 frame of width x height pixels and shows
// it stretched over the window.
func (w *Window) Present(rgb []byte, width, height int) error {
	if len(rgb) != width*height*3 {
		return fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*3, len(rgb))
	}
	if err := w.ensureTexture(width, height); err != nil {
		return err
	}

	pixels, pitch, err := w.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("locking texture: %w", err)
	}
	row := width * 3
	for y := 0; y < height; y++ {
		copy(pixels[y*pitch:y*pitch+row], rgb[y*row:(y+1)*row])
	}
	w.texture.Unlock()

	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("clearing renderer: %w", err)
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	w.renderer.Present()
	return nil
}

func (w *Window) ensureTexture(width, height int) error {
	if w.texture != nil && w.texW == width && w.texH == height {
		return nil
	}
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}
	tex, err := w.renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		return fmt.Errorf("SDL_CreateTexture failed: %w", err)
	}
	w.texture, w.texW, w.texH = tex, width, height
	w.log.Debug("frame texture created", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
