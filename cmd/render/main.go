// Package main renders a scene file to a PNG image without a window.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-raster/internal/app"
	"github.com/Faultbox/midgard-raster/internal/config"
	"github.com/Faultbox/midgard-raster/internal/engine/debug"
	"github.com/Faultbox/midgard-raster/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("render failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger.Info("=== midgard-raster render ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := logger.Timed("scene loaded", zap.String("path", cfg.Scene.Path))
	s, assets, err := app.LoadScene(cfg, logger.Log)
	if err != nil {
		return err
	}
	defer assets.Close()
	done()

	frames := max(1, cfg.Render.Frames)
	for i := 0; i < frames; i++ {
		if err := s.Render(ctx); err != nil {
			return err
		}
		app.LogFrame(logger.Log, s.Stats())
	}

	if err := debug.SavePNG(cfg.Render.Output, s.Image()); err != nil {
		return err
	}

	st := s.Stats()
	logger.Info("image written",
		zap.String("path", cfg.Render.Output),
		zap.Int("width", s.Width()),
		zap.Int("height", s.Height()),
		zap.Int("frames", frames),
		zap.Duration("last_frame", st.Total))
	return nil
}
