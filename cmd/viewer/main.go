// Package main is the interactive scene viewer.
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
	"github.com/Faultbox/midgard-raster/internal/engine/camera"
	"github.com/Faultbox/midgard-raster/internal/engine/debug"
	"github.com/Faultbox/midgard-raster/internal/engine/window"
	"github.com/Faultbox/midgard-raster/internal/logger"
	"github.com/Faultbox/midgard-raster/internal/viewer"
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

	logger.Info("=== midgard-raster viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	s, assets, err := app.LoadScene(cfg, logger.Log)
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		os.Exit(1)
	}
	defer assets.Close()

	// Start the orbit where the scene file put the eye
	cam := camera.NewOrbitCamera()
	b := s.Bounds()
	cam.FitToBounds(b)
	if !b.Empty() {
		cam.LookFrom(s.Camera().Eye, b.Center())
	}

	v, err := viewer.New(viewer.Config{
		Window: window.Config{
			Title:      cfg.Window.Title,
			Width:      cfg.Window.Width,
			Height:     cfg.Window.Height,
			Fullscreen: cfg.Window.Fullscreen,
			VSync:      cfg.Window.VSync,
		},
		ShowFPS:     cfg.Window.ShowFPS,
		Screenshots: debug.NewScreenshotCapture("screenshots", "frame"),
		Logger:      logger.Named("viewer"),
	}, s, cam)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := v.Run(ctx); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	app.LogFrame(logger.Log, s.Stats())
	logger.Info("viewer closed normally")
}
