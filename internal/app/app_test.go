package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-raster/internal/config"
)

const testScene = `
camera:
  eye: [0, 0, 4]
  target: [0, 0, 0]
models:
  - name: wall
    mesh: quad
    size: [2, 2]
lights:
  - name: key
    kind: directional
    position: [0, 0, 10]
    direction: [0, 0, -1]
    view_width: 4
    view_height: 4
`

func TestLoadSceneAndRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(testScene), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Scene.Path = path
	cfg.Render.Width, cfg.Render.Height = 32, 24
	cfg.Shadow.Resolution = 128

	s, m, err := LoadScene(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	defer m.Close()

	if len(s.Models()) != 1 || len(s.Lights()) != 1 {
		t.Fatalf("loaded %d models, %d lights", len(s.Models()), len(s.Lights()))
	}
	if s.Width() != 32 || s.Height() != 24 {
		t.Errorf("image size %dx%d", s.Width(), s.Height())
	}
	if err := s.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	core, logs := observer.New(zap.DebugLevel)
	LogFrame(zap.New(core), s.Stats())
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["triangles"] != int64(2) {
		t.Errorf("triangles field = %v, want 2", fields["triangles"])
	}
	if _, ok := fields["shade"]; !ok {
		t.Error("missing shade phase timing")
	}
}

func TestLoadSceneErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Path = filepath.Join(t.TempDir(), "missing.yaml")
	if _, _, err := LoadScene(cfg, zap.NewNop()); err == nil {
		t.Error("missing scene file should fail")
	}

	cfg = config.Default()
	cfg.Render.Shader = "nope"
	if _, _, err := LoadScene(cfg, zap.NewNop()); err == nil {
		t.Error("unknown shader should fail")
	}
}
