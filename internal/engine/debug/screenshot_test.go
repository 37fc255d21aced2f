package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateFilename(t *testing.T) {
	sc := NewScreenshotCapture("shots", "")
	sc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	want := filepath.Join("shots", "frame_2024-03-09_14-05-07.000.png")
	if got := sc.GenerateFilename(); got != want {
		t.Errorf("GenerateFilename() = %q, want %q", got, want)
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	sc := NewScreenshotCapture(dir, "test")

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.RGBA{R: 200, G: 10, B: 30, A: 255})

	path, err := sc.Capture(img)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "test_") {
		t.Errorf("unexpected filename %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	r, g, b, _ := got.At(2, 1).RGBA()
	if r>>8 != 200 || g>>8 != 10 || b>>8 != 30 {
		t.Errorf("pixel = (%d,%d,%d), want (200,10,30)", r>>8, g>>8, b>>8)
	}
}
