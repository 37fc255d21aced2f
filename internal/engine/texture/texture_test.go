package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-raster/pkg/math"
)

// gradient returns a 2x1 texture: black on the left, white on the right.
func gradient(t *testing.T) *Texture {
	t.Helper()
	tex, err := New(2, 1, 3, []uint8{0, 0, 0, 255, 255, 255})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tex
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		w, h, ch int
		pix      int
	}{
		{"zero width", 0, 1, 3, 0},
		{"bad channels", 1, 1, 5, 5},
		{"short data", 2, 2, 3, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.h, tt.ch, make([]uint8, tt.pix)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSampleBilinear(t *testing.T) {
	tex := gradient(t)

	tests := []struct {
		name string
		u    float64
		want float64
	}{
		{"left edge clamps", 0, 0},
		{"left texel centre", 0.25, 0},
		{"midpoint", 0.5, 0.5},
		{"right texel centre", 0.75, 1},
		{"beyond right clamps", 3, 1},
		{"negative clamps", -2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tex.Sample(math.Vec2{tt.u, 0.5})
			want := math.Vec3{tt.want, tt.want, tt.want}
			if !math.ApproxEqual(got, want, 1e-9) {
				t.Errorf("Sample(%v) = %v, want %v", tt.u, got, want)
			}
		})
	}
}

func TestTexelBottomUp(t *testing.T) {
	// Top row red, bottom row blue
	tex, err := New(1, 2, 3, []uint8{255, 0, 0, 0, 0, 255})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tex.Texel(0, 0); got != (math.Vec3{0, 0, 1}) {
		t.Errorf("Texel(0,0) = %v, want blue", got)
	}
	if got := tex.Sample(math.Vec2{0.5, 1}); got != (math.Vec3{1, 0, 0}) {
		t.Errorf("Sample(v=1) = %v, want red", got)
	}
}

func TestGrayChannel(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 1, 1))
	g.SetGray(0, 0, color.Gray{Y: 51})

	tex := FromImage(g)
	if tex.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", tex.Channels())
	}
	want := math.Vec3{0.2, 0.2, 0.2}
	if got := tex.Texel(0, 0); !math.ApproxEqual(got, want, 1e-9) {
		t.Errorf("Texel = %v, want %v", got, want)
	}
}

func TestSolid(t *testing.T) {
	tex := Solid(math.Vec3{1, 0, 2})
	if got := tex.Sample(math.Vec2{0.3, 0.9}); got != (math.Vec3{1, 0, 1}) {
		t.Errorf("Solid sample = %v, want (1, 0, 1)", got)
	}
}

func TestDecodeTGA(t *testing.T) {
	header := func(imageType, bpp, descriptor byte) []byte {
		h := make([]byte, tgaHeaderSize)
		h[2] = imageType
		h[12], h[14] = 2, 1 // 2x1
		h[16] = bpp
		h[17] = descriptor
		return h
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"uncompressed", append(header(TGATypeTrueColor, 24, 0x20), 0, 0, 255, 255, 0, 0)},
		{"rle raw packets", append(header(TGATypeTrueColorRLE, 24, 0x20), 0x00, 0, 0, 255, 0x00, 255, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeTGA(tt.data)
			if err != nil {
				t.Fatalf("DecodeTGA: %v", err)
			}
			r, _, b, _ := img.At(0, 0).RGBA()
			if r>>8 != 255 || b != 0 {
				t.Errorf("pixel 0 should be red, got r=%d b=%d", r>>8, b>>8)
			}
			r, _, b, _ = img.At(1, 0).RGBA()
			if b>>8 != 255 || r != 0 {
				t.Errorf("pixel 1 should be blue, got r=%d b=%d", r>>8, b>>8)
			}
		})
	}

	if _, err := DecodeTGA(header(TGATypeTrueColor, 24, 0)); err == nil {
		t.Error("expected truncation error")
	}
	if _, err := DecodeTGA(header(1, 8, 0)); err == nil {
		t.Error("expected unsupported type error")
	}
}

func TestLoadAndFit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.png")

	src := image.NewNRGBA(image.Rect(0, 0, 64, 16))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	tex, err := Load(path, 16)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Width() != 16 || tex.Height() != 4 {
		t.Errorf("size = %dx%d, want 16x4", tex.Width(), tex.Height())
	}

	if _, err := Load(filepath.Join(dir, "missing.png"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}
