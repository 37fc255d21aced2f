package framebuffer

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-raster/pkg/math"
)

func TestClear(t *testing.T) {
	g := New(4, 3)
	g.Depth[5] = 0.5
	g.Normal[5] = math.Vec3{0, 0, 1}

	bg := math.Vec3{0.7, 0.7, 0.7}
	g.Clear(bg)

	for i := range g.Depth {
		if !gomath.IsInf(g.Depth[i], 1) {
			t.Fatalf("depth[%d] = %f, want +Inf", i, g.Depth[i])
		}
		if g.Color[i] != bg {
			t.Fatalf("color[%d] = %v, want background", i, g.Color[i])
		}
		if g.Covered(i) {
			t.Fatalf("pixel %d covered after clear", i)
		}
	}
	if g.Normal[5] != (math.Vec3{}) {
		t.Errorf("normal not reset: %v", g.Normal[5])
	}
}

func TestResizeMinimum(t *testing.T) {
	g := New(0, -2)
	if g.Width != 1 || g.Height != 1 || len(g.Depth) != 1 {
		t.Errorf("New(0,-2) = %dx%d len %d, want 1x1", g.Width, g.Height, len(g.Depth))
	}
}

func TestBandsAreDisjoint(t *testing.T) {
	g := New(5, 6)
	g.Clear(math.Vec3{})

	top := g.Band(0, 2)
	bottom := g.Band(2, 6)

	// Writes through a band land on the right absolute pixel
	top.Depth[top.Index(3, 1)] = 0.25
	bottom.Depth[bottom.Index(1, 4)] = 0.75

	if got := g.Depth[g.Index(3, 1)]; got != 0.25 {
		t.Errorf("top band write = %f, want 0.25", got)
	}
	if got := g.Depth[g.Index(1, 4)]; got != 0.75 {
		t.Errorf("bottom band write = %f, want 0.75", got)
	}

	// Appending to a band must not spill into the next one
	spill := append(top.Depth, 9)
	if &spill[0] == &g.Depth[0] {
		t.Error("append on a band reused the shared backing array")
	}
	if g.Depth[g.Index(0, 2)] == 9 {
		t.Error("band append overwrote the next band")
	}

	if !bottom.Contains(2) || bottom.Contains(1) || bottom.Contains(6) {
		t.Error("Contains reports wrong rows")
	}
}

func TestImageClamps(t *testing.T) {
	g := New(2, 1)
	g.Color[0] = math.Vec3{1.5, -0.2, 0.5}
	g.Color[1] = math.Vec3{0, 1, 0}

	img := g.Image()
	c := img.RGBAAt(0, 0)
	if c.R != 255 || c.G != 0 || c.B != 128 || c.A != 255 {
		t.Errorf("pixel 0 = %+v, want {255 0 128 255}", c)
	}

	rgb := g.RGB(nil)
	want := []byte{255, 0, 128, 0, 255, 0}
	for i := range want {
		if rgb[i] != want[i] {
			t.Fatalf("RGB() = %v, want %v", rgb, want)
		}
	}
}
