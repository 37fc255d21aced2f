package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

func TestScreenToRay(t *testing.T) {
	eye := math.Vec3{0, 0, 5}
	vp := math.Perspective(60, 1, 0.1, 100).Mul4(math.LookDir(eye, math.Vec3{0, 0, -1}))

	// The viewport centre looks straight ahead
	r := ScreenToRay(50, 50, 100, 100, vp.Inv())
	if !math.ApproxEqual(r.Direction, math.Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("direction = %v, want -Z", r.Direction)
	}
	if !math.ApproxEqual(r.Origin, math.Vec3{0, 0, 4.9}, 1e-9) {
		t.Errorf("origin = %v, want the near plane", r.Origin)
	}

	// The top edge is 30 degrees up
	r = ScreenToRay(50, 0, 100, 100, vp.Inv())
	if got := gomath.Asin(r.Direction[1]) * 180 / gomath.Pi; gomath.Abs(got-30) > 1e-6 {
		t.Errorf("top edge elevation = %f, want 30", got)
	}
}

func TestIntersectAABB(t *testing.T) {
	box := model.EmptyBounds().Extend(math.Vec3{-1, -1, -1}).Extend(math.Vec3{1, 1, 1})

	tests := []struct {
		name string
		ray  Ray
		t    float64
		hit  bool
	}{
		{"front", Ray{math.Vec3{0, 0, 5}, math.Vec3{0, 0, -1}}, 4, true},
		{"inside", Ray{math.Vec3{0, 0, 0}, math.Vec3{1, 0, 0}}, 1, true},
		{"behind", Ray{math.Vec3{0, 0, 5}, math.Vec3{0, 0, 1}}, 0, false},
		{"parallel outside", Ray{math.Vec3{0, 3, 5}, math.Vec3{0, 0, -1}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit || (hit && gomath.Abs(got-tt.t) > 1e-12) {
				t.Errorf("IntersectAABB = %f, %v; want %f, %v", got, hit, tt.t, tt.hit)
			}
		})
	}

	if _, hit := (Ray{Direction: math.Vec3{1, 0, 0}}).IntersectAABB(model.EmptyBounds()); hit {
		t.Error("empty bounds should never be hit")
	}
}

func TestPickClosest(t *testing.T) {
	near := model.NewQuad("near", 2, 2, math.Vec3{1, 1, 1})
	near.SetPosition(math.Vec3{0, 0, 1})
	far := model.NewQuad("far", 2, 2, math.Vec3{1, 1, 1})

	group := model.New("group")
	group.Add(near)

	r := Ray{Origin: math.Vec3{0.2, 0.3, 5}, Direction: math.Vec3{0, 0, -1}}
	hit, ok := Pick([]*model.Model{far, group}, r)
	if !ok {
		t.Fatal("Pick missed")
	}
	if hit.Model != group || hit.Node != near || hit.Index != 1 {
		t.Errorf("picked %v/%v, want group/near", hit.Model.Name, hit.Node.Name)
	}
	if gomath.Abs(hit.T-4) > 1e-12 || !math.ApproxEqual(hit.Point, math.Vec3{0.2, 0.3, 1}, 1e-12) {
		t.Errorf("hit at t=%f point %v", hit.T, hit.Point)
	}

	if _, ok := Pick([]*model.Model{far}, Ray{Origin: math.Vec3{5, 5, 5}, Direction: math.Vec3{0, 0, -1}}); ok {
		t.Error("Pick should miss outside the quad")
	}
}
