package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// SunDirection converts a sun azimuth (rotation around Y, degrees) and
// elevation above the horizon (degrees) into the direction sunlight
// travels, pointing from the sky down to the ground.
func SunDirection(azimuth, elevation float64) math.Vec3 {
	az := math.Radians(azimuth)
	el := math.Radians(elevation)

	// Spherical to Cartesian, Y up; this is the direction toward the sun
	toSun := math.Vec3{
		gomath.Cos(el) * gomath.Sin(az),
		gomath.Sin(el),
		gomath.Cos(el) * gomath.Cos(az),
	}
	return toSun.Mul(-1)
}

// FitBounds places a directional light's shadow box around b: the box is
// centred on the bounds, its near face sits a bounds diameter up-light and
// its cross-section covers the bounds plus a 10% margin. Spot lights are
// left untouched.
func (l *Light) FitBounds(b model.Bounds) {
	if l.Kind != Directional || b.Empty() {
		return
	}
	center := b.Center()
	radius := gomath.Max(b.Radius(), math.Epsilon)
	dir := math.Normalize(l.Direction)

	distance := radius * 2
	l.Position = center.Sub(dir.Mul(distance))

	half := radius * 1.1
	l.ViewWidth = 2 * half
	l.ViewHeight = 2 * half
	l.Near = 0.1
	l.Far = distance + half + radius
}
