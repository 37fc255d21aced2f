// Package lighting provides the scene's light sources. A Light is a closed
// tagged variant over spot and directional lights: both share intensity,
// shadow settings and per-frame shadow state, and differ in projection,
// falloff and shadow filter tuning.
package lighting

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/clip"
	"github.com/Faultbox/midgard-raster/internal/engine/shadow"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Kind selects the light variant.
type Kind int

// Light kinds.
const (
	Spot Kind = iota
	Directional
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Spot:
		return "spot"
	case Directional:
		return "directional"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "spot", "point":
		return Spot, nil
	case "directional", "sun":
		return Directional, nil
	}
	return 0, fmt.Errorf("unknown light kind %q", s)
}

// Method selects a shadow visibility algorithm.
type Method int

// Shadow methods.
const (
	Direct Method = iota
	PCF
	PCSS
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case Direct:
		return "direct"
	case PCF:
		return "pcf"
	case PCSS:
		return "pcss"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod returns the method with the given name.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "direct", "hard":
		return Direct, nil
	case "pcf":
		return PCF, nil
	case "pcss", "soft", "":
		return PCSS, nil
	}
	return 0, fmt.Errorf("unknown shadow method %q", s)
}

// ShadowSettings tunes shadow mapping for one light.
type ShadowSettings struct {
	Enabled bool

	Width, Height int // depth map resolution

	BiasScale float64 // spot lights only
	PCFRadius int     // kernel radius of the PCF method
	LightSize float64 // spot light emitter size for PCSS

	PCFAccel     bool // spiral sampling for PCF kernels
	PCSSAccel    bool // spiral sampling for the blocker search
	Samples      int
	Clump        float64
	PenumbraMask bool

	// Filter is the method used inside the penumbra mask. Outside the
	// mask the hard test is always used.
	Filter Method
}

// DefaultShadowSettings returns the shadow defaults shared by both kinds.
func DefaultShadowSettings() ShadowSettings {
	return ShadowSettings{
		Enabled:      true,
		Width:        shadow.DefaultResolution,
		Height:       shadow.DefaultResolution,
		BiasScale:    0.05,
		PCFRadius:    1,
		LightSize:    1,
		PCFAccel:     false,
		PCSSAccel:    true,
		Samples:      math.SpiralSamples,
		Clump:        1,
		PenumbraMask: true,
		Filter:       PCSS,
	}
}

// Light is a spot or directional light with its shadow state.
type Light struct {
	Kind      Kind
	Name      string
	Position  math.Vec3 // spot: emitter; directional: origin of the shadow box
	Direction math.Vec3 // direction light travels, normalized on use
	Intensity math.Vec3

	// Spot projection.
	FovY   float64 // degrees
	Aspect float64

	// Directional projection: shadow box cross-section and angular size
	// of the emitter in degrees.
	ViewWidth       float64
	ViewHeight      float64
	AngularDiameter float64

	Near, Far float64

	Shadow ShadowSettings

	// Rebuilt by BuildShadowMap.
	view        math.Mat4
	mvp         math.Mat4
	depth       shadow.Map
	mask        shadow.Mask
	clipper     clip.Clipper
	fovFactor   float64
	pixelRadius float64
	ready       bool
}

// NewSpot creates a spot light at pos shining along dir.
func NewSpot(pos, dir, intensity math.Vec3) *Light {
	return &Light{
		Kind:      Spot,
		Position:  pos,
		Direction: dir,
		Intensity: intensity,
		FovY:      90,
		Aspect:    1,
		Near:      0.1,
		Far:       1000,
		Shadow:    DefaultShadowSettings(),
	}
}

// NewDirectional creates a directional light travelling along dir. pos is
// the centre of the near face of its shadow box.
func NewDirectional(pos, dir, intensity math.Vec3) *Light {
	return &Light{
		Kind:            Directional,
		Position:        pos,
		Direction:       dir,
		Intensity:       intensity,
		ViewWidth:       50,
		ViewHeight:      50,
		AngularDiameter: 3,
		Near:            0.1,
		Far:             1000,
		Shadow:          DefaultShadowSettings(),
	}
}

// WorldLightDir returns the unit vector from p toward the light.
func (l *Light) WorldLightDir(p math.Vec3) math.Vec3 {
	if l.Kind == Directional {
		return math.Normalize(l.Direction).Mul(-1)
	}
	return math.Normalize(l.Position.Sub(p))
}

// WorldLightIntensity returns the intensity arriving at p: inverse-square
// falloff for spot lights, constant for directional lights.
func (l *Light) WorldLightIntensity(p math.Vec3) math.Vec3 {
	if l.Kind == Directional {
		return l.Intensity
	}
	d2 := l.Position.Sub(p).LenSqr()
	if d2 < math.Epsilon*math.Epsilon {
		d2 = math.Epsilon * math.Epsilon
	}
	return l.Intensity.Mul(1 / d2)
}

// Transform returns the light-space clip transform.
func (l *Light) Transform() clip.Transform {
	view := math.LookDir(l.Position, l.Direction)
	var proj math.Mat4
	if l.Kind == Directional {
		proj = math.Ortho(l.ViewWidth, l.ViewHeight, l.Near, l.Far)
	} else {
		proj = math.Perspective(l.FovY, l.Aspect, l.Near, l.Far)
	}
	return clip.Transform{MVP: proj.Mul4(view), MV: view, Ortho: l.Kind == Directional}
}

// Validate reports settings that would make the shadow pass meaningless.
func (l *Light) Validate() error {
	if l.Direction.Len() == 0 {
		return fmt.Errorf("light %q: zero direction", l.Name)
	}
	if l.Near <= 0 || l.Far <= l.Near {
		return fmt.Errorf("light %q: invalid near/far %g/%g", l.Name, l.Near, l.Far)
	}
	switch l.Kind {
	case Spot:
		if l.FovY <= 0 || l.FovY >= 180 || l.Aspect <= 0 {
			return fmt.Errorf("light %q: invalid fov %g or aspect %g", l.Name, l.FovY, l.Aspect)
		}
	case Directional:
		if l.ViewWidth <= 0 || l.ViewHeight <= 0 {
			return fmt.Errorf("light %q: invalid shadow box %gx%g", l.Name, l.ViewWidth, l.ViewHeight)
		}
	default:
		return fmt.Errorf("light %q: unknown kind %v", l.Name, l.Kind)
	}
	return nil
}

// updateFactors refreshes the resolution-dependent shadow constants.
func (l *Light) updateFactors() {
	w, h := float64(l.depth.Width), float64(l.depth.Height)
	if l.Kind == Directional {
		l.fovFactor = 1
		l.pixelRadius = 0.5 * gomath.Max(l.ViewWidth/w, l.ViewHeight/h)
		return
	}
	l.fovFactor = gomath.Tan(math.Radians(l.FovY) / 2)
	l.pixelRadius = gomath.Max(1/h, l.Aspect/w)
}
