package scene

import "time"

// Phase is one step of a frame. Each phase finishes on every worker
// before the next one starts.
type Phase int

// Frame phases in execution order.
const (
	PhaseClear Phase = iota
	PhaseShadowMaps
	PhaseClip
	PhaseRasterize
	PhasePenumbra
	PhaseShade

	NumPhases
)

var phaseNames = [NumPhases]string{
	"clear",
	"shadow maps",
	"clip and project",
	"rasterize",
	"penumbra masks",
	"shade",
}

// String returns the phase name.
func (p Phase) String() string {
	if p < 0 || p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Frame uint64

	Input           int   // camera triangles submitted to the clipper
	Culled          int   // back faces dropped
	Triangles       int   // triangles rasterized after clipping
	ShadowTriangles int   // triangles rasterized into shadow maps
	Fragments       int64 // fragments that passed the depth test

	Phases [NumPhases]time.Duration
	Total  time.Duration
}

// FPS returns the frame rate the total render time would sustain.
func (s FrameStats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Total)
}
