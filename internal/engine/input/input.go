// Package input translates SDL2 events into viewer events and orbit camera
// motion.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-raster/internal/engine/camera"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseWheel
)

// Event is a translated SDL event. Only the fields of its type are set.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	WheelY int
	Button uint32 // pressed button for MouseDown, button mask for MouseMove
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update drains the SDL queue. It returns true once a quit was requested;
// events after the quit stay queued.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// translate maps the SDL events the viewer reacts to.
func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true
	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}
	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			RelX:   int(e.XRel),
			RelY:   int(e.YRel),
			Button: e.State,
		}, true
	case *sdl.MouseWheelEvent:
		if e.Y != 0 {
			return Event{Type: EventMouseWheel, WheelY: int(e.Y)}, true
		}
	case *sdl.MouseButtonEvent:
		if e.Type == sdl.MOUSEBUTTONDOWN {
			return Event{
				Type:   EventMouseDown,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: uint32(e.Button),
			}, true
		}
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// ApplyOrbit feeds the last Update's events and the held keys to an orbit
// camera: left-drag rotates, the wheel zooms and WASD/QE pan. It reports
// whether the camera moved.
func (i *Input) ApplyOrbit(cam *camera.OrbitCamera) bool {
	moved := orbit(cam, i.events)
	forward, right, up := panAxes(sdl.GetKeyboardState())
	if forward != 0 || right != 0 || up != 0 {
		cam.HandleMovement(forward, right, up)
		moved = true
	}
	return moved
}

func orbit(cam *camera.OrbitCamera, events []Event) bool {
	moved := false
	for _, e := range events {
		switch e.Type {
		case EventMouseMove:
			if e.Button&leftMask != 0 && (e.RelX != 0 || e.RelY != 0) {
				cam.HandleDrag(float64(e.RelX), float64(e.RelY))
				moved = true
			}
		case EventMouseWheel:
			cam.HandleZoom(float64(e.WheelY))
			moved = true
		}
	}
	return moved
}

// panAxes reads the pan keys from an SDL keyboard state.
func panAxes(keys []uint8) (forward, right, up float64) {
	axis := func(pos, neg sdl.Scancode) float64 {
		if int(pos) >= len(keys) || int(neg) >= len(keys) {
			return 0
		}
		return float64(keys[pos]) - float64(keys[neg])
	}
	return axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
		axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
}

const leftMask = 1 << (sdl.BUTTON_LEFT - 1)
