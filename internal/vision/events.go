package vision

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a per-frame event. Transition events are
// edge-triggered: emitted once on the frame a boundary was crossed.
// Warnings are level-triggered derived facts: emitted every frame the
// condition holds. Consumers that need rate-limiting (notifications)
// apply their own cooldowns.
type EventType string

const (
	EventBlink            EventType = "blink"
	EventLightChanged     EventType = "light_state_changed"
	EventDistanceChanged  EventType = "distance_state_changed"
	EventDirectionChanged EventType = "direction_state_changed"
	EventZoomIn           EventType = "zoom_in"
	EventZoomOut          EventType = "zoom_out"

	WarnDark       EventType = "dark_warning"
	WarnClose      EventType = "close_warning"
	WarnFar        EventType = "far_warning"
	WarnFocusBreak EventType = "focus_break_warning"
	WarnLowBlink   EventType = "low_blink_warning"
	WarnSquint     EventType = "squint_warning"
)

// IsWarning reports whether the event type is a level-triggered warning
// rather than an edge-triggered transition.
func (t EventType) IsWarning() bool {
	switch t {
	case WarnDark, WarnClose, WarnFar, WarnFocusBreak, WarnLowBlink, WarnSquint:
		return true
	}
	return false
}

// Event is one typed, timestamped fact emitted by the pipeline. The core
// never performs OS actions itself; actuators consume these.
type Event struct {
	ID    string    `json:"id"`
	Type  EventType `json:"type"`
	At    time.Time `json:"at"`
	Prev  string    `json:"prev,omitempty"`  // Prior state on transitions
	Curr  string    `json:"curr,omitempty"`  // New/current state
	Value float64   `json:"value,omitempty"` // Supporting measurement (cm, lux, rate, seconds)
}

func newEvent(t EventType, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, At: at}
}

// Snapshot is the complete, consistent, per-frame read-only view of all
// tracker states, the sole artifact the core exposes outward.
type Snapshot struct {
	At          time.Time `json:"at"`
	FaceVisible bool      `json:"face_visible"`

	BlinkCount int     `json:"blink_count"`
	BlinkRate  float64 `json:"blink_rate"`
	IsBlinking bool    `json:"is_blinking"`

	GazeDirection          Direction `json:"gaze_direction"`
	LookAwaySeconds        float64   `json:"look_away_seconds"`
	ContinuousFocusSeconds float64   `json:"continuous_focus_seconds"`

	LightState LightState `json:"light_state"`
	Brightness float64    `json:"brightness"`

	DistanceCm    float64       `json:"distance_cm"`
	DistanceState DistanceState `json:"distance_state"`

	ZoomActive bool `json:"zoom_active"`
}
