package vision

import "time"

// Direction is the committed gaze direction.
type Direction string

const (
	DirectionLeft   Direction = "left"
	DirectionCenter Direction = "center"
	DirectionRight  Direction = "right"
)

// DirectionTracker converts the gaze offset ratio into a left/center/right
// state. A raw classification different from the committed state must hold
// continuously for the stability window before the state commits; any
// intervening different raw value resets the pending timer. This keeps a
// single noisy frame from flipping the direction.
type DirectionTracker struct {
	deadzone  float64
	stability time.Duration

	state          Direction
	stateEnteredAt time.Time

	pending      Direction
	pendingSince time.Time

	cumulativeLookAway time.Duration
}

// NewDirectionTracker creates a direction tracker from the resolved config.
func NewDirectionTracker(cfg Config) *DirectionTracker {
	return &DirectionTracker{
		deadzone:  cfg.CenterDeadzone,
		stability: cfg.StabilityWindow,
		state:     DirectionCenter,
	}
}

func (t *DirectionTracker) classify(offset float64) Direction {
	switch {
	case offset < -t.deadzone:
		return DirectionLeft
	case offset > t.deadzone:
		return DirectionRight
	default:
		return DirectionCenter
	}
}

// Update advances the tracker with this frame's gaze offset ratio.
// Returns true when a direction change committed. Non-finite offsets skip
// the frame and leave both the committed state and the pending timer
// untouched.
func (t *DirectionTracker) Update(offset float64, now time.Time) bool {
	if !isFinite(offset) {
		return false
	}
	if t.stateEnteredAt.IsZero() {
		t.stateEnteredAt = now
	}

	raw := t.classify(offset)
	if raw == t.state {
		t.pending = ""
		return false
	}

	if t.pending != raw {
		t.pending = raw
		t.pendingSince = now
		return false
	}

	if now.Sub(t.pendingSince) < t.stability {
		return false
	}

	// Commit. Dwell spent off-center counts toward look-away time.
	if t.state != DirectionCenter {
		t.cumulativeLookAway += now.Sub(t.stateEnteredAt)
	}
	t.state = raw
	t.stateEnteredAt = now
	t.pending = ""
	return true
}

// State returns the committed gaze direction.
func (t *DirectionTracker) State() Direction {
	return t.state
}

// LookAwaySeconds returns the total time the committed direction was
// off-center, including the in-progress spell.
func (t *DirectionTracker) LookAwaySeconds(now time.Time) float64 {
	total := t.cumulativeLookAway
	if t.state != DirectionCenter && !t.stateEnteredAt.IsZero() {
		total += now.Sub(t.stateEnteredAt)
	}
	return total.Seconds()
}

// ContinuousCenterSeconds returns how long the committed direction has been
// CENTER without interruption, zero while off-center.
func (t *DirectionTracker) ContinuousCenterSeconds(now time.Time) float64 {
	if t.state != DirectionCenter || t.stateEnteredAt.IsZero() {
		return 0
	}
	return now.Sub(t.stateEnteredAt).Seconds()
}

// CurrentDwellSeconds returns how long the committed direction has held.
func (t *DirectionTracker) CurrentDwellSeconds(now time.Time) float64 {
	if t.stateEnteredAt.IsZero() {
		return 0
	}
	return now.Sub(t.stateEnteredAt).Seconds()
}
