package vision

import "time"

// LightState is the debounced ambient-light state.
type LightState string

const (
	LightLight LightState = "light"
	LightDark  LightState = "dark"
)

// AmbientLightTracker converts frame luminance into a light/dark state with
// a hysteresis band: the state only changes when luminance crosses the far
// edge of the band, so readings oscillating around a single threshold never
// chatter. Time spent dark accumulates across dark spells.
type AmbientLightTracker struct {
	low  float64 // Below this, LIGHT -> DARK
	high float64 // At or above this, DARK -> LIGHT

	state          LightState
	stateEnteredAt time.Time
	cumulativeDark time.Duration
}

// NewAmbientLightTracker creates a light tracker from the resolved config.
// The band is [threshold-margin, threshold+margin].
func NewAmbientLightTracker(cfg Config) *AmbientLightTracker {
	return &AmbientLightTracker{
		low:   cfg.BrightnessThreshold - cfg.BrightnessMargin,
		high:  cfg.BrightnessThreshold + cfg.BrightnessMargin,
		state: LightLight,
	}
}

// Update advances the tracker with this frame's luminance. Returns true
// when the state changed. Non-finite luminance skips the frame.
func (t *AmbientLightTracker) Update(luminance float64, now time.Time) bool {
	if !isFinite(luminance) {
		return false
	}
	if t.stateEnteredAt.IsZero() {
		t.stateEnteredAt = now
	}

	switch t.state {
	case LightLight:
		if luminance < t.low {
			t.state = LightDark
			t.stateEnteredAt = now
			return true
		}
	case LightDark:
		if luminance >= t.high {
			t.cumulativeDark += now.Sub(t.stateEnteredAt)
			t.state = LightLight
			t.stateEnteredAt = now
			return true
		}
	}
	return false
}

// State returns the current light state.
func (t *AmbientLightTracker) State() LightState {
	return t.state
}

// DarkSeconds returns the total time spent dark, including the in-progress
// spell when currently dark. Read-only: it never mutates tracker state.
func (t *AmbientLightTracker) DarkSeconds(now time.Time) float64 {
	total := t.cumulativeDark
	if t.state == LightDark && !t.stateEnteredAt.IsZero() {
		total += now.Sub(t.stateEnteredAt)
	}
	return total.Seconds()
}
