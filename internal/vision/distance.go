package vision

import "time"

// DistanceState classifies the viewer's distance from the screen.
type DistanceState string

const (
	DistanceClose  DistanceState = "close"
	DistanceMedium DistanceState = "medium"
	DistanceFar    DistanceState = "far"
)

// DistanceTracker estimates screen distance from the iris pixel width via
// similar triangles: distanceCm = irisDiameterCm * focalLengthPx / irisPx.
// Threshold boundaries belong to MEDIUM; CLOSE and FAR are exclusive.
type DistanceTracker struct {
	irisDiameterCm float64
	focalLengthPx  float64
	closeCm        float64
	farCm          float64

	state           DistanceState
	currentCm       float64
	stateEnteredAt  time.Time
	cumulativeClose time.Duration
}

// NewDistanceTracker creates a distance tracker from the resolved config.
func NewDistanceTracker(cfg Config) *DistanceTracker {
	return &DistanceTracker{
		irisDiameterCm: cfg.IrisDiameterCm,
		focalLengthPx:  cfg.FocalLengthPx,
		closeCm:        cfg.CloseThresholdCm,
		farCm:          cfg.FarThresholdCm,
		state:          DistanceMedium,
	}
}

// Update advances the tracker with this frame's iris pixel width. Returns
// true when the state changed. Zero, negative or non-finite widths are
// rejected: the frame is skipped and the prior state preserved, so a bad
// iris read never propagates into the distance estimate.
func (t *DistanceTracker) Update(irisPx float64, now time.Time) bool {
	if !isFinite(irisPx) || irisPx <= 0 {
		return false
	}
	if t.stateEnteredAt.IsZero() {
		t.stateEnteredAt = now
	}

	t.currentCm = t.irisDiameterCm * t.focalLengthPx / irisPx

	var next DistanceState
	switch {
	case t.currentCm < t.closeCm:
		next = DistanceClose
	case t.currentCm > t.farCm:
		next = DistanceFar
	default:
		next = DistanceMedium
	}

	if next == t.state {
		return false
	}
	if t.state == DistanceClose {
		t.cumulativeClose += now.Sub(t.stateEnteredAt)
	}
	t.state = next
	t.stateEnteredAt = now
	return true
}

// State returns the current distance state.
func (t *DistanceTracker) State() DistanceState {
	return t.state
}

// CurrentCm returns the latest distance estimate in centimetres. Zero until
// the first accepted update.
func (t *DistanceTracker) CurrentCm() float64 {
	return t.currentCm
}

// CloseSeconds returns the total time spent too close, including the
// in-progress spell when currently close.
func (t *DistanceTracker) CloseSeconds(now time.Time) float64 {
	total := t.cumulativeClose
	if t.state == DistanceClose && !t.stateEnteredAt.IsZero() {
		total += now.Sub(t.stateEnteredAt)
	}
	return total.Seconds()
}
