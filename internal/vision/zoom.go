package vision

import "time"

// ZoomState is the screen-zoom accessibility state.
type ZoomState string

const (
	ZoomInactive ZoomState = "inactive"
	ZoomActive   ZoomState = "active"
)

// ZoomUpdate is the per-frame result of ZoomController.Update.
type ZoomUpdate struct {
	ZoomIn  bool // Zoom activated on this frame
	ZoomOut bool // Zoom released on this frame
}

// ZoomController turns a sustained squint into zoom-in/zoom-out actions.
// A squint is an EAR below the zoom-in threshold, which sits above the
// blink threshold, so ordinary blinks reset the squint timer rather than
// trigger zoom. The separate, higher zoom-out threshold keeps the boundary
// from chattering, and an active zoom auto-releases after the hold window.
type ZoomController struct {
	inThreshold  float64
	outThreshold float64
	sustain      time.Duration
	hold         time.Duration

	state       ZoomState
	squintStart time.Time // zero when not squinting
	activatedAt time.Time // zero when inactive
}

// NewZoomController creates a zoom controller from the resolved config.
func NewZoomController(cfg Config) *ZoomController {
	return &ZoomController{
		inThreshold:  cfg.ZoomInThreshold,
		outThreshold: cfg.ZoomOutThreshold,
		sustain:      cfg.ZoomSustain,
		hold:         cfg.ZoomHold,
		state:        ZoomInactive,
	}
}

// Update advances the controller with this frame's average EAR. Non-finite
// EAR values skip the frame; the squint timer is preserved, not reset, so a
// single dropped frame inside a squint does not restart the sustain clock.
func (z *ZoomController) Update(avgEAR float64, now time.Time) ZoomUpdate {
	if !isFinite(avgEAR) {
		return ZoomUpdate{}
	}

	if avgEAR < z.inThreshold {
		if z.squintStart.IsZero() {
			z.squintStart = now
		}
	} else {
		z.squintStart = time.Time{}
	}

	switch z.state {
	case ZoomInactive:
		if !z.squintStart.IsZero() && now.Sub(z.squintStart) >= z.sustain {
			z.state = ZoomActive
			z.activatedAt = now
			return ZoomUpdate{ZoomIn: true}
		}
	case ZoomActive:
		if avgEAR >= z.outThreshold || now.Sub(z.activatedAt) >= z.hold {
			z.state = ZoomInactive
			z.activatedAt = time.Time{}
			z.squintStart = time.Time{}
			return ZoomUpdate{ZoomOut: true}
		}
	}
	return ZoomUpdate{}
}

// State returns the current zoom state.
func (z *ZoomController) State() ZoomState {
	return z.state
}

// Squinting reports whether a squint is currently in progress.
func (z *ZoomController) Squinting() bool {
	return !z.squintStart.IsZero()
}
