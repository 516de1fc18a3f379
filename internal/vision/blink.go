package vision

import "time"

// BlinkState is the eyelid state tracked across frames.
type BlinkState string

const (
	BlinkOpen   BlinkState = "open"
	BlinkClosed BlinkState = "closed"
)

// BlinkUpdate is the per-frame result of BlinkTracker.Update.
type BlinkUpdate struct {
	IsBlinking    bool // Eyes are closed this frame
	BlinkOccurred bool // A new blink was counted on this frame's close edge
}

// BlinkTracker converts the eye-aspect ratio into blink events, a running
// count and a rate. A refractory period after each counted blink prevents
// eyelid flutter from double-counting; the timestamp history is bounded,
// evicting the oldest entry at capacity.
type BlinkTracker struct {
	threshold  float64
	refractory time.Duration
	capacity   int

	state        BlinkState
	lastBlinkEnd time.Time
	history      []time.Time
	total        int
	firstUpdate  time.Time
}

// NewBlinkTracker creates a blink tracker from the resolved config.
func NewBlinkTracker(cfg Config) *BlinkTracker {
	return &BlinkTracker{
		threshold:  cfg.BlinkThreshold,
		refractory: cfg.BlinkRefractory,
		capacity:   cfg.BlinkHistoryCap,
		state:      BlinkOpen,
		history:    make([]time.Time, 0, cfg.BlinkHistoryCap),
	}
}

// Update advances the tracker with this frame's average EAR. Non-finite
// EAR values skip the frame and preserve state: a no-face gap never infers
// an open or close transition.
func (t *BlinkTracker) Update(avgEAR float64, now time.Time) BlinkUpdate {
	if !isFinite(avgEAR) {
		return BlinkUpdate{IsBlinking: t.state == BlinkClosed}
	}
	if t.firstUpdate.IsZero() {
		t.firstUpdate = now
	}

	var occurred bool
	switch t.state {
	case BlinkOpen:
		if avgEAR < t.threshold {
			t.state = BlinkClosed
			if t.lastBlinkEnd.IsZero() || now.Sub(t.lastBlinkEnd) >= t.refractory {
				occurred = true
				t.total++
				t.push(now)
				t.lastBlinkEnd = now
			}
		}
	case BlinkClosed:
		if avgEAR >= t.threshold {
			// No counting on the open edge.
			t.state = BlinkOpen
		}
	}

	return BlinkUpdate{IsBlinking: t.state == BlinkClosed, BlinkOccurred: occurred}
}

func (t *BlinkTracker) push(ts time.Time) {
	if len(t.history) == t.capacity {
		copy(t.history, t.history[1:])
		t.history = t.history[:t.capacity-1]
	}
	t.history = append(t.history, ts)
}

// State returns the current eyelid state.
func (t *BlinkTracker) State() BlinkState {
	return t.state
}

// TotalCount returns the number of blinks counted since construction.
func (t *BlinkTracker) TotalCount() int {
	return t.total
}

// Rate returns blinks per minute over the last 60 seconds. For sessions
// younger than a minute the count is scaled by elapsed/60 so early readings
// are not artificially low.
func (t *BlinkTracker) Rate(now time.Time) float64 {
	if t.firstUpdate.IsZero() {
		return 0
	}
	elapsed := now.Sub(t.firstUpdate)
	if elapsed <= 0 {
		return 0
	}

	cutoff := now.Add(-time.Minute)
	recent := 0
	for _, ts := range t.history {
		if !ts.Before(cutoff) {
			recent++
		}
	}

	if elapsed >= time.Minute {
		return float64(recent)
	}
	return float64(recent) / (elapsed.Seconds() / 60.0)
}
