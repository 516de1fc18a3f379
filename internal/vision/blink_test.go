package vision

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	return cfg
}

func TestBlinkScenario30FPS(t *testing.T) {
	t.Parallel()

	// avgEAR [0.30, 0.30, 0.15, 0.15, 0.30] at ~30fps with threshold 0.20
	// and refractory 0.27s must count exactly one blink, with isBlinking
	// true only on the two closed frames.
	cfg := testConfig()
	cfg.BlinkThreshold = 0.20
	cfg.BlinkRefractory = 270 * time.Millisecond
	tracker := NewBlinkTracker(cfg)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	frame := 33 * time.Millisecond
	ears := []float64{0.30, 0.30, 0.15, 0.15, 0.30}

	var blinks int
	var blinking []bool
	for i, ear := range ears {
		upd := tracker.Update(ear, base.Add(time.Duration(i)*frame))
		if upd.BlinkOccurred {
			blinks++
		}
		blinking = append(blinking, upd.IsBlinking)
	}

	assert.Equal(t, 1, blinks)
	assert.Equal(t, []bool{false, false, true, true, false}, blinking)
	assert.Equal(t, 1, tracker.TotalCount())
}

func TestBlinkRefractorySuppressesDoubleCount(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BlinkRefractory = 270 * time.Millisecond
	tracker := NewBlinkTracker(cfg)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	// Rapid close-open-close inside the refractory window: second close
	// edge transitions state but must not count.
	upd := tracker.Update(0.10, base)
	require.True(t, upd.BlinkOccurred)
	tracker.Update(0.30, base.Add(50*time.Millisecond))
	upd = tracker.Update(0.10, base.Add(100*time.Millisecond))
	assert.False(t, upd.BlinkOccurred)
	assert.True(t, upd.IsBlinking)
	assert.Equal(t, 1, tracker.TotalCount())

	// Past the refractory period a new blink counts again.
	tracker.Update(0.30, base.Add(200*time.Millisecond))
	upd = tracker.Update(0.10, base.Add(400*time.Millisecond))
	assert.True(t, upd.BlinkOccurred)
	assert.Equal(t, 2, tracker.TotalCount())
}

func TestBlinkHistoryBounded(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BlinkHistoryCap = 3
	cfg.BlinkRefractory = 100 * time.Millisecond
	tracker := NewBlinkTracker(cfg)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		now := base.Add(time.Duration(i) * time.Second)
		tracker.Update(0.10, now)
		tracker.Update(0.30, now.Add(100*time.Millisecond))
	}

	// Total count keeps growing; the history stays at capacity.
	assert.Equal(t, 10, tracker.TotalCount())
	assert.Len(t, tracker.history, 3)
}

func TestBlinkRateScaling(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BlinkRefractory = 100 * time.Millisecond
	tracker := NewBlinkTracker(cfg)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	tracker.Update(0.30, base)

	// Three blinks in the first 30 seconds → 6 blinks/minute after scaling
	// by elapsed/60.
	for i := 1; i <= 3; i++ {
		now := base.Add(time.Duration(i) * time.Second)
		tracker.Update(0.10, now)
		tracker.Update(0.30, now.Add(200*time.Millisecond))
	}
	rate := tracker.Rate(base.Add(30 * time.Second))
	assert.InDelta(t, 6.0, rate, 1e-9)

	// Past the one-minute mark the 60s window count is the rate itself.
	rate = tracker.Rate(base.Add(2 * time.Minute))
	assert.InDelta(t, 0.0, rate, 1e-9) // all three blinks fell out of the window

	rate = tracker.Rate(base.Add(61 * time.Second))
	assert.InDelta(t, 3.0, rate, 1e-9)
}

func TestBlinkSkipsNonFiniteFrames(t *testing.T) {
	t.Parallel()

	tracker := NewBlinkTracker(testConfig())
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	tracker.Update(0.10, base)
	require.Equal(t, BlinkClosed, tracker.State())

	// A no-face gap never infers an open transition.
	upd := tracker.Update(math.NaN(), base.Add(time.Second))
	assert.True(t, upd.IsBlinking)
	assert.Equal(t, BlinkClosed, tracker.State())
	assert.Equal(t, 1, tracker.TotalCount())
}

func TestBlinkRateEmptyTracker(t *testing.T) {
	t.Parallel()

	tracker := NewBlinkTracker(testConfig())
	assert.Zero(t, tracker.Rate(time.Now()))
}
