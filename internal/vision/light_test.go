package vision

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightHysteresisBand(t *testing.T) {
	t.Parallel()

	// Base threshold 90 with margin 10 gives band [80, 100]. Starting
	// LIGHT, a reading of 40 transitions to DARK on the first frame; a
	// later reading of 95 sits inside the band and must NOT flip back.
	cfg := testConfig()
	cfg.BrightnessThreshold = 90
	cfg.BrightnessMargin = 10
	tracker := NewAmbientLightTracker(cfg)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	require.True(t, tracker.Update(40, base))
	require.Equal(t, LightDark, tracker.State())

	assert.False(t, tracker.Update(95, base.Add(time.Second)))
	assert.Equal(t, LightDark, tracker.State())

	// Crossing the high edge releases.
	assert.True(t, tracker.Update(101, base.Add(2*time.Second)))
	assert.Equal(t, LightLight, tracker.State())

	// And readings inside the band never re-darken.
	assert.False(t, tracker.Update(85, base.Add(3*time.Second)))
	assert.Equal(t, LightLight, tracker.State())
}

func TestLightNoChatterInsideBand(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BrightnessThreshold = 90
	cfg.BrightnessMargin = 5
	tracker := NewAmbientLightTracker(cfg)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, lum := range []float64{86, 94, 88, 92, 85.1, 94.9} {
		changed := tracker.Update(lum, base.Add(time.Duration(i)*time.Second))
		assert.False(t, changed, "luminance %f inside band must not transition", lum)
	}
	assert.Equal(t, LightLight, tracker.State())
}

func TestLightDarkSecondsProjection(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	tracker := NewAmbientLightTracker(cfg)
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	require.True(t, tracker.Update(10, base))

	// Querying while dark includes the in-progress spell without mutating.
	assert.InDelta(t, 5.0, tracker.DarkSeconds(base.Add(5*time.Second)), 1e-9)
	assert.InDelta(t, 5.0, tracker.DarkSeconds(base.Add(5*time.Second)), 1e-9)
	assert.Equal(t, LightDark, tracker.State())

	// Going light folds the spell into the accumulator.
	require.True(t, tracker.Update(200, base.Add(8*time.Second)))
	assert.InDelta(t, 8.0, tracker.DarkSeconds(base.Add(20*time.Second)), 1e-9)

	// A second dark spell adds on top.
	require.True(t, tracker.Update(10, base.Add(30*time.Second)))
	assert.InDelta(t, 10.0, tracker.DarkSeconds(base.Add(32*time.Second)), 1e-9)
}

func TestLightSkipsNonFinite(t *testing.T) {
	t.Parallel()

	tracker := NewAmbientLightTracker(testConfig())
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	assert.False(t, tracker.Update(math.NaN(), base))
	assert.False(t, tracker.Update(math.Inf(1), base))
	assert.Equal(t, LightLight, tracker.State())
}
