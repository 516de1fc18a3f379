package actuate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eyetune-labs/eyetune/internal/timeutil"
	"github.com/eyetune-labs/eyetune/internal/vision"
)

type recordingZoomer struct {
	ins, outs int
}

func (z *recordingZoomer) ZoomIn() error  { z.ins++; return nil }
func (z *recordingZoomer) ZoomOut() error { z.outs++; return nil }

type recordingNotifier struct {
	titles []string
	err    error
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.titles = append(n.titles, title)
	return n.err
}

type recordingTuner struct {
	warm []bool
}

func (t *recordingTuner) SetWarm(enabled bool) error {
	t.warm = append(t.warm, enabled)
	return nil
}

func TestDispatchZoomPassesThrough(t *testing.T) {
	t.Parallel()

	zoomer := &recordingZoomer{}
	d := NewDispatcher(zoomer, nil, nil, nil, 0)

	d.Dispatch([]vision.Event{
		{Type: vision.EventZoomIn},
		{Type: vision.EventZoomOut},
		{Type: vision.EventZoomIn},
	})

	assert.Equal(t, 2, zoomer.ins)
	assert.Equal(t, 1, zoomer.outs)
}

func TestDispatchWarningCooldown(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	notifier := &recordingNotifier{}
	d := NewDispatcher(nil, notifier, nil, clock, time.Minute)

	warn := vision.Event{Type: vision.WarnDark, Value: 5}

	// The pipeline repeats the warning every frame; only the first one
	// within the cooldown window is delivered.
	d.Dispatch([]vision.Event{warn})
	d.Dispatch([]vision.Event{warn})
	clock.Advance(30 * time.Second)
	d.Dispatch([]vision.Event{warn})
	assert.Len(t, notifier.titles, 1)

	clock.Advance(31 * time.Second)
	d.Dispatch([]vision.Event{warn})
	assert.Len(t, notifier.titles, 2)
}

func TestDispatchCooldownIsPerType(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	notifier := &recordingNotifier{}
	d := NewDispatcher(nil, notifier, nil, clock, time.Minute)

	d.Dispatch([]vision.Event{
		{Type: vision.WarnDark, Value: 5},
		{Type: vision.WarnClose, Value: 25},
	})

	assert.Equal(t, []string{"Low light", "Too close"}, notifier.titles)
}

func TestDispatchLightChangeDrivesColorTuner(t *testing.T) {
	t.Parallel()

	tuner := &recordingTuner{}
	d := NewDispatcher(nil, nil, tuner, nil, 0)

	d.Dispatch([]vision.Event{
		{Type: vision.EventLightChanged, Prev: string(vision.LightLight), Curr: string(vision.LightDark)},
		{Type: vision.EventLightChanged, Prev: string(vision.LightDark), Curr: string(vision.LightLight)},
	})

	assert.Equal(t, []bool{true, false}, tuner.warm)
}

func TestDispatchSwallowsActuatorErrors(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{err: errors.New("toast service down")}
	d := NewDispatcher(nil, notifier, nil, nil, 0)

	// Must not panic or stop processing later events.
	zoomer := &recordingZoomer{}
	d.zoomer = zoomer
	d.Dispatch([]vision.Event{
		{Type: vision.WarnLowBlink, Value: 4},
		{Type: vision.EventZoomIn},
	})
	assert.Equal(t, 1, zoomer.ins)
}

func TestDispatchIgnoresNonActuatedEvents(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	d := NewDispatcher(nil, notifier, nil, nil, 0)

	d.Dispatch([]vision.Event{
		{Type: vision.EventBlink},
		{Type: vision.EventDistanceChanged},
		{Type: vision.EventDirectionChanged},
	})

	assert.Empty(t, notifier.titles)
}
