package actuate

import (
	"fmt"
	"log"
	"time"

	"github.com/eyetune-labs/eyetune/internal/timeutil"
	"github.com/eyetune-labs/eyetune/internal/vision"
)

// DefaultCooldown is the minimum gap between notifications of the same
// warning type. The pipeline re-emits level-triggered warnings every frame;
// rate-limiting delivery is this layer's job.
const DefaultCooldown = time.Minute

// Dispatcher fans pipeline events out to the actuators. Zoom transitions
// pass through unconditionally (they are already edge-triggered); warnings
// go through a per-type cooldown.
type Dispatcher struct {
	zoomer   ScreenZoomer
	notifier Notifier
	tuner    ColorTuner
	clock    timeutil.Clock
	cooldown time.Duration

	lastNotified map[vision.EventType]time.Time
}

// NewDispatcher builds a dispatcher; nil actuators disable that capability.
func NewDispatcher(zoomer ScreenZoomer, notifier Notifier, tuner ColorTuner, clock timeutil.Clock, cooldown time.Duration) *Dispatcher {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Dispatcher{
		zoomer:       zoomer,
		notifier:     notifier,
		tuner:        tuner,
		clock:        clock,
		cooldown:     cooldown,
		lastNotified: make(map[vision.EventType]time.Time),
	}
}

// Dispatch routes one frame's events. Actuator errors are logged and
// swallowed: a failed notification must never stall the processing loop.
func (d *Dispatcher) Dispatch(events []vision.Event) {
	for _, e := range events {
		if err := d.dispatchOne(e); err != nil {
			log.Printf("Actuator error for %s: %v", e.Type, err)
		}
	}
}

func (d *Dispatcher) dispatchOne(e vision.Event) error {
	switch e.Type {
	case vision.EventZoomIn:
		if d.zoomer != nil {
			return d.zoomer.ZoomIn()
		}
	case vision.EventZoomOut:
		if d.zoomer != nil {
			return d.zoomer.ZoomOut()
		}
	case vision.EventLightChanged:
		if d.tuner != nil {
			return d.tuner.SetWarm(e.Curr == string(vision.LightDark))
		}
	default:
		if e.Type.IsWarning() {
			return d.notify(e)
		}
	}
	return nil
}

func (d *Dispatcher) notify(e vision.Event) error {
	if d.notifier == nil {
		return nil
	}

	now := d.clock.Now()
	if last, ok := d.lastNotified[e.Type]; ok && now.Sub(last) < d.cooldown {
		return nil
	}
	d.lastNotified[e.Type] = now

	title, message := warningText(e)
	return d.notifier.Notify(title, message)
}

func warningText(e vision.Event) (string, string) {
	switch e.Type {
	case vision.WarnDark:
		return "Low light", fmt.Sprintf("Your room has been dark for %.0f seconds. Turn on a light.", e.Value)
	case vision.WarnClose:
		return "Too close", fmt.Sprintf("You are %.0f cm from the screen. Move back.", e.Value)
	case vision.WarnFar:
		return "Too far", fmt.Sprintf("You are %.0f cm from the screen. Consider zooming instead of leaning in later.", e.Value)
	case vision.WarnFocusBreak:
		return "Look back", fmt.Sprintf("You have looked away (%s) for a while. Total look-away: %.0fs.", e.Curr, e.Value)
	case vision.WarnLowBlink:
		return "Blink more", fmt.Sprintf("Your blink rate is %.1f/min. Rest your eyes for a moment.", e.Value)
	case vision.WarnSquint:
		return "Squinting", "Zoom is active because you are squinting. Consider a larger font."
	default:
		return string(e.Type), ""
	}
}
