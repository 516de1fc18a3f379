package vision

import (
	"fmt"
	"math"
	"time"
)

// Pipeline owns all tracker state and runs the per-frame derivation:
// extract signals once, fan out to every tracker, then aggregate a
// Snapshot and the frame's events. Single-threaded by contract; nothing
// outside the processing goroutine mutates tracker state, so there are no
// cross-frame locks.
type Pipeline struct {
	cfg Config

	blink     *BlinkTracker
	light     *AmbientLightTracker
	distance  *DistanceTracker
	direction *DirectionTracker
	zoom      *ZoomController

	sessionStart   time.Time
	lastBrightness float64
	isBlinking     bool
}

// NewPipeline validates the configuration and builds the tracker set.
// Configuration errors are fatal here, before any frame is processed.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return &Pipeline{
		cfg:            cfg,
		blink:          NewBlinkTracker(cfg),
		light:          NewAmbientLightTracker(cfg),
		distance:       NewDistanceTracker(cfg),
		direction:      NewDirectionTracker(cfg),
		zoom:           NewZoomController(cfg),
		lastBrightness: math.NaN(),
	}, nil
}

// Process runs one frame through the pipeline. A no-face frame updates no
// tracker: the returned snapshot reflects the last known (stale but
// correct) state with FaceVisible=false. Per-frame signal problems are
// local: a rejected iris width still lets the blink and direction
// trackers update normally.
func (p *Pipeline) Process(f FrameSample) (Snapshot, []Event) {
	now := f.Timestamp
	if p.sessionStart.IsZero() {
		p.sessionStart = now
	}

	var events []Event

	sig, err := ExtractSignals(f)
	faceVisible := err == nil
	if faceVisible {
		events = p.updateTrackers(sig, now)
		p.lastBrightness = sig.Luminance
	}

	events = append(events, p.warnings(now)...)

	return p.snapshot(now, faceVisible), events
}

// updateTrackers feeds the signals to each tracker. The trackers are
// mutually independent and touch disjoint state; the order here only fixes
// the event ordering within a frame.
func (p *Pipeline) updateTrackers(sig Signals, now time.Time) []Event {
	var events []Event

	blinkUpd := p.blink.Update(sig.AvgEAR, now)
	p.isBlinking = blinkUpd.IsBlinking
	if blinkUpd.BlinkOccurred {
		e := newEvent(EventBlink, now)
		e.Value = sig.AvgEAR
		events = append(events, e)
	}

	prevLight := p.light.State()
	if p.light.Update(sig.Luminance, now) {
		e := newEvent(EventLightChanged, now)
		e.Prev, e.Curr = string(prevLight), string(p.light.State())
		e.Value = sig.Luminance
		events = append(events, e)
	}

	prevDist := p.distance.State()
	if p.distance.Update(sig.IrisPixelWidth, now) {
		e := newEvent(EventDistanceChanged, now)
		e.Prev, e.Curr = string(prevDist), string(p.distance.State())
		e.Value = p.distance.CurrentCm()
		events = append(events, e)
	}

	prevDir := p.direction.State()
	if p.direction.Update(sig.GazeOffsetRatio, now) {
		e := newEvent(EventDirectionChanged, now)
		e.Prev, e.Curr = string(prevDir), string(p.direction.State())
		e.Value = sig.GazeOffsetRatio
		events = append(events, e)
	}

	zoomUpd := p.zoom.Update(sig.AvgEAR, now)
	if zoomUpd.ZoomIn {
		e := newEvent(EventZoomIn, now)
		e.Value = sig.AvgEAR
		events = append(events, e)
	}
	if zoomUpd.ZoomOut {
		e := newEvent(EventZoomOut, now)
		e.Value = sig.AvgEAR
		events = append(events, e)
	}

	return events
}

// warnings derives the level-triggered facts from committed tracker state.
// These fire every frame the condition holds; delivery rate-limiting is the
// dispatcher's job, not the core's.
func (p *Pipeline) warnings(now time.Time) []Event {
	var events []Event

	if p.light.State() == LightDark {
		e := newEvent(WarnDark, now)
		e.Value = p.light.DarkSeconds(now)
		events = append(events, e)
	}

	switch p.distance.State() {
	case DistanceClose:
		e := newEvent(WarnClose, now)
		e.Value = p.distance.CurrentCm()
		events = append(events, e)
	case DistanceFar:
		e := newEvent(WarnFar, now)
		e.Value = p.distance.CurrentCm()
		events = append(events, e)
	}

	if p.direction.State() != DirectionCenter &&
		p.direction.CurrentDwellSeconds(now) >= p.cfg.LookAwayWarn.Seconds() {
		e := newEvent(WarnFocusBreak, now)
		e.Curr = string(p.direction.State())
		e.Value = p.direction.LookAwaySeconds(now)
		events = append(events, e)
	}

	if now.Sub(p.sessionStart) >= p.cfg.LowBlinkMinUptime {
		if rate := p.blink.Rate(now); rate < p.cfg.LowBlinkRate {
			e := newEvent(WarnLowBlink, now)
			e.Value = rate
			events = append(events, e)
		}
	}

	if p.zoom.State() == ZoomActive {
		events = append(events, newEvent(WarnSquint, now))
	}

	return events
}

func (p *Pipeline) snapshot(now time.Time, faceVisible bool) Snapshot {
	brightness := p.lastBrightness
	if !isFinite(brightness) {
		brightness = 0
	}
	return Snapshot{
		At:                     now,
		FaceVisible:            faceVisible,
		BlinkCount:             p.blink.TotalCount(),
		BlinkRate:              p.blink.Rate(now),
		IsBlinking:             p.isBlinking,
		GazeDirection:          p.direction.State(),
		LookAwaySeconds:        p.direction.LookAwaySeconds(now),
		ContinuousFocusSeconds: p.direction.ContinuousCenterSeconds(now),
		LightState:             p.light.State(),
		Brightness:             brightness,
		DistanceCm:             p.distance.CurrentCm(),
		DistanceState:          p.distance.State(),
		ZoomActive:             p.zoom.State() == ZoomActive,
	}
}
