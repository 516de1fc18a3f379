package vision

import (
	"fmt"
	"time"

	"github.com/eyetune-labs/eyetune/internal/config"
)

// Config holds the resolved tracker thresholds and windows. Build one from
// a TuningConfig with ConfigFromTuning, or use DefaultConfig for tests.
type Config struct {
	BlinkThreshold    float64       // EAR below this is a closed eye
	BlinkRefractory   time.Duration // Minimum gap between counted blinks
	BlinkHistoryCap   int           // Bounded blink timestamp history
	LowBlinkRate      float64       // Blinks/minute floor for the dry-eye warning
	LowBlinkMinUptime time.Duration // Session age before the dry-eye warning may raise

	ZoomInThreshold  float64       // EAR below this is a squint (above blink threshold)
	ZoomOutThreshold float64       // EAR at or above this releases an active zoom
	ZoomSustain      time.Duration // Squint duration required to activate zoom
	ZoomHold         time.Duration // Zoom auto-release after this long active

	BrightnessThreshold float64 // Center of the light/dark hysteresis band
	BrightnessMargin    float64 // Symmetric half-width of the band

	CloseThresholdCm float64 // Below this distance is CLOSE (exclusive)
	FarThresholdCm   float64 // Above this distance is FAR (exclusive)
	FocalLengthPx    float64 // Camera focal length in pixels
	IrisDiameterCm   float64 // Physical iris diameter (population average)

	CenterDeadzone  float64       // |gaze offset ratio| below this is CENTER
	StabilityWindow time.Duration // Pending direction must hold this long to commit
	LookAwayWarn    time.Duration // Off-center dwell before the focus break warning
}

// DefaultConfig returns the tracker defaults matching
// config/tuning.defaults.json.
func DefaultConfig() Config {
	return ConfigFromTuning(config.EmptyTuningConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		BlinkThreshold:      cfg.GetBlinkThreshold(),
		BlinkRefractory:     cfg.GetBlinkRefractory(),
		BlinkHistoryCap:     cfg.GetBlinkHistoryCap(),
		LowBlinkRate:        cfg.GetLowBlinkRate(),
		LowBlinkMinUptime:   cfg.GetLowBlinkMinUptime(),
		ZoomInThreshold:     cfg.GetZoomInThreshold(),
		ZoomOutThreshold:    cfg.GetZoomOutThreshold(),
		ZoomSustain:         cfg.GetZoomSustain(),
		ZoomHold:            cfg.GetZoomHold(),
		BrightnessThreshold: cfg.GetBrightnessThreshold(),
		BrightnessMargin:    cfg.GetBrightnessMargin(),
		CloseThresholdCm:    cfg.GetCloseThresholdCm(),
		FarThresholdCm:      cfg.GetFarThresholdCm(),
		FocalLengthPx:       cfg.GetFocalLengthPx(),
		IrisDiameterCm:      cfg.GetIrisDiameterCm(),
		CenterDeadzone:      cfg.GetCenterDeadzone(),
		StabilityWindow:     cfg.GetStabilityWindow(),
		LookAwayWarn:        cfg.GetLookAwayWarn(),
	}
}

// Validate enforces the threshold orderings the trackers rely on.
// Violations are configuration errors and fatal at construction; nothing
// here is checked again at runtime.
func (c Config) Validate() error {
	if c.BlinkThreshold <= 0 {
		return fmt.Errorf("blink threshold must be positive, got %f", c.BlinkThreshold)
	}
	if c.BlinkRefractory <= 0 {
		return fmt.Errorf("blink refractory must be positive, got %s", c.BlinkRefractory)
	}
	if c.BlinkHistoryCap < 1 {
		return fmt.Errorf("blink history capacity must be at least 1, got %d", c.BlinkHistoryCap)
	}
	if c.ZoomOutThreshold <= c.ZoomInThreshold {
		return fmt.Errorf("zoom-out threshold (%f) must exceed zoom-in threshold (%f)",
			c.ZoomOutThreshold, c.ZoomInThreshold)
	}
	if c.ZoomSustain <= 0 || c.ZoomHold <= 0 {
		return fmt.Errorf("zoom sustain (%s) and hold (%s) must be positive", c.ZoomSustain, c.ZoomHold)
	}
	if c.BrightnessMargin <= 0 {
		return fmt.Errorf("brightness margin must be positive, got %f", c.BrightnessMargin)
	}
	if c.CloseThresholdCm >= c.FarThresholdCm {
		return fmt.Errorf("close threshold (%f cm) must be below far threshold (%f cm)",
			c.CloseThresholdCm, c.FarThresholdCm)
	}
	if c.FocalLengthPx <= 0 {
		return fmt.Errorf("focal length must be positive, got %f", c.FocalLengthPx)
	}
	if c.IrisDiameterCm <= 0 {
		return fmt.Errorf("iris diameter must be positive, got %f", c.IrisDiameterCm)
	}
	if c.CenterDeadzone <= 0 {
		return fmt.Errorf("center deadzone must be positive, got %f", c.CenterDeadzone)
	}
	if c.StabilityWindow <= 0 {
		return fmt.Errorf("stability window must be positive, got %s", c.StabilityWindow)
	}
	return nil
}
