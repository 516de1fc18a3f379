package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// All fields are pointers so partial JSON configs are safe: anything
// omitted falls back to the Get* defaults below.
type TuningConfig struct {
	// Blink params
	BlinkThreshold    *float64 `json:"blink_threshold,omitempty"`
	BlinkRefractory   *string  `json:"blink_refractory,omitempty"` // duration string like "270ms"
	BlinkHistoryCap   *int     `json:"blink_history_cap,omitempty"`
	LowBlinkRate      *float64 `json:"low_blink_rate,omitempty"`
	LowBlinkMinUptime *string  `json:"low_blink_min_uptime,omitempty"` // duration string like "2m"

	// Zoom (sustained squint) params
	ZoomInThreshold  *float64 `json:"zoom_in_threshold,omitempty"`
	ZoomOutThreshold *float64 `json:"zoom_out_threshold,omitempty"`
	ZoomSustain      *string  `json:"zoom_sustain,omitempty"` // duration string like "2s"
	ZoomHold         *string  `json:"zoom_hold,omitempty"`    // duration string like "30s"

	// Ambient light params
	BrightnessThreshold *float64 `json:"brightness_threshold,omitempty"`
	BrightnessMargin    *float64 `json:"brightness_margin,omitempty"`

	// Distance params
	CloseThresholdCm *float64 `json:"close_threshold_cm,omitempty"`
	FarThresholdCm   *float64 `json:"far_threshold_cm,omitempty"`
	FocalLengthPx    *float64 `json:"focal_length_px,omitempty"`
	IrisDiameterCm   *float64 `json:"iris_diameter_cm,omitempty"`

	// Gaze direction params
	CenterDeadzone  *float64 `json:"center_deadzone,omitempty"`
	StabilityWindow *string  `json:"stability_window,omitempty"` // duration string like "500ms"
	LookAwayWarn    *string  `json:"look_away_warn,omitempty"`   // duration string like "15s"

	// Recording params
	SampleInterval *string `json:"sample_interval,omitempty"` // duration string like "1s"
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Threshold
// ordering violations are fatal here, before any frame is processed.
func (c *TuningConfig) Validate() error {
	if c.BlinkThreshold != nil && *c.BlinkThreshold <= 0 {
		return fmt.Errorf("blink_threshold must be positive, got %f", *c.BlinkThreshold)
	}
	zoomIn := c.GetZoomInThreshold()
	zoomOut := c.GetZoomOutThreshold()
	if zoomOut <= zoomIn {
		return fmt.Errorf("zoom_out_threshold (%f) must exceed zoom_in_threshold (%f)", zoomOut, zoomIn)
	}
	if c.BrightnessMargin != nil && *c.BrightnessMargin <= 0 {
		return fmt.Errorf("brightness_margin must be positive, got %f", *c.BrightnessMargin)
	}
	if c.GetCloseThresholdCm() >= c.GetFarThresholdCm() {
		return fmt.Errorf("close_threshold_cm (%f) must be below far_threshold_cm (%f)",
			c.GetCloseThresholdCm(), c.GetFarThresholdCm())
	}
	if c.FocalLengthPx != nil && *c.FocalLengthPx <= 0 {
		return fmt.Errorf("focal_length_px must be positive, got %f", *c.FocalLengthPx)
	}
	if c.IrisDiameterCm != nil && *c.IrisDiameterCm <= 0 {
		return fmt.Errorf("iris_diameter_cm must be positive, got %f", *c.IrisDiameterCm)
	}
	if c.BlinkHistoryCap != nil && *c.BlinkHistoryCap < 1 {
		return fmt.Errorf("blink_history_cap must be at least 1, got %d", *c.BlinkHistoryCap)
	}

	for name, field := range map[string]*string{
		"blink_refractory":     c.BlinkRefractory,
		"low_blink_min_uptime": c.LowBlinkMinUptime,
		"zoom_sustain":         c.ZoomSustain,
		"zoom_hold":            c.ZoomHold,
		"stability_window":     c.StabilityWindow,
		"look_away_warn":       c.LookAwayWarn,
		"sample_interval":      c.SampleInterval,
	} {
		if field == nil || *field == "" {
			continue
		}
		d, err := time.ParseDuration(*field)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *field, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	return nil
}

func (c *TuningConfig) duration(field *string, fallback time.Duration) time.Duration {
	if field == nil || *field == "" {
		return fallback
	}
	d, err := time.ParseDuration(*field)
	if err != nil {
		return fallback
	}
	return d
}

// GetBlinkThreshold returns the blink_threshold value or the default.
func (c *TuningConfig) GetBlinkThreshold() float64 {
	if c.BlinkThreshold == nil {
		return 0.20
	}
	return *c.BlinkThreshold
}

// GetBlinkRefractory parses and returns the blink refractory period.
func (c *TuningConfig) GetBlinkRefractory() time.Duration {
	return c.duration(c.BlinkRefractory, 270*time.Millisecond)
}

// GetBlinkHistoryCap returns the blink_history_cap value or the default.
func (c *TuningConfig) GetBlinkHistoryCap() int {
	if c.BlinkHistoryCap == nil {
		return 60
	}
	return *c.BlinkHistoryCap
}

// GetLowBlinkRate returns the blinks/minute floor below which the low
// blink-rate warning raises.
func (c *TuningConfig) GetLowBlinkRate() float64 {
	if c.LowBlinkRate == nil {
		return 12.0
	}
	return *c.LowBlinkRate
}

// GetLowBlinkMinUptime returns the session age before the low blink-rate
// warning may raise.
func (c *TuningConfig) GetLowBlinkMinUptime() time.Duration {
	return c.duration(c.LowBlinkMinUptime, 2*time.Minute)
}

// GetZoomInThreshold returns the zoom_in_threshold value or the default.
func (c *TuningConfig) GetZoomInThreshold() float64 {
	if c.ZoomInThreshold == nil {
		return 0.23
	}
	return *c.ZoomInThreshold
}

// GetZoomOutThreshold returns the zoom_out_threshold value or the default.
func (c *TuningConfig) GetZoomOutThreshold() float64 {
	if c.ZoomOutThreshold == nil {
		return 0.28
	}
	return *c.ZoomOutThreshold
}

// GetZoomSustain parses and returns the squint duration required to zoom in.
func (c *TuningConfig) GetZoomSustain() time.Duration {
	return c.duration(c.ZoomSustain, 2*time.Second)
}

// GetZoomHold parses and returns how long the zoom holds before auto-revert.
func (c *TuningConfig) GetZoomHold() time.Duration {
	return c.duration(c.ZoomHold, 30*time.Second)
}

// GetBrightnessThreshold returns the brightness_threshold value or the default.
func (c *TuningConfig) GetBrightnessThreshold() float64 {
	if c.BrightnessThreshold == nil {
		return 90.0
	}
	return *c.BrightnessThreshold
}

// GetBrightnessMargin returns the symmetric hysteresis margin around the
// brightness threshold.
func (c *TuningConfig) GetBrightnessMargin() float64 {
	if c.BrightnessMargin == nil {
		return 5.0
	}
	return *c.BrightnessMargin
}

// GetCloseThresholdCm returns the close_threshold_cm value or the default.
func (c *TuningConfig) GetCloseThresholdCm() float64 {
	if c.CloseThresholdCm == nil {
		return 35.0
	}
	return *c.CloseThresholdCm
}

// GetFarThresholdCm returns the far_threshold_cm value or the default.
func (c *TuningConfig) GetFarThresholdCm() float64 {
	if c.FarThresholdCm == nil {
		return 40.0
	}
	return *c.FarThresholdCm
}

// GetFocalLengthPx returns the focal_length_px value or the default.
func (c *TuningConfig) GetFocalLengthPx() float64 {
	if c.FocalLengthPx == nil {
		return 600.0
	}
	return *c.FocalLengthPx
}

// GetIrisDiameterCm returns the iris_diameter_cm value or the default.
func (c *TuningConfig) GetIrisDiameterCm() float64 {
	if c.IrisDiameterCm == nil {
		return 1.17
	}
	return *c.IrisDiameterCm
}

// GetCenterDeadzone returns the center_deadzone value or the default.
func (c *TuningConfig) GetCenterDeadzone() float64 {
	if c.CenterDeadzone == nil {
		return 0.03
	}
	return *c.CenterDeadzone
}

// GetStabilityWindow parses and returns the direction stability window.
func (c *TuningConfig) GetStabilityWindow() time.Duration {
	return c.duration(c.StabilityWindow, 500*time.Millisecond)
}

// GetLookAwayWarn parses and returns the look-away dwell before the focus
// break warning raises.
func (c *TuningConfig) GetLookAwayWarn() time.Duration {
	return c.duration(c.LookAwayWarn, 15*time.Second)
}

// GetSampleInterval parses and returns the snapshot persistence interval.
func (c *TuningConfig) GetSampleInterval() time.Duration {
	return c.duration(c.SampleInterval, time.Second)
}
