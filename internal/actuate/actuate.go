// Package actuate turns pipeline events into OS-side effects through
// capability interfaces. The core pipeline never touches the OS; this is
// the only layer that would. The default implementations just log, so the
// service runs everywhere; real zoom/notification/color backends implement
// the same interfaces per platform.
package actuate

import "log"

// ScreenZoomer applies and releases the accessibility zoom.
type ScreenZoomer interface {
	ZoomIn() error
	ZoomOut() error
}

// Notifier delivers a user-facing warning notification.
type Notifier interface {
	Notify(title, message string) error
}

// ColorTuner adjusts the display's color warmth for ambient conditions.
type ColorTuner interface {
	// SetWarm enables or disables the warm (low blue light) profile.
	SetWarm(enabled bool) error
}

// LogZoomer logs zoom transitions instead of driving the OS.
type LogZoomer struct{}

func (LogZoomer) ZoomIn() error {
	log.Println("[actuate] zoom in")
	return nil
}

func (LogZoomer) ZoomOut() error {
	log.Println("[actuate] zoom out")
	return nil
}

// LogNotifier logs notifications instead of displaying them.
type LogNotifier struct{}

func (LogNotifier) Notify(title, message string) error {
	log.Printf("[actuate] notify: %s: %s", title, message)
	return nil
}

// LogColorTuner logs warmth changes instead of applying them.
type LogColorTuner struct{}

func (LogColorTuner) SetWarm(enabled bool) error {
	log.Printf("[actuate] warm color profile: %v", enabled)
	return nil
}
