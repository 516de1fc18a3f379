// Package source provides the frame inputs for the processing loop: a UDP
// listener fed by the external landmark-detector process, a fixture replay
// source for development, and the single-slot buffer that connects either
// one to the pipeline.
package source

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/eyetune-labs/eyetune/internal/vision"
)

// wireFrame is the NDJSON representation of one detector frame. Landmarks
// are [x, y] pairs in normalized image coordinates; an absent or empty
// array marks a no-face frame.
type wireFrame struct {
	TimestampMs int64        `json:"ts_ms"`
	Landmarks   [][2]float64 `json:"landmarks,omitempty"`
	Box         wireBox      `json:"box"`
	Luminance   float64      `json:"luminance"`
	ImageWidth  int          `json:"image_width"`
	ImageHeight int          `json:"image_height"`
}

type wireBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ParseFrame decodes one NDJSON line into a FrameSample.
func ParseFrame(data []byte) (vision.FrameSample, error) {
	var w wireFrame
	if err := json.Unmarshal(data, &w); err != nil {
		return vision.FrameSample{}, fmt.Errorf("failed to parse frame JSON: %w", err)
	}
	if w.TimestampMs <= 0 {
		return vision.FrameSample{}, fmt.Errorf("frame missing ts_ms")
	}

	f := vision.FrameSample{
		Timestamp:   time.UnixMilli(w.TimestampMs).UTC(),
		Box:         vision.BoundingBox{X: w.Box.X, Y: w.Box.Y, Width: w.Box.Width, Height: w.Box.Height},
		Luminance:   w.Luminance,
		ImageWidth:  w.ImageWidth,
		ImageHeight: w.ImageHeight,
	}
	if len(w.Landmarks) > 0 {
		f.Landmarks = make([]vision.Point, len(w.Landmarks))
		for i, p := range w.Landmarks {
			f.Landmarks[i] = vision.Point{X: p[0], Y: p[1]}
		}
	}
	return f, nil
}

// EncodeFrame encodes a FrameSample as one NDJSON line (no trailing
// newline). Used by the fixture recorder and tests.
func EncodeFrame(f vision.FrameSample) ([]byte, error) {
	w := wireFrame{
		TimestampMs: f.Timestamp.UnixMilli(),
		Box:         wireBox{X: f.Box.X, Y: f.Box.Y, Width: f.Box.Width, Height: f.Box.Height},
		Luminance:   f.Luminance,
		ImageWidth:  f.ImageWidth,
		ImageHeight: f.ImageHeight,
	}
	if len(f.Landmarks) > 0 {
		w.Landmarks = make([][2]float64, len(f.Landmarks))
		for i, p := range f.Landmarks {
			w.Landmarks[i] = [2]float64{p.X, p.Y}
		}
	}
	return json.Marshal(w)
}
