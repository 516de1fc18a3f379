package vision

import (
	"errors"
	"time"
)

// MediaPipe Face Landmarker indices used by the signal extractor.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
//
// EAR point order is [p1..p6]: p1/p4 are the horizontal eye corners,
// (p2,p6) and (p3,p5) are the vertical eyelid pairs.
var (
	RightEyeEARPoints = [6]int{33, 160, 158, 133, 153, 144}
	LeftEyeEARPoints  = [6]int{362, 385, 387, 263, 373, 380}
)

// Iris edge landmark indices (horizontal extremes of each iris).
const (
	LeftIrisLeft   = 469
	LeftIrisRight  = 470
	RightIrisLeft  = 474
	RightIrisRight = 475
)

// Eye corner landmarks used for the gaze offset.
const (
	LeftEyeOuterCorner  = 33
	LeftEyeInnerCorner  = 133
	RightEyeInnerCorner = 362
	RightEyeOuterCorner = 263
)

// MinLandmarks is the minimum landmark count for a usable face mesh.
// The Face Landmarker emits 478 points; anything short of this is treated
// as a detector glitch rather than a face.
const MinLandmarks = 400

// ErrNoFace reports that a frame carried no usable landmark set.
var ErrNoFace = errors.New("vision: no face detected in frame")

// Point is a normalized landmark coordinate in [0,1] image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is the detector's face box in normalized image coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FrameSample is one frame's worth of detector output. It is created by
// the external capture+detection collaborator, processed once, and
// discarded. A nil or short Landmarks slice marks a no-face frame.
type FrameSample struct {
	Timestamp   time.Time
	Landmarks   []Point
	Box         BoundingBox
	Luminance   float64
	ImageWidth  int
	ImageHeight int
}

// HasFace reports whether the frame carries a usable landmark set.
func (f FrameSample) HasFace() bool {
	return len(f.Landmarks) >= MinLandmarks
}
