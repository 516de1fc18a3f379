package vision

import "math"

// Signals holds the scalar signals derived from one frame. Fields that
// could not be computed this frame are NaN; each tracker rejects non-finite
// input independently, so a bad iris read does not block blink detection.
type Signals struct {
	LeftEAR         float64
	RightEAR        float64
	AvgEAR          float64
	IrisPixelWidth  float64
	GazeOffsetRatio float64
	Luminance       float64
}

// ExtractSignals computes the per-frame signals from a landmark set.
// Pure and stateless: the same frame always yields the same signals.
// Returns ErrNoFace when the frame has no usable landmark set.
func ExtractSignals(f FrameSample) (Signals, error) {
	if !f.HasFace() {
		return Signals{}, ErrNoFace
	}

	w := float64(f.ImageWidth)
	h := float64(f.ImageHeight)

	left := eyeAspectRatio(f.Landmarks, LeftEyeEARPoints, w, h)
	right := eyeAspectRatio(f.Landmarks, RightEyeEARPoints, w, h)

	s := Signals{
		LeftEAR:         left,
		RightEAR:        right,
		AvgEAR:          averageEAR(left, right),
		IrisPixelWidth:  irisPixelWidth(f.Landmarks, w, h),
		GazeOffsetRatio: gazeOffsetRatio(f.Landmarks, f.Box),
		Luminance:       f.Luminance,
	}
	return s, nil
}

// eyeAspectRatio computes EAR = (||p2-p6|| + ||p3-p5||) / (2*||p1-p4||)
// in pixel space. Returns NaN when the landmarks are out of range or the
// horizontal width collapses (eye occluded or detector glitch).
func eyeAspectRatio(landmarks []Point, idx [6]int, imgW, imgH float64) float64 {
	pts := make([][2]float64, 6)
	for i, li := range idx {
		if li >= len(landmarks) {
			return math.NaN()
		}
		pts[i] = [2]float64{landmarks[li].X * imgW, landmarks[li].Y * imgH}
	}

	v1 := dist(pts[1], pts[5])
	v2 := dist(pts[2], pts[4])
	hd := dist(pts[0], pts[3])
	if hd <= 0 {
		return math.NaN()
	}
	return (v1 + v2) / (2 * hd)
}

// averageEAR is the mean of both eyes, falling back to the single visible
// eye when the other is occluded. Never substitutes a stale value: both
// eyes missing yields NaN.
func averageEAR(left, right float64) float64 {
	lOK := isFinite(left)
	rOK := isFinite(right)
	switch {
	case lOK && rOK:
		return (left + right) / 2
	case lOK:
		return left
	case rOK:
		return right
	default:
		return math.NaN()
	}
}

// irisPixelWidth is the pixel distance between the two iris-edge landmarks
// of the left eye, falling back to the right eye when the left read is
// unusable.
func irisPixelWidth(landmarks []Point, imgW, imgH float64) float64 {
	if w := irisWidth(landmarks, LeftIrisLeft, LeftIrisRight, imgW, imgH); isFinite(w) && w > 0 {
		return w
	}
	if w := irisWidth(landmarks, RightIrisLeft, RightIrisRight, imgW, imgH); isFinite(w) && w > 0 {
		return w
	}
	return math.NaN()
}

func irisWidth(landmarks []Point, a, b int, imgW, imgH float64) float64 {
	if a >= len(landmarks) || b >= len(landmarks) {
		return math.NaN()
	}
	pa := [2]float64{landmarks[a].X * imgW, landmarks[a].Y * imgH}
	pb := [2]float64{landmarks[b].X * imgW, landmarks[b].Y * imgH}
	return dist(pa, pb)
}

// gazeOffsetRatio is (eyeCenterX - faceCenterX) / faceWidth in normalized
// coordinates. Positive values point toward the viewer's right.
func gazeOffsetRatio(landmarks []Point, box BoundingBox) float64 {
	corners := [4]int{LeftEyeOuterCorner, LeftEyeInnerCorner, RightEyeInnerCorner, RightEyeOuterCorner}
	var sum float64
	for _, c := range corners {
		if c >= len(landmarks) {
			return math.NaN()
		}
		sum += landmarks[c].X
	}
	eyeCenterX := sum / 4

	if box.Width <= 0 {
		return math.NaN()
	}
	faceCenterX := box.X + box.Width/2
	return (eyeCenterX - faceCenterX) / box.Width
}

func dist(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
