package vision

import "time"

// makeFrame builds a synthetic 478-landmark frame on a 1000x1000 image
// where both eyes carry the given EAR, the left iris spans irisPx pixels,
// and the face box is positioned so the gaze offset ratio equals gaze.
func makeFrame(ts time.Time, ear, irisPx, gaze, luminance float64) FrameSample {
	lm := make([]Point, 478)

	// Horizontal eye corners: 100px wide per eye.
	lm[33] = Point{X: 0.30, Y: 0.5}
	lm[133] = Point{X: 0.40, Y: 0.5}
	lm[362] = Point{X: 0.60, Y: 0.5}
	lm[263] = Point{X: 0.70, Y: 0.5}

	// Vertical eyelid pairs: EAR = (v1+v2)/(2*100px) with v1 = v2, so each
	// pair spans ear*100 pixels.
	half := ear * 0.05
	for _, pair := range [][2]int{{160, 144}, {158, 153}} { // right eye
		lm[pair[0]] = Point{X: 0.35, Y: 0.5 - half}
		lm[pair[1]] = Point{X: 0.35, Y: 0.5 + half}
	}
	for _, pair := range [][2]int{{385, 380}, {387, 373}} { // left eye
		lm[pair[0]] = Point{X: 0.65, Y: 0.5 - half}
		lm[pair[1]] = Point{X: 0.65, Y: 0.5 + half}
	}

	// Left iris edges.
	lm[LeftIrisLeft] = Point{X: 0.30, Y: 0.5}
	lm[LeftIrisRight] = Point{X: 0.30 + irisPx/1000.0, Y: 0.5}
	lm[RightIrisLeft] = Point{X: 0.60, Y: 0.5}
	lm[RightIrisRight] = Point{X: 0.60 + irisPx/1000.0, Y: 0.5}

	// Eye corner mean X is 0.5; slide the face box so the offset ratio
	// comes out as requested against a 0.5-wide face.
	box := BoundingBox{X: 0.25 - gaze*0.5, Y: 0.2, Width: 0.5, Height: 0.6}

	return FrameSample{
		Timestamp:   ts,
		Landmarks:   lm,
		Box:         box,
		Luminance:   luminance,
		ImageWidth:  1000,
		ImageHeight: 1000,
	}
}

// noFaceFrame builds a frame with no landmark set.
func noFaceFrame(ts time.Time, luminance float64) FrameSample {
	return FrameSample{
		Timestamp:   ts,
		Luminance:   luminance,
		ImageWidth:  1000,
		ImageHeight: 1000,
	}
}
