// Package vision derives debounced behavioral state from per-frame facial
// geometry. A SignalExtractor turns raw landmark sets into scalar signals;
// independent trackers (blink, ambient light, distance, gaze direction,
// zoom) convert those signals into stable discrete state with refractory,
// hysteresis and dwell-time memory; the Pipeline fans a frame out to every
// tracker and aggregates one immutable Snapshot plus the frame's events.
//
// All duration accumulators are defined over timestamp deltas, never frame
// counts, so irregular frame cadence and skipped frames do not corrupt
// rates or dwell times.
package vision
