package db

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/eyetune-labs/eyetune/internal/vision"
)

// SessionSummary aggregates a session's recorded samples and events into
// the figures shown by /api/summary.
type SessionSummary struct {
	SessionID string     `json:"session_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Samples   int        `json:"samples"`

	BlinkCount     int     `json:"blink_count"`
	BlinkRateMean  float64 `json:"blink_rate_mean"`
	BlinkRateStd   float64 `json:"blink_rate_std"`
	BlinkRateP50   float64 `json:"blink_rate_p50"`
	BlinkRateP95   float64 `json:"blink_rate_p95"`
	DistanceCmMean float64 `json:"distance_cm_mean"`
	DistanceCmMin  float64 `json:"distance_cm_min"`
	DistanceCmMax  float64 `json:"distance_cm_max"`

	// Fractions of sampled time, in [0,1].
	FaceVisibleShare float64 `json:"face_visible_share"`
	DarkShare        float64 `json:"dark_share"`
	CloseShare       float64 `json:"close_share"`
	FarShare         float64 `json:"far_share"`
	ZoomActiveShare  float64 `json:"zoom_active_share"`

	LookAwaySeconds float64 `json:"look_away_seconds"`

	EventCounts map[vision.EventType]int `json:"event_counts"`
}

// SummarizeSession computes the summary for one session. A session with no
// samples yet returns a summary with Samples == 0 and zeroed statistics.
func (db *DB) SummarizeSession(sessionID string) (SessionSummary, error) {
	session, err := db.GetSession(sessionID)
	if err != nil {
		return SessionSummary{}, err
	}

	samples, err := db.ListSamples(sessionID, 0)
	if err != nil {
		return SessionSummary{}, err
	}
	counts, err := db.CountEventsByType(sessionID)
	if err != nil {
		return SessionSummary{}, err
	}

	summary := SessionSummary{
		SessionID:   session.ID,
		StartedAt:   session.StartedAt,
		EndedAt:     session.EndedAt,
		Samples:     len(samples),
		EventCounts: counts,
	}
	if len(samples) == 0 {
		return summary, nil
	}

	rates := make([]float64, 0, len(samples))
	var distances []float64
	var visible, dark, nClose, nFar, zoom int
	for _, s := range samples {
		rates = append(rates, s.Snapshot.BlinkRate)
		if s.Snapshot.DistanceCm > 0 {
			distances = append(distances, s.Snapshot.DistanceCm)
		}
		if s.Snapshot.FaceVisible {
			visible++
		}
		if s.Snapshot.LightState == vision.LightDark {
			dark++
		}
		switch s.Snapshot.DistanceState {
		case vision.DistanceClose:
			nClose++
		case vision.DistanceFar:
			nFar++
		}
		if s.Snapshot.ZoomActive {
			zoom++
		}
	}

	last := samples[len(samples)-1].Snapshot
	summary.BlinkCount = last.BlinkCount
	summary.LookAwaySeconds = last.LookAwaySeconds

	sort.Float64s(rates)
	summary.BlinkRateMean = stat.Mean(rates, nil)
	// StdDev divides by n-1, so a lone sample would yield NaN, which
	// encoding/json refuses to encode. Report 0 until there are two.
	if len(rates) > 1 {
		summary.BlinkRateStd = stat.StdDev(rates, nil)
	}
	summary.BlinkRateP50 = stat.Quantile(0.50, stat.Empirical, rates, nil)
	summary.BlinkRateP95 = stat.Quantile(0.95, stat.Empirical, rates, nil)

	if len(distances) > 0 {
		summary.DistanceCmMean = stat.Mean(distances, nil)
		summary.DistanceCmMin = distances[0]
		summary.DistanceCmMax = distances[0]
		for _, d := range distances {
			if d < summary.DistanceCmMin {
				summary.DistanceCmMin = d
			}
			if d > summary.DistanceCmMax {
				summary.DistanceCmMax = d
			}
		}
	}

	n := float64(len(samples))
	summary.FaceVisibleShare = float64(visible) / n
	summary.DarkShare = float64(dark) / n
	summary.CloseShare = float64(nClose) / n
	summary.FarShare = float64(nFar) / n
	summary.ZoomActiveShare = float64(zoom) / n

	return summary, nil
}

// String renders a one-line digest for logs.
func (s SessionSummary) String() string {
	return fmt.Sprintf(
		"session %s: %d samples, %d blinks, mean rate %.1f/min, mean distance %.1fcm, face visible %.0f%%",
		s.SessionID, s.Samples, s.BlinkCount, s.BlinkRateMean, s.DistanceCmMean, s.FaceVisibleShare*100,
	)
}
