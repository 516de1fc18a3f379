package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eyetune-labs/eyetune/internal/vision"
)

// Session is one run of the service from startup to shutdown.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Sample is one persisted snapshot row.
type Sample struct {
	SessionID string          `json:"session_id"`
	Snapshot  vision.Snapshot `json:"snapshot"`
}

// CreateSession inserts a new session row and returns its generated ID.
func (db *DB) CreateSession(startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		"INSERT INTO sessions (id, started_at) VALUES (?, ?)",
		id, startedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// EndSession stamps the session's end time.
func (db *DB) EndSession(id string, endedAt time.Time) error {
	res, err := db.Exec(
		"UPDATE sessions SET ended_at = ? WHERE id = ?",
		endedAt.UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// GetSession fetches one session by ID.
func (db *DB) GetSession(id string) (Session, error) {
	var s Session
	var startedMs int64
	var endedMs sql.NullInt64
	err := db.QueryRow(
		"SELECT id, started_at, ended_at FROM sessions WHERE id = ?", id,
	).Scan(&s.ID, &startedMs, &endedMs)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	s.StartedAt = time.UnixMilli(startedMs).UTC()
	if endedMs.Valid {
		t := time.UnixMilli(endedMs.Int64).UTC()
		s.EndedAt = &t
	}
	return s, nil
}

// RecordEvent persists one pipeline event under a session.
func (db *DB) RecordEvent(sessionID string, e vision.Event) error {
	_, err := db.Exec(
		`INSERT INTO events (id, session_id, type, at, prev, curr, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, sessionID, string(e.Type), e.At.UnixMilli(), e.Prev, e.Curr, e.Value,
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// ListEvents returns a session's most recent events, newest first.
func (db *DB) ListEvents(sessionID string, limit int) ([]vision.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(
		`SELECT id, type, at, prev, curr, value FROM events
		 WHERE session_id = ? ORDER BY at DESC, id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []vision.Event
	for rows.Next() {
		var e vision.Event
		var typ string
		var atMs int64
		if err := rows.Scan(&e.ID, &typ, &atMs, &e.Prev, &e.Curr, &e.Value); err != nil {
			return nil, err
		}
		e.Type = vision.EventType(typ)
		e.At = time.UnixMilli(atMs).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEventsByType returns per-type event counts for a session.
func (db *DB) CountEventsByType(sessionID string) (map[vision.EventType]int, error) {
	rows, err := db.Query(
		"SELECT type, COUNT(*) FROM events WHERE session_id = ? GROUP BY type",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[vision.EventType]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[vision.EventType(typ)] = n
	}
	return counts, rows.Err()
}

// RecordSample persists one snapshot row under a session.
func (db *DB) RecordSample(sessionID string, s vision.Snapshot) error {
	_, err := db.Exec(
		`INSERT INTO samples (
			session_id, at, face_visible, blink_count, blink_rate,
			gaze_direction, look_away_seconds, continuous_focus_seconds,
			light_state, brightness, distance_cm, distance_state, zoom_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, s.At.UnixMilli(), s.FaceVisible, s.BlinkCount, s.BlinkRate,
		string(s.GazeDirection), s.LookAwaySeconds, s.ContinuousFocusSeconds,
		string(s.LightState), s.Brightness, s.DistanceCm, string(s.DistanceState), s.ZoomActive,
	)
	if err != nil {
		return fmt.Errorf("failed to record sample: %w", err)
	}
	return nil
}

// ListSamples returns a session's samples in chronological order, capped at
// limit rows counted from the end. A limit of zero or less returns every
// sample.
func (db *DB) ListSamples(sessionID string, limit int) ([]Sample, error) {
	if limit <= 0 {
		// sqlite treats a negative LIMIT as unbounded.
		limit = -1
	}
	rows, err := db.Query(
		`SELECT at, face_visible, blink_count, blink_rate, gaze_direction,
			look_away_seconds, continuous_focus_seconds, light_state,
			brightness, distance_cm, distance_state, zoom_active
		 FROM (
			SELECT * FROM samples WHERE session_id = ?
			ORDER BY at DESC, sample_id DESC LIMIT ?
		 ) ORDER BY at ASC, sample_id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s vision.Snapshot
		var atMs int64
		var dir, light, dist string
		if err := rows.Scan(
			&atMs, &s.FaceVisible, &s.BlinkCount, &s.BlinkRate, &dir,
			&s.LookAwaySeconds, &s.ContinuousFocusSeconds, &light,
			&s.Brightness, &s.DistanceCm, &dist, &s.ZoomActive,
		); err != nil {
			return nil, err
		}
		s.At = time.UnixMilli(atMs).UTC()
		s.GazeDirection = vision.Direction(dir)
		s.LightState = vision.LightState(light)
		s.DistanceState = vision.DistanceState(dist)
		samples = append(samples, Sample{SessionID: sessionID, Snapshot: s})
	}
	return samples, rows.Err()
}

// LatestSample returns the most recent sample for a session.
func (db *DB) LatestSample(sessionID string) (Sample, error) {
	samples, err := db.ListSamples(sessionID, 1)
	if err != nil {
		return Sample{}, err
	}
	if len(samples) == 0 {
		return Sample{}, sql.ErrNoRows
	}
	return samples[0], nil
}
