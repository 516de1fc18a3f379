package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/eyetune-labs/eyetune/internal/vision"
)

// setupTestDB creates a migrated database in a per-test temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestSession creates a session started at a fixed instant.
func createTestSession(t *testing.T, db *DB) (string, time.Time) {
	t.Helper()

	start := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	id, err := db.CreateSession(start)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return id, start
}

// testSnapshot builds a plausible snapshot at the given offset into a session.
func testSnapshot(at time.Time, blinkRate, distanceCm float64) vision.Snapshot {
	return vision.Snapshot{
		At:            at,
		FaceVisible:   true,
		BlinkCount:    5,
		BlinkRate:     blinkRate,
		GazeDirection: vision.DirectionCenter,
		LightState:    vision.LightLight,
		Brightness:    120,
		DistanceCm:    distanceCm,
		DistanceState: vision.DistanceMedium,
	}
}
