package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/eyetune-labs/eyetune/internal/vision"
)

// FixtureSource replays an NDJSON fixtures file on a ticker for development
// without a camera or detector process. Frames are re-stamped with the
// emission time so the trackers see live-looking timestamp deltas; the
// recorded geometry and luminance are preserved. The file loops forever.
type FixtureSource struct {
	path     string
	interval time.Duration
	slot     *Slot
	frames   []vision.FrameSample
}

// NewFixtureSource loads and parses the fixtures file up front so a broken
// fixture fails at startup, not mid-session.
func NewFixtureSource(path string, interval time.Duration, slot *Slot) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var frames []vision.FrameSample
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		f, err := ParseFrame(line)
		if err != nil {
			return nil, fmt.Errorf("fixtures line %d: %w", lineNo, err)
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan fixtures file: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("fixtures file %s contains no frames", path)
	}

	return &FixtureSource{path: path, interval: interval, slot: slot, frames: frames}, nil
}

// Run replays the fixture frames until the context is cancelled.
func (s *FixtureSource) Run(ctx context.Context) error {
	log.Printf("Replaying %d fixture frames from %s every %v", len(s.frames), s.path, s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			log.Println("Fixture source shutting down")
			return ctx.Err()
		case now := <-ticker.C:
			f := s.frames[i%len(s.frames)]
			f.Timestamp = now
			s.slot.Publish(f)
			i++
		}
	}
}
