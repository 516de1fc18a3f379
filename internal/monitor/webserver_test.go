package monitor

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eyetune-labs/eyetune/internal/db"
	"github.com/eyetune-labs/eyetune/internal/vision"
)

func setupTestMonitor(t *testing.T) (*WebServer, *db.DB, string) {
	t.Helper()

	database, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sessionID, err := database.CreateSession(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	return NewWebServer(database, sessionID), database, sessionID
}

func recordSamples(t *testing.T, database *db.DB, sessionID string, n int) {
	t.Helper()
	start := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		snap := vision.Snapshot{
			At:            start.Add(time.Duration(i) * time.Second),
			FaceVisible:   true,
			BlinkRate:     12 + float64(i),
			Brightness:    110,
			DistanceCm:    42,
			GazeDirection: vision.DirectionCenter,
			LightState:    vision.LightLight,
			DistanceState: vision.DistanceMedium,
		}
		if err := database.RecordSample(sessionID, snap); err != nil {
			t.Fatalf("RecordSample failed: %v", err)
		}
	}
}

func monitorMux(ws *WebServer) *http.ServeMux {
	mux := http.NewServeMux()
	ws.RegisterRoutes(mux)
	return mux
}

func TestDashboard(t *testing.T) {
	ws, _, _ := setupTestMonitor(t)

	rec := httptest.NewRecorder()
	monitorMux(ws).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitor", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/monitor/charts") {
		t.Error("Dashboard should embed the charts page")
	}
}

func TestSessionChartsEmpty(t *testing.T) {
	ws, _, _ := setupTestMonitor(t)

	rec := httptest.NewRecorder()
	monitorMux(ws).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitor/charts", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404 with no samples", rec.Code)
	}
}

func TestSessionCharts(t *testing.T) {
	ws, database, sessionID := setupTestMonitor(t)
	recordSamples(t, database, sessionID, 10)

	rec := httptest.NewRecorder()
	monitorMux(ws).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitor/charts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Blink Rate", "Screen Distance", "Ambient Brightness"} {
		if !strings.Contains(body, want) {
			t.Errorf("Charts page missing %q", want)
		}
	}
}

func TestTrendPNG(t *testing.T) {
	ws, database, sessionID := setupTestMonitor(t)
	recordSamples(t, database, sessionID, 10)

	rec := httptest.NewRecorder()
	monitorMux(ws).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitor/trend.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	// PNG magic bytes.
	body := rec.Body.Bytes()
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("Response does not look like a PNG")
	}
}

func TestTrendPNGEmpty(t *testing.T) {
	ws, _, _ := setupTestMonitor(t)

	rec := httptest.NewRecorder()
	monitorMux(ws).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitor/trend.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404 with no samples", rec.Code)
	}
}
