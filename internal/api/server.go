// Package api exposes the service's HTTP surface: the latest snapshot,
// the session's events and the session summary.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/eyetune-labs/eyetune/internal/db"
	"github.com/eyetune-labs/eyetune/internal/version"
	"github.com/eyetune-labs/eyetune/internal/vision"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// SnapshotSource supplies the most recent pipeline snapshot. The processing
// loop implements it; tests stub it.
type SnapshotSource interface {
	Latest() (vision.Snapshot, bool)
}

type Server struct {
	snapshots SnapshotSource
	db        *db.DB
	sessionID string
	cfg       vision.Config
}

func NewServer(snapshots SnapshotSource, database *db.DB, sessionID string, cfg vision.Config) *Server {
	return &Server{
		snapshots: snapshots,
		db:        database,
		sessionID: sessionID,
		cfg:       cfg,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", s.showSnapshot)
	mux.HandleFunc("/events", s.listEvents)
	mux.HandleFunc("/summary", s.showSummary)
	mux.HandleFunc("/session", s.showSession)
	mux.HandleFunc("/config", s.showConfig)
	mux.HandleFunc("/version", s.showVersion)
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) showSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap, ok := s.snapshots.Latest()
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, "No frames processed yet")
		return
	}
	s.writeJSON(w, snap)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := s.db.ListEvents(s.sessionID, limit)
	if err != nil {
		log.Printf("Failed to list events: %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	if events == nil {
		events = []vision.Event{}
	}
	s.writeJSON(w, events)
}

func (s *Server) showSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, err := s.db.SummarizeSession(s.sessionID)
	if err != nil {
		log.Printf("Failed to summarize session: %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to summarize session")
		return
	}
	s.writeJSON(w, summary)
}

func (s *Server) showSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	session, err := s.db.GetSession(s.sessionID)
	if err != nil {
		log.Printf("Failed to get session: %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	s.writeJSON(w, session)
}

// showConfig reports the resolved tracker thresholds so an operator can see
// exactly what the running instance is using.
func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSON(w, s.cfg)
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSON(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}
