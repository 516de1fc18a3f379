package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/eyetune-labs/eyetune/internal/actuate"
	"github.com/eyetune-labs/eyetune/internal/api"
	"github.com/eyetune-labs/eyetune/internal/config"
	"github.com/eyetune-labs/eyetune/internal/db"
	"github.com/eyetune-labs/eyetune/internal/monitor"
	"github.com/eyetune-labs/eyetune/internal/source"
	"github.com/eyetune-labs/eyetune/internal/vision"
)

var (
	devMode    = flag.Bool("dev", false, "Replay NDJSON fixtures instead of listening for UDP frames")
	listen     = flag.String("listen", ":8080", "HTTP listen address")
	dbPath     = flag.String("db", "eyetune.db", "SQLite database path")
	configPath = flag.String("config", "", "Tuning config JSON path (built-in defaults when empty)")
	framesAddr = flag.String("frames", ":5555", "UDP listen address for landmark frames")
	fixtures   = flag.String("fixtures", "fixtures.ndjson", "NDJSON fixtures file for dev mode")
)

// Fixture replay rate. Real landmark extractors send 10-30 fps; 10 fps is
// plenty to exercise every tracker in dev.
const fixtureInterval = 100 * time.Millisecond

// latestSnapshot holds the most recent pipeline snapshot for the API.
type latestSnapshot struct {
	mu   sync.RWMutex
	snap vision.Snapshot
	ok   bool
}

func (l *latestSnapshot) Store(s vision.Snapshot) {
	l.mu.Lock()
	l.snap = s
	l.ok = true
	l.mu.Unlock()
}

func (l *latestSnapshot) Latest() (vision.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap, l.ok
}

// recorder persists pipeline output. Transition events are stored as they
// happen; warnings repeat every frame, so each warning type is recorded at
// most once per minute; samples are written on the configured interval,
// driven by frame timestamps so fixture replays stay deterministic.
type recorder struct {
	db        *db.DB
	sessionID string
	interval  time.Duration

	lastSample time.Time
	lastWarn   map[vision.EventType]time.Time
}

const warnRecordCooldown = time.Minute

func newRecorder(database *db.DB, sessionID string, interval time.Duration) *recorder {
	return &recorder{
		db:        database,
		sessionID: sessionID,
		interval:  interval,
		lastWarn:  make(map[vision.EventType]time.Time),
	}
}

func (r *recorder) record(snap vision.Snapshot, events []vision.Event) {
	for _, e := range events {
		if e.Type.IsWarning() {
			if last, ok := r.lastWarn[e.Type]; ok && e.At.Sub(last) < warnRecordCooldown {
				continue
			}
			r.lastWarn[e.Type] = e.At
		}
		if err := r.db.RecordEvent(r.sessionID, e); err != nil {
			log.Printf("Failed to record %s event: %v", e.Type, err)
		}
	}

	if !r.lastSample.IsZero() && snap.At.Sub(r.lastSample) < r.interval {
		return
	}
	r.lastSample = snap.At
	if err := r.db.RecordSample(r.sessionID, snap); err != nil {
		log.Printf("Failed to record sample: %v", err)
	}
}

func loadTuning() (*config.TuningConfig, error) {
	if *configPath == "" {
		// The built-in accessor defaults match config/tuning.defaults.json
		// (enforced by the config tests), so the binary runs from any
		// directory without a checkout alongside it.
		return config.EmptyTuningConfig(), nil
	}
	tuning, err := config.LoadTuningConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning config %s: %w", *configPath, err)
	}
	return tuning, nil
}

func runMigrate(args []string) error {
	database, err := db.OpenDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	cmd := "status"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "up":
		return database.MigrateUp()
	case "down":
		return database.MigrateDown()
	case "status":
		version, dirty, err := database.MigrateVersion()
		if err != nil {
			return err
		}
		log.Printf("Schema version: %d (dirty: %v)", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q (want up, down, or status)", cmd)
	}
}

func main() {
	flag.Parse()

	if flag.Arg(0) == "migrate" {
		if err := runMigrate(flag.Args()[1:]); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	tuning, err := loadTuning()
	if err != nil {
		log.Fatalf("Failed to load tuning config: %v", err)
	}
	cfg := vision.ConfigFromTuning(tuning)

	pipeline, err := vision.NewPipeline(cfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	sessionID, err := database.CreateSession(time.Now())
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	log.Printf("Started session %s", sessionID)

	slot := source.NewSlot()
	var runSource func(context.Context) error
	if *devMode {
		src, err := source.NewFixtureSource(*fixtures, fixtureInterval, slot)
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		log.Printf("Dev mode: replaying fixtures from %s", *fixtures)
		runSource = src.Run
	} else {
		src := source.NewUDPSource(source.UDPSourceConfig{
			Address: *framesAddr,
			Slot:    slot,
		})
		runSource = src.Run
	}

	latest := &latestSnapshot{}
	dispatcher := actuate.NewDispatcher(
		actuate.LogZoomer{},
		actuate.LogNotifier{},
		actuate.LogColorTuner{},
		nil, 0,
	)
	rec := newRecorder(database, sessionID, tuning.GetSampleInterval())

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Frame source routine. Closing the slot on exit releases the
	// processing routine once the pending frame is drained.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer slot.Close()
		if err := runSource(ctx); err != nil && err != context.Canceled {
			log.Printf("Frame source failed: %v", err)
			stop()
		}
		log.Print("Frame source routine terminated")
	}()

	// Processing routine: one frame in, one snapshot plus events out.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			frame, ok := slot.Next()
			if !ok {
				log.Print("Processing routine terminated")
				return
			}
			snap, events := pipeline.Process(frame)
			latest.Store(snap)
			dispatcher.Dispatch(events)
			rec.record(snap, events)
		}
	}()

	// HTTP server routine.
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		apiMux := api.NewServer(latest, database, sessionID, cfg).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		monitor.NewWebServer(database, sessionID).RegisterRoutes(mux)

		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			http.Redirect(w, r, "/monitor", http.StatusFound)
		})

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("HTTP server listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Failed to start server: %v", err)
				stop()
			}
		}()

		<-ctx.Done()
		log.Println("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Print("HTTP server routine stopped")
	}()

	wg.Wait()

	if err := database.EndSession(sessionID, time.Now()); err != nil {
		log.Printf("Failed to end session: %v", err)
	}
	summary, err := database.SummarizeSession(sessionID)
	if err != nil {
		log.Printf("Failed to summarize session: %v", err)
	} else {
		log.Printf("Session summary: %s", summary.String())
	}

	log.Printf("Graceful shutdown complete")
}
