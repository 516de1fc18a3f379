// Package monitor serves the operator debug pages: browser charts of the
// session's recorded samples. These endpoints carry no auth and exist for
// local eyeballing, not for the product UI.
package monitor

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/eyetune-labs/eyetune/internal/db"
	"github.com/eyetune-labs/eyetune/internal/httputil"
)

const defaultSampleLimit = 3600 // an hour at one sample per second

type WebServer struct {
	db        *db.DB
	sessionID string
}

func NewWebServer(database *db.DB, sessionID string) *WebServer {
	return &WebServer{db: database, sessionID: sessionID}
}

// RegisterRoutes mounts the monitor pages on a mux.
func (ws *WebServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/monitor", ws.handleDashboard)
	mux.HandleFunc("/monitor/charts", ws.handleSessionCharts)
	mux.HandleFunc("/monitor/trend.png", ws.handleTrendPNG)
}

func (ws *WebServer) sampleLimit(r *http.Request) int {
	limit := defaultSampleLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100000 {
			limit = v
		}
	}
	return limit
}

// handleDashboard renders a simple page with iframes to the debug charts.
func (ws *WebServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardHTML))
}

// handleSessionCharts renders line charts of blink rate, distance and
// brightness over the session's recorded samples using go-echarts.
func (ws *WebServer) handleSessionCharts(w http.ResponseWriter, r *http.Request) {
	samples, err := ws.db.ListSamples(ws.sessionID, ws.sampleLimit(r))
	if err != nil {
		log.Printf("Failed to list samples for charts: %v", err)
		httputil.InternalServerError(w, "failed to list samples")
		return
	}
	if len(samples) == 0 {
		httputil.NotFound(w, "no samples recorded yet")
		return
	}

	x := make([]string, 0, len(samples))
	blinkRate := make([]opts.LineData, 0, len(samples))
	distance := make([]opts.LineData, 0, len(samples))
	brightness := make([]opts.LineData, 0, len(samples))
	for _, s := range samples {
		x = append(x, s.Snapshot.At.Format("15:04:05"))
		blinkRate = append(blinkRate, opts.LineData{Value: s.Snapshot.BlinkRate})
		distance = append(distance, opts.LineData{Value: s.Snapshot.DistanceCm})
		brightness = append(brightness, opts.LineData{Value: s.Snapshot.Brightness})
	}

	blinkChart := charts.NewLine()
	blinkChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Blink Rate", Subtitle: fmt.Sprintf("session=%s samples=%d", ws.sessionID, len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "blinks/min"}),
	)
	blinkChart.SetXAxis(x).AddSeries("blink rate", blinkRate)

	distanceChart := charts.NewLine()
	distanceChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Screen Distance"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cm"}),
	)
	distanceChart.SetXAxis(x).AddSeries("distance", distance)

	brightnessChart := charts.NewLine()
	brightnessChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Ambient Brightness"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "luminance"}),
	)
	brightnessChart.SetXAxis(x).AddSeries("brightness", brightness)

	page := components.NewPage()
	page.AddCharts(blinkChart, distanceChart, brightnessChart)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head><title>EyeTune Monitor</title></head>
<body style="margin:0;font-family:sans-serif;background:#111;color:#eee">
<h2 style="padding:8px 16px">EyeTune Session Monitor</h2>
<iframe src="/monitor/charts" style="width:100%;height:1200px;border:0"></iframe>
<p style="padding:8px 16px"><a href="/monitor/trend.png" style="color:#6cf">trend.png</a></p>
</body>
</html>`
