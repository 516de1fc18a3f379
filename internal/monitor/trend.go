package monitor

import (
	"fmt"
	"image/color"
	"log"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/eyetune-labs/eyetune/internal/db"
	"github.com/eyetune-labs/eyetune/internal/httputil"
)

// handleTrendPNG renders the session's blink-rate and distance trends as a
// static PNG, for embedding in reports where the echarts page won't do.
func (ws *WebServer) handleTrendPNG(w http.ResponseWriter, r *http.Request) {
	samples, err := ws.db.ListSamples(ws.sessionID, ws.sampleLimit(r))
	if err != nil {
		log.Printf("Failed to list samples for trend plot: %v", err)
		httputil.InternalServerError(w, "failed to list samples")
		return
	}
	if len(samples) == 0 {
		httputil.NotFound(w, "no samples recorded yet")
		return
	}

	p := plot.New()
	p.Title.Text = "Session Trend"
	p.X.Label.Text = "Seconds into session"
	p.Y.Label.Text = "blinks/min | cm"

	if err := addTrendLines(p, samples); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to build plot: %v", err))
		return
	}

	p.Legend.Top = true
	p.Legend.Left = false

	writer, err := p.WriterTo(12*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render plot: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := writer.WriteTo(w); err != nil {
		log.Printf("Failed to write trend PNG: %v", err)
	}
}

func addTrendLines(p *plot.Plot, samples []db.Sample) error {
	start := samples[0].Snapshot.At

	ratePts := make(plotter.XYs, 0, len(samples))
	distPts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		x := s.Snapshot.At.Sub(start).Seconds()
		ratePts = append(ratePts, plotter.XY{X: x, Y: s.Snapshot.BlinkRate})
		// Zero distance means no valid iris measurement yet; skip the point
		// rather than drawing a dive to the axis.
		if s.Snapshot.DistanceCm > 0 {
			distPts = append(distPts, plotter.XY{X: x, Y: s.Snapshot.DistanceCm})
		}
	}

	rateLine, err := plotter.NewLine(ratePts)
	if err != nil {
		return err
	}
	rateLine.Color = color.RGBA{R: 0x1f, G: 0x9e, B: 0x89, A: 0xff}
	rateLine.Width = vg.Points(1)
	p.Add(rateLine)
	p.Legend.Add("blink rate", rateLine)

	if len(distPts) > 0 {
		distLine, err := plotter.NewLine(distPts)
		if err != nil {
			return err
		}
		distLine.Color = color.RGBA{R: 0x31, G: 0x68, B: 0x8e, A: 0xff}
		distLine.Width = vg.Points(1)
		p.Add(distLine)
		p.Legend.Add("distance (cm)", distLine)
	}

	return nil
}
