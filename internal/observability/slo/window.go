// Package slo tracks service level objectives that are measured from
// recent outcomes rather than derived from raw counters at query time.
package slo

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ExternalDeliverySLO is the target share of external summary attempts
	// that return a usable summary.
	ExternalDeliverySLO = 0.95

	// DefaultWindowSize is the number of recent attempts the ratio covers.
	DefaultWindowSize = 200
)

var (
	// SummaryExternalRatio is the delivered/attempted ratio over the window.
	SummaryExternalRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_summary_external_delivery_ratio",
		Help: "Share of recent external summary attempts that delivered (0-1), target: 0.95",
	})

	// SummaryExternalTarget exposes ExternalDeliverySLO next to the ratio
	// for alerting rules.
	SummaryExternalTarget = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_summary_external_delivery_target",
		Help: "Target share of external summary attempts that deliver",
	})
)

func init() {
	SummaryExternalTarget.Set(ExternalDeliverySLO)
}

// Window is a fixed-size ring of pass/fail outcomes.
type Window struct {
	mu       sync.Mutex
	outcomes []bool
	next     int
	filled   int
	passed   int
	gauge    prometheus.Gauge
}

// NewWindow returns a window over the last size outcomes. The ratio is
// mirrored into gauge after every observation when gauge is non-nil.
func NewWindow(size int, gauge prometheus.Gauge) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{outcomes: make([]bool, size), gauge: gauge}
}

// Observe records one outcome.
func (w *Window) Observe(ok bool) {
	w.mu.Lock()
	if w.filled == len(w.outcomes) {
		if w.outcomes[w.next] {
			w.passed--
		}
	} else {
		w.filled++
	}
	w.outcomes[w.next] = ok
	if ok {
		w.passed++
	}
	w.next = (w.next + 1) % len(w.outcomes)
	ratio := w.ratioLocked()
	w.mu.Unlock()

	if w.gauge != nil {
		w.gauge.Set(ratio)
	}
}

// Ratio returns the passing share. An empty window reports 1.
func (w *Window) Ratio() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ratioLocked()
}

func (w *Window) ratioLocked() float64 {
	if w.filled == 0 {
		return 1
	}
	return float64(w.passed) / float64(w.filled)
}

// Met reports whether the window is at or above target.
func (w *Window) Met(target float64) bool {
	return w.Ratio() >= target
}

var summaryWindow = NewWindow(DefaultWindowSize, SummaryExternalRatio)

// ObserveExternalSummary records whether an external summary attempt
// delivered. Attempts skipped because no provider is configured are not
// observed.
func ObserveExternalSummary(delivered bool) {
	summaryWindow.Observe(delivered)
}

// ExternalSummaryRatio returns the current process-wide delivery ratio.
func ExternalSummaryRatio() float64 {
	return summaryWindow.Ratio()
}
