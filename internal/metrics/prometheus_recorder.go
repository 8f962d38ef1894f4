package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	reg            *prom.Registry
	daysFinalized  prom.Counter
	fetchFailures  *prom.CounterVec
	cumulative     prom.Gauge
	todayVisitors  prom.Gauge
	count          prom.Gauge
	runDuration    *prom.HistogramVec
	pages          *prom.CounterVec
	lastSuccessRun *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.daysFinalized = prom.NewCounter(prom.CounterOpts{
			Namespace: "stmartin",
			Name:      "visitor_days_finalized_total",
			Help:      "Days whose visitor count was folded into the cumulative total",
		})
		pr.fetchFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "stmartin",
			Name:      "visitor_fetch_failures_total",
			Help:      "Analytics fetch failures by kind",
		}, []string{"kind"})
		pr.cumulative = prom.NewGauge(prom.GaugeOpts{
			Namespace: "stmartin",
			Name:      "visitor_cumulative",
			Help:      "Cumulative visitors over finalized days plus baseline",
		})
		pr.todayVisitors = prom.NewGauge(prom.GaugeOpts{
			Namespace: "stmartin",
			Name:      "visitor_today",
			Help:      "Live visitor count for the current day",
		})
		pr.count = prom.NewGauge(prom.GaugeOpts{
			Namespace: "stmartin",
			Name:      "visitor_count",
			Help:      "Displayed visitor total (cumulative + today)",
		})
		pr.runDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "stmartin",
			Name:      "run_duration_seconds",
			Help:      "Duration of a batch invocation by component",
			Buckets:   prom.DefBuckets,
		}, []string{"component"})
		pr.pages = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "stmartin",
			Name:      "site_pages_total",
			Help:      "Pages written by the site assembler by handling",
		}, []string{"kind"})
		pr.lastSuccessRun = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "stmartin",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run by component",
		}, []string{"component"})
		reg.MustRegister(pr.daysFinalized, pr.fetchFailures, pr.cumulative, pr.todayVisitors, pr.count, pr.runDuration, pr.pages, pr.lastSuccessRun)
	})
	return pr
}

func (p *PrometheusRecorder) IncDaysFinalized(n int) {
	if p == nil || p.daysFinalized == nil || n <= 0 {
		return
	}
	p.daysFinalized.Add(float64(n))
}

func (p *PrometheusRecorder) IncFetchFailure(kind FetchKind) {
	if p == nil || p.fetchFailures == nil {
		return
	}
	p.fetchFailures.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) SetVisitorTotals(cumulative, today int) {
	if p == nil || p.cumulative == nil {
		return
	}
	p.cumulative.Set(float64(cumulative))
	p.todayVisitors.Set(float64(today))
	p.count.Set(float64(cumulative + today))
}

func (p *PrometheusRecorder) ObserveRunDuration(component string, d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.WithLabelValues(component).Observe(d.Seconds())
	p.lastSuccessRun.WithLabelValues(component).SetToCurrentTime()
}

func (p *PrometheusRecorder) IncPages(kind PageKind, n int) {
	if p == nil || p.pages == nil || n <= 0 {
		return
	}
	p.pages.WithLabelValues(string(kind)).Add(float64(n))
}

// WriteTextfile writes the registry in the node_exporter textfile collector format.
// The file is replaced atomically by the Prometheus client.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
