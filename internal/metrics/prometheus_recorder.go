package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	renderDuration *prom.HistogramVec
	renderResults  *prom.CounterVec
	refreshTotal   *prom.CounterVec
	midnightFires  prom.Counter
	armedUntil     prom.Gauge
	instanceCount  prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "svitlogrid",
			Name:      "render_duration_seconds",
			Help:      "Duration of snapshot build and surface apply per group",
			Buckets:   prom.DefBuckets,
		}, []string{"group"})
		pr.renderResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "svitlogrid",
			Name:      "render_results_total",
			Help:      "Render pass counts by trigger and outcome",
		}, []string{"group", "trigger", "result"})
		pr.refreshTotal = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "svitlogrid",
			Name:      "refresh_requests_total",
			Help:      "User-triggered refresh requests per group",
		}, []string{"group"})
		pr.midnightFires = prom.NewCounter(prom.CounterOpts{
			Namespace: "svitlogrid",
			Name:      "midnight_fires_total",
			Help:      "Count of midnight re-render cycles",
		})
		pr.armedUntil = prom.NewGauge(prom.GaugeOpts{
			Namespace: "svitlogrid",
			Name:      "midnight_armed_until_seconds",
			Help:      "Unix timestamp of the next armed midnight wake",
		})
		pr.instanceCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "svitlogrid",
			Name:      "widget_instances",
			Help:      "Number of registered on-screen widget instances",
		})
		reg.MustRegister(pr.renderDuration, pr.renderResults, pr.refreshTotal, pr.midnightFires, pr.armedUntil, pr.instanceCount)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(group string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(group).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderResult(group string, trigger TriggerLabel, result ResultLabel) {
	if p == nil || p.renderResults == nil {
		return
	}
	p.renderResults.WithLabelValues(group, string(trigger), string(result)).Inc()
}

func (p *PrometheusRecorder) IncRefreshRequest(group string) {
	if p == nil || p.refreshTotal == nil {
		return
	}
	p.refreshTotal.WithLabelValues(group).Inc()
}

func (p *PrometheusRecorder) IncMidnightFire() {
	if p == nil || p.midnightFires == nil {
		return
	}
	p.midnightFires.Inc()
}

func (p *PrometheusRecorder) SetArmedUntil(t time.Time) {
	if p == nil || p.armedUntil == nil {
		return
	}
	p.armedUntil.Set(float64(t.Unix()))
}

func (p *PrometheusRecorder) SetInstanceCount(n int) {
	if p == nil || p.instanceCount == nil {
		return
	}
	p.instanceCount.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
