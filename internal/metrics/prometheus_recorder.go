package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	resolveDuration    *prom.HistogramVec
	resolveResults     *prom.CounterVec
	resolveRetries     *prom.CounterVec
	plugins            *prom.CounterVec
	resolveConcurrency prom.Gauge
	passDuration       prom.Histogram
	passRepositories   *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		resolveDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "remotedocs",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of individual repository resolutions",
			Buckets:   prom.DefBuckets,
		}, []string{"repo", "result"}),
		resolveResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "remotedocs",
			Name:      "resolve_results_total",
			Help:      "Repository resolutions by result",
		}, []string{"result"}),
		resolveRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "remotedocs",
			Name:      "resolve_retries_total",
			Help:      "Tree fetch retries after transient failures",
		}, []string{"repo"}),
		plugins: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "remotedocs",
			Name:      "plugin_entries_total",
			Help:      "Plugin entries produced by kind",
		}, []string{"kind"}),
		resolveConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: "remotedocs",
			Name:      "resolve_concurrency",
			Help:      "Resolver concurrency used by the last pass",
		}),
		passDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "remotedocs",
			Name:      "pass_duration_seconds",
			Help:      "Duration of complete resolution passes",
			Buckets:   prom.DefBuckets,
		}),
		passRepositories: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "remotedocs",
			Name:      "pass_repositories",
			Help:      "Repositories resolved or omitted by the last pass",
		}, []string{"state"}),
	}
	reg.MustRegister(pr.resolveDuration, pr.resolveResults, pr.resolveRetries, pr.plugins,
		pr.resolveConcurrency, pr.passDuration, pr.passRepositories)
	return pr
}

func (p *PrometheusRecorder) ObserveResolveDuration(repo string, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.resolveDuration.WithLabelValues(repo, string(result)).Observe(d.Seconds())
	p.resolveResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncResolveRetry(repo string) {
	if p == nil {
		return
	}
	p.resolveRetries.WithLabelValues(repo).Inc()
}

func (p *PrometheusRecorder) ObservePlugins(kind string, n int) {
	if p == nil {
		return
	}
	p.plugins.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) SetResolveConcurrency(n int) {
	if p == nil {
		return
	}
	p.resolveConcurrency.Set(float64(n))
}

func (p *PrometheusRecorder) ObservePassDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.passDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetPassRepositories(resolved, failed int) {
	if p == nil {
		return
	}
	p.passRepositories.WithLabelValues("resolved").Set(float64(resolved))
	p.passRepositories.WithLabelValues("failed").Set(float64(failed))
}
