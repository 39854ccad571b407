package metrics

import "time"

// ResultLabel enumerates resolution result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for resolution passes. Implementations
// may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveResolveDuration(repo string, d time.Duration, result ResultLabel)
	IncResolveRetry(repo string)
	ObservePlugins(kind string, n int)
	SetResolveConcurrency(n int)
	ObservePassDuration(d time.Duration)
	SetPassRepositories(resolved, failed int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolveDuration(string, time.Duration, ResultLabel) {}
func (NoopRecorder) IncResolveRetry(string)                                    {}
func (NoopRecorder) ObservePlugins(string, int)                                {}
func (NoopRecorder) SetResolveConcurrency(int)                                 {}
func (NoopRecorder) ObservePassDuration(time.Duration)                         {}
func (NoopRecorder) SetPassRepositories(int, int)                              {}
