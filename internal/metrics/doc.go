// Package metrics provides observability hooks for resolution passes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay optional:
//
//	resolver := content.NewResolver(lister, content.WithRecorder(metrics.NoopRecorder{}))
//
// The serve command swaps in a PrometheusRecorder registered on its own
// registry and exposes it through HTTPHandler.
package metrics
