package content

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/forge"
	"git.home.luguber.info/inful/remotedocs/internal/logfields"
	"git.home.luguber.info/inful/remotedocs/internal/metrics"
	"git.home.luguber.info/inful/remotedocs/internal/retry"
)

// Resolution is the outcome of resolving one descriptor. Err is set instead of
// Plugins when the repository could not be resolved.
type Resolution struct {
	Descriptor config.Descriptor
	Plugins    []PluginEntry
	Err        error
	Duration   time.Duration
}

// OK reports whether the resolution succeeded.
func (r Resolution) OK() bool { return r.Err == nil }

// Resolver fetches a repository tree and builds its plugin entries.
type Resolver struct {
	lister          forge.TreeLister
	rawBaseURL      string
	failOnTruncated bool
	policy          retry.Policy
	recorder        metrics.Recorder
	logger          *slog.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithRawBaseURL sets the raw-content host used for sourceBaseUrl.
func WithRawBaseURL(u string) Option { return func(r *Resolver) { r.rawBaseURL = u } }

// WithRetryPolicy enables re-attempts of transient tree fetch failures.
func WithRetryPolicy(p retry.Policy) Option { return func(r *Resolver) { r.policy = p } }

// WithFailOnTruncated turns a truncated tree listing into a resolution failure.
func WithFailOnTruncated(v bool) Option { return func(r *Resolver) { r.failOnTruncated = v } }

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option { return func(r *Resolver) { r.recorder = rec } }

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option { return func(r *Resolver) { r.logger = l } }

// NewResolver creates a resolver over lister. Without options it performs a
// single fetch per call against raw.githubusercontent.com.
func NewResolver(lister forge.TreeLister, opts ...Option) *Resolver {
	r := &Resolver{
		lister:     lister,
		rawBaseURL: config.DefaultRawURL,
		policy:     retry.NewPolicy("", 0, 0, 0),
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// NewResolverFromConfig wires a resolver from the application configuration.
func NewResolverFromConfig(cfg *config.Config, lister forge.TreeLister, opts ...Option) *Resolver {
	base := []Option{
		WithRawBaseURL(cfg.GitHub.RawURL),
		WithRetryPolicy(retry.FromConfig(cfg.Resolver.Retry)),
		WithFailOnTruncated(cfg.GitHub.FailOnTruncated),
	}
	return NewResolver(lister, append(base, opts...)...)
}

// Resolve lists d's tree and returns its plugin entries. Failures are logged
// and returned; callers decide whether to omit the repository.
func (r *Resolver) Resolve(ctx context.Context, d config.Descriptor) ([]PluginEntry, error) {
	res := r.ResolveOne(ctx, d)
	return res.Plugins, res.Err
}

// ResolveOne is Resolve returning the full Resolution.
func (r *Resolver) ResolveOne(ctx context.Context, d config.Descriptor) Resolution {
	start := time.Now()
	log := r.logger.With(logfields.Repository(d.FullName()), logfields.Branch(d.Branch), logfields.Source(r.lister.Name()))

	tree, err := r.fetch(ctx, d, log)
	if err == nil && tree.Truncated {
		if r.failOnTruncated {
			err = rderrors.TruncatedTree(d.FullName())
		} else {
			log.Warn("Tree listing truncated; some folders may be missing")
		}
	}

	elapsed := time.Since(start)
	if err != nil {
		result := metrics.ResultFailed
		if ctx.Err() != nil {
			result = metrics.ResultCanceled
		}
		r.recorder.ObserveResolveDuration(d.FullName(), elapsed, result)
		log.Warn("Failed to resolve remote content",
			logfields.Error(err),
			slog.String("category", string(rderrors.GetCategory(err))),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
		return Resolution{Descriptor: d, Err: err, Duration: elapsed}
	}

	plugins := BuildPlugins(d, tree.Entries, r.rawBaseURL)
	counts := map[Kind]int{}
	for _, p := range plugins {
		counts[p.Kind()]++
		log.Debug("Built plugin entry", logfields.Plugin(p.Name), logfields.Documents(len(p.Documents)))
	}
	for kind, n := range counts {
		r.recorder.ObservePlugins(string(kind), n)
	}
	r.recorder.ObserveResolveDuration(d.FullName(), elapsed, metrics.ResultSuccess)
	log.Info("Resolved remote content",
		slog.Int("plugins", len(plugins)),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return Resolution{Descriptor: d, Plugins: plugins, Duration: elapsed}
}

func (r *Resolver) fetch(ctx context.Context, d config.Descriptor, log *slog.Logger) (*forge.Tree, error) {
	var tree *forge.Tree
	err := r.policy.Do(ctx, rderrors.IsRetryable, func(attempt int) error {
		if attempt > 0 {
			r.recorder.IncResolveRetry(d.FullName())
			log.Warn("Retrying tree fetch", logfields.Attempt(attempt))
		}
		t, err := r.lister.ListTree(ctx, d)
		if err != nil {
			return err
		}
		tree = t
		return nil
	})
	return tree, err
}
