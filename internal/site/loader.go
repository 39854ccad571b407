package site

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	"git.home.luguber.info/inful/remotedocs/internal/content"
	"git.home.luguber.info/inful/remotedocs/internal/logfields"
	"git.home.luguber.info/inful/remotedocs/internal/metrics"
)

// Resolver resolves a single repository descriptor.
type Resolver interface {
	ResolveOne(ctx context.Context, d config.Descriptor) content.Resolution
}

// Loader runs resolution passes and assembles the site configuration.
type Loader struct {
	cfg      *config.Config
	resolver Resolver
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Loader.
type Option func(*Loader)

func WithRecorder(r metrics.Recorder) Option { return func(l *Loader) { l.recorder = r } }

func WithLogger(lg *slog.Logger) Option { return func(l *Loader) { l.logger = lg } }

// WithClock overrides the time source used for the copyright year and run timing.
func WithClock(now func() time.Time) Option { return func(l *Loader) { l.now = now } }

// NewLoader creates a loader for cfg that resolves repositories with resolver.
func NewLoader(cfg *config.Config, resolver Resolver, opts ...Option) *Loader {
	l := &Loader{
		cfg:      cfg,
		resolver: resolver,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Resolve resolves every descriptor, at most resolver.concurrency at a time and
// each under resolver.timeout. Results are in descriptor order and include
// failures.
func (l *Loader) Resolve(ctx context.Context, descs []config.Descriptor) []content.Resolution {
	concurrency := l.cfg.Resolver.Concurrency
	timeout := l.cfg.Resolver.TimeoutDuration()
	l.recorder.SetResolveConcurrency(min(max(concurrency, 1), max(len(descs), 1)))

	return runOrdered(ctx, descs, concurrency, func(ctx context.Context, d config.Descriptor) content.Resolution {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return l.resolver.ResolveOne(cctx, d)
	})
}

// Load runs one full resolution pass. Repository failures are reported in the
// summary and never returned as an error; the error is reserved for local
// problems such as an unreadable descriptor file, or cancellation of ctx.
func (l *Loader) Load(ctx context.Context) (*Config, *Summary, error) {
	descs, err := l.cfg.AllDescriptors()
	if err != nil {
		return nil, nil, err
	}

	start := l.now()
	runID := uuid.NewString()
	log := l.logger.With(logfields.RunID(runID))
	log.Info("Starting resolution pass", slog.Int("repositories", len(descs)))

	resolutions := l.Resolve(ctx, descs)
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("resolution pass %s: %w", runID, err)
	}

	plugins := Flatten(resolutions)
	summary := summarize(runID, start, l.now(), resolutions, len(plugins))
	for _, f := range summary.Failed {
		log.Warn("Repository omitted from site configuration",
			logfields.Repository(f.Repository),
			logfields.Branch(f.Branch),
			slog.String("category", f.Category),
			slog.String("error", f.Error))
	}

	l.recorder.ObservePassDuration(time.Duration(summary.DurationMS) * time.Millisecond)
	l.recorder.SetPassRepositories(len(summary.Resolved), len(summary.Failed))
	log.Info("Resolution pass complete",
		slog.Int("resolved", len(summary.Resolved)),
		slog.Int("failed", len(summary.Failed)),
		slog.Int("plugins", len(plugins)),
		logfields.DurationMS(float64(summary.DurationMS)))

	return Assemble(l.cfg.Site, plugins, start), summary, nil
}
