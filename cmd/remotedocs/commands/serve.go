package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/remotedocs/internal/metrics"
	"git.home.luguber.info/inful/remotedocs/internal/server"
	"git.home.luguber.info/inful/remotedocs/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr     string `help:"Listen address (overrides serve.addr)"`
	Interval string `help:"Regeneration interval (overrides serve.interval)"`
	Watch    bool   `help:"Regenerate when the descriptor file changes"`
	NoWrite  bool   `name:"no-write" help:"Serve only; do not write output.path"`
}

func (s *ServeCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, false)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}
	if s.Interval != "" {
		cfg.Serve.Interval = s.Interval
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	watch := s.Watch || cfg.Serve.Watch

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	resolver, err := newResolver(cfg, global.Logger, recorder)
	if err != nil {
		return err
	}
	loader := site.NewLoader(cfg, resolver, site.WithLogger(global.Logger), site.WithRecorder(recorder))

	opts := []server.Option{server.WithLogger(global.Logger), server.WithGatherer(reg)}
	if !s.NoWrite {
		opts = append(opts, server.WithOutputPath(cfg.Output.Path))
	}
	srv := server.NewServer(cfg.Serve.Addr, loader, opts...)

	runOpts := server.RunOptions{Interval: cfg.Serve.IntervalDuration()}
	if watch {
		if cfg.DescriptorsFile == "" {
			global.Logger.Warn("Watch requested but no descriptors_file is configured; watching disabled")
		} else {
			runOpts.WatchPath = cfg.DescriptorsFile
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	global.Logger.Info("Starting serve mode",
		slog.String("addr", cfg.Serve.Addr),
		slog.String("interval", runOpts.Interval.String()),
		slog.Bool("watch", runOpts.WatchPath != ""))
	return srv.Run(ctx, runOpts)
}
