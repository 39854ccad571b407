package commands

import (
	"fmt"

	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/metrics"
	"git.home.luguber.info/inful/remotedocs/internal/site"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output string `short:"o" help:"Output file for the site configuration (overrides output.path)"`
	Strict bool   `help:"Exit non-zero when any repository could not be resolved"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, false)
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.Output.Path = g.Output
	}
	strict := g.Strict || cfg.Output.Strict

	resolver, err := newResolver(cfg, global.Logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	siteCfg, summary, err := site.NewLoader(cfg, resolver, site.WithLogger(global.Logger)).Load(ctx)
	if err != nil {
		return err
	}
	if err := site.Write(cfg.Output.Path, siteCfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d plugin entries from %d repositories\n",
		cfg.Output.Path, summary.Plugins, len(summary.Resolved))
	for _, f := range summary.Failed {
		fmt.Printf("  omitted %s@%s (%s): %s\n", f.Repository, f.Branch, f.Category, f.Error)
	}

	if strict && !summary.OK() {
		return rderrors.New(rderrors.CategoryRuntime, rderrors.SeverityError,
			fmt.Sprintf("%d of %d repositories could not be resolved", len(summary.Failed), len(summary.Failed)+len(summary.Resolved))).
			WithContext("run_id", summary.RunID)
	}
	return nil
}
