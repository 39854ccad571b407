package commands

import (
	"encoding/json"
	"os"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	"git.home.luguber.info/inful/remotedocs/internal/metrics"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Author string `arg:"" help:"Repository owner"`
	Repo   string `arg:"" help:"Repository name"`
	Branch string `arg:"" optional:"" help:"Branch to list (default main)"`
}

func (r *ResolveCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, true)
	if err != nil {
		return err
	}
	d := config.Descriptor{Author: r.Author, Repo: r.Repo, Branch: r.Branch}
	if d.Branch == "" {
		d.Branch = config.DefaultBranch
	}
	if err := d.Validate(); err != nil {
		return err
	}

	resolver, err := newResolver(cfg, global.Logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	plugins, err := resolver.Resolve(ctx, d)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plugins)
}
