package commands

import (
	"fmt"
	"log/slog"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, false)
	if err != nil {
		return err
	}
	descs, err := cfg.AllDescriptors()
	if err != nil {
		return err
	}

	global.Logger.Debug("Configuration valid",
		slog.String("source", string(cfg.GitHub.Source)),
		slog.Int("concurrency", cfg.Resolver.Concurrency),
		slog.Bool("token", cfg.GitHub.Token != ""))

	fmt.Printf("Configuration %s is valid: %d repositories\n", root.Config, len(descs))
	for _, d := range descs {
		fmt.Printf("  %s\n", d)
	}
	return nil
}
