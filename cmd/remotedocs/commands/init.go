package commands

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	"git.home.luguber.info/inful/remotedocs/internal/logfields"
)

// InitCmd writes an example configuration and descriptor list.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write remotedocs.yaml and remoteContent.json into"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, "remotedocs.yaml")
	}
	if err := config.Init(path, i.Force); err != nil {
		g.Logger.Error("Initialization failed", logfields.Path(path), logfields.Error(err))
		return err
	}
	g.Logger.Info("Wrote example configuration",
		logfields.Path(path),
		slog.String("descriptors", filepath.Join(filepath.Dir(path), config.DefaultDescriptorsFile)))
	return nil
}
