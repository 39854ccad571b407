package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/remotedocs/cmd/remotedocs/commands"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Name("remotedocs"),
		kong.Description("Generate a documentation site configuration that mirrors the docs/ folders of remote GitHub repositories."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
		kong.Bind(global),
	)

	err := parser.Run(global, cli)
	if err == nil {
		return
	}

	adapter := rderrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	adapter.Log(err)
	fmt.Fprintln(os.Stderr, adapter.FormatError(err))
	os.Exit(adapter.ExitCodeFor(err))
}
