package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	"git.home.luguber.info/inful/remotedocs/internal/content"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/forge"
	"git.home.luguber.info/inful/remotedocs/internal/metrics"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "REMOTEDOCS_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"remotedocs.yaml" env:"REMOTEDOCS_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Resolve all repositories and write the site configuration"`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve a single repository and print its plugin entries"`
	Validate ValidateCmd `cmd:"" help:"Validate the configuration and descriptor list without network access"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Serve    ServeCmd    `cmd:"" help:"Serve the site configuration and regenerate it periodically"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

// parseLogLevel returns debug for --verbose, otherwise the level named by
// REMOTEDOCS_LOG_LEVEL, otherwise info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// loadConfig loads the configuration file. When allowMissing is set and the
// file does not exist, defaults are used instead.
func loadConfig(path string, allowMissing bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if allowMissing && rderrors.IsCategory(err, rderrors.CategoryConfig) {
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				slog.Debug("No configuration file; using defaults", "path", path)
				return config.Default(), nil
			}
		}
		return nil, err
	}
	return cfg, nil
}

// newResolver wires the tree source and resolver selected by cfg.
func newResolver(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) (*content.Resolver, error) {
	lister, err := forge.NewTreeLister(cfg.GitHub)
	if err != nil {
		return nil, err
	}
	return content.NewResolverFromConfig(cfg, lister,
		content.WithLogger(logger),
		content.WithRecorder(rec)), nil
}
