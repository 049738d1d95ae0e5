package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/themer/internal/config"
	"github.com/roach88/themer/internal/engine"
	"github.com/roach88/themer/internal/store"
	"github.com/roach88/themer/internal/stylesheet"
	"github.com/roach88/themer/internal/theme"
)

// environment is the state shared by commands that touch the database or
// the stylesheets.
type environment struct {
	cfg       *config.Config
	logger    *slog.Logger
	formatter *OutputFormatter
}

// loadEnvironment loads the config and builds the logger and formatter.
// Logs go to the command's stderr so JSON output stays clean.
func loadEnvironment(opts *RootOptions, cmd *cobra.Command) (*environment, error) {
	formatter := newFormatter(opts, cmd)
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	logger := newLogger(cfg.Log, opts.Verbose, cmd.ErrOrStderr())
	if cfg.Path != "" {
		logger.Debug("config loaded", "path", cfg.Path)
	}
	return &environment{cfg: cfg, logger: logger, formatter: formatter}, nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger builds the slog handler the config asks for. --verbose forces
// debug level.
func newLogger(lc config.LogConfig, verbose bool, w io.Writer) *slog.Logger {
	level := parseLevel(lc.Level)
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// defaultLogConfig is used by commands that run without a config file.
func defaultLogConfig() config.LogConfig {
	return config.Default().Log
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openStore opens the configured database.
func (env *environment) openStore() (*store.Store, error) {
	env.logger.Debug("opening database", "path", env.cfg.Database)
	st, err := store.Open(env.cfg.Database)
	if err != nil {
		return nil, env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	return st, nil
}

func (env *environment) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		env.logger.Error("error closing database", "error", err)
	}
}

// engineOptions returns the options every command's engine shares: the
// configured initial theme, stylesheet provider, bundle and fan-out limit.
func (env *environment) engineOptions(extra ...engine.EngineOption) ([]engine.EngineOption, error) {
	initial, err := theme.ParseTheme(env.cfg.DefaultTheme)
	if err != nil {
		return nil, env.formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid default theme", err)
	}
	bundle := env.cfg.BundleLocator

	opts := []engine.EngineOption{
		engine.WithLogger(env.logger),
		engine.WithInitialTheme(initial),
		engine.WithMaxFanout(env.cfg.Scheduler.MaxFanout),
		engine.WithProvider(stylesheet.NewDirProvider(env.cfg.Stylesheets, stylesheet.WithLogger(env.logger))),
		engine.WithBundleLocator(func(string) string { return bundle }),
	}
	return append(opts, extra...), nil
}
