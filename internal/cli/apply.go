package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/themer/internal/engine"
	"github.com/roach88/themer/internal/theme"
)

// ApplyResult is the output of the apply command.
type ApplyResult struct {
	Theme    string `json:"theme"`
	Previous string `json:"previous"`
	Token    string `json:"token,omitempty"`
	Changed  bool   `json:"changed"`
}

// CurrentResult is the output of the current command.
type CurrentResult struct {
	Theme     string `json:"theme"`
	Persisted bool   `json:"persisted"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <theme>",
		Short: "Make a theme current and record the switch",
		Long: `Make a theme current.

The theme name is persisted in the database so later runs start from it,
and the switch is appended to the history with its pass token. Applying
the theme that is already current changes nothing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, args[0], cmd)
		},
	}
}

// NewCurrentCommand creates the current command.
func NewCurrentCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "current",
		Short:         "Print the current theme",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurrent(rootOpts, cmd)
		},
	}
}

func runApply(opts *RootOptions, name string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts, cmd)
	if err != nil {
		return err
	}
	t, err := theme.ParseTheme(name)
	if err != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeTheme, "invalid theme", err)
	}

	st, err := env.openStore()
	if err != nil {
		return err
	}
	defer env.closeStore(st)

	var recordErr error
	record := func(ctx context.Context, change engine.ThemeChange) {
		recordErr = st.RecordApply(ctx, change.Token, change.Current.Name(), change.Previous.Name())
	}

	engineOpts, err := env.engineOptions(
		engine.WithPersister(st),
		engine.WithListener(record),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, err := engine.Open(ctx, engineOpts...)
	if err != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to restore theme", err)
	}

	previous := eng.Current()
	change, changed := eng.ApplyTheme(ctx, t)
	if recordErr != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to record theme switch", recordErr)
	}

	result := ApplyResult{
		Theme:    t.Name(),
		Previous: previous.Name(),
		Token:    change.Token,
		Changed:  changed,
	}
	if !changed {
		return env.formatter.Success(result,
			fmt.Sprintf("%s Theme %s already current", okMark, t.Name()))
	}
	return env.formatter.Success(result,
		fmt.Sprintf("%s Applied %s (was %s, pass %s)", okMark, t.Name(), previous.Name(), change.Token))
}

func runCurrent(opts *RootOptions, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts, cmd)
	if err != nil {
		return err
	}
	st, err := env.openStore()
	if err != nil {
		return err
	}
	defer env.closeStore(st)

	engineOpts, err := env.engineOptions(engine.WithPersister(st))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, err := engine.Open(ctx, engineOpts...)
	if err != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to restore theme", err)
	}
	_, persisted, err := st.LoadTheme(ctx)
	if err != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read theme", err)
	}

	result := CurrentResult{Theme: eng.Current().Name(), Persisted: persisted}
	text := result.Theme
	if !persisted {
		text += " (default)"
	}
	return env.formatter.Success(result, text)
}
