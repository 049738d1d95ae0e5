package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/themer/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Entries []store.ApplyRecord `json:"entries"`
	Total   int                 `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded theme switches, newest first",
		Long: `List the theme switches recorded by apply, newest first.

Use --limit 0 for the full history.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum entries to show (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	st, err := env.openStore()
	if err != nil {
		return err
	}
	defer env.closeStore(st)

	ctx := cmd.Context()
	entries, err := st.History(ctx, opts.Limit)
	if err != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
	}
	total, err := st.HistoryCount(ctx)
	if err != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to count history", err)
	}
	if entries == nil {
		entries = []store.ApplyRecord{}
	}

	return env.formatter.Success(HistoryResult{Entries: entries, Total: total}, formatHistory(entries, total))
}

func formatHistory(entries []store.ApplyRecord, total int) string {
	if len(entries) == 0 {
		return "No theme switches recorded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d of %d)\n", headingStyle.Render("Theme history"), len(entries), total)
	for _, e := range entries {
		fmt.Fprintf(&b, "  %4d  %s -> %s  %s\n", e.Seq, e.Previous, e.Theme, e.Token)
	}
	return strings.TrimRight(b.String(), "\n")
}
