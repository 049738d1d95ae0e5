package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/themer/internal/stylesheet"
)

// SheetError is one stylesheet that failed to decode.
type SheetError struct {
	Path    string `json:"path"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Files  int          `json:"files"`
	Errors []SheetError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [sheets-dir]",
		Short: "Validate stylesheets",
		Long: `Decode every YAML and CUE stylesheet below a directory.

The directory defaults to the configured stylesheets root. Nothing is
written; each file is checked against the stylesheet schema and its state
names are parsed.

Exit codes:
  0 - All stylesheets valid
  1 - One or more stylesheets invalid
  2 - Command error (missing directory, bad config)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if dir == "" {
		env, err := loadEnvironment(opts, cmd)
		if err != nil {
			return err
		}
		dir = env.cfg.Stylesheets
	}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return formatter.Fail(ExitCommandError, ErrCodeSheet,
			fmt.Sprintf("stylesheet directory not found: %s", dir), nil)
	}

	files, err := stylesheet.FindFiles(dir)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSheet, "failed to list stylesheets", err)
	}
	formatter.VerboseLog("Found %d stylesheet(s) in %s", len(files), dir)

	result := ValidationResult{Valid: true, Files: len(files)}
	for _, path := range files {
		formatter.VerboseLog("Validating %s", path)
		if _, err := stylesheet.DecodeFile(path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, sheetError(path, err))
		}
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return formatter.Success(result,
		fmt.Sprintf("%s All stylesheets valid (%d files)", okMark, result.Files))
}

func sheetError(path string, err error) SheetError {
	var decErr *stylesheet.DecodeError
	if errors.As(err, &decErr) {
		msg := decErr.Message
		if decErr.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, decErr.Err)
		}
		return SheetError{Path: path, Field: decErr.Field, Message: msg}
	}
	return SheetError{Path: path, Message: err.Error()}
}

// outputValidationErrors reports invalid stylesheets.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	msg := fmt.Sprintf("validation failed with %d error(s)", len(result.Errors))

	if formatter.JSON() {
		resp := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeSheet,
				Message: result.Errors[0].Message,
			},
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s Validation failed\n\n", failMark)
	for _, e := range result.Errors {
		fmt.Fprintln(w, headingStyle.Render(e.Path))
		if e.Field != "" {
			fmt.Fprintf(w, "  %s: %s\n\n", e.Field, e.Message)
		} else {
			fmt.Fprintf(w, "  %s\n\n", e.Message)
		}
	}
	return NewExitError(ExitFailure, msg)
}
