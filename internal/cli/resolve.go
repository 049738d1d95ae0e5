package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/roach88/themer/internal/canonical"
	"github.com/roach88/themer/internal/coerce"
	"github.com/roach88/themer/internal/engine"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Sheet      string
	Identifier string
	State      string
	Theme      string
}

// ResolveResult is the output of the resolve command. Styles is the
// canonical collection object, or the attributes of one state when --state
// is given. Typed holds the coerced reading of each attribute in the
// displayed style; Fingerprint is set for whole collections.
type ResolveResult struct {
	Class       string                        `json:"class"`
	Sheet       string                        `json:"sheet,omitempty"`
	Identifier  string                        `json:"identifier"`
	Theme       string                        `json:"theme"`
	State       string                        `json:"state,omitempty"`
	Fingerprint string                        `json:"fingerprint,omitempty"`
	Styles      map[string]any                `json:"styles"`
	Typed       map[string]coerce.Description `json:"typed,omitempty"`
}

// probe is a detached node used to ask the engine what a class resolves
// to.
type probe struct {
	class     string
	sheet     string
	delivered *style.Collection
}

func (p *probe) Class() string             { return p.class }
func (p *probe) StyleSheetName() string    { return p.sheet }
func (p *probe) Dependents() []engine.Node { return nil }
func (p *probe) ForwardsUpdates() bool     { return false }

func (p *probe) ApplyAppearance(_ theme.Theme, styles *style.Collection) {
	p.delivered = styles
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <class>",
		Short: "Show the effective styles for a class",
		Long: `Resolve the effective styles a node of <class> would receive.

The stylesheet tier is read from the configured stylesheets directory and
bundle. The theme defaults to the persisted one.

Examples:
  themer resolve Label
  themer resolve Label --theme night
  themer resolve Label --identifier WarningLabel --state :highlighted
  themer resolve Panel --sheet dialog --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Sheet, "sheet", "main", "stylesheet name")
	cmd.Flags().StringVar(&opts.Identifier, "identifier", "", "stylesheet identifier (default: the class)")
	cmd.Flags().StringVar(&opts.State, "state", "", "resolve a single state, e.g. :highlighted")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme to resolve for (default: current)")

	return cmd
}

func runResolve(opts *ResolveOptions, class string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	loop := engine.NewManualLoop()
	engineOpts, err := env.engineOptions(engine.WithLoop(loop))
	if err != nil {
		return err
	}

	var eng *engine.Engine
	if opts.Theme != "" {
		t, err := theme.ParseTheme(opts.Theme)
		if err != nil {
			return env.formatter.Fail(ExitCommandError, ErrCodeTheme, "invalid theme", err)
		}
		eng = engine.New(append(engineOpts, engine.WithInitialTheme(t))...)
	} else {
		st, err := env.openStore()
		if err != nil {
			return err
		}
		defer env.closeStore(st)
		eng, err = engine.Open(cmd.Context(), append(engineOpts, engine.WithPersister(st))...)
		if err != nil {
			return env.formatter.Fail(ExitCommandError, ErrCodeStore, "failed to restore theme", err)
		}
	}

	node := &probe{class: class, sheet: opts.Sheet}
	eng.Attach(node)
	if opts.Identifier != "" {
		id, err := theme.NewIdentifier(opts.Identifier)
		if err != nil {
			return env.formatter.Fail(ExitCommandError, ErrCodeTheme, "invalid identifier", err)
		}
		eng.SetIdentifier(node, id)
	}
	env.logger.Debug("resolving", "class", class, "sheet", opts.Sheet, "theme", eng.Current().Name())
	loop.Drain()

	id, _ := eng.Identifier(node)
	result := ResolveResult{
		Class:      class,
		Sheet:      opts.Sheet,
		Identifier: id.String(),
		Theme:      eng.Current().Name(),
	}

	if node.delivered == nil {
		return env.formatter.Fail(ExitFailure, ErrCodeResolve,
			fmt.Sprintf("no styles resolved for %s in theme %s", class, result.Theme), nil)
	}

	reader := coerce.New(env.logger)
	if opts.State == "" {
		fp, err := canonical.Fingerprint(node.delivered)
		if err != nil {
			return env.formatter.Fail(ExitFailure, ErrCodeResolve, "failed to fingerprint styles", err)
		}
		result.Fingerprint = fp
		result.Styles = canonical.CollectionObject(node.delivered)
		result.Typed = describeStyle(reader.For(node.delivered.Base()))
		return env.formatter.Success(result, renderCollection(result, reader, node.delivered))
	}

	// Sheets register their states while loading, so parse after the drain.
	state, err := theme.ParseState(opts.State)
	if err != nil {
		return env.formatter.Fail(ExitCommandError, ErrCodeTheme, "invalid state", err)
	}
	s, ok := eng.Resolve(node, state)
	if !ok {
		return env.formatter.Fail(ExitFailure, ErrCodeResolve,
			fmt.Sprintf("no %s style for %s in theme %s", opts.State, class, result.Theme), nil)
	}
	result.State = string(state.Key())
	result.Styles = canonical.StyleObject(s)
	result.Typed = describeStyle(reader.For(s))
	return env.formatter.Success(result, renderStyle(result, reader, s))
}

var (
	attrStyle  = lipgloss.NewStyle().Faint(true)
	stateStyle = lipgloss.NewStyle().Italic(true)
)

func renderCollection(r ResolveResult, c *coerce.Coercer, coll *style.Collection) string {
	var b strings.Builder
	b.WriteString(resolveHeading(r))
	writeAttributes(&b, c.For(coll.Base()), "  ")
	for _, st := range coll.States() {
		sub, _ := coll.StyleFor(st)
		fmt.Fprintf(&b, "\n  %s", stateStyle.Render(string(st.Key())))
		writeAttributes(&b, c.For(sub), "    ")
	}
	fmt.Fprintf(&b, "\n%s", attrStyle.Render("fingerprint "+shortFingerprint(r.Fingerprint)))
	return b.String()
}

func renderStyle(r ResolveResult, c *coerce.Coercer, s *style.Style) string {
	var b strings.Builder
	b.WriteString(resolveHeading(r))
	writeAttributes(&b, c.For(s), "  ")
	return b.String()
}

func resolveHeading(r ResolveResult) string {
	title := r.Identifier
	if r.State != "" {
		title += " " + r.State
	}
	return headingStyle.Render(fmt.Sprintf("%s (%s)", title, r.Theme))
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// describeStyle returns the coerced reading of every attribute of the
// reader's style.
func describeStyle(r coerce.Reader) map[string]coerce.Description {
	out := make(map[string]coerce.Description)
	for _, attr := range r.Attributes() {
		if d, ok := r.Describe(attr); ok {
			out[attr.String()] = d
		}
	}
	return out
}

// writeAttributes prints one attribute per line, sorted, in its coerced
// form, with a swatch for colors.
func writeAttributes(b *strings.Builder, r coerce.Reader, indent string) {
	for _, attr := range r.Attributes() {
		d, _ := r.Describe(attr)
		fmt.Fprintf(b, "\n%s%s %s", indent, attrStyle.Render(attr.String()+":"), d.Text)
		if d.Swatch != nil {
			b.WriteString(" " + lipgloss.NewStyle().Foreground(d.Swatch.Terminal()).Render("██"))
		}
	}
}
