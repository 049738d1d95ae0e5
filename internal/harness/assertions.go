package harness

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/themer/internal/canonical"
	"github.com/roach88/themer/internal/engine"
	"github.com/roach88/themer/internal/store"
	"github.com/roach88/themer/internal/theme"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			switch ev.Type {
			case EventApply:
				fmt.Fprintf(&buf, "  [%d] apply %s (%s)\n", ev.Seq, ev.Node, ev.Theme)
			case EventTheme:
				fmt.Fprintf(&buf, "  [%d] theme %s -> %s (%s)\n", ev.Seq, ev.Previous, ev.Theme, ev.Token)
			}
		}
	}
	return buf.String()
}

// AssertionContext gives assertions access to the engine and the store of
// the run. Nodes maps scenario IDs to the engine's nodes.
type AssertionContext struct {
	Ctx    context.Context
	Engine *engine.Engine
	Store  *store.Store
	Nodes  func(id string) (engine.Node, bool)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertApplied:
			err = assertApplied(result.Trace, assertion)
		case AssertNotApplied:
			err = assertNotApplied(result.Trace, assertion)
		case AssertApplyCount:
			err = assertApplyCount(result.Trace, assertion)
		case AssertApplyOrder:
			err = assertApplyOrder(result.Trace, assertion)
		case AssertResolved, AssertCurrentTheme:
			if actx == nil || actx.Engine == nil {
				err = fmt.Errorf("assertion[%d]: %s requires engine context", i, assertion.Type)
			} else if assertion.Type == AssertResolved {
				err = assertResolved(actx, assertion)
			} else {
				err = assertCurrentTheme(actx.Engine, assertion)
			}
		case AssertHistory:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: history requires database context", i)
			} else {
				err = assertHistory(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// applies returns the node's apply events, restricted to themeName when it
// is non-empty.
func applies(trace []TraceEvent, node, themeName string) []TraceEvent {
	var out []TraceEvent
	for _, ev := range trace {
		if ev.Type != EventApply || ev.Node != node {
			continue
		}
		if themeName != "" && ev.Theme != themeName {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// assertApplied checks the node's latest delivery. Theme, when given, must
// be the theme of that delivery; Attributes are a subset match on its base
// attributes.
func assertApplied(trace []TraceEvent, a Assertion) error {
	all := applies(trace, a.Node, "")
	if len(all) == 0 {
		return &AssertionError{
			Type:     AssertApplied,
			Expected: fmt.Sprintf("node %q delivered styles", a.Node),
			Actual:   "no delivery",
			Trace:    trace,
		}
	}
	last := all[len(all)-1]
	if a.Theme != "" && last.Theme != a.Theme {
		return &AssertionError{
			Type:     AssertApplied,
			Expected: fmt.Sprintf("node %q last applied theme %q", a.Node, a.Theme),
			Actual:   fmt.Sprintf("theme %q", last.Theme),
			Trace:    trace,
		}
	}
	if len(a.Attributes) == 0 {
		return nil
	}
	var attrs map[string]any
	if last.Styles != nil {
		attrs, _ = last.Styles["attributes"].(map[string]any)
	}
	if missing := diffAttributes(a.Attributes, func(name string) (any, bool) {
		v, ok := attrs[name]
		return v, ok
	}); missing != "" {
		return &AssertionError{
			Type:     AssertApplied,
			Expected: fmt.Sprintf("node %q attributes %s", a.Node, formatAttributes(a.Attributes)),
			Actual:   missing,
			Trace:    trace,
		}
	}
	return nil
}

func assertNotApplied(trace []TraceEvent, a Assertion) error {
	got := applies(trace, a.Node, a.Theme)
	if len(got) == 0 {
		return nil
	}
	expected := fmt.Sprintf("node %q never delivered styles", a.Node)
	if a.Theme != "" {
		expected += fmt.Sprintf(" for theme %q", a.Theme)
	}
	return &AssertionError{
		Type:     AssertNotApplied,
		Expected: expected,
		Actual:   fmt.Sprintf("%d deliveries", len(got)),
		Trace:    trace,
	}
}

func assertApplyCount(trace []TraceEvent, a Assertion) error {
	got := len(applies(trace, a.Node, a.Theme))
	if got == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertApplyCount,
		Expected: fmt.Sprintf("node %q delivered %d times", a.Node, *a.Count),
		Actual:   fmt.Sprintf("%d times", got),
		Trace:    trace,
	}
}

// assertApplyOrder checks that the first deliveries of the listed nodes
// happen in the listed order. Other deliveries may intervene.
func assertApplyOrder(trace []TraceEvent, a Assertion) error {
	var order []string
	for _, ev := range trace {
		if ev.Type != EventApply || (a.Theme != "" && ev.Theme != a.Theme) {
			continue
		}
		if !slices.Contains(order, ev.Node) {
			order = append(order, ev.Node)
		}
	}

	pos := 0
	for _, ev := range order {
		if pos < len(a.Nodes) && ev == a.Nodes[pos] {
			pos++
		}
	}
	if pos == len(a.Nodes) {
		return nil
	}
	return &AssertionError{
		Type:     AssertApplyOrder,
		Expected: fmt.Sprintf("deliveries in order %v", a.Nodes),
		Actual:   fmt.Sprintf("first deliveries %v", order),
		Trace:    trace,
	}
}

// assertResolved asks the engine for the node's effective style in State
// under the current theme.
func assertResolved(actx *AssertionContext, a Assertion) error {
	node, ok := actx.Nodes(a.Node)
	if !ok {
		return fmt.Errorf("resolved: unknown node %q", a.Node)
	}
	if _, attached := actx.Engine.ID(node); !attached {
		return &AssertionError{
			Type:     AssertResolved,
			Expected: fmt.Sprintf("node %q attached", a.Node),
			Actual:   "detached",
		}
	}

	state := theme.NotAState
	if a.State != "" {
		var err error
		if state, err = theme.ParseState(a.State); err != nil {
			return fmt.Errorf("resolved: %w", err)
		}
	}

	s, found := actx.Engine.Resolve(node, state)
	if a.Absent {
		if !found {
			return nil
		}
		return &AssertionError{
			Type:     AssertResolved,
			Expected: fmt.Sprintf("node %q state %q resolves to nothing", a.Node, a.State),
			Actual:   formatAttributes(canonical.StyleObject(s)),
		}
	}
	if !found {
		return &AssertionError{
			Type:     AssertResolved,
			Expected: fmt.Sprintf("node %q state %q attributes %s", a.Node, a.State, formatAttributes(a.Attributes)),
			Actual:   "nothing resolved",
		}
	}
	if missing := diffAttributes(a.Attributes, func(name string) (any, bool) {
		return s.Value(theme.Attribute(name))
	}); missing != "" {
		return &AssertionError{
			Type:     AssertResolved,
			Expected: fmt.Sprintf("node %q state %q attributes %s", a.Node, a.State, formatAttributes(a.Attributes)),
			Actual:   missing,
		}
	}
	return nil
}

func assertCurrentTheme(e *engine.Engine, a Assertion) error {
	if got := e.Current().Name(); got != a.Theme {
		return &AssertionError{
			Type:     AssertCurrentTheme,
			Expected: fmt.Sprintf("current theme %q", a.Theme),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

// assertHistory checks the persisted switches, newest first.
func assertHistory(ctx context.Context, st *store.Store, a Assertion) error {
	records, err := st.History(ctx, 0)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if a.Count != nil && len(records) != *a.Count {
		return &AssertionError{
			Type:     AssertHistory,
			Expected: fmt.Sprintf("%d recorded switches", *a.Count),
			Actual:   fmt.Sprintf("%d", len(records)),
		}
	}
	if a.Themes == nil {
		return nil
	}
	got := make([]string, len(records))
	for i, rec := range records {
		got[i] = rec.Theme
	}
	if !slices.Equal(got, a.Themes) {
		return &AssertionError{
			Type:     AssertHistory,
			Expected: fmt.Sprintf("themes %v", a.Themes),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

// diffAttributes compares expected against lookup and describes the first
// mismatches, or returns "" when every expected attribute matches.
func diffAttributes(expected map[string]any, lookup func(name string) (any, bool)) string {
	var problems []string
	for _, name := range canonical.SortedKeys(expected) {
		want := expected[name]
		got, ok := lookup(name)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s missing", name))
		case !valuesEqual(got, want):
			problems = append(problems, fmt.Sprintf("%s=%v", name, got))
		}
	}
	return strings.Join(problems, ", ")
}

// valuesEqual compares two style values by their canonical encoding, so
// 10 and 10.0 are equal and map key order does not matter.
func valuesEqual(actual, expected any) bool {
	a, err := canonical.Marshal(actual)
	if err != nil {
		return false
	}
	b, err := canonical.Marshal(expected)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func formatAttributes(attrs map[string]any) string {
	if attrs == nil {
		return "{}"
	}
	data, err := canonical.Marshal(attrs)
	if err != nil {
		return fmt.Sprintf("%v", attrs)
	}
	return string(data)
}
