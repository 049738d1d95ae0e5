package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/themer/internal/engine"
	"github.com/roach88/themer/internal/store"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/stylesheet"
	"github.com/roach88/themer/internal/testutil"
	"github.com/roach88/themer/internal/theme"
)

// Option configures Run.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sends engine and harness logs to logger. Runs are silent by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// run is the state of one scenario execution.
type run struct {
	scenario *Scenario
	engine   *engine.Engine
	loop     *engine.ManualLoop
	store    *store.Store
	clock    *testutil.DeterministicClock
	logger   *slog.Logger
	nodes    map[string]*sceneNode
	named    map[string]bool
	result   *Result
}

// Run executes a scenario and returns the result.
//
// Each run gets a fresh engine and a fresh in-memory database. Assertion
// failures are reported in the result; an error means the scenario itself
// could not be executed.
//
// Execution flow:
// 1. Create the store, loop and deterministic helpers
// 2. Install class styles and build the node graph
// 3. Execute the steps in order, then drain the loop
// 4. Evaluate assertions against the trace and the engine
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	initial := theme.Default
	if scenario.Theme != "" {
		if initial, err = theme.ParseTheme(scenario.Theme); err != nil {
			return nil, fmt.Errorf("initial theme: %w", err)
		}
	}

	r := &run{
		scenario: scenario,
		loop:     engine.NewManualLoop(),
		store:    st,
		clock:    testutil.NewDeterministicClock(),
		logger:   o.logger,
		named:    make(map[string]bool),
		result:   NewResult(),
	}
	r.nodes = buildNodes(r, scenario.Nodes)

	engineOpts := []engine.EngineOption{
		engine.WithLoop(r.loop),
		engine.WithPersister(st),
		engine.WithTokenGenerator(testutil.NewSequentialTokens(scenario.TokenPrefix)),
		engine.WithLogger(o.logger),
		engine.WithInitialTheme(initial),
		engine.WithRoots(r.roots),
		engine.WithListener(r.themeChanged),
		engine.NotifyAbsent(scenario.NotifyAbsent),
	}
	if scenario.MaxFanout > 0 {
		engineOpts = append(engineOpts, engine.WithMaxFanout(scenario.MaxFanout))
	}
	if dir := scenario.SheetsDir(); dir != "" {
		engineOpts = append(engineOpts, engine.WithProvider(
			stylesheet.NewDirProvider(dir, stylesheet.WithLogger(o.logger)),
		))
	}
	if scenario.Bundle != "" {
		bundle := scenario.Bundle
		engineOpts = append(engineOpts, engine.WithBundleLocator(func(string) string { return bundle }))
	}
	r.engine = engine.New(engineOpts...)

	if err := r.installClasses(); err != nil {
		return nil, err
	}

	for i, step := range scenario.Steps {
		if err := r.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Kind(), err)
		}
	}
	r.loop.Drain()

	actx := &AssertionContext{Ctx: ctx, Engine: r.engine, Store: st, Nodes: r.lookupNode}
	for _, msg := range EvaluateAssertions(r.result, scenario.Assertions, actx) {
		r.result.AddError(msg)
	}
	return r.result, nil
}

func (r *run) record(ev TraceEvent) {
	ev.Seq = r.clock.Next()
	r.result.Trace = append(r.result.Trace, ev)
}

func (r *run) roots() []engine.Node {
	out := make([]engine.Node, 0, len(r.scenario.Roots))
	for _, id := range r.scenario.Roots {
		out = append(out, r.nodes[id])
	}
	return out
}

func (r *run) lookupNode(id string) (engine.Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// themeChanged records the switch in the trace and in the history table.
func (r *run) themeChanged(ctx context.Context, change engine.ThemeChange) {
	if err := r.store.RecordApply(ctx, change.Token, change.Current.Name(), change.Previous.Name()); err != nil {
		r.logger.Error("record theme history failed", "pass", change.Token, "error", err)
		r.result.AddError(fmt.Sprintf("record history for %s: %v", change.Token, err))
	}
	r.record(TraceEvent{
		Type:     EventTheme,
		Theme:    change.Current.Name(),
		Previous: change.Previous.Name(),
		Token:    change.Token,
	})
}

// installClasses copies the scenario's class styles into the registry.
func (r *run) installClasses() error {
	if len(r.scenario.Classes) == 0 {
		return nil
	}
	sheet, err := stylesheet.FromThemes(r.scenario.Name+": classes", r.scenario.Classes)
	if err != nil {
		return fmt.Errorf("classes: %w", err)
	}
	reg := r.engine.Registry()
	for _, t := range sheet.Themes() {
		src := sheet.Collection(t)
		dst := reg.Classes(t)
		for _, id := range src.Identifiers() {
			styles, _ := src.StylesIfPresent(id)
			dst.Set(id, styles.Clone())
		}
	}
	return nil
}

func (r *run) execute(ctx context.Context, step Step) error {
	switch step.Kind() {
	case StepAttach:
		n := r.nodes[step.Attach]
		if err := r.applyIdentifier(n); err != nil {
			return err
		}
		r.engine.Attach(n)
	case StepDetach:
		r.engine.Detach(r.nodes[step.Detach])
		delete(r.named, step.Detach)
	case StepRequest:
		r.engine.RequestUpdate(r.nodes[step.Request])
	case StepApplyTheme:
		t, err := theme.ParseTheme(step.ApplyTheme)
		if err != nil {
			return err
		}
		r.engine.ApplyTheme(ctx, t)
	case StepRefresh:
		r.engine.Refresh()
	case StepDrain:
		r.loop.Drain()
	case StepSet:
		return r.set(step.Set)
	default:
		return fmt.Errorf("malformed step")
	}
	return nil
}

// applyIdentifier sets a node's declared identifier the first time the node
// is attached.
func (r *run) applyIdentifier(n *sceneNode) error {
	if r.named[n.id] {
		return nil
	}
	r.named[n.id] = true
	for _, spec := range r.scenario.Nodes {
		if spec.ID != n.id || spec.Identifier == "" {
			continue
		}
		id, err := theme.NewIdentifier(spec.Identifier)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.id, err)
		}
		r.engine.SetIdentifier(n, id)
	}
	return nil
}

func (r *run) set(s *SetStep) error {
	t := r.engine.Current()
	if s.Theme != "" {
		var err error
		if t, err = theme.ParseTheme(s.Theme); err != nil {
			return err
		}
	}
	state := theme.NotAState
	if s.State != "" {
		var err error
		if state, err = theme.ParseStateDefining(s.State); err != nil {
			return err
		}
	}

	var coll *style.Collection
	if s.Node != "" {
		coll = r.engine.Styles(r.nodes[s.Node], t)
	} else {
		id, err := theme.NewIdentifier(s.Class)
		if err != nil {
			return err
		}
		coll = r.engine.Registry().Classes(t).StylesFor(id)
	}

	target := coll.StyleOrCreate(state)
	attr := theme.Attribute(s.Attribute)
	if s.Remove {
		target.RemoveValue(attr)
		return nil
	}
	target.SetValue(s.Value, attr)
	return nil
}
