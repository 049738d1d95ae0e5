package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/themer/internal/registry"
	"github.com/roach88/themer/internal/theme"
)

// Engine resolves node styles and schedules appearance updates.
//
// CRITICAL: the engine is not goroutine-safe. Every method must be called on
// the goroutine that runs the engine's Loop (see EventLoop), or from a single
// goroutine when a ManualLoop is used.
//
// The current theme is explicit engine state: New sets it from
// WithInitialTheme (default theme.Default), Restore replaces it with the
// persisted preference, and ApplyTheme is the only other way to change it.
type Engine struct {
	registry  *registry.Registry
	provider  SheetProvider
	persister Persister
	roots     RootProvider
	loop      Loop
	tokens    TokenGenerator
	clock     *Clock
	logger    *slog.Logger
	listeners []Listener

	locateBundle    func(class string) string
	maxFanout       int
	notifyAbsent    bool
	reuseOnBaseEdit bool

	current theme.Theme
	ids     map[Node]NodeID
	records map[NodeID]*record
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithRegistry sets the shared style registry. Default: a new empty registry.
func WithRegistry(r *registry.Registry) EngineOption {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithProvider sets the stylesheet provider. Without one the stylesheet tier
// is always absent.
func WithProvider(p SheetProvider) EngineOption {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithPersister sets where the applied theme is saved and restored from.
func WithPersister(p Persister) EngineOption {
	return func(e *Engine) {
		e.persister = p
	}
}

// WithRoots sets the provider of graph roots used by ApplyTheme.
func WithRoots(roots RootProvider) EngineOption {
	return func(e *Engine) {
		e.roots = roots
	}
}

// WithLoop sets the loop tasks are posted to. Default: a new ManualLoop.
func WithLoop(l Loop) EngineOption {
	return func(e *Engine) {
		e.loop = l
	}
}

// WithTokenGenerator sets the pass token generator.
// Default: UUIDv7Generator.
func WithTokenGenerator(g TokenGenerator) EngineOption {
	return func(e *Engine) {
		e.tokens = g
	}
}

// WithClock sets the clock NodeIDs are drawn from.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithInitialTheme sets the theme the engine starts with.
func WithInitialTheme(t theme.Theme) EngineOption {
	return func(e *Engine) {
		e.current = t
	}
}

// WithListener adds a theme change listener. Listeners run in the order
// they were added.
func WithListener(l Listener) EngineOption {
	return func(e *Engine) {
		e.listeners = append(e.listeners, l)
	}
}

// WithBundleLocator sets how a node class maps to the bundle that defines
// its stylesheets. Default: every class maps to the empty bundle.
func WithBundleLocator(locate func(class string) string) EngineOption {
	return func(e *Engine) {
		e.locateBundle = locate
	}
}

// WithMaxFanout sets the fan-out quota per RequestUpdate call.
//
// Default: 100000 nodes (DefaultMaxFanout)
// Use WithMaxFanout(3) for testing quota enforcement.
func WithMaxFanout(n int) EngineOption {
	return func(e *Engine) {
		e.maxFanout = n
	}
}

// NotifyAbsent makes ApplyAppearance fire with a nil collection when no
// source resolved. By default absent styles are not delivered.
func NotifyAbsent(enabled bool) EngineOption {
	return func(e *Engine) {
		e.notifyAbsent = enabled
	}
}

// WithBaseEditsReuseCache keeps the computed state table when only base
// attributes of a private collection change; the merged base is rebuilt on
// the next apply. By default every private mutation discards the cache.
func WithBaseEditsReuseCache(enabled bool) EngineOption {
	return func(e *Engine) {
		e.reuseOnBaseEdit = enabled
	}
}

// New creates an engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		tokens:       UUIDv7Generator{},
		clock:        NewClock(),
		logger:       slog.Default(),
		locateBundle: func(string) string { return "" },
		maxFanout:    DefaultMaxFanout,
		current:      theme.Default,
		ids:          make(map[Node]NodeID),
		records:      make(map[NodeID]*record),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = registry.New(registry.WithLogger(e.logger))
	}
	if e.loop == nil {
		e.loop = NewManualLoop()
	}
	return e
}

// Open creates an engine and restores the persisted theme.
func Open(ctx context.Context, opts ...EngineOption) (*Engine, error) {
	e := New(opts...)
	if err := e.Restore(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Restore loads the persisted theme and makes it current without saving,
// notifying or scheduling anything. It is meant for startup, before nodes
// are attached.
func (e *Engine) Restore(ctx context.Context) error {
	if e.persister == nil {
		return nil
	}
	name, found, err := e.persister.LoadTheme(ctx)
	if err != nil {
		return fmt.Errorf("restore theme: %w", err)
	}
	if !found {
		e.logger.Debug("no persisted theme", "current", e.current.Name())
		return nil
	}
	t, err := theme.ParseTheme(name)
	if err != nil {
		return fmt.Errorf("restore theme: %w", err)
	}
	e.current = t
	e.logger.Debug("theme restored", "theme", t.Name())
	return nil
}

// Current returns the current theme.
func (e *Engine) Current() theme.Theme {
	return e.current
}

// Registry returns the shared style registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// ApplyTheme makes t the current theme.
//
// Applying the current theme is a no-op and returns false. Otherwise the new
// theme is saved (a failure is logged, not returned), listeners are told,
// and every root requests an update. The returned change carries the pass
// token.
func (e *Engine) ApplyTheme(ctx context.Context, t theme.Theme) (ThemeChange, bool) {
	if t == e.current {
		e.logger.Debug("apply theme skipped: already current", "theme", t.Name())
		return ThemeChange{}, false
	}

	change := ThemeChange{
		Token:    e.tokens.Generate(),
		Previous: e.current,
		Current:  t,
	}
	e.current = t

	if e.persister != nil {
		if err := e.persister.SaveTheme(ctx, t.Name()); err != nil {
			rerr := NewPersistError(change.Token, t.Name(), err)
			e.logger.Error("persist theme failed",
				"code", rerr.Code,
				"pass", change.Token,
				"theme", t.Name(),
				"error", err,
			)
		}
	}

	e.logger.Info("theme applied",
		"pass", change.Token,
		"previous", change.Previous.Name(),
		"theme", t.Name(),
	)

	for _, l := range e.listeners {
		l(ctx, change)
	}

	e.Refresh()
	return change, true
}

// Refresh requests an update on every root. Use it after editing shared
// class or stylesheet styles, which do not track their readers.
func (e *Engine) Refresh() {
	if e.roots == nil {
		return
	}
	for _, root := range e.roots() {
		e.RequestUpdate(root)
	}
}

// Len returns the number of attached nodes.
func (e *Engine) Len() int {
	return len(e.records)
}
