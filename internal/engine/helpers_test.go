package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/themer/internal/registry"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// applyCall is one ApplyAppearance delivery.
type applyCall struct {
	theme  theme.Theme
	styles *style.Collection
}

// testNode records every appearance it is given.
type testNode struct {
	class    string
	sheet    string
	forwards bool
	deps     []Node
	calls    []applyCall
	onApply  func()
}

func newTestNode(class string, deps ...Node) *testNode {
	return &testNode{class: class, forwards: true, deps: deps}
}

func (n *testNode) Class() string          { return n.class }
func (n *testNode) StyleSheetName() string { return n.sheet }
func (n *testNode) Dependents() []Node     { return n.deps }
func (n *testNode) ForwardsUpdates() bool  { return n.forwards }

func (n *testNode) ApplyAppearance(t theme.Theme, s *style.Collection) {
	n.calls = append(n.calls, applyCall{theme: t, styles: s})
	if n.onApply != nil {
		n.onApply()
	}
}

func (n *testNode) last() applyCall {
	return n.calls[len(n.calls)-1]
}

// stubProvider serves sheets from memory and counts loads.
type stubProvider struct {
	sheets map[string]func(t theme.Theme) *registry.Collection
	fail   map[string]bool
	loads  map[string]int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		sheets: make(map[string]func(theme.Theme) *registry.Collection),
		fail:   make(map[string]bool),
		loads:  make(map[string]int),
	}
}

func (p *stubProvider) Load(t theme.Theme, key registry.SheetKey) (*registry.Collection, error) {
	k := t.Name() + "/" + key.String()
	p.loads[k]++
	if p.fail[key.String()] {
		return nil, errors.New("decode failed")
	}
	build, ok := p.sheets[key.String()]
	if !ok {
		return nil, nil
	}
	return build(t), nil
}

// memPersister is an in-memory Persister.
type memPersister struct {
	name    string
	found   bool
	saveErr error
	saves   []string
}

func (p *memPersister) LoadTheme(context.Context) (string, bool, error) {
	return p.name, p.found, nil
}

func (p *memPersister) SaveTheme(_ context.Context, name string) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.name, p.found = name, true
	p.saves = append(p.saves, name)
	return nil
}
