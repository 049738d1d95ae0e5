package harness

import (
	"github.com/roach88/themer/internal/canonical"
	"github.com/roach88/themer/internal/engine"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// sceneNode is the engine.Node a NodeSpec becomes. Deliveries go straight
// into the run's trace.
type sceneNode struct {
	id       string
	class    string
	sheet    string
	forwards bool
	children []engine.Node
	run      *run
}

func (n *sceneNode) Class() string             { return n.class }
func (n *sceneNode) StyleSheetName() string    { return n.sheet }
func (n *sceneNode) Dependents() []engine.Node { return n.children }
func (n *sceneNode) ForwardsUpdates() bool     { return n.forwards }

func (n *sceneNode) ApplyAppearance(t theme.Theme, styles *style.Collection) {
	n.run.record(TraceEvent{
		Type:   EventApply,
		Node:   n.id,
		Theme:  t.Name(),
		Styles: canonical.CollectionObject(styles),
	})
}

// buildNodes creates one sceneNode per spec and links children.
func buildNodes(r *run, specs []NodeSpec) map[string]*sceneNode {
	nodes := make(map[string]*sceneNode, len(specs))
	for _, spec := range specs {
		nodes[spec.ID] = &sceneNode{
			id:       spec.ID,
			class:    spec.Class,
			sheet:    spec.Sheet,
			forwards: spec.forwards(),
			run:      r,
		}
	}
	for _, spec := range specs {
		n := nodes[spec.ID]
		for _, child := range spec.Children {
			n.children = append(n.children, nodes[child])
		}
	}
	return nodes
}
