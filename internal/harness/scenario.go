package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario is a theming conformance test loaded from YAML.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Sheets is a stylesheet directory, relative to the scenario file.
	Sheets string `yaml:"sheets,omitempty"`

	// Bundle is the bundle every node class is located in.
	Bundle string `yaml:"bundle,omitempty"`

	// Theme is the initial theme. Empty means the default theme.
	Theme string `yaml:"theme,omitempty"`

	// TokenPrefix prefixes generated pass tokens ("<prefix>-1", ...).
	TokenPrefix string `yaml:"token_prefix,omitempty"`

	// NotifyAbsent delivers nil styles when nothing resolved.
	NotifyAbsent bool `yaml:"notify_absent,omitempty"`

	// MaxFanout bounds a single update walk. Zero keeps the engine default.
	MaxFanout int `yaml:"max_fanout,omitempty"`

	// Nodes declares the node graph.
	Nodes []NodeSpec `yaml:"nodes"`

	// Roots are the node IDs ApplyTheme and refresh walk from.
	Roots []string `yaml:"roots,omitempty"`

	// Classes holds class-level styles, shaped like a stylesheet's themes
	// field: theme -> class -> attributes (and "states").
	Classes map[string]any `yaml:"classes,omitempty"`

	// Steps run in order. The loop is drained once more after the last one.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the run.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Dir is the directory the scenario was loaded from.
	Dir string `yaml:"-"`
}

// NodeSpec declares one node.
type NodeSpec struct {
	ID         string   `yaml:"id"`
	Class      string   `yaml:"class"`
	Sheet      string   `yaml:"sheet,omitempty"`
	Identifier string   `yaml:"identifier,omitempty"`
	Forwards   *bool    `yaml:"forwards,omitempty"`
	Children   []string `yaml:"children,omitempty"`
}

// forwards defaults to true.
func (n NodeSpec) forwards() bool {
	return n.Forwards == nil || *n.Forwards
}

// Step is one scenario action. Exactly one field must be set.
type Step struct {
	Attach     string   `yaml:"attach,omitempty"`
	Detach     string   `yaml:"detach,omitempty"`
	Request    string   `yaml:"request,omitempty"`
	ApplyTheme string   `yaml:"apply_theme,omitempty"`
	Refresh    bool     `yaml:"refresh,omitempty"`
	Drain      bool     `yaml:"drain,omitempty"`
	Set        *SetStep `yaml:"set,omitempty"`
}

// Step kinds, as reported by Step.Kind.
const (
	StepAttach     = "attach"
	StepDetach     = "detach"
	StepRequest    = "request"
	StepApplyTheme = "apply_theme"
	StepRefresh    = "refresh"
	StepDrain      = "drain"
	StepSet        = "set"
)

// Kinds returns the kinds of every field set on the step.
func (s Step) Kinds() []string {
	var kinds []string
	if s.Attach != "" {
		kinds = append(kinds, StepAttach)
	}
	if s.Detach != "" {
		kinds = append(kinds, StepDetach)
	}
	if s.Request != "" {
		kinds = append(kinds, StepRequest)
	}
	if s.ApplyTheme != "" {
		kinds = append(kinds, StepApplyTheme)
	}
	if s.Refresh {
		kinds = append(kinds, StepRefresh)
	}
	if s.Drain {
		kinds = append(kinds, StepDrain)
	}
	if s.Set != nil {
		kinds = append(kinds, StepSet)
	}
	return kinds
}

// Kind returns the step's single kind, or "" when the step is malformed.
func (s Step) Kind() string {
	kinds := s.Kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// SetStep writes (or removes) one attribute in a node's private styles or
// in a class's styles.
//
// Class style edits do not schedule anything; follow them with a refresh
// step.
type SetStep struct {
	Node      string `yaml:"node,omitempty"`
	Class     string `yaml:"class,omitempty"`
	Theme     string `yaml:"theme,omitempty"`
	State     string `yaml:"state,omitempty"`
	Attribute string `yaml:"attribute"`
	Value     any    `yaml:"value,omitempty"`
	Remove    bool   `yaml:"remove,omitempty"`
}

// Assertion checks the trace or the engine after a run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "applied": the node's latest delivery matches theme and attributes
	// - "not_applied": the node was never delivered styles (for theme)
	// - "apply_count": the node was delivered styles exactly count times
	// - "apply_order": nodes were first delivered styles in this order
	// - "resolved": the engine resolves node+state to attributes (or absent)
	// - "current_theme": the engine's current theme
	// - "history": the persisted theme history, newest first
	Type string `yaml:"type"`

	Node       string         `yaml:"node,omitempty"`
	Nodes      []string       `yaml:"nodes,omitempty"`
	Theme      string         `yaml:"theme,omitempty"`
	State      string         `yaml:"state,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
	Absent     bool           `yaml:"absent,omitempty"`
	Count      *int           `yaml:"count,omitempty"`
	Themes     []string       `yaml:"themes,omitempty"`
}

// Assertion type constants.
const (
	AssertApplied      = "applied"
	AssertNotApplied   = "not_applied"
	AssertApplyCount   = "apply_count"
	AssertApplyOrder   = "apply_order"
	AssertResolved     = "resolved"
	AssertCurrentTheme = "current_theme"
	AssertHistory      = "history"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// ParseScenario parses and validates a scenario document. Relative paths
// resolve against the working directory until Dir is set.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files directly under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// SheetsDir returns the stylesheet directory resolved against Dir, or "".
func (s *Scenario) SheetsDir() string {
	if s.Sheets == "" {
		return ""
	}
	if filepath.IsAbs(s.Sheets) {
		return s.Sheets
	}
	return filepath.Join(s.Dir, s.Sheets)
}

// validateScenario checks that required fields are present and that every
// reference names a declared node.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Nodes) == 0 {
		return fmt.Errorf("nodes list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if s.MaxFanout < 0 {
		return fmt.Errorf("max_fanout must be non-negative")
	}

	ids := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("nodes[%d]: id is required", i)
		}
		if n.Class == "" {
			return fmt.Errorf("nodes[%d]: class is required", i)
		}
		if ids[n.ID] {
			return fmt.Errorf("nodes[%d]: duplicate id %q", i, n.ID)
		}
		ids[n.ID] = true
	}
	known := func(where, id string) error {
		if !ids[id] {
			return fmt.Errorf("%s: unknown node %q", where, id)
		}
		return nil
	}

	for i, n := range s.Nodes {
		for _, child := range n.Children {
			if err := known(fmt.Sprintf("nodes[%d].children", i), child); err != nil {
				return err
			}
		}
	}
	for _, root := range s.Roots {
		if err := known("roots", root); err != nil {
			return err
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step, known); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], known); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step, known func(where, id string) error) error {
	where := fmt.Sprintf("steps[%d]", index)
	kinds := step.Kinds()
	switch len(kinds) {
	case 0:
		return fmt.Errorf("%s: no action", where)
	case 1:
	default:
		return fmt.Errorf("%s: exactly one action allowed, got %v", where, kinds)
	}

	switch kinds[0] {
	case StepAttach:
		return known(where, step.Attach)
	case StepDetach:
		return known(where, step.Detach)
	case StepRequest:
		return known(where, step.Request)
	case StepSet:
		set := step.Set
		if (set.Node == "") == (set.Class == "") {
			return fmt.Errorf("%s.set: exactly one of node or class is required", where)
		}
		if set.Attribute == "" {
			return fmt.Errorf("%s.set: attribute is required", where)
		}
		if set.Node != "" {
			return known(where+".set", set.Node)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, known func(where, id string) error) error {
	where := fmt.Sprintf("assertions[%d]", index)
	if a.Type == "" {
		return fmt.Errorf("%s: type is required", where)
	}

	needNode := func() error {
		if a.Node == "" {
			return fmt.Errorf("%s: node is required for %s", where, a.Type)
		}
		return known(where, a.Node)
	}

	switch a.Type {
	case AssertApplied, AssertNotApplied:
		return needNode()
	case AssertApplyCount:
		if err := needNode(); err != nil {
			return err
		}
		if a.Count == nil {
			return fmt.Errorf("%s: count is required for apply_count", where)
		}
		if *a.Count < 0 {
			return fmt.Errorf("%s: count must be non-negative for apply_count", where)
		}
	case AssertApplyOrder:
		if len(a.Nodes) == 0 {
			return fmt.Errorf("%s: nodes list is required for apply_order", where)
		}
		for _, id := range a.Nodes {
			if err := known(where, id); err != nil {
				return err
			}
		}
	case AssertResolved:
		if err := needNode(); err != nil {
			return err
		}
		if !a.Absent && len(a.Attributes) == 0 {
			return fmt.Errorf("%s: attributes or absent is required for resolved", where)
		}
	case AssertCurrentTheme:
		if a.Theme == "" {
			return fmt.Errorf("%s: theme is required for current_theme", where)
		}
	case AssertHistory:
		if a.Count == nil && a.Themes == nil {
			return fmt.Errorf("%s: count or themes is required for history", where)
		}
		if a.Count != nil && *a.Count < 0 {
			return fmt.Errorf("%s: count must be non-negative for history", where)
		}
	default:
		return fmt.Errorf("%s: unknown assertion type %q", where, a.Type)
	}
	return nil
}
