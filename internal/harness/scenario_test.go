package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
nodes:
  - id: a
    class: A
steps:
  - attach: a
`

func TestLoadScenario_ValidFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/sheet_states.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sheet_states", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios"), s.Dir)
	assert.Equal(t, filepath.Join("testdata", "sheets"), s.SheetsDir())
	assert.Equal(t, "app", s.Bundle)
	require.Len(t, s.Nodes, 3)
	assert.Equal(t, []string{"panel"}, s.Nodes[0].Children)
	assert.True(t, s.Nodes[0].forwards())
	assert.Equal(t, []string{"window"}, s.Roots)
	assert.Equal(t, StepAttach, s.Steps[0].Kind())
	assert.Equal(t, StepApplyTheme, s.Steps[4].Kind())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Empty(t, s.Dir)
	assert.Empty(t, s.SheetsDir())
	assert.Empty(t, s.Assertions)
}

func TestParseScenario_ForwardsDefault(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: fw
nodes:
  - id: a
    class: A
    forwards: false
  - id: b
    class: B
steps:
  - drain: true
`))
	require.NoError(t, err)
	assert.False(t, s.Nodes[0].forwards())
	assert.True(t, s.Nodes[1].forwards())
}

func TestParseScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "nodes: [{id: a, class: A}]\nsteps: [{drain: true}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing nodes",
			yaml:    "name: x\nsteps: [{drain: true}]\n",
			wantErr: "nodes list is required",
		},
		{
			name:    "missing steps",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "node without class",
			yaml:    "name: x\nnodes: [{id: a}]\nsteps: [{drain: true}]\n",
			wantErr: "nodes[0]: class is required",
		},
		{
			name:    "duplicate node",
			yaml:    "name: x\nnodes: [{id: a, class: A}, {id: a, class: B}]\nsteps: [{drain: true}]\n",
			wantErr: `duplicate id "a"`,
		},
		{
			name:    "unknown child",
			yaml:    "name: x\nnodes: [{id: a, class: A, children: [b]}]\nsteps: [{drain: true}]\n",
			wantErr: `unknown node "b"`,
		},
		{
			name:    "unknown root",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nroots: [z]\nsteps: [{drain: true}]\n",
			wantErr: `roots: unknown node "z"`,
		},
		{
			name:    "empty step",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{}]\n",
			wantErr: "steps[0]: no action",
		},
		{
			name:    "two actions",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{attach: a, drain: true}]\n",
			wantErr: "exactly one action allowed",
		},
		{
			name:    "unknown attach",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{attach: b}]\n",
			wantErr: `steps[0]: unknown node "b"`,
		},
		{
			name:    "set without target",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{set: {attribute: c, value: 1}}]\n",
			wantErr: "exactly one of node or class",
		},
		{
			name:    "set without attribute",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{set: {node: a, value: 1}}]\n",
			wantErr: "attribute is required",
		},
		{
			name:    "negative fanout",
			yaml:    "name: x\nmax_fanout: -1\nnodes: [{id: a, class: A}]\nsteps: [{drain: true}]\n",
			wantErr: "max_fanout must be non-negative",
		},
		{
			name:    "assertion without type",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{drain: true}]\nassertions: [{node: a}]\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{drain: true}]\nassertions: [{type: magic}]\n",
			wantErr: `unknown assertion type "magic"`,
		},
		{
			name:    "apply_count without count",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{drain: true}]\nassertions: [{type: apply_count, node: a}]\n",
			wantErr: "count is required for apply_count",
		},
		{
			name:    "resolved without expectation",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{drain: true}]\nassertions: [{type: resolved, node: a}]\n",
			wantErr: "attributes or absent is required",
		},
		{
			name:    "history without expectation",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{drain: true}]\nassertions: [{type: history}]\n",
			wantErr: "count or themes is required",
		},
		{
			name:    "applied unknown node",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps: [{drain: true}]\nassertions: [{type: applied, node: q}]\n",
			wantErr: `assertions[0]: unknown node "q"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_UnknownFieldsRejected(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "typo_assertion_singular",
			yaml:    minimalScenario + "assertion:\n  - type: current_theme\n    theme: x\n",
			wantErr: "field assertion not found",
		},
		{
			name:    "typo_in_step",
			yaml:    "name: x\nnodes: [{id: a, class: A}]\nsteps:\n  - atach: a\n",
			wantErr: "field atach not found",
		},
		{
			name:    "typo_in_node",
			yaml:    "name: x\nnodes: [{id: a, klass: A}]\nsteps: [{drain: true}]\n",
			wantErr: "field klass not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_CountZeroAllowed(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario + "assertions:\n  - type: apply_count\n    node: a\n    count: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, s.Assertions[0].Count)
	assert.Equal(t, 0, *s.Assertions[0].Count)
}

func TestStep_Kinds(t *testing.T) {
	assert.Equal(t, StepRefresh, Step{Refresh: true}.Kind())
	assert.Equal(t, StepSet, Step{Set: &SetStep{}}.Kind())
	assert.Empty(t, Step{}.Kind())
	assert.Empty(t, Step{Attach: "a", Detach: "a"}.Kind())
	assert.Equal(t, []string{StepAttach, StepDetach}, Step{Attach: "a", Detach: "a"}.Kinds())
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(minimalScenario), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, paths)
}

func TestLoadExampleScenarios(t *testing.T) {
	paths, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			require.NoError(t, err)
		})
	}
}
