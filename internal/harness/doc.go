// Package harness runs declarative theming scenarios against the real
// engine and records what every node was told.
//
// A scenario is a YAML file describing a node graph, class styles, an
// optional stylesheet directory, and a list of steps (attach, set, apply a
// theme, drain the loop, ...). Run builds a fresh engine for it with:
//
//   - a ManualLoop, so scheduling is observable and single-stepped
//   - SequentialTokens, so pass tokens are predictable
//   - an in-memory store as persister, so theme history is real SQL
//   - a DeterministicClock numbering the trace
//
// Every appearance delivery and every theme switch becomes a TraceEvent.
// The trace is the contract: assertions inspect it, and RunWithGolden
// compares its canonical JSON against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
