package harness

// Trace event types.
const (
	EventApply = "apply"
	EventTheme = "theme"
)

// TraceEvent is one observable effect of a scenario run.
//
// An "apply" event is an appearance delivery: Node, Theme and Styles (the
// canonical object form of the delivered collection, nil when the engine
// notified an absent result). A "theme" event is a successful theme switch:
// Token, Previous and Theme.
type TraceEvent struct {
	Type     string         `json:"type"`
	Seq      int64          `json:"seq"`
	Node     string         `json:"node,omitempty"`
	Theme    string         `json:"theme"`
	Styles   map[string]any `json:"styles,omitempty"`
	Token    string         `json:"token,omitempty"`
	Previous string         `json:"previous,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds deliveries and theme switches in the order they happened.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Applies returns the apply events for node, in order.
func (r *Result) Applies(node string) []TraceEvent {
	var out []TraceEvent
	for _, ev := range r.Trace {
		if ev.Type == EventApply && ev.Node == node {
			out = append(out, ev)
		}
	}
	return out
}
