// Package intent converts free-form edit instructions into a structured,
// finite intent value. Parsing is deterministic keyword/pattern matching
// over a fixed vocabulary — there is no language model here, and the
// mutator depends only on the Intent shape so the parser can be swapped
// later without touching it.
package intent

// Action is the finite set of edit operations an instruction can request.
type Action string

const (
	ActionAdd     Action = "add"
	ActionRemove  Action = "remove"
	ActionMove    Action = "move"
	ActionPin     Action = "pin"
	ActionUnknown Action = "unknown"
)

// Intent is the structured result of parsing one edit instruction.
type Intent struct {
	Action   Action   `json:"action"`
	Targets  []string `json:"targets"`
	Widgets  []string `json:"widgets"`
	Metrics  []string `json:"metrics"`
	Viz      string   `json:"viz,omitempty"`
	Position string   `json:"position,omitempty"`
}

// HasTarget reports whether the instruction named the given target.
func (in Intent) HasTarget(target string) bool {
	for _, t := range in.Targets {
		if t == target {
			return true
		}
	}
	return false
}

// HasWidget reports whether the instruction asked for the given widget type.
func (in Intent) HasWidget(widget string) bool {
	for _, w := range in.Widgets {
		if w == widget {
			return true
		}
	}
	return false
}

// Parser turns instruction text into an Intent.
type Parser interface {
	Parse(text string) Intent
}
