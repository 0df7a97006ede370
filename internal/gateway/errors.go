// Package gateway resolves widget bind keys through the catalog to live
// values and triggers catalog actions via skills. It owns the process-local
// binding cache and the failure taxonomy callers branch on.
package gateway

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// NotFoundError reports an unknown namespace, bind key, or action key.
type NotFoundError struct {
	Kind       string // "namespace", "read", "action"
	Namespace  string
	Key        string
	Suggestion string // "did you mean 'metrics.revenue'?" or ""
}

func (e *NotFoundError) Error() string {
	var msg string
	switch e.Kind {
	case "namespace":
		msg = fmt.Sprintf("unknown namespace '%s'", e.Namespace)
	default:
		msg = fmt.Sprintf("unknown %s key '%s' in namespace '%s'", e.Kind, e.Key, e.Namespace)
	}
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// SkillMissingError reports an action whose skill is not registered.
type SkillMissingError struct {
	Skill string
}

func (e *SkillMissingError) Error() string {
	return fmt.Sprintf("skill '%s' is not registered", e.Skill)
}

// FetchError wraps a failure from a downstream read collaborator.
type FetchError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s.%s: %v", e.Namespace, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ActionError wraps a failure reported by a skill during action execution.
type ActionError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("executing action %s.%s: %v", e.Namespace, e.Key, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// InvalidArgsError reports action params that fail the declared args_schema.
// Validation happens before the audit append and before the skill runs.
type InvalidArgsError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *InvalidArgsError) Error() string {
	return fmt.Sprintf("invalid args for action %s.%s: %v", e.Namespace, e.Key, e.Err)
}

func (e *InvalidArgsError) Unwrap() error { return e.Err }

// suggestClosest finds the candidate within maxDist edit distance of input.
// Returns a "did you mean" phrase or "".
func suggestClosest(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist <= maxDist {
		return fmt.Sprintf("did you mean '%s'?", best)
	}
	return ""
}
