package gateway

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Database runs a templated query with named parameters. The gateway
// performs no query construction beyond forwarding the declared query text
// plus caller params.
type Database interface {
	Query(ctx context.Context, query string, params map[string]any) (any, error)
}

// Analytics executes a declared metric query.
type Analytics interface {
	QueryMetric(ctx context.Context, metric, window, groupBy string, params map[string]any) (any, error)
}

// IntegrationAdapter is the two-method contract every third-party adapter
// implements. Endpoint routing inside the adapter is the adapter's business.
type IntegrationAdapter interface {
	FetchData(ctx context.Context, endpoint string, params map[string]any) (any, error)
	PushData(ctx context.Context, endpoint string, data any) (any, error)
}

// SkillResult is the envelope every skill returns. The gateway passes it
// through unchanged.
type SkillResult struct {
	Success  bool           `json:"success"`
	Data     any            `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Skill is one business-logic implementation invoked by reads with
// source "skill" and by every action.
type Skill interface {
	Execute(ctx context.Context, params map[string]any) (*SkillResult, error)
}

// SkillFunc adapts a plain function to the Skill interface.
type SkillFunc func(ctx context.Context, params map[string]any) (*SkillResult, error)

func (f SkillFunc) Execute(ctx context.Context, params map[string]any) (*SkillResult, error) {
	return f(ctx, params)
}

// SkillRegistry maps skill names to implementations. Populated at startup,
// read from request goroutines afterward.
type SkillRegistry struct {
	mu     sync.RWMutex
	skills map[string]Skill
}

// NewSkillRegistry creates an empty skill registry.
func NewSkillRegistry() *SkillRegistry {
	return &SkillRegistry{skills: make(map[string]Skill)}
}

// Register adds a skill. Last write wins.
func (r *SkillRegistry) Register(name string, s Skill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skills[name] = s
}

// Get returns the named skill, or nil.
func (r *SkillRegistry) Get(name string) Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.skills[name]
}

// Names returns registered skill names in sorted order.
func (r *SkillRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AuditEntry is one append-only audit record for an executed action.
type AuditEntry struct {
	Namespace string         `json:"namespace"`
	Action    string         `json:"action"`
	Params    map[string]any `json:"params"`
	UserID    string         `json:"user_id"`
	Timestamp time.Time      `json:"timestamp"`
}

// AuditSink accepts audit entries. The gateway treats the sink as
// fire-and-forget: a sink failure is logged and never blocks the action.
type AuditSink interface {
	Append(ctx context.Context, entry AuditEntry) error
}
