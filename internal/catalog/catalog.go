// Package catalog holds the per-namespace binding catalog: the named read,
// action, and integration definitions a dashboard widget's bind key resolves
// against. Namespaces are registered once at process start and are read-only
// afterward — there is no hot-reload contract.
package catalog

import (
	"encoding/json"
	"sort"
	"sync"
)

// Source classifies how a read definition is satisfied.
type Source string

const (
	SourceDB          Source = "db"
	SourceAnalytics   Source = "analytics"
	SourceIntegration Source = "integration"
	SourceSkill       Source = "skill"
)

// ReadDefinition describes how to satisfy a data request for one bind key.
// Only the fields relevant to its Source are populated.
type ReadDefinition struct {
	Source   Source         `json:"source"`
	Query    string         `json:"query,omitempty"`
	Metric   string         `json:"metric,omitempty"`
	Endpoint string         `json:"endpoint,omitempty"`
	Skill    string         `json:"skill,omitempty"`
	Filters  map[string]any `json:"filters,omitempty"`
	Fields   []string       `json:"fields,omitempty"`
	Window   string         `json:"window,omitempty"`
	GroupBy  string         `json:"group_by,omitempty"`
	CacheTTL int            `json:"cache_ttl,omitempty"` // seconds; 0 means use the caller default
}

// ActionDefinition describes a mutating operation performed via a skill.
type ActionDefinition struct {
	Skill                string          `json:"skill"`
	Integration          string          `json:"integration,omitempty"`
	Args                 map[string]any  `json:"args,omitempty"`
	ArgsSchema           json.RawMessage `json:"args_schema,omitempty"`
	ConfirmationRequired bool            `json:"confirmation_required,omitempty"`
	AuditLog             bool            `json:"audit_log,omitempty"`
}

// IntegrationDefinition names a third-party adapter available to a namespace.
type IntegrationDefinition struct {
	Provider string         `json:"provider"`
	Config   map[string]any `json:"config,omitempty"`
}

// Namespace groups the read/action/integration definitions for one product
// surface (e.g. "chatbot").
type Namespace struct {
	Namespace    string                           `json:"namespace"`
	Reads        map[string]ReadDefinition        `json:"reads"`
	Actions      map[string]ActionDefinition      `json:"actions"`
	Integrations map[string]IntegrationDefinition `json:"integrations,omitempty"`
}

// Registry maps namespace names to their definitions. Registration happens
// during startup; reads afterward may come from any request goroutine, so
// access is guarded.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{namespaces: make(map[string]*Namespace)}
}

// Register upserts a namespace by its Namespace key. Last write wins; there
// are no merge semantics.
func (r *Registry) Register(ns *Namespace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[ns.Namespace] = ns
}

// Get returns the namespace definition, or nil if not registered.
func (r *Registry) Get(namespace string) *Namespace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namespaces[namespace]
}

// Names returns all registered namespace names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableWidgets returns the union of read keys and "action:"+actionKey
// strings for a namespace, sorted. Authoring and suggestion UIs consume
// this; the gateway never does. Returns nil for an unknown namespace.
func (r *Registry) AvailableWidgets(namespace string) []string {
	ns := r.Get(namespace)
	if ns == nil {
		return nil
	}
	keys := make([]string, 0, len(ns.Reads)+len(ns.Actions))
	for k := range ns.Reads {
		keys = append(keys, k)
	}
	for k := range ns.Actions {
		keys = append(keys, "action:"+k)
	}
	sort.Strings(keys)
	return keys
}

// ReadKeys returns the sorted read keys of a namespace, or nil if unknown.
func (r *Registry) ReadKeys(namespace string) []string {
	ns := r.Get(namespace)
	if ns == nil {
		return nil
	}
	keys := make([]string, 0, len(ns.Reads))
	for k := range ns.Reads {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ActionKeys returns the sorted action keys of a namespace, or nil if unknown.
func (r *Registry) ActionKeys(namespace string) []string {
	ns := r.Get(namespace)
	if ns == nil {
		return nil
	}
	keys := make([]string, 0, len(ns.Actions))
	for k := range ns.Actions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
