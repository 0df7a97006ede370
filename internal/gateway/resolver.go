package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/singleflight"

	"github.com/glasspane/glasspane/internal/catalog"
)

// DefaultCacheTTL applies to reads that declare no cache_ttl of their own.
const DefaultCacheTTL = 60 * time.Second

// suggestMaxDist bounds the edit distance for did-you-mean suggestions.
const suggestMaxDist = 3

// Resolver dispatches bind keys to their declared sources and actions to
// their skills. All collaborators are injected so tests can run against
// stubs instead of process-wide state.
type Resolver struct {
	catalogs     *catalog.Registry
	db           Database
	analytics    Analytics
	integrations IntegrationAdapter
	skills       *SkillRegistry
	audit        AuditSink

	cache      *bindingCache
	group      singleflight.Group
	defaultTTL time.Duration
	now        func() time.Time
}

// Options configures optional resolver behavior.
type Options struct {
	// DefaultCacheTTL overrides DefaultCacheTTL when positive.
	DefaultCacheTTL time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewResolver creates a resolver over the given catalog registry and
// collaborators. Nil collaborators are allowed; a read that dispatches to a
// nil collaborator fails with a FetchError.
func NewResolver(catalogs *catalog.Registry, db Database, analytics Analytics, integrations IntegrationAdapter, skills *SkillRegistry, audit AuditSink, opts *Options) *Resolver {
	ttl := DefaultCacheTTL
	now := time.Now
	if opts != nil {
		if opts.DefaultCacheTTL > 0 {
			ttl = opts.DefaultCacheTTL
		}
		if opts.Now != nil {
			now = opts.Now
		}
	}
	return &Resolver{
		catalogs:     catalogs,
		db:           db,
		analytics:    analytics,
		integrations: integrations,
		skills:       skills,
		audit:        audit,
		cache:        newBindingCache(now),
		defaultTTL:   ttl,
		now:          now,
	}
}

// FetchData resolves a widget's bind key to a live value. Cache hits return
// without dispatch; concurrent misses for one key are collapsed into a
// single dispatch. Failures propagate and are never cached.
func (r *Resolver) FetchData(ctx context.Context, namespace, bindKey string, params map[string]any) (any, error) {
	ns := r.catalogs.Get(namespace)
	if ns == nil {
		return nil, &NotFoundError{
			Kind:       "namespace",
			Namespace:  namespace,
			Suggestion: suggestClosest(namespace, r.catalogs.Names(), suggestMaxDist),
		}
	}

	def, ok := ns.Reads[bindKey]
	if !ok {
		return nil, &NotFoundError{
			Kind:       "read",
			Namespace:  namespace,
			Key:        bindKey,
			Suggestion: suggestClosest(bindKey, r.catalogs.ReadKeys(namespace), suggestMaxDist),
		}
	}

	key := cacheKey(namespace, bindKey, params)
	if v, ok := r.cache.get(key); ok {
		return v, nil
	}

	ttl := r.defaultTTL
	if def.CacheTTL > 0 {
		ttl = time.Duration(def.CacheTTL) * time.Second
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the entry between our miss and this dispatch.
		if v, ok := r.cache.get(key); ok {
			return v, nil
		}
		v, err := r.dispatch(ctx, namespace, bindKey, def, params)
		if err != nil {
			return nil, err
		}
		r.cache.put(key, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// dispatch routes a read to its declared source collaborator.
func (r *Resolver) dispatch(ctx context.Context, namespace, bindKey string, def catalog.ReadDefinition, params map[string]any) (any, error) {
	var (
		v   any
		err error
	)
	switch def.Source {
	case catalog.SourceDB:
		if r.db == nil {
			err = errors.New("database collaborator not configured")
			break
		}
		v, err = r.db.Query(ctx, def.Query, params)

	case catalog.SourceSkill:
		v, err = r.executeSkillRead(ctx, def.Skill, params)

	case catalog.SourceAnalytics:
		if r.analytics == nil {
			err = errors.New("analytics collaborator not configured")
			break
		}
		v, err = r.analytics.QueryMetric(ctx, def.Metric, def.Window, def.GroupBy, params)

	case catalog.SourceIntegration:
		if r.integrations == nil {
			err = errors.New("integration collaborator not configured")
			break
		}
		v, err = r.integrations.FetchData(ctx, def.Endpoint, params)

	default:
		err = fmt.Errorf("unsupported source '%s'", def.Source)
	}

	if err != nil {
		return nil, &FetchError{Namespace: namespace, Key: bindKey, Err: err}
	}
	return v, nil
}

func (r *Resolver) executeSkillRead(ctx context.Context, name string, params map[string]any) (any, error) {
	skill := r.skills.Get(name)
	if skill == nil {
		return nil, &SkillMissingError{Skill: name}
	}
	res, err := skill.Execute(ctx, params)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("skill '%s' reported: %s", name, res.Error)
	}
	return res.Data, nil
}

// ExecuteAction triggers a catalog action. Confirmation prompts are the
// caller's contract — once this method is invoked it executes
// unconditionally. When the definition requests audit logging, the audit
// entry is appended before the skill runs and is never retracted on skill
// failure.
func (r *Resolver) ExecuteAction(ctx context.Context, namespace, actionKey string, params map[string]any, userID string) (*SkillResult, error) {
	ns := r.catalogs.Get(namespace)
	if ns == nil {
		return nil, &NotFoundError{
			Kind:       "namespace",
			Namespace:  namespace,
			Suggestion: suggestClosest(namespace, r.catalogs.Names(), suggestMaxDist),
		}
	}

	def, ok := ns.Actions[actionKey]
	if !ok {
		return nil, &NotFoundError{
			Kind:       "action",
			Namespace:  namespace,
			Key:        actionKey,
			Suggestion: suggestClosest(actionKey, r.catalogs.ActionKeys(namespace), suggestMaxDist),
		}
	}

	skill := r.skills.Get(def.Skill)
	if skill == nil {
		return nil, &SkillMissingError{Skill: def.Skill}
	}

	// Defaults first, caller params win on collision.
	effective := make(map[string]any, len(def.Args)+len(params))
	for k, v := range def.Args {
		effective[k] = v
	}
	for k, v := range params {
		effective[k] = v
	}

	if len(def.ArgsSchema) > 0 {
		if err := validateArgs(def.ArgsSchema, effective); err != nil {
			return nil, &InvalidArgsError{Namespace: namespace, Key: actionKey, Err: err}
		}
	}

	if def.AuditLog && r.audit != nil {
		entry := AuditEntry{
			Namespace: namespace,
			Action:    actionKey,
			Params:    effective,
			UserID:    userID,
			Timestamp: r.now().UTC(),
		}
		if err := r.audit.Append(ctx, entry); err != nil {
			log.Printf("gateway: audit append for %s.%s failed: %v", namespace, actionKey, err)
		}
	}

	res, err := skill.Execute(ctx, effective)
	if err != nil {
		return nil, &ActionError{Namespace: namespace, Key: actionKey, Err: err}
	}
	if !res.Success {
		return nil, &ActionError{Namespace: namespace, Key: actionKey, Err: fmt.Errorf("skill '%s' reported: %s", def.Skill, res.Error)}
	}
	return res, nil
}

// validateArgs checks effective params against the declared JSON schema.
func validateArgs(schemaRaw []byte, args map[string]any) error {
	sch, err := jsonschema.CompileString("args_schema.json", string(schemaRaw))
	if err != nil {
		return fmt.Errorf("compiling args_schema: %w", err)
	}
	// The schema library validates JSON-shaped values only.
	generic := make(map[string]any, len(args))
	for k, v := range args {
		generic[k] = v
	}
	return sch.Validate(any(generic))
}
