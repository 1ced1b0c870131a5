package registry

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer receives registry events, typically for metrics. Implementations
// must be safe for concurrent use. A nil Observer disables observation.
type Observer interface {
	RecordRegistration(category string)
	RecordRemoval(category string)
	RecordLookup(hit bool)
	RecordInstance(category string)
}

// Option configures a Registry created by New.
type Option func(*Registry)

// WithObserver attaches an Observer to the registry.
func WithObserver(obs Observer) Option {
	return func(r *Registry) { r.obs = obs }
}

// Registry is the process-wide definition catalog. Construct one at startup
// and pass it by reference to everything that registers or resolves
// definitions; tests construct a fresh instance each to avoid cross-test
// leakage.
type Registry struct {
	catalog *catalog
	logger  *zap.Logger
	obs     Observer
}

// New creates an empty Registry. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		catalog: newCatalog(),
		logger:  logger.With(zap.String("component", "registry")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add stores a definition under its (category, name) key. An existing
// record at that key is replaced wholesale, including any tracked instance
// history — callers must not assume instances survive re-registration.
func (r *Registry) Add(def Definition) error {
	if def.Value == nil {
		return fmt.Errorf("%w: definition %q has no value", ErrConfiguration, def.Name)
	}
	if def.Name == "" {
		return fmt.Errorf("%w: definition in category %q has no name", ErrConfiguration, def.Category)
	}

	rec := &record{
		category:       def.Category,
		name:           def.Name,
		value:          def.Value,
		trackInstances: def.TrackInstances,
		module:         def.Module,
		typeID:         typeID(def.Value),
	}
	if len(def.Tags) > 0 {
		rec.tags = append([]string(nil), def.Tags...)
	}

	if err := r.catalog.put(rec); err != nil {
		return err
	}
	if r.obs != nil {
		r.obs.RecordRegistration(def.Category)
	}
	r.logger.Debug("definition registered",
		zap.String("category", def.Category),
		zap.String("name", def.Name),
		zap.String("package", def.Module.Package))
	return nil
}

// Find returns one projected result per record matching q, in the iteration
// order of the underlying store. No match yields an empty slice and a nil
// error: absence is the caller's error condition, not the registry's. An
// unrecognized result key yields ErrConfiguration.
func (r *Registry) Find(q Query, key ResultKey) ([]any, error) {
	if !key.valid() {
		return nil, fmt.Errorf("%w: unrecognized result key %q", ErrConfiguration, string(key))
	}

	matches := r.catalog.filter(q)
	if r.obs != nil {
		r.obs.RecordLookup(len(matches) > 0)
	}

	var out []any
	for _, rec := range matches {
		switch key {
		case ResultKeyValue:
			out = append(out, rec.Value)
		case ResultKeyInstances:
			for _, inst := range rec.Instances {
				out = append(out, inst.Object)
			}
		case ResultKeyRecord:
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindDefinitions is Find fixed to the value projection. When the supplied
// name looks fully qualified (a Go type identifier such as
// "github.com/acme/tasks.FileCopy"), it takes a fast path through the type
// index instead of scanning the catalog; the result is the same either way.
func (r *Registry) FindDefinitions(q Query) []any {
	if q.Name != "" && strings.Contains(q.Name, ".") {
		if rec, ok := r.catalog.getByType(q.Name); ok {
			if q.matchesSnapshot(rec) {
				if r.obs != nil {
					r.obs.RecordLookup(true)
				}
				return []any{rec.Value}
			}
		}
	}
	out, _ := r.Find(q, ResultKeyValue)
	return out
}

// FindInstances is Find fixed to the instances projection.
func (r *Registry) FindInstances(q Query) []any {
	out, _ := r.Find(q, ResultKeyInstances)
	return out
}

// Get returns the record snapshot at exactly (category, name).
func (r *Registry) Get(category, name string) (Record, bool) {
	rec, ok := r.catalog.get(category, name)
	if r.obs != nil {
		r.obs.RecordLookup(ok)
	}
	return rec, ok
}

// Remove deletes the record at (category, name). Removing an absent key is
// a no-op, not an error; the call is idempotent.
func (r *Registry) Remove(category, name string) error {
	if category == "" || name == "" {
		return fmt.Errorf("%w: category and name must not be empty", ErrInvalidKey)
	}
	if r.catalog.delete(category, name) {
		if r.obs != nil {
			r.obs.RecordRemoval(category)
		}
		r.logger.Debug("definition removed",
			zap.String("category", category),
			zap.String("name", name))
	}
	return nil
}

// TrackInstance appends a constructed object to the live record at
// (category, name). It is a no-op for definitions that did not opt into
// instance tracking and an error when no record exists at the key.
// Factories call it as the last step of construction, so every instance is
// recorded before the constructor's caller receives it.
func (r *Registry) TrackInstance(category, name string, object any) error {
	inst := Instance{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Object:    object,
	}
	tracked, err := r.catalog.append(category, name, inst)
	if err != nil {
		return err
	}
	if tracked && r.obs != nil {
		r.obs.RecordInstance(category)
	}
	return nil
}

// Clear drops every record. Intended for test teardown and full reloads.
func (r *Registry) Clear() {
	r.catalog.clear()
	r.logger.Debug("registry cleared")
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	return r.catalog.len()
}

// Records returns snapshots of every live record in iteration order.
func (r *Registry) Records() []Record {
	return r.catalog.filter(Query{})
}

// matchesSnapshot applies the non-name criteria of q to an already-resolved
// snapshot; the fast path matched the name through the type index.
func (q Query) matchesSnapshot(rec Record) bool {
	if q.Category != "" && q.Category != rec.Category {
		return false
	}
	if len(q.Tags) == 0 {
		return true
	}
	for _, want := range q.Tags {
		if rec.HasTag(want) {
			return true
		}
	}
	return false
}

// typeID derives the fully-qualified type identifier for the secondary
// index. Only named struct types (optionally behind pointers) are indexed:
// factories and template bodies share types across many records, so
// indexing them would be ambiguous.
func typeID(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.PkgPath() == "" || t.Name() == "" {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}
