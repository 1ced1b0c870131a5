package registry

import "time"

// ModuleMetadata identifies the package a definition originated from.
// It is attached automatically at registration time and is used for
// diagnostics only; it never participates in lookup.
type ModuleMetadata struct {
	Package string `json:"package,omitempty"`
	Version string `json:"version,omitempty"`
}

// Definition is the unit handed to Add: the declarative description of one
// registered entity.
type Definition struct {
	// Category is the functional grouping, e.g. "task" or "report template".
	// Required; names are unique within a category.
	Category string
	// Name is the symbolic lookup key used by workflow descriptions.
	Name string
	// Value is the registered entity itself: a factory, a parsed template
	// body, or any other value the consuming engine knows how to use.
	Value any
	// Tags are optional case-sensitive labels for OR-based discovery.
	Tags []string
	// TrackInstances opts this definition into per-construction instance
	// recording via TrackInstance.
	TrackInstances bool
	// Module records the originating package. Filled in by Binder; may be
	// set explicitly when registering outside a plugin entry point.
	Module ModuleMetadata
}

// Instance is a lightweight descriptor of one constructed object belonging
// to a tracked definition.
type Instance struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Object    any       `json:"-"`
}

// Record is an immutable snapshot of one catalog entry, as returned by the
// ResultKeyRecord projection and by Records. Mutations after the snapshot
// was taken are not reflected in it.
type Record struct {
	Category       string         `json:"category"`
	Name           string         `json:"name"`
	Value          any            `json:"-"`
	Tags           []string       `json:"tags,omitempty"`
	Instances      []Instance     `json:"instances,omitempty"`
	TrackInstances bool           `json:"track_instances"`
	Module         ModuleMetadata `json:"module"`
}

// HasTag reports whether the record carries the given tag. Matching is
// case-sensitive.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Query narrows a Find. Zero-value fields do not filter: an empty Query
// matches every record. Criteria kinds combine with logical AND; the tags
// within Tags combine with logical OR.
type Query struct {
	Category string
	Name     string
	Tags     []string
}

func (q Query) matches(rec *record) bool {
	if q.Category != "" && q.Category != rec.category {
		return false
	}
	if q.Name != "" && q.Name != rec.name {
		return false
	}
	if len(q.Tags) > 0 {
		hit := false
	scan:
		for _, want := range q.Tags {
			for _, have := range rec.tags {
				if want == have {
					hit = true
					break scan
				}
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// ResultKey selects what Find returns per matching record.
type ResultKey string

const (
	// ResultKeyValue projects the registered value (the default for most
	// callers; what a workflow engine resolves a step name to).
	ResultKeyValue ResultKey = "value"
	// ResultKeyInstances projects the tracked instance objects, flattened
	// across matches in construction order.
	ResultKeyInstances ResultKey = "instances"
	// ResultKeyRecord projects the full Record snapshot.
	ResultKeyRecord ResultKey = "record"
)

func (k ResultKey) valid() bool {
	switch k {
	case ResultKeyValue, ResultKeyInstances, ResultKeyRecord:
		return true
	}
	return false
}
