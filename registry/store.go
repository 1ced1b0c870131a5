package registry

import (
	"fmt"
	"sync"
)

// record is the mutable catalog entry. Everything except instances is fixed
// at creation; instances grows under the catalog lock.
type record struct {
	category       string
	name           string
	value          any
	tags           []string
	trackInstances bool
	module         ModuleMetadata
	typeID         string
	instances      []Instance
}

func (r *record) snapshot() Record {
	rec := Record{
		Category:       r.category,
		Name:           r.name,
		Value:          r.value,
		TrackInstances: r.trackInstances,
		Module:         r.module,
	}
	if len(r.tags) > 0 {
		rec.Tags = append([]string(nil), r.tags...)
	}
	if len(r.instances) > 0 {
		rec.Instances = append([]Instance(nil), r.instances...)
	}
	return rec
}

type catalogKey struct {
	category string
	name     string
}

// catalog is the primitive store: insert/lookup/delete keyed by
// (category, name), with a stable iteration order and a secondary index
// from fully-qualified type identifier to key. All access goes through the
// read-write lock so instance appends can race with steady-state lookups
// without torn reads.
type catalog struct {
	mu      sync.RWMutex
	records map[catalogKey]*record
	order   []catalogKey
	byType  map[string]catalogKey
}

func newCatalog() *catalog {
	return &catalog{
		records: make(map[catalogKey]*record),
		byType:  make(map[string]catalogKey),
	}
}

// put inserts or replaces the record at (category, name). Replacement keeps
// the key's slot in iteration order; a key re-added after delete goes to
// the back.
func (c *catalog) put(rec *record) error {
	if rec.category == "" || rec.name == "" {
		return fmt.Errorf("%w: category and name must not be empty", ErrInvalidKey)
	}
	k := catalogKey{category: rec.category, name: rec.name}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, exists := c.records[k]; exists {
		if old.typeID != "" && c.byType[old.typeID] == k {
			delete(c.byType, old.typeID)
		}
	} else {
		c.order = append(c.order, k)
	}
	c.records[k] = rec
	if rec.typeID != "" {
		c.byType[rec.typeID] = k
	}
	return nil
}

func (c *catalog) get(category, name string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[catalogKey{category: category, name: name}]
	if !ok {
		return Record{}, false
	}
	return rec.snapshot(), true
}

// getByType resolves a record through the fully-qualified type index.
func (c *catalog) getByType(typeID string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.byType[typeID]
	if !ok {
		return Record{}, false
	}
	rec, ok := c.records[k]
	if !ok {
		return Record{}, false
	}
	return rec.snapshot(), true
}

// delete removes the record if present. Removing an absent key is a no-op.
func (c *catalog) delete(category, name string) bool {
	k := catalogKey{category: category, name: name}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[k]
	if !ok {
		return false
	}
	delete(c.records, k)
	if rec.typeID != "" && c.byType[rec.typeID] == k {
		delete(c.byType, rec.typeID)
	}
	for i, ord := range c.order {
		if ord == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// append records one constructed instance on a tracked definition. It is a
// no-op for definitions that did not opt into tracking, keeping the
// "instances never populated for others" invariant.
func (c *catalog) append(category, name string, inst Instance) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[catalogKey{category: category, name: name}]
	if !ok {
		return false, fmt.Errorf("%w: no record for %s/%s", ErrInvalidKey, category, name)
	}
	if !rec.trackInstances {
		return false, nil
	}
	rec.instances = append(rec.instances, inst)
	return true, nil
}

func (c *catalog) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[catalogKey]*record)
	c.byType = make(map[string]catalogKey)
	c.order = nil
}

func (c *catalog) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// filter returns snapshots of every record matching q, in iteration order.
// A fresh snapshot is taken on every call.
func (c *catalog) filter(q Query) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Record
	for _, k := range c.order {
		rec, ok := c.records[k]
		if !ok {
			continue
		}
		if q.matches(rec) {
			out = append(out, rec.snapshot())
		}
	}
	return out
}
