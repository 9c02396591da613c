// Package collection implements the in-memory manager shared by every tally
// domain: an ordered list of entities indexed by their unique keys, rewritten
// to its store after each successful mutation.
package collection

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Entity is a record the collection can index and search.
type Entity interface {
	// Keys returns the unique keys of the entity. Empty keys are ignored.
	Keys() []string
	// SearchFields returns the text matched by Search.
	SearchFields() []string
}

// Collection holds entities in insertion order. It is not safe for
// concurrent use.
type Collection[T Entity] struct {
	store store.Store[T]
	log   *zap.Logger
	items []T
	index map[string]int
}

// New returns an empty collection persisted to s. Call Load to read the
// stored records.
func New[T Entity](s store.Store[T], log *zap.Logger) *Collection[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collection[T]{store: s, log: log, index: make(map[string]int)}
}

// Load replaces the contents with the stored records. A record whose key
// is already taken by an earlier record is skipped and logged.
func (c *Collection[T]) Load() error {
	loaded, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	c.items = c.items[:0]
	c.index = make(map[string]int, len(loaded))
	for i, v := range loaded {
		if k, dup := c.firstTaken(v, -1); dup {
			c.log.Warn("skipping duplicate record", zap.Int("index", i), zap.String("key", k))
			continue
		}
		c.items = append(c.items, v)
		c.indexAt(len(c.items) - 1)
	}
	return nil
}

// Save rewrites the store with the current contents.
func (c *Collection[T]) Save() error {
	return c.store.Save(c.items)
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// All returns a copy of the entities in order.
func (c *Collection[T]) All() []T {
	return slices.Clone(c.items)
}

// Get returns the entity holding key.
func (c *Collection[T]) Get(key string) (T, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Has reports whether any entity holds key.
func (c *Collection[T]) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Search returns the entities with a search field containing keyword,
// ignoring case, in order. The result may be empty.
func (c *Collection[T]) Search(keyword string) []T {
	needle := strings.ToLower(keyword)
	var out []T
	for _, v := range c.items {
		for _, f := range v.SearchFields() {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

// Add appends v. It fails with types.ErrDuplicate if any key of v is
// already held, leaving the collection unchanged.
func (c *Collection[T]) Add(v T) error {
	if k, dup := c.firstTaken(v, -1); dup {
		return fmt.Errorf("%w: %s", types.ErrDuplicate, k)
	}
	prev := c.items
	c.items = append(slices.Clip(c.items), v)
	return c.commit(prev)
}

// Remove deletes the entity holding key and returns it. It fails with
// types.ErrNotFound if no entity holds key.
func (c *Collection[T]) Remove(key string) (T, error) {
	i, ok := c.index[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", types.ErrNotFound, key)
	}
	removed := c.items[i]
	prev := c.items
	c.items = slices.Delete(slices.Clone(c.items), i, i+1)
	if err := c.commit(prev); err != nil {
		var zero T
		return zero, err
	}
	return removed, nil
}

// Update applies fn to a copy of the entity holding key and stores the
// result. It fails with types.ErrNotFound if no entity holds key. If fn
// returns an error, or the new keys collide with another entity, the
// collection is unchanged. Entities holding slices must not be mutated in
// place by fn; clone before modifying.
func (c *Collection[T]) Update(key string, fn func(*T) error) (T, error) {
	var zero T
	i, ok := c.index[key]
	if !ok {
		return zero, fmt.Errorf("%w: %s", types.ErrNotFound, key)
	}
	v := c.items[i]
	if err := fn(&v); err != nil {
		return zero, err
	}
	if k, dup := c.firstTaken(v, i); dup {
		return zero, fmt.Errorf("%w: %s", types.ErrDuplicate, k)
	}
	prev := c.items
	c.items = slices.Clone(c.items)
	c.items[i] = v
	if err := c.commit(prev); err != nil {
		return zero, err
	}
	return v, nil
}

// Sort reorders the entities with a stable sort and saves the new order.
func (c *Collection[T]) Sort(compare func(a, b T) int) error {
	prev := c.items
	c.items = slices.Clone(c.items)
	slices.SortStableFunc(c.items, compare)
	return c.commit(prev)
}

// SortBy returns a compare function ordering entities by the string field.
func SortBy[T any](field func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(field(a)), strings.ToLower(field(b)))
	}
}

// commit reindexes and saves. If the save fails the previous contents are
// restored so memory and store stay in step.
func (c *Collection[T]) commit(prev []T) error {
	c.reindex()
	if err := c.store.Save(c.items); err != nil {
		c.items = prev
		c.reindex()
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (c *Collection[T]) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i := range c.items {
		c.indexAt(i)
	}
}

func (c *Collection[T]) indexAt(i int) {
	for _, k := range c.items[i].Keys() {
		if k != "" {
			c.index[k] = i
		}
	}
}

// firstTaken returns the first key of v held by an entity other than the
// one at position self.
func (c *Collection[T]) firstTaken(v T, self int) (string, bool) {
	for _, k := range v.Keys() {
		if k == "" {
			continue
		}
		if j, ok := c.index[k]; ok && j != self {
			return k, true
		}
	}
	return "", false
}
