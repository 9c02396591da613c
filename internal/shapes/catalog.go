// Package shapes stores a catalog of shapes and answers area queries.
package shapes

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/collection"
	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Catalog is the persisted list of shapes.
type Catalog struct {
	shapes *collection.Collection[types.ShapeRecord]
	newID  func() string
}

// New loads the catalog from s.
func New(s store.Store[types.ShapeRecord], log *zap.Logger) (*Catalog, error) {
	log = logging.OrNop(log)
	c := collection.New(s, log.With(zap.String("collection", types.CollectionShapes)))
	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("shapes: %w", err)
	}
	return &Catalog{shapes: c, newID: generateID}, nil
}

// Add stores shape under a new ID and returns the record.
func (c *Catalog) Add(shape types.Shape) (types.ShapeRecord, error) {
	r := types.ShapeRecord{ID: c.newID(), Shape: shape}
	if err := r.Validate(); err != nil {
		return types.ShapeRecord{}, err
	}
	if err := c.shapes.Add(r); err != nil {
		return types.ShapeRecord{}, err
	}
	return r, nil
}

// Remove deletes the shape with id.
func (c *Catalog) Remove(id string) (types.ShapeRecord, error) {
	return c.shapes.Remove(strings.TrimSpace(id))
}

// Get returns the shape with id.
func (c *Catalog) Get(id string) (types.ShapeRecord, bool) {
	return c.shapes.Get(strings.TrimSpace(id))
}

// Sorted returns the records ordered by ascending area. Equal areas keep
// their stored order. The stored order is not changed.
func (c *Catalog) Sorted() []types.ShapeRecord {
	out := c.shapes.All()
	slices.SortStableFunc(out, func(a, b types.ShapeRecord) int {
		return cmp.Compare(a.Shape.Area(), b.Shape.Area())
	})
	return out
}

// TotalArea sums the area of every shape.
func (c *Catalog) TotalArea() float64 {
	var total float64
	for _, r := range c.shapes.All() {
		total += r.Shape.Area()
	}
	return total
}

// All returns the records in stored order.
func (c *Catalog) All() []types.ShapeRecord {
	return c.shapes.All()
}

// Len returns the number of shapes.
func (c *Catalog) Len() int {
	return c.shapes.Len()
}

// Save rewrites the store.
func (c *Catalog) Save() error {
	return c.shapes.Save()
}

// generateID returns a UUID v7, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
