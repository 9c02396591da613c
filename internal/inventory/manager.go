// Package inventory manages stock lines keyed by item ID.
package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/collection"
	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// ReportLine is one item in an inventory report.
type ReportLine struct {
	Item     types.Item
	LowStock bool
}

// Manager is the inventory.
type Manager struct {
	items     *collection.Collection[types.Item]
	threshold int
	log       *zap.Logger
}

// NewManager loads the inventory from s. Items with quantity below
// threshold are flagged in reports; a non-positive threshold uses
// types.DefaultLowStockThreshold.
func NewManager(s store.Store[types.Item], threshold int, log *zap.Logger) (*Manager, error) {
	log = logging.OrNop(log)
	if threshold <= 0 {
		threshold = types.DefaultLowStockThreshold
	}
	c := collection.New(s, log.With(zap.String("collection", types.CollectionInventory)))
	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	return &Manager{items: c, threshold: threshold, log: log}, nil
}

// Threshold returns the low-stock threshold.
func (m *Manager) Threshold() int {
	return m.threshold
}

// Add stores it. It fails with types.ErrDuplicate if the ID is taken.
func (m *Manager) Add(it types.Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	return m.items.Add(it)
}

// Remove deletes the item with id.
func (m *Manager) Remove(id string) (types.Item, error) {
	return m.items.Remove(strings.TrimSpace(id))
}

// Get returns the item with id.
func (m *Manager) Get(id string) (types.Item, bool) {
	return m.items.Get(strings.TrimSpace(id))
}

// UpdateQuantity sets the quantity of the item with id.
func (m *Manager) UpdateQuantity(id string, quantity int) (types.Item, error) {
	return m.items.Update(strings.TrimSpace(id), func(it *types.Item) error {
		it.Quantity = quantity
		return it.Validate()
	})
}

// UpdatePrice sets the price of the item with id.
func (m *Manager) UpdatePrice(id string, price float64) (types.Item, error) {
	return m.items.Update(strings.TrimSpace(id), func(it *types.Item) error {
		it.Price = price
		return it.Validate()
	})
}

// Search matches keyword against item name and category, ignoring case.
func (m *Manager) Search(keyword string) []types.Item {
	return m.items.Search(strings.TrimSpace(keyword))
}

// Report lists every item and flags those below the low-stock threshold.
func (m *Manager) Report() []ReportLine {
	all := m.items.All()
	lines := make([]ReportLine, 0, len(all))
	for _, it := range all {
		lines = append(lines, ReportLine{Item: it, LowStock: it.LowStock(m.threshold)})
	}
	return lines
}

// TotalValue sums quantity times price over all items.
func (m *Manager) TotalValue() float64 {
	var total float64
	for _, it := range m.items.All() {
		total += it.Value()
	}
	return total
}

// All returns the items in stored order.
func (m *Manager) All() []types.Item {
	return m.items.All()
}

// Len returns the number of items.
func (m *Manager) Len() int {
	return m.items.Len()
}

// Save rewrites the store.
func (m *Manager) Save() error {
	return m.items.Save()
}

// ExportCSV writes every item to path with header id,name,category,quantity,price.
func (m *Manager) ExportCSV(path string) error {
	return store.ExportCSV[types.Item](path, CSVCodec{}, m.items.All())
}

// ImportCSV adds each valid row of path. Invalid and duplicate rows are
// skipped and returned.
func (m *Manager) ImportCSV(path string) (int, []error, error) {
	rows, rowErrs, err := store.ImportCSV[types.Item](path, CSVCodec{})
	if err != nil {
		return 0, nil, err
	}
	var skipped []error
	for _, re := range rowErrs {
		skipped = append(skipped, re)
	}
	imported := 0
	for _, it := range rows {
		if err := m.items.Add(it); err != nil {
			skipped = append(skipped, fmt.Errorf("item %s: %w", it.ID, err))
			m.log.Warn("skipping item on import", zap.String("id", it.ID), zap.Error(err))
			continue
		}
		imported++
	}
	return imported, skipped, nil
}

// CSVCodec maps items to id,name,category,quantity,price rows.
type CSVCodec struct{}

// Header returns the inventory CSV columns.
func (CSVCodec) Header() []string {
	return []string{"id", "name", "category", "quantity", "price"}
}

// Row renders it.
func (CSVCodec) Row(it types.Item) []string {
	return []string{
		it.ID,
		it.Name,
		it.Category,
		strconv.Itoa(it.Quantity),
		strconv.FormatFloat(it.Price, 'f', -1, 64),
	}
}

// Parse builds a validated item from one row.
func (CSVCodec) Parse(fields []string) (types.Item, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return types.Item{}, &types.FieldError{Field: "quantity", Reason: "not an integer"}
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return types.Item{}, &types.FieldError{Field: "price", Reason: "not a number"}
	}
	return types.NewItem(fields[0], fields[1], fields[2], qty, price)
}
