package types

import (
	"fmt"
	"strings"
)

// DefaultLowStockThreshold is the quantity below which an item is reported
// as low on stock.
const DefaultLowStockThreshold = 5

// Item is one inventory line keyed by ID.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// NewItem validates raw input and returns an Item with trimmed text fields.
func NewItem(id, name, category string, quantity int, price float64) (Item, error) {
	it := Item{
		ID:       strings.TrimSpace(id),
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Quantity: quantity,
		Price:    price,
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Validate checks the item fields.
func (it Item) Validate() error {
	if it.ID == "" {
		return fieldErr("id", "must not be empty")
	}
	if it.Name == "" {
		return fieldErr("name", "must not be empty")
	}
	if it.Quantity < 0 {
		return fieldErr("quantity", "must not be negative")
	}
	if it.Price < 0 {
		return fieldErr("price", "must not be negative")
	}
	return nil
}

// Keys returns the item ID.
func (it Item) Keys() []string {
	return []string{it.ID}
}

// SearchFields returns name and category.
func (it Item) SearchFields() []string {
	return []string{it.Name, it.Category}
}

// LowStock reports whether the quantity is below threshold.
func (it Item) LowStock(threshold int) bool {
	return it.Quantity < threshold
}

// Value is quantity times price.
func (it Item) Value() float64 {
	return float64(it.Quantity) * it.Price
}

func (it Item) String() string {
	return fmt.Sprintf("%s: %s [%s] qty=%d price=%.2f", it.ID, it.Name, it.Category, it.Quantity, it.Price)
}
