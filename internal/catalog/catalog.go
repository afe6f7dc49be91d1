package catalog

import (
	"fmt"
	"slices"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog implements the till's price and stock table with in-memory storage.
// It is owned by a single session controller and is not safe for concurrent use.
type Catalog struct {
	items map[string]*domain.Item // key -> item
	keys  []string                // insertion order, for display
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		items: make(map[string]*domain.Item),
	}
}

// FromItems rebuilds a catalog from persisted items, applying the same
// validation as AddItem.
func FromItems(items []domain.Item) (*Catalog, error) {
	c := New()
	for _, it := range items {
		if _, err := c.AddItem(it.Name, it.Price, it.Stock); err != nil {
			return nil, fmt.Errorf("load item %q: %w", it.Name, err)
		}
	}
	return c, nil
}

// MergeDuplicates folds items whose names normalize to the same key into the
// first one, adding up their stock. Files written before names were
// case-insensitive can hold such rows. The dropped rows are returned.
func MergeDuplicates(items []domain.Item) (merged, dropped []domain.Item) {
	index := make(map[string]int, len(items))
	for _, it := range items {
		key := domain.NormalizeKey(it.Name)
		if i, seen := index[key]; seen {
			merged[i].Stock += it.Stock
			dropped = append(dropped, it)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, it)
	}
	return merged, dropped
}

// AddItem registers a new item under the normalized form of name
func (c *Catalog) AddItem(name string, price decimal.Decimal, stock int) (domain.Item, error) {
	key := domain.NormalizeKey(name)
	if key == "" {
		return domain.Item{}, fmt.Errorf("%w: item name is required", domain.ErrInvalidValue)
	}
	if _, exists := c.items[key]; exists {
		return domain.Item{}, fmt.Errorf("%w: %q", domain.ErrDuplicateItem, name)
	}
	if !price.IsPositive() {
		return domain.Item{}, fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidValue)
	}
	if stock < 0 {
		return domain.Item{}, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidValue)
	}

	item := &domain.Item{
		Key:   key,
		Name:  domain.CleanName(name),
		Price: price,
		Stock: stock,
	}
	c.items[key] = item
	c.keys = append(c.keys, key)
	return *item, nil
}

// UpdatePrice changes the price charged for future order lines
func (c *Catalog) UpdatePrice(name string, price decimal.Decimal) error {
	item, exists := c.items[domain.NormalizeKey(name)]
	if !exists {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidValue)
	}
	item.Price = price
	return nil
}

// AdjustStock applies a signed delta and returns the new stock level.
// Positive deltas never fail for an existing item.
func (c *Catalog) AdjustStock(name string, delta int) (int, error) {
	item, exists := c.items[domain.NormalizeKey(name)]
	if !exists {
		return 0, fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	if item.Stock+delta < 0 {
		return item.Stock, fmt.Errorf("%w: %q has %d, cannot remove %d", domain.ErrInsufficientStock, item.Name, item.Stock, -delta)
	}
	item.Stock += delta
	return item.Stock, nil
}

// ApplyDeltas adjusts several items at once. Either every delta is applied or,
// on the first missing key or would-be negative stock, none is.
func (c *Catalog) ApplyDeltas(deltas map[string]int) error {
	merged := make(map[string]int, len(deltas))
	for k, d := range deltas {
		merged[domain.NormalizeKey(k)] += d
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	// First pass: validate every key
	for _, k := range keys {
		item, exists := c.items[k]
		if !exists {
			return fmt.Errorf("%w: %q", domain.ErrNotFound, k)
		}
		if item.Stock+merged[k] < 0 {
			return fmt.Errorf("%w: %q has %d, cannot remove %d", domain.ErrInsufficientStock, item.Name, item.Stock, -merged[k])
		}
	}

	// Second pass: mutate
	for _, k := range keys {
		c.items[k].Stock += merged[k]
	}
	return nil
}

// RemoveItem deletes an item and returns what was removed
func (c *Catalog) RemoveItem(name string) (domain.Item, error) {
	key := domain.NormalizeKey(name)
	item, exists := c.items[key]
	if !exists {
		return domain.Item{}, fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	delete(c.items, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
	return *item, nil
}

// Lookup returns a copy of the item stored under name, if any
func (c *Catalog) Lookup(name string) (domain.Item, bool) {
	item, exists := c.items[domain.NormalizeKey(name)]
	if !exists {
		return domain.Item{}, false
	}
	return *item, true
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Snapshot copies the current state. Later catalog changes do not show through.
func (c *Catalog) Snapshot() Snapshot {
	items := make([]domain.Item, 0, len(c.keys))
	for _, k := range c.keys {
		items = append(items, *c.items[k])
	}
	return newSnapshot(items)
}
