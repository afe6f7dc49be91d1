package catalog

import "github.com/fjod/go_till/internal/domain"

// Snapshot is a read-only copy of the catalog at one point in time.
type Snapshot struct {
	items []domain.Item
	index map[string]int
}

func newSnapshot(items []domain.Item) Snapshot {
	index := make(map[string]int, len(items))
	for i, it := range items {
		index[it.Key] = i
	}
	return Snapshot{items: items, index: index}
}

// Items returns the snapshot's items in catalog order. The slice is a copy.
func (s Snapshot) Items() []domain.Item {
	return append([]domain.Item(nil), s.items...)
}

// Get looks an item up by name or key
func (s Snapshot) Get(name string) (domain.Item, bool) {
	i, ok := s.index[domain.NormalizeKey(name)]
	if !ok {
		return domain.Item{}, false
	}
	return s.items[i], true
}

// Stock returns key -> stock level
func (s Snapshot) Stock() map[string]int {
	stock := make(map[string]int, len(s.items))
	for _, it := range s.items {
		stock[it.Key] = it.Stock
	}
	return stock
}

func (s Snapshot) Len() int {
	return len(s.items)
}
