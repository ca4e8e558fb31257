package service

import (
	"sync"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Cache holds the local copies of the items and issued collections in the
// order the store delivered them. New records go to the front; updates and
// removals happen in place. It performs no I/O.
//
// The outstanding aggregate is rebuilt under the lock on every issuance
// change, so readers never see it out of step with the issuances.
type Cache struct {
	mu          sync.RWMutex
	items       []domain.Item
	issuances   []domain.Issuance
	outstanding map[string]int
	loaded      bool
}

func NewCache() *Cache {
	return &Cache{outstanding: map[string]int{}}
}

// Replace swaps both collections wholesale.
func (c *Cache) Replace(items []domain.Item, issuances []domain.Issuance) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append([]domain.Item(nil), items...)
	c.issuances = append([]domain.Issuance(nil), issuances...)
	c.outstanding = Aggregate(c.issuances)
	c.loaded = true
}

// Clear empties both collections and marks the cache as not loaded.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.issuances = nil
	c.outstanding = map[string]int{}
	c.loaded = false
}

// Loaded reports whether the last load succeeded.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Cache) Items() []domain.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Item(nil), c.items...)
}

func (c *Cache) Issuances() []domain.Issuance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Issuance(nil), c.issuances...)
}

// Snapshot returns copies of both collections and the aggregate taken under
// one lock.
func (c *Cache) Snapshot() ([]domain.Item, []domain.Issuance, map[string]int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Item(nil), c.items...),
		append([]domain.Issuance(nil), c.issuances...),
		copyCounts(c.outstanding)
}

func (c *Cache) Item(id string) (domain.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.itemIndex(id); i >= 0 {
		return c.items[i], true
	}
	return domain.Item{}, false
}

func (c *Cache) Issuance(id string) (domain.Issuance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.issuanceIndex(id); i >= 0 {
		return c.issuances[i], true
	}
	return domain.Issuance{}, false
}

func (c *Cache) Outstanding() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyCounts(c.outstanding)
}

func (c *Cache) OutstandingFor(itemID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.outstanding[itemID]
}

// UpsertItem replaces the item with the same ID in place, or prepends it.
func (c *Cache) UpsertItem(item domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.itemIndex(item.ID); i >= 0 {
		c.items[i] = item
		return
	}
	c.items = append([]domain.Item{item}, c.items...)
}

// RemoveItem drops the item and reports whether it was present. Issuances
// referencing it are kept.
func (c *Cache) RemoveItem(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.itemIndex(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return true
}

// UpsertIssuance replaces the issuance with the same ID in place, or prepends it.
func (c *Cache) UpsertIssuance(rec domain.Issuance) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.issuanceIndex(rec.ID); i >= 0 {
		c.issuances[i] = rec
	} else {
		c.issuances = append([]domain.Issuance{rec}, c.issuances...)
	}
	c.outstanding = Aggregate(c.issuances)
}

func (c *Cache) RemoveIssuance(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.issuanceIndex(id)
	if i < 0 {
		return false
	}
	c.issuances = append(c.issuances[:i:i], c.issuances[i+1:]...)
	c.outstanding = Aggregate(c.issuances)
	return true
}

func (c *Cache) itemIndex(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cache) issuanceIndex(id string) int {
	for i := range c.issuances {
		if c.issuances[i].ID == id {
			return i
		}
	}
	return -1
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
