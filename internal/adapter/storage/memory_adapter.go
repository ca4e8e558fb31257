package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

// MemoryAdapter is an in-process RecordStore. Lists follow the same order
// as the database backends.
type MemoryAdapter struct {
	mu        sync.Mutex
	items     map[string]domain.Item
	issuances map[string]domain.Issuance
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		items:     make(map[string]domain.Item),
		issuances: make(map[string]domain.Issuance),
	}
}

func (m *MemoryAdapter) ListItems(ctx context.Context) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (m *MemoryAdapter) InsertItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item.ID = uuid.NewString()
	m.items[item.ID] = item
	return item, nil
}

func (m *MemoryAdapter) UpdateItem(ctx context.Context, item domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.ID]; !ok {
		return port.NotFound("update item")
	}
	m.items[item.ID] = item
	return nil
}

func (m *MemoryAdapter) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return port.NotFound("delete item")
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryAdapter) ListIssuances(ctx context.Context) ([]domain.Issuance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Issuance, 0, len(m.issuances))
	for _, rec := range m.issuances {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IssuedAt != out[j].IssuedAt {
			return out[j].IssuedAt.Before(out[i].IssuedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryAdapter) InsertIssuance(ctx context.Context, rec domain.Issuance) (domain.Issuance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = uuid.NewString()
	m.issuances[rec.ID] = rec
	return rec, nil
}

func (m *MemoryAdapter) UpdateIssuance(ctx context.Context, rec domain.Issuance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.issuances[rec.ID]; !ok {
		return port.NotFound("update issued")
	}
	m.issuances[rec.ID] = rec
	return nil
}

func (m *MemoryAdapter) DeleteIssuance(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.issuances[id]; !ok {
		return port.NotFound("delete issued")
	}
	delete(m.issuances, id)
	return nil
}
