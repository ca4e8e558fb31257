package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

// Mock RecordStore
type mockRecordStore struct {
	mu        sync.Mutex
	items     []domain.Item
	issuances []domain.Issuance
	nextID    int
	calls     map[string]int
	errs      map[string]error
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{
		calls: make(map[string]int),
		errs:  make(map[string]error),
	}
}

func (m *mockRecordStore) failOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[op] = err
}

func (m *mockRecordStore) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockRecordStore) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *mockRecordStore) enter(op string) error {
	m.calls[op]++
	return m.errs[op]
}

func (m *mockRecordStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListItems"); err != nil {
		return nil, err
	}
	return append([]domain.Item(nil), m.items...), nil
}

func (m *mockRecordStore) InsertItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("InsertItem"); err != nil {
		return domain.Item{}, err
	}
	m.nextID++
	item.ID = fmt.Sprintf("gen-%d", m.nextID)
	m.items = append([]domain.Item{item}, m.items...)
	return item, nil
}

func (m *mockRecordStore) UpdateItem(ctx context.Context, item domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateItem"); err != nil {
		return err
	}
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = item
			return nil
		}
	}
	return port.NotFound("update item")
}

func (m *mockRecordStore) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteItem"); err != nil {
		return err
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return port.NotFound("delete item")
}

func (m *mockRecordStore) ListIssuances(ctx context.Context) ([]domain.Issuance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListIssuances"); err != nil {
		return nil, err
	}
	return append([]domain.Issuance(nil), m.issuances...), nil
}

func (m *mockRecordStore) InsertIssuance(ctx context.Context, rec domain.Issuance) (domain.Issuance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("InsertIssuance"); err != nil {
		return domain.Issuance{}, err
	}
	m.nextID++
	rec.ID = fmt.Sprintf("iss-%d", m.nextID)
	m.issuances = append([]domain.Issuance{rec}, m.issuances...)
	return rec, nil
}

func (m *mockRecordStore) UpdateIssuance(ctx context.Context, rec domain.Issuance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateIssuance"); err != nil {
		return err
	}
	for i := range m.issuances {
		if m.issuances[i].ID == rec.ID {
			m.issuances[i] = rec
			return nil
		}
	}
	return port.NotFound("update issuance")
}

func (m *mockRecordStore) DeleteIssuance(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteIssuance"); err != nil {
		return err
	}
	for i := range m.issuances {
		if m.issuances[i].ID == id {
			m.issuances = append(m.issuances[:i], m.issuances[i+1:]...)
			return nil
		}
	}
	return port.NotFound("delete issuance")
}

// Mock Notifier
type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) last() (domain.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return domain.Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}
