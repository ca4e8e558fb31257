package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrIssuanceNotFound = errors.New("issuance not found")
)

// Operation names carried by notifications.
const (
	OpLoad           = "load"
	OpAddItem        = "add_item"
	OpUpdateItem     = "update_item"
	OpDeleteItem     = "delete_item"
	OpAddIssuance    = "add_issuance"
	OpUpdateIssuance = "update_issuance"
	OpDeleteIssuance = "delete_issuance"
)

// InventoryService is the only writer of the Cache. Every mutation is
// validated locally, sent to the store as a single call, and applied to the
// cache only after the store confirms it. Failures leave the cache as it was
// and are never retried.
//
// Mutations are not serialized: two in-flight edits of the same record are
// applied in the order their store calls complete.
type InventoryService struct {
	store    port.RecordStore
	cache    *Cache
	notifier port.Notifier
	now      func() time.Time
}

type Option func(*InventoryService)

// WithClock overrides the clock used to stamp updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *InventoryService) { s.now = now }
}

func NewInventoryService(store port.RecordStore, cache *Cache, notifier port.Notifier, opts ...Option) *InventoryService {
	if cache == nil {
		cache = NewCache()
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	s := &InventoryService{
		store:    store,
		cache:    cache,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InventoryService) Cache() *Cache {
	return s.cache
}

// Load replaces both collections from the store. If either read fails the
// cache is left empty rather than partially filled.
func (s *InventoryService) Load(ctx context.Context) error {
	var (
		items     []domain.Item
		issuances []domain.Issuance
		g         errgroup.Group
	)
	g.Go(func() error {
		var err error
		items, err = s.store.ListItems(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		issuances, err = s.store.ListIssuances(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cache.Clear()
		s.fail(ctx, OpLoad, err, "Failed to load items")
		return fmt.Errorf("load: %w", err)
	}

	s.cache.Replace(items, issuances)
	return nil
}

func (s *InventoryService) AddItem(ctx context.Context, d ItemDraft) (domain.Item, error) {
	item, err := ParseItem(d)
	if err != nil {
		s.reject(ctx, OpAddItem, err)
		return domain.Item{}, err
	}
	item.UpdatedAt = s.now()

	created, err := s.store.InsertItem(ctx, item)
	if err != nil {
		s.fail(ctx, OpAddItem, err, "Add failed")
		return domain.Item{}, fmt.Errorf("add item: %w", err)
	}

	s.cache.UpsertItem(created)
	s.succeed(ctx, OpAddItem, "Item added")
	return created, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, id string, d ItemDraft) (domain.Item, error) {
	if id == "" {
		err := &ValidationError{Field: "id", Message: "Item id is required"}
		s.reject(ctx, OpUpdateItem, err)
		return domain.Item{}, err
	}
	item, err := ParseItem(d)
	if err != nil {
		s.reject(ctx, OpUpdateItem, err)
		return domain.Item{}, err
	}
	item.ID = id
	item.UpdatedAt = s.now()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		s.fail(ctx, OpUpdateItem, err, "Update failed")
		return domain.Item{}, fmt.Errorf("update item: %w", err)
	}

	s.cache.UpsertItem(item)
	s.succeed(ctx, OpUpdateItem, "Item updated")
	return item, nil
}

// DeleteItem removes the item only. Issuances that reference it stay in the
// cache and keep counting towards its outstanding total.
func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	if id == "" {
		err := &ValidationError{Field: "id", Message: "Item id is required"}
		s.reject(ctx, OpDeleteItem, err)
		return err
	}
	if err := s.store.DeleteItem(ctx, id); err != nil {
		s.fail(ctx, OpDeleteItem, err, "Delete failed")
		return fmt.Errorf("delete item: %w", err)
	}

	s.cache.RemoveItem(id)
	s.succeed(ctx, OpDeleteItem, "Item deleted")
	return nil
}

func (s *InventoryService) AddIssuance(ctx context.Context, d IssuanceDraft) (domain.Issuance, error) {
	rec, err := ParseIssuance(d)
	if err != nil {
		s.reject(ctx, OpAddIssuance, err)
		return domain.Issuance{}, err
	}

	created, err := s.store.InsertIssuance(ctx, rec)
	if err != nil {
		s.fail(ctx, OpAddIssuance, err, "Add failed")
		return domain.Issuance{}, fmt.Errorf("add issuance: %w", err)
	}

	s.cache.UpsertIssuance(created)
	s.succeed(ctx, OpAddIssuance, "Issuance added")
	return created, nil
}

func (s *InventoryService) UpdateIssuance(ctx context.Context, id string, d IssuanceDraft) (domain.Issuance, error) {
	if id == "" {
		err := &ValidationError{Field: "id", Message: "Issuance id is required"}
		s.reject(ctx, OpUpdateIssuance, err)
		return domain.Issuance{}, err
	}
	rec, err := ParseIssuance(d)
	if err != nil {
		s.reject(ctx, OpUpdateIssuance, err)
		return domain.Issuance{}, err
	}
	rec.ID = id

	if err := s.store.UpdateIssuance(ctx, rec); err != nil {
		s.fail(ctx, OpUpdateIssuance, err, "Update failed")
		return domain.Issuance{}, fmt.Errorf("update issuance: %w", err)
	}

	s.cache.UpsertIssuance(rec)
	s.succeed(ctx, OpUpdateIssuance, "Issuance updated")
	return rec, nil
}

func (s *InventoryService) DeleteIssuance(ctx context.Context, id string) error {
	if id == "" {
		err := &ValidationError{Field: "id", Message: "Issuance id is required"}
		s.reject(ctx, OpDeleteIssuance, err)
		return err
	}
	if err := s.store.DeleteIssuance(ctx, id); err != nil {
		s.fail(ctx, OpDeleteIssuance, err, "Delete failed")
		return fmt.Errorf("delete issuance: %w", err)
	}

	s.cache.RemoveIssuance(id)
	s.succeed(ctx, OpDeleteIssuance, "Issuance deleted")
	return nil
}

// ItemsView returns the filtered item list with aggregates attached.
func (s *InventoryService) ItemsView(query string) []ItemRow {
	items, _, outstanding := s.cache.Snapshot()
	return ItemRows(ProjectItems(items, query), outstanding)
}

// IssuancesView returns the filtered issuance list joined with item names.
func (s *InventoryService) IssuancesView(query string) []IssuanceRow {
	items, issuances, _ := s.cache.Snapshot()
	return ProjectIssuances(issuances, items, query)
}

func (s *InventoryService) Outstanding() map[string]int {
	return s.cache.Outstanding()
}

func (s *InventoryService) succeed(ctx context.Context, op, msg string) {
	s.notifier.Notify(ctx, domain.Notification{Level: domain.NotificationSuccess, Op: op, Message: msg})
}

func (s *InventoryService) reject(ctx context.Context, op string, err error) {
	s.notifier.Notify(ctx, domain.Notification{Level: domain.NotificationWarning, Op: op, Message: err.Error()})
}

func (s *InventoryService) fail(ctx context.Context, op string, err error, fallback string) {
	s.notifier.Notify(ctx, domain.Notification{Level: domain.NotificationFailure, Op: op, Message: FailureMessage(err, fallback)})
}

// FailureMessage extracts the message the store reported, or fallback when
// there is none.
func FailureMessage(err error, fallback string) string {
	var se *port.StoreError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return fallback
	}
	var te *port.TransportError
	if errors.As(err, &te) {
		if te.Err != nil && te.Err.Error() != "" {
			return te.Err.Error()
		}
		return fallback
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, domain.Notification) {}
