package port

import (
	"context"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type ItemRepository interface {
	// ListItems returns every item, most recently updated first
	ListItems(ctx context.Context) ([]domain.Item, error)

	// InsertItem persists a new item and returns it with its assigned ID
	InsertItem(ctx context.Context, item domain.Item) (domain.Item, error)

	// UpdateItem overwrites the item with the same ID
	UpdateItem(ctx context.Context, item domain.Item) error

	// DeleteItem removes one item by ID
	DeleteItem(ctx context.Context, id string) error
}

type IssuanceRepository interface {
	// ListIssuances returns every issuance, latest issue date first
	ListIssuances(ctx context.Context) ([]domain.Issuance, error)

	// InsertIssuance persists a new issuance and returns it with its assigned ID
	InsertIssuance(ctx context.Context, rec domain.Issuance) (domain.Issuance, error)

	// UpdateIssuance overwrites the issuance with the same ID
	UpdateIssuance(ctx context.Context, rec domain.Issuance) error

	// DeleteIssuance removes one issuance by ID
	DeleteIssuance(ctx context.Context, id string) error
}

// RecordStore is the remote data store holding the items and issued collections.
type RecordStore interface {
	ItemRepository
	IssuanceRepository
}
