package service

import (
	"context"
	"fmt"
)

// Intent is emitted by a rendering layer and consumed by Session.Dispatch.
type Intent interface {
	intent()
}

type (
	OpenAddItem     struct{}
	EditItem        struct{ ID string }
	DeleteItem      struct{ ID string }
	OpenAddIssuance struct{}
	EditIssuance    struct{ ID string }
	DeleteIssuance  struct{ ID string }
	SearchItems     struct{ Query string }
	SearchIssuances struct{ Query string }
	Reload          struct{}
)

func (OpenAddItem) intent()     {}
func (EditItem) intent()        {}
func (DeleteItem) intent()      {}
func (OpenAddIssuance) intent() {}
func (EditIssuance) intent()    {}
func (DeleteIssuance) intent()  {}
func (SearchItems) intent()     {}
func (SearchIssuances) intent() {}
func (Reload) intent()          {}

// Session holds the per-user view state: the filter text of both views and
// the two forms. It is owned by one caller and is not safe for concurrent use.
type Session struct {
	svc           *InventoryService
	itemForm      *ItemForm
	issuanceForm  *IssuanceForm
	itemQuery     string
	issuanceQuery string
}

func NewSession(svc *InventoryService) *Session {
	return &Session{
		svc:          svc,
		itemForm:     NewItemForm(svc),
		issuanceForm: NewIssuanceForm(svc),
	}
}

func (s *Session) ItemForm() *ItemForm         { return s.itemForm }
func (s *Session) IssuanceForm() *IssuanceForm { return s.issuanceForm }

func (s *Session) Dispatch(ctx context.Context, in Intent) error {
	switch in := in.(type) {
	case OpenAddItem:
		s.itemForm.OpenAdd()
	case EditItem:
		item, ok := s.svc.Cache().Item(in.ID)
		if !ok {
			return fmt.Errorf("edit item %s: %w", in.ID, ErrItemNotFound)
		}
		s.itemForm.OpenEdit(item)
	case DeleteItem:
		return s.svc.DeleteItem(ctx, in.ID)
	case OpenAddIssuance:
		s.issuanceForm.OpenAdd()
	case EditIssuance:
		rec, ok := s.svc.Cache().Issuance(in.ID)
		if !ok {
			return fmt.Errorf("edit issuance %s: %w", in.ID, ErrIssuanceNotFound)
		}
		s.issuanceForm.OpenEdit(rec)
	case DeleteIssuance:
		return s.svc.DeleteIssuance(ctx, in.ID)
	case SearchItems:
		s.itemQuery = in.Query
	case SearchIssuances:
		s.issuanceQuery = in.Query
	case Reload:
		return s.svc.Load(ctx)
	default:
		return fmt.Errorf("unknown intent %T", in)
	}
	return nil
}

// Items is the item view under the current filter.
func (s *Session) Items() []ItemRow {
	return s.svc.ItemsView(s.itemQuery)
}

// Issuances is the issuance view under the current filter.
func (s *Session) Issuances() []IssuanceRow {
	return s.svc.IssuancesView(s.issuanceQuery)
}
