package service

import (
	"context"
	"errors"
	"testing"
)

func TestSession_EditIntentOpensPrefilledForm(t *testing.T) {
	store := seededStore()
	svc, _ := newTestService(store)
	s := NewSession(svc)
	ctx := context.Background()

	if err := s.Dispatch(ctx, Reload{}); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if err := s.Dispatch(ctx, EditItem{ID: "i2"}); err != nil {
		t.Fatalf("EditItem failed: %v", err)
	}

	form := s.ItemForm()
	if form.State() != FormComposing || form.Mode() != FormEdit {
		t.Errorf("expected edit form open, got %s/%d", form.State(), form.Mode())
	}
	if form.Draft.Location != "Shed" {
		t.Errorf("unexpected prefill %+v", form.Draft)
	}
}

func TestSession_EditUnknown(t *testing.T) {
	svc, _ := newTestService(newMockRecordStore())
	s := NewSession(svc)

	if err := s.Dispatch(context.Background(), EditItem{ID: "nope"}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if err := s.Dispatch(context.Background(), EditIssuance{ID: "nope"}); !errors.Is(err, ErrIssuanceNotFound) {
		t.Errorf("expected ErrIssuanceNotFound, got %v", err)
	}
}

func TestSession_SearchAndDelete(t *testing.T) {
	store := seededStore()
	svc, _ := newTestService(store)
	s := NewSession(svc)
	ctx := context.Background()

	if err := s.Dispatch(ctx, Reload{}); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if err := s.Dispatch(ctx, SearchItems{Query: "wr"}); err != nil {
		t.Fatalf("SearchItems failed: %v", err)
	}
	if rows := s.Items(); len(rows) != 1 || rows[0].ID != "i2" {
		t.Errorf("unexpected filtered items %v", rows)
	}

	if err := s.Dispatch(ctx, SearchIssuances{Query: "alice"}); err != nil {
		t.Fatalf("SearchIssuances failed: %v", err)
	}
	if rows := s.Issuances(); len(rows) != 1 || rows[0].ItemName != "Hammer" {
		t.Errorf("unexpected filtered issuances %v", rows)
	}

	if err := s.Dispatch(ctx, DeleteIssuance{ID: "r1"}); err != nil {
		t.Fatalf("DeleteIssuance failed: %v", err)
	}
	if rows := s.Issuances(); len(rows) != 0 {
		t.Errorf("expected no issuances, got %v", rows)
	}

	if err := s.Dispatch(ctx, DeleteItem{ID: "i2"}); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if rows := s.Items(); len(rows) != 0 {
		t.Errorf("expected filter to yield nothing after delete, got %v", rows)
	}
}

func TestSession_OpenAddIntents(t *testing.T) {
	svc, _ := newTestService(newMockRecordStore())
	s := NewSession(svc)

	if err := s.Dispatch(context.Background(), OpenAddItem{}); err != nil {
		t.Fatalf("OpenAddItem failed: %v", err)
	}
	if err := s.Dispatch(context.Background(), OpenAddIssuance{}); err != nil {
		t.Fatalf("OpenAddIssuance failed: %v", err)
	}
	if s.ItemForm().State() != FormComposing || s.IssuanceForm().State() != FormComposing {
		t.Error("expected both forms open")
	}
}
