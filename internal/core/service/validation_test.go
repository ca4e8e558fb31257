package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rl1809/stockroom/internal/core/domain"
)

func TestParseItem_Quantity(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"5", 5},
		{" 12 ", 12},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"-0", 0},
		{"+4", 4},
		{"2.5", 2},
		{"12abc", 12},
		{"7 units", 7},
		{"1e3", 1},
		{".5", 0},
		{"99999999999999999999999", 0},
	}
	for _, tc := range cases {
		item, err := ParseItem(ItemDraft{Name: "X", Quantity: tc.in})
		if err != nil {
			t.Fatalf("quantity %q rejected: %v", tc.in, err)
		}
		if item.Quantity != tc.want {
			t.Errorf("quantity %q: expected %d, got %d", tc.in, tc.want, item.Quantity)
		}
	}
}

func TestParseItem_NormalizesLocation(t *testing.T) {
	item, err := ParseItem(ItemDraft{Name: " Saw ", Location: "   "})
	if err != nil {
		t.Fatalf("ParseItem failed: %v", err)
	}
	if item.Name != "Saw" {
		t.Errorf("expected trimmed name, got %q", item.Name)
	}
	if item.Location != "" {
		t.Errorf("expected absent location, got %q", item.Location)
	}
}

func TestParseItem_RequiresName(t *testing.T) {
	_, err := ParseItem(ItemDraft{Quantity: "1"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "item" {
		t.Errorf("expected item validation error, got %v", err)
	}
}

func TestParseIssuance(t *testing.T) {
	rec, err := ParseIssuance(IssuanceDraft{
		ItemID:         " i1 ",
		IssuedTo:       "Alice",
		IssuedAt:       "2024-02-29",
		QuantityIssued: "3",
		ReturnQuantity: "",
	})
	if err != nil {
		t.Fatalf("ParseIssuance failed: %v", err)
	}
	if rec.ItemID != "i1" || rec.QuantityIssued != 3 || rec.ReturnQuantity != 0 {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.IssuedAt != domain.NewDate(2024, time.February, 29) {
		t.Errorf("unexpected issue date %v", rec.IssuedAt)
	}
	if rec.ReturnDate != nil {
		t.Error("expected absent return date")
	}
}

func TestParseIssuance_DecimalQuantityKeepsWholePart(t *testing.T) {
	rec, err := ParseIssuance(IssuanceDraft{
		ItemID: "i1", IssuedTo: "A", IssuedAt: "2024-01-01", QuantityIssued: "4.0", ReturnQuantity: "1",
	})
	if err != nil {
		t.Fatalf("ParseIssuance failed: %v", err)
	}
	if rec.QuantityIssued != 4 || rec.ReturnQuantity != 1 {
		t.Errorf("expected 4 issued and 1 returned, got %d and %d", rec.QuantityIssued, rec.ReturnQuantity)
	}
}

func TestParseIssuance_EqualReturnAllowed(t *testing.T) {
	if _, err := ParseIssuance(IssuanceDraft{
		ItemID: "i1", IssuedTo: "A", IssuedAt: "2024-01-01", QuantityIssued: "2", ReturnQuantity: "2",
	}); err != nil {
		t.Errorf("expected full return to be valid, got %v", err)
	}
}

func TestParseIssuance_BadReturnDate(t *testing.T) {
	_, err := ParseIssuance(IssuanceDraft{
		ItemID: "i1", IssuedTo: "A", IssuedAt: "2024-01-01", QuantityIssued: "2", ReturnDate: "soon",
	})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "return_date" {
		t.Errorf("expected return_date validation error, got %v", err)
	}
}

func TestDraftFromIssuance(t *testing.T) {
	rd := domain.NewDate(2024, 3, 4)
	d := DraftFromIssuance(domain.Issuance{
		ItemID: "i1", IssuedTo: "A", IssuedAt: domain.NewDate(2024, 3, 1),
		QuantityIssued: 2, ReturnQuantity: 1, ReturnDate: &rd,
	})
	want := IssuanceDraft{
		ItemID: "i1", IssuedTo: "A", IssuedAt: "2024-03-01",
		QuantityIssued: "2", ReturnQuantity: "1", ReturnDate: "2024-03-04",
	}
	if d != want {
		t.Errorf("expected %+v, got %+v", want, d)
	}
}
