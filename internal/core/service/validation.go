package service

import (
	"strconv"
	"strings"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// ValidationError rejects input locally, before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ItemDraft holds item form fields as entered.
type ItemDraft struct {
	Name     string `json:"item" yaml:"item"`
	Quantity string `json:"quantity" yaml:"quantity"`
	Location string `json:"location" yaml:"location"`
}

// IssuanceDraft holds issuance form fields as entered. Dates use the
// 2006-01-02 layout.
type IssuanceDraft struct {
	ItemID         string `json:"item_id" yaml:"item_id"`
	IssuedTo       string `json:"issued_to" yaml:"issued_to"`
	IssuedAt       string `json:"issued_at" yaml:"issued_at"`
	QuantityIssued string `json:"quantity_issued" yaml:"quantity_issued"`
	ReturnQuantity string `json:"return_quantity" yaml:"return_quantity"`
	ReturnDate     string `json:"return_date" yaml:"return_date"`
}

// DraftFromItem copies an item into editable fields.
func DraftFromItem(item domain.Item) ItemDraft {
	return ItemDraft{
		Name:     item.Name,
		Quantity: strconv.Itoa(item.Quantity),
		Location: item.Location,
	}
}

func DraftFromIssuance(rec domain.Issuance) IssuanceDraft {
	d := IssuanceDraft{
		ItemID:         rec.ItemID,
		IssuedTo:       rec.IssuedTo,
		IssuedAt:       rec.IssuedAt.String(),
		QuantityIssued: strconv.Itoa(rec.QuantityIssued),
		ReturnQuantity: strconv.Itoa(rec.ReturnQuantity),
	}
	if rec.ReturnDate != nil {
		d.ReturnDate = rec.ReturnDate.String()
	}
	return d
}

// ParseItem validates a draft. Only the name can fail; the quantity falls
// back to 0 when it is empty, malformed or negative.
func ParseItem(d ItemDraft) (domain.Item, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return domain.Item{}, &ValidationError{Field: "item", Message: "Item name is required"}
	}
	return domain.Item{
		Name:     name,
		Quantity: parseQuantity(d.Quantity),
		Location: strings.TrimSpace(d.Location),
	}, nil
}

// ParseIssuance validates a draft. Item, recipient and issue date are
// required, and the returned quantity may not exceed the issued quantity.
func ParseIssuance(d IssuanceDraft) (domain.Issuance, error) {
	itemID := strings.TrimSpace(d.ItemID)
	if itemID == "" {
		return domain.Issuance{}, &ValidationError{Field: "item_id", Message: "Item is required"}
	}
	issuedTo := strings.TrimSpace(d.IssuedTo)
	if issuedTo == "" {
		return domain.Issuance{}, &ValidationError{Field: "issued_to", Message: "Issued to is required"}
	}
	issuedAtText := strings.TrimSpace(d.IssuedAt)
	if issuedAtText == "" {
		return domain.Issuance{}, &ValidationError{Field: "issued_at", Message: "Issue date is required"}
	}
	issuedAt, err := domain.ParseDate(issuedAtText)
	if err != nil {
		return domain.Issuance{}, &ValidationError{Field: "issued_at", Message: "Issue date must be YYYY-MM-DD"}
	}

	rec := domain.Issuance{
		ItemID:         itemID,
		IssuedTo:       issuedTo,
		IssuedAt:       issuedAt,
		QuantityIssued: parseQuantity(d.QuantityIssued),
		ReturnQuantity: parseQuantity(d.ReturnQuantity),
	}
	if rec.ReturnQuantity > rec.QuantityIssued {
		return domain.Issuance{}, &ValidationError{
			Field:   "return_quantity",
			Message: "Return quantity cannot exceed quantity issued",
		}
	}

	if text := strings.TrimSpace(d.ReturnDate); text != "" {
		rd, err := domain.ParseDate(text)
		if err != nil {
			return domain.Issuance{}, &ValidationError{Field: "return_date", Message: "Return date must be YYYY-MM-DD"}
		}
		rec.ReturnDate = &rd
	}
	return rec, nil
}

// parseQuantity reads the leading integer of s, so "4.0" and "7 units" keep
// their whole part. Text without leading digits, negatives and overflow
// give 0.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			return 0
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
