package service

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/rl1809/stockroom/internal/core/domain"
)

const (
	// UnresolvedItemName is shown for an issuance whose item no longer exists.
	UnresolvedItemName = "Unknown item"
	// Placeholder is shown for absent optional values.
	Placeholder = "—"
)

type ItemRow struct {
	domain.Item
	Outstanding int `json:"outstanding"`
	Available   int `json:"available"`
}

type IssuanceRow struct {
	domain.Issuance
	ItemName    string `json:"item_name"`
	Resolved    bool   `json:"resolved"`
	Outstanding int    `json:"outstanding"`
}

// DisplayName returns the item name or UnresolvedItemName for orphans.
func (r IssuanceRow) DisplayName() string {
	if !r.Resolved {
		return UnresolvedItemName
	}
	return r.ItemName
}

// matcher folds case with a Caser owned by a single projection call;
// Casers are stateful and must not be shared between goroutines.
type matcher struct {
	fold  cases.Caser
	query string
}

func newMatcher(query string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.query = m.normalize(strings.TrimSpace(query))
	return m
}

// normalize composes s to NFC before folding so precomposed and combining
// accents compare equal.
func (m *matcher) normalize(s string) string {
	return m.fold.String(norm.NFC.String(s))
}

func (m *matcher) match(fields ...string) bool {
	if m.query == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(m.normalize(f), m.query) {
			return true
		}
	}
	return false
}

// ProjectItems keeps the items whose name or location contains query,
// preserving source order. The input is never modified.
func ProjectItems(items []domain.Item, query string) []domain.Item {
	m := newMatcher(query)
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if m.match(it.Name, it.Location) {
			out = append(out, it)
		}
	}
	return out
}

// ProjectIssuances joins issuances with item names and keeps the rows whose
// item name or recipient contains query. Unknown item IDs match as an empty
// name.
func ProjectIssuances(issuances []domain.Issuance, items []domain.Item, query string) []IssuanceRow {
	names := make(map[string]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}

	m := newMatcher(query)
	out := make([]IssuanceRow, 0, len(issuances))
	for _, rec := range issuances {
		name, ok := names[rec.ItemID]
		if !m.match(name, rec.IssuedTo) {
			continue
		}
		out = append(out, IssuanceRow{
			Issuance:    rec,
			ItemName:    name,
			Resolved:    ok,
			Outstanding: rec.Outstanding(),
		})
	}
	return out
}

// ItemRows decorates projected items with their aggregate.
func ItemRows(items []domain.Item, outstanding map[string]int) []ItemRow {
	rows := make([]ItemRow, len(items))
	for i, it := range items {
		out := outstanding[it.ID]
		avail := it.Quantity - out
		if avail < 0 {
			avail = 0
		}
		rows[i] = ItemRow{Item: it, Outstanding: out, Available: avail}
	}
	return rows
}

// LocationText renders an item location or Placeholder.
func LocationText(loc string) string {
	if loc == "" {
		return Placeholder
	}
	return loc
}

// FormatUpdatedAt renders t relative to now for list display.
func FormatUpdatedAt(t, now time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))
	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return strconv.Itoa(mins) + " min ago"
	case hours < 24:
		return strconv.Itoa(hours) + " hr ago"
	case days < 7:
		if days == 1 {
			return "1 day ago"
		}
		return strconv.Itoa(days) + " days ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}
