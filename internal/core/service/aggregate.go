package service

import "github.com/rl1809/stockroom/internal/core/domain"

// Aggregate maps each item ID to its net outstanding quantity across all
// issuances. It is rebuilt from scratch on every call.
func Aggregate(issuances []domain.Issuance) map[string]int {
	out := make(map[string]int)
	for _, rec := range issuances {
		out[rec.ItemID] += rec.Outstanding()
	}
	return out
}
