package storage

import (
	"testing"
	"time"

	"github.com/rl1809/stockroom/internal/core/domain"
)

func TestMemory_RecordStore(t *testing.T) {
	testRecordStore(t, NewMemoryAdapter())
}

func testItem(id string) domain.Item {
	return domain.Item{ID: id, Name: "Test " + id, Quantity: 1, UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}
