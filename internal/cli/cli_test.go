package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

func memoryOpen(store port.RecordStore) OpenFunc {
	return func(context.Context, config.Config) (port.RecordStore, func() error, error) {
		return store, func() error { return nil }, nil
	}
}

func run(t *testing.T, store port.RecordStore, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(memoryOpen(store))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(nil)
	require.NotNil(t, cmd)
	assert.Equal(t, "stockctl", cmd.Use)

	for _, path := range [][]string{
		{"items"}, {"issued"}, {"outstanding"}, {"import"},
		{"item", "add"}, {"item", "edit"}, {"item", "delete"},
		{"issue", "add"}, {"issue", "edit"}, {"issue", "delete"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := run(t, storage.NewMemoryAdapter(), "items", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestItemAddListEditDelete(t *testing.T) {
	store := storage.NewMemoryAdapter()

	stdout, stderr, err := run(t, store, "item", "add", "--name", "Drill", "--quantity", "5", "--location", "Shelf A")
	require.NoError(t, err)
	id := strings.TrimSpace(stdout)
	require.NotEmpty(t, id)
	assert.Equal(t, "Item added\n", stderr)

	stdout, _, err = run(t, store, "items")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Drill")
	assert.Contains(t, stdout, "Shelf A")
	assert.Contains(t, stdout, "Just now")

	_, stderr, err = run(t, store, "item", "edit", id, "--quantity", "9")
	require.NoError(t, err)
	assert.Equal(t, "Item updated\n", stderr)

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Drill", items[0].Name)
	assert.Equal(t, 9, items[0].Quantity)
	assert.Equal(t, "Shelf A", items[0].Location)

	_, stderr, err = run(t, store, "item", "delete", id)
	require.NoError(t, err)
	assert.Equal(t, "Item deleted\n", stderr)

	items, err = store.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemAdd_DefaultQuantity(t *testing.T) {
	store := storage.NewMemoryAdapter()

	_, _, err := run(t, store, "item", "add", "--name", "Tape")
	require.NoError(t, err)

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestItemAdd_ValidationIsReported(t *testing.T) {
	store := storage.NewMemoryAdapter()

	_, stderr, err := run(t, store, "item", "add", "--name", " ")
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Equal(t, "warning: Item name is required\n", stderr)

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemEdit_UnknownID(t *testing.T) {
	_, _, err := run(t, storage.NewMemoryAdapter(), "item", "edit", "missing", "--name", "X")
	require.Error(t, err)
	assert.False(t, Reported(err))
	assert.Contains(t, err.Error(), "item not found")
}

func TestIssueAddAndOutstanding(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryAdapter()
	item, err := store.InsertItem(ctx, domain.Item{Name: "Ladder", Quantity: 4, UpdatedAt: time.Now()})
	require.NoError(t, err)

	stdout, stderr, err := run(t, store, "issue", "add", "--item", item.ID, "--to", "Bob", "--quantity", "3", "--returned", "1")
	require.NoError(t, err)
	assert.Equal(t, "Issuance added\n", stderr)
	recID := strings.TrimSpace(stdout)

	recs, err := store.ListIssuances(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.DateOf(time.Now()), recs[0].IssuedAt)

	stdout, _, err = run(t, store, "outstanding", "--format", "json")
	require.NoError(t, err)
	var rows []outstandingRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	assert.Equal(t, []outstandingRow{{ItemID: item.ID, Item: "Ladder", Outstanding: 2}}, rows)

	stdout, _, err = run(t, store, "issued", "-q", "bob")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ladder")

	_, _, err = run(t, store, "issue", "edit", recID, "--returned", "3", "--return-date", "2024-03-09")
	require.NoError(t, err)

	stdout, _, err = run(t, store, "outstanding", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	assert.Empty(t, rows)

	_, stderr, err = run(t, store, "issue", "delete", recID)
	require.NoError(t, err)
	assert.Equal(t, "Issuance deleted\n", stderr)
}

func TestIssuedShowsUnknownItemAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryAdapter()
	item, err := store.InsertItem(ctx, domain.Item{Name: "Ladder", Quantity: 4, UpdatedAt: time.Now()})
	require.NoError(t, err)
	_, err = store.InsertIssuance(ctx, domain.Issuance{
		ItemID: item.ID, IssuedTo: "Bob", IssuedAt: domain.NewDate(2024, time.March, 2), QuantityIssued: 2,
	})
	require.NoError(t, err)

	_, _, err = run(t, store, "item", "delete", item.ID)
	require.NoError(t, err)

	stdout, _, err := run(t, store, "issued")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Unknown item")
}

func TestImport(t *testing.T) {
	store := storage.NewMemoryAdapter()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
items:
  - key: drill
    item: Drill
    quantity: 5
    location: Shelf A
  - item: Saw
issued:
  - item_id: drill
    issued_to: Alice
    issued_at: 2024-03-02
    quantity_issued: 2
`), 0o600))

	stdout, _, err := run(t, store, "import", path, "--format", "json")
	require.NoError(t, err)

	var res ImportResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, ImportResult{Items: 2, Issued: 1}, res)

	ctx := context.Background()
	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]domain.Item{}
	for _, it := range items {
		byName[it.Name] = it
	}
	assert.Equal(t, 1, byName["Saw"].Quantity)

	recs, err := store.ListIssuances(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, byName["Drill"].ID, recs[0].ItemID)
	assert.Equal(t, 0, recs[0].ReturnQuantity)
}

func TestImport_StopsAtFirstInvalidRecord(t *testing.T) {
	store := storage.NewMemoryAdapter()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
items:
  - item: Drill
  - item: ""
  - item: Saw
`), 0o600))

	_, _, err := run(t, store, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[1]")

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Drill", items[0].Name)
}

func TestImport_MissingFile(t *testing.T) {
	_, _, err := run(t, storage.NewMemoryAdapter(), "import", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read seed file")
}
