package backend

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/stockroom/internal/adapter/remote"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/port"
)

// remoteOverSQLite serves a SQLite store over an in-memory gRPC listener
// and returns a client for it.
func remoteOverSQLite(t *testing.T) port.RecordStore {
	t.Helper()
	ctx := context.Background()

	store, closeStore, err := Open(ctx, config.Config{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "stockroom.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { closeStore() })

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	remote.NewServer(store).Register(srv)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	client, closeClient, err := remote.Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { closeClient() })
	return client
}

func openOrSkip(t *testing.T, cfg config.Config) port.RecordStore {
	t.Helper()
	store, closeStore, err := Open(context.Background(), cfg)
	if err != nil {
		t.Skipf("%s not available: %v", cfg.Backend, err)
	}
	t.Cleanup(func() { closeStore() })
	return store
}

func TestIntegration_RemoteSQLite(t *testing.T) {
	testInventoryFlow(t, remoteOverSQLite(t))
}

func TestIntegration_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	testInventoryFlow(t, openOrSkip(t, config.Config{Backend: config.BackendRedis, RedisAddr: addr}))
}

func TestIntegration_MySQL(t *testing.T) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockroom?parseTime=true&loc=UTC&clientFoundRows=true"
	}
	testInventoryFlow(t, openOrSkip(t, config.Config{Backend: config.BackendMySQL, MySQLDSN: dsn}))
}

// testInventoryFlow drives the service end to end and checks that a fresh
// load from the store agrees with the cache it built up.
func testInventoryFlow(t *testing.T, store port.RecordStore) {
	ctx := context.Background()
	svc := service.NewInventoryService(store, nil, nil)
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	item, err := svc.AddItem(ctx, service.ItemDraft{Name: "Integration drill", Quantity: "10", Location: "Bay 3"})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	t.Cleanup(func() {
		for _, rec := range svc.Cache().Issuances() {
			if rec.ItemID == item.ID {
				store.DeleteIssuance(ctx, rec.ID)
			}
		}
		store.DeleteItem(ctx, item.ID)
	})

	const issuers = 8
	var wg sync.WaitGroup
	errs := make(chan error, issuers)
	for i := 0; i < issuers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.AddIssuance(ctx, service.IssuanceDraft{
				ItemID:         item.ID,
				IssuedTo:       "worker-" + strconv.Itoa(n),
				IssuedAt:       "2024-03-02",
				QuantityIssued: "2",
				ReturnQuantity: "1",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AddIssuance failed: %v", err)
		}
	}

	if got := svc.Cache().OutstandingFor(item.ID); got != issuers {
		t.Errorf("expected outstanding %d, got %d", issuers, got)
	}

	fresh := service.NewInventoryService(store, nil, nil)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := fresh.Cache().OutstandingFor(item.ID); got != issuers {
		t.Errorf("expected reloaded outstanding %d, got %d", issuers, got)
	}

	rows := fresh.ItemsView("integration")
	if len(rows) != 1 {
		t.Fatalf("expected 1 item row, got %d", len(rows))
	}
	if rows[0].Available != 10-issuers {
		t.Errorf("expected available %d, got %d", 10-issuers, rows[0].Available)
	}
}
