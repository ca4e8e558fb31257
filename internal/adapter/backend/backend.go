// Package backend opens the record store selected by configuration.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/rl1809/stockroom/internal/adapter/remote"
	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/port"
)

const pingTimeout = 5 * time.Second

// Open connects to cfg.Backend and returns the store with a func that
// releases its connections.
func Open(ctx context.Context, cfg config.Config) (port.RecordStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryAdapter(), noClose, nil
	case config.BackendMySQL:
		dsn, err := mysqlDSN(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return openSQL(ctx, storage.MySQL, dsn)
	case config.BackendPostgres:
		return openSQL(ctx, storage.Postgres, cfg.PostgresDSN)
	case config.BackendSQLite:
		return openSQL(ctx, storage.SQLite, cfg.SQLitePath)
	case config.BackendRedis:
		return openRedis(ctx, cfg.RedisAddr)
	case config.BackendRemote:
		client, closeFn, err := remote.Dial(cfg.RemoteAddr)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("using remote record store at %s", cfg.RemoteAddr)
		return client, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openSQL(ctx context.Context, dialect storage.Dialect, dsn string) (port.RecordStore, func() error, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}
	if dialect.Name == storage.SQLite.Name {
		// One writer keeps SQLite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}
	log.Printf("connected to %s", dialect.Name)

	adapter := storage.NewSQLAdapter(db, dialect)
	if err := adapter.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return adapter, db.Close, nil
}

// mysqlDSN forces the options the SQL adapter relies on: update results
// count matched rows, and DATETIME columns scan as UTC time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func openRedis(ctx context.Context, addr string) (port.RecordStore, func() error, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 20,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Println("connected to redis")

	return storage.NewRedisAdapter(rdb), rdb.Close, nil
}

func noClose() error { return nil }
