// Package sqlite opens the application database and keeps its schema in sync with schema.sql.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaDefinition string

// Database holds separate pools for writes and reads. SQLite allows a single writer, so the
// read-write pool has one connection while readers run concurrently in WAL mode.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to the database at url, migrates it to schema.sql and starts the background optimizer
// that runs until ctx is done. Use ":memory:" for a private in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate: %w", err), db.Close())
	}

	go db.runOptimizer(ctx, optimizeInterval)

	return db, nil
}

//nolint:gochecknoglobals // the driver may only be registered once per process.
var registerDriver sync.Once

const driverName = "sqlite3_liftplan"

func register() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		Extensions: nil,
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// Keep temporary indices in memory and map the database file to reduce syscalls.
			if _, err := conn.Exec("PRAGMA temp_store = memory; PRAGMA mmap_size = 268435456;", nil); err != nil {
				return fmt.Errorf("exec connection pragmas: %w", err)
			}
			return nil
		},
	})
}

func dsn(url string, mode string, extra ...string) string {
	params := append([]string{
		"mode=" + mode,
		// Uses the local time.Location for timestamps.
		"_loc=auto",
		// Foreign keys are checked at commit so a transaction may violate them temporarily.
		"_defer_foreign_keys=1",
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, extra...)
	return fmt.Sprintf("file:%s?%s", url, strings.Join(params, "&"))
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	readWriteMode, readMode := "rwc", "ro"
	var cache []string
	if strings.Contains(url, ":memory:") {
		// A uniquely named shared cache lets both pools see the same data while parallel tests stay isolated.
		url = rand.Text()
		readWriteMode, readMode = "memory", "memory"
		cache = []string{"cache=shared"}
	}

	registerDriver.Do(register)

	readWrite, err := sql.Open(driverName, dsn(url, readWriteMode, append(cache, "_txlock=immediate")...))
	if err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	readWrite.SetMaxOpenConns(1)
	readWrite.SetMaxIdleConns(1)
	readWrite.SetConnMaxLifetime(time.Hour)
	// sql.Open is lazy so ping to surface configuration errors now.
	if err = readWrite.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping read-write database: %w", err), readWrite.Close())
	}

	readOnly, err := sql.Open(driverName, dsn(url, readMode, append(cache, "_txlock=deferred", "_query_only=true")...))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open read-only database: %w", err), readWrite.Close())
	}
	const maxReaders = 10
	readOnly.SetMaxOpenConns(maxReaders)
	readOnly.SetMaxIdleConns(maxReaders)
	readOnly.SetConnMaxLifetime(time.Hour)

	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("url", url))
	return &Database{ReadWrite: readWrite, ReadOnly: readOnly, logger: logger}, nil
}

// Close closes both pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
