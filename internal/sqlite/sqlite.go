// Package sqlite opens the SQLite database backing the persistent recipe cache.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/pfaplan/internal/errors"

	_ "embed"
)

//go:embed schema.sql
var schemaDefinition string

// schemaVersion is stored in PRAGMA user_version. Cached rows are disposable, so a version change drops and
// recreates every table instead of migrating.
const schemaVersion = 1

type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to a database and makes sure the schema is current.
//
// It establishes two database connections, one for read/write operations and one for read-only operations.
// See https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err = db.applySchema(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("apply schema: %w", err), db.Close())
	}
	// Recommended for short-lived connections, see https://www.sqlite.org/pragma.html#pragma_optimize.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "failed to optimize database", errors.SlogError(err))
	}
	return db, nil
}

func (db *Database) applySchema(ctx context.Context) error {
	var version int
	if err := db.ReadWrite.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	start := time.Now()
	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "rollback schema", errors.SlogError(rbErr))
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT name FROM sqlite_schema WHERE type = 'table' AND name NOT LIKE 'sqlite_%';")
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return errors.Join(fmt.Errorf("scan table name: %w", err), rows.Close())
		}
		tables = append(tables, name)
	}
	if err = errors.Join(rows.Err(), rows.Close()); err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, table := range tables {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q;", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	if _, err = tx.ExecContext(ctx, schemaDefinition); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d;", schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "applied database schema",
		slog.Int("from_version", version), slog.Int("to_version", schemaVersion),
		slog.Int("dropped_tables", len(tables)), slog.Duration("duration", time.Since(start)))
	return nil
}

//nolint:gochecknoglobals // once is used to ensure that the SQLite driver is registered only once.
var once sync.Once

const optimizedDriver = "sqlite3optimized"

// registerOptimizedDriver that executes performance-enhancing pragmas on connection.
func registerOptimizedDriver() {
	sql.Register(optimizedDriver,
		&sqlite3.SQLiteDriver{
			Extensions: nil,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if _, err := conn.Exec(
					// Temporary tables and indices live in memory.
					"PRAGMA temp_store = memory;"+
						"PRAGMA mmap_size = 30000000000;", nil); err != nil {
					return fmt.Errorf("exec optimization pragmas: %w", err)
				}
				return nil
			},
		})
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	// In-memory databases need shared cache mode so that both pools see the same data. Each gets a random name so
	// parallel tests stay isolated. See https://www.sqlite.org/inmemorydb.html.
	inMemoryConfig := ""
	if strings.Contains(url, ":memory:") {
		url = rand.Text()
		inMemoryConfig = "mode=memory&cache=shared"
	}
	commonConfig := strings.Join([]string{
		"_loc=auto",
		"_journal_mode=wal",
		// Avoids SQLITE_BUSY errors when several planner runs share a cache file.
		"_busy_timeout=5000",
		"_synchronous=normal",
	}, "&")

	// Options without a leading underscore are SQLite URI parameters documented at https://www.sqlite.org/uri.html.
	// The underscored ones are documented at https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open.
	readConfig := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s&%s", url, commonConfig, inMemoryConfig)
	readWriteConfig := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s&%s", url, commonConfig, inMemoryConfig)

	once.Do(registerOptimizedDriver)

	readWriteDB, err := sql.Open(optimizedDriver, readWriteConfig)
	if err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	// sql.DB is lazy, ping to make sure the file can be created.
	if err = readWriteDB.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping read-write database: %w", err), readWriteDB.Close())
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "opened database", slog.String("sqlDsn", readWriteConfig))

	readDB, err := sql.Open(optimizedDriver, readConfig)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open read database: %w", err), readWriteDB.Close())
	}
	maxReadConns := 4
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close runs PRAGMA optimize and closes the database connections.
func (db *Database) Close() error {
	start := time.Now()
	if _, err := db.ReadWrite.Exec("PRAGMA optimize;"); err != nil { //nolint:noctx // called on shutdown
		db.logger.LogAttrs(context.Background(), slog.LevelWarn, "failed to optimize database", errors.SlogError(err))
	} else {
		db.logger.LogAttrs(context.Background(), slog.LevelDebug, "optimized database",
			slog.Duration("duration", time.Since(start)))
	}
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
