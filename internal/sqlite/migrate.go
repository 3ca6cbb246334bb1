package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// migrateTo makes the live schema match target declaratively: the target is built in an attached scratch
// database and the two sqlite_schema tables are diffed. Tables missing from target are dropped, new tables
// are created and changed tables are rebuilt keeping the columns both versions share. Indexes and triggers
// are synced afterwards. See https://www.sqlite.org/lang_altertable.html#otheralter for the rebuild steps.
func (db *Database) migrateTo(ctx context.Context, target string) (err error) {
	start := time.Now()

	detach, err := db.attachTarget(ctx, target)
	if err != nil {
		return fmt.Errorf("attach target schema: %w", err)
	}
	defer detach()

	// Rebuilding a table drops it, which must not cascade. The pragma is a no-op inside a transaction.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, fmt.Errorf("enable foreign keys: %w", fkErr))
		}
	}()

	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer db.rollback(ctx, tx)

	steps := []struct {
		name string
		run  func(context.Context, *sql.Tx) error
	}{
		{name: "drop removed tables", run: db.dropRemovedTables},
		{name: "create added tables", run: db.createAddedTables},
		{name: "rebuild changed tables", run: db.rebuildChangedTables},
		{name: "sync triggers", run: db.syncObjects("trigger")},
		{name: "sync indexes", run: db.syncObjects("index")},
		{name: "check foreign keys", run: checkForeignKeys},
	}
	for _, step := range steps {
		if err = step.run(ctx, tx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachTarget builds the target schema in a scratch in-memory database and attaches it as "target".
func (db *Database) attachTarget(ctx context.Context, target string) (func(), error) {
	name := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	scratch, err := sql.Open("sqlite3", name)
	if err != nil {
		return nil, fmt.Errorf("open scratch database: %w", err)
	}
	// The shared cache database lives while scratch has a connection, which lasts past ATTACH.
	defer func() {
		if closeErr := scratch.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelWarn, "failed to close scratch database", slog.Any("error", closeErr))
		}
	}()
	if _, err = scratch.ExecContext(ctx, target); err != nil {
		return nil, fmt.Errorf("create target schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS target", name); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE target"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach target schema", slog.Any("error", detachErr))
		}
	}, nil
}

func (db *Database) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to roll back", slog.Any("error", err))
	}
}

// userObjects filters out SQLite's own bookkeeping tables and indexes.
const userObjects = "name NOT LIKE 'sqlite_%'"

func (db *Database) dropRemovedTables(ctx context.Context, tx *sql.Tx) error {
	removed, err := queryStrings(ctx, tx, `SELECT live.name
FROM main.sqlite_schema AS live
         LEFT JOIN target.sqlite_schema AS t ON t.type = live.type AND t.name = live.name
WHERE live.type = 'table' AND t.name IS NULL AND live.`+userObjects)
	if err != nil {
		return err
	}
	for _, table := range removed {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, "DROP TABLE "+quote(table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

func (db *Database) createAddedTables(ctx context.Context, tx *sql.Tx) error {
	added, err := queryStrings(ctx, tx, `SELECT t.sql
FROM target.sqlite_schema AS t
         LEFT JOIN main.sqlite_schema AS live ON live.type = t.type AND live.name = t.name
WHERE t.type = 'table' AND live.name IS NULL AND t.`+userObjects)
	if err != nil {
		return err
	}
	for _, stmt := range added {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", stmt))
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

type changedObject struct {
	name      string
	liveSQL   string
	targetSQL string
}

func queryChanged(ctx context.Context, tx *sql.Tx, typ string) ([]changedObject, error) {
	// RENAME quotes the table name in the stored SQL, so quotes are ignored when comparing.
	rows, err := tx.QueryContext(ctx, `SELECT live.name, live.sql, t.sql
FROM main.sqlite_schema AS live
         JOIN target.sqlite_schema AS t ON t.type = live.type AND t.name = live.name
WHERE live.type = ? AND live.`+userObjects+`
  AND REPLACE(live.sql, '"', '') <> REPLACE(t.sql, '"', '')`, typ)
	if err != nil {
		return nil, fmt.Errorf("query changed %s: %w", typ, err)
	}
	defer rows.Close()
	var changed []changedObject
	for rows.Next() {
		var c changedObject
		if err = rows.Scan(&c.name, &c.liveSQL, &c.targetSQL); err != nil {
			return nil, fmt.Errorf("scan changed %s: %w", typ, err)
		}
		changed = append(changed, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changed %s: %w", typ, err)
	}
	return changed, nil
}

// rebuildChangedTables creates each changed table under a temporary name, copies the shared columns,
// drops the old table and renames the new one into place.
func (db *Database) rebuildChangedTables(ctx context.Context, tx *sql.Tx) error {
	changed, err := queryChanged(ctx, tx, "table")
	if err != nil {
		return err
	}
	for _, table := range changed {
		logger := db.logger.With(slog.String("table", table.name))
		logger.LogAttrs(ctx, slog.LevelInfo, "rebuilding table",
			slog.String("live_sql", table.liveSQL), slog.String("target_sql", table.targetSQL))

		temp := table.name + "_rebuild"
		createTemp := strings.Replace(table.targetSQL, table.name, temp, 1)
		if _, err = tx.ExecContext(ctx, createTemp); err != nil {
			return fmt.Errorf("create %s: %w", temp, err)
		}

		var columns []string
		if columns, err = queryStrings(ctx, tx, `SELECT '"' || live.name || '"'
FROM pragma_table_info(:table) AS live
         JOIN pragma_table_info(:table, 'target') AS t ON t.name = live.name`, sql.Named("table", table.name)); err != nil {
			return fmt.Errorf("shared columns of %s: %w", table.name, err)
		}
		shared := strings.Join(columns, ", ")
		copyRows := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", //nolint:gosec // identifiers come from sqlite_schema.
			quote(temp), shared, shared, quote(table.name))
		if _, err = tx.ExecContext(ctx, copyRows); err != nil {
			return fmt.Errorf("copy rows of %s: %w", table.name, err)
		}
		if _, err = tx.ExecContext(ctx, "DROP TABLE "+quote(table.name)); err != nil {
			return fmt.Errorf("drop %s: %w", table.name, err)
		}
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quote(temp), quote(table.name))); err != nil {
			return fmt.Errorf("rename %s: %w", temp, err)
		}
	}
	return nil
}

// syncObjects returns a step that drops, creates and recreates indexes or triggers to match the target.
func (db *Database) syncObjects(typ string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		logger := db.logger.With(slog.String("type", typ))

		removed, err := queryStrings(ctx, tx, `SELECT live.name
FROM main.sqlite_schema AS live
         LEFT JOIN target.sqlite_schema AS t ON t.type = live.type AND t.name = live.name
WHERE live.type = ? AND t.name IS NULL AND live.sql IS NOT NULL AND live.`+userObjects, typ)
		if err != nil {
			return err
		}
		for _, name := range removed {
			logger.LogAttrs(ctx, slog.LevelInfo, "dropping", slog.String("name", name))
			if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP %s %s", strings.ToUpper(typ), quote(name))); err != nil {
				return fmt.Errorf("drop %s %s: %w", typ, name, err)
			}
		}

		changed, err := queryChanged(ctx, tx, typ)
		if err != nil {
			return err
		}
		for _, c := range changed {
			logger.LogAttrs(ctx, slog.LevelInfo, "recreating", slog.String("name", c.name),
				slog.String("live_sql", c.liveSQL), slog.String("target_sql", c.targetSQL))
			if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP %s %s", strings.ToUpper(typ), quote(c.name))); err != nil {
				return fmt.Errorf("drop %s %s: %w", typ, c.name, err)
			}
			if _, err = tx.ExecContext(ctx, c.targetSQL); err != nil {
				return fmt.Errorf("recreate %s %s: %w", typ, c.name, err)
			}
		}

		added, err := queryStrings(ctx, tx, `SELECT t.sql
FROM target.sqlite_schema AS t
         LEFT JOIN main.sqlite_schema AS live ON live.type = t.type AND live.name = t.name
WHERE t.type = ? AND live.name IS NULL AND t.sql IS NOT NULL AND t.`+userObjects, typ)
		if err != nil {
			return err
		}
		for _, stmt := range added {
			logger.LogAttrs(ctx, slog.LevelInfo, "creating", slog.String("query", stmt))
			if _, err = tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create %s: %w", typ, err)
			}
		}
		return nil
	}
}

var errForeignKeyViolation = errors.New("foreign key violation")

func checkForeignKeys(ctx context.Context, tx *sql.Tx) error {
	violations, err := queryStrings(ctx, tx, `SELECT "table" FROM pragma_foreign_key_check`)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return fmt.Errorf("%w in tables %s", errForeignKeyViolation, strings.Join(violations, ", "))
	}
	return nil
}

// queryStrings returns the first column of every row.
func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	var results []string
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		results = append(results, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return results, nil
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
