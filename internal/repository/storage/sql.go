package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrations embed.FS

type Storage struct {
	Connection *sql.DB
	Driver     string
}

// New opens and pings the database. SQLite files get their directory created and are opened
// with foreign keys, WAL and immediate write transactions.
func New(ctx context.Context, driver, dsn string) (*Storage, error) {
	if driver == DriverSQLite {
		var err error
		if dsn, err = prepareSQLite(dsn); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn, Driver: driver}, nil
}

func prepareSQLite(dsn string) (string, error) {
	path := dsn
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	if strings.Contains(dsn, "?") {
		return dsn, nil
	}

	return dsn + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", nil
}

// Init applies embedded migrations for the driver that are not yet recorded in schema_migrations.
func (that *Storage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("can't create schema_migrations: %w", err)
	}

	dir := "migrations/" + that.Driver
	files, err := fs.Glob(migrations, dir+"/*.sql")
	if err != nil {
		return fmt.Errorf("can't list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)

		var applied int
		err = that.Connection.QueryRowContext(ctx, that.Rebind(`SELECT 1 FROM schema_migrations WHERE name = ?`), name).Scan(&applied)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("can't check migration %s: %w", name, err)
		}

		body, err := migrations.ReadFile(file)
		if err != nil {
			return fmt.Errorf("can't read migration %s: %w", name, err)
		}

		err = that.InTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
			if _, err := tx.ExecContext(ctx, that.Rebind(`INSERT INTO schema_migrations (name) VALUES (?)`), name); err != nil {
				return fmt.Errorf("record %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// InTx runs fn inside a transaction, committing on nil and rolling back otherwise.
func (that *Storage) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := that.Connection.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}

// Rebind rewrites ? placeholders to $n for postgres.
func (that *Storage) Rebind(query string) string {
	if that.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}

// IsUniqueViolation reports whether err is a unique constraint failure on either driver.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
