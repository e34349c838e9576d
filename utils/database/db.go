package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"discord-modbot/utils/cache"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavour behind a DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DB is the moderation store. Queries are written with ? placeholders and
// rebound for the connected driver.
type DB struct {
	*sqlx.DB
	dialect Dialect
	cache   *cache.Service
	now     func() time.Time
}

// Open connects to the database and ensures all necessary tables exist.
func Open(ctx context.Context, driver, dsn string, c *cache.Service) (*DB, error) {
	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := New(conn, c)
	if err := db.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// New wraps an existing connection without touching the schema.
func New(conn *sqlx.DB, c *cache.Service) *DB {
	dialect := DialectSQLite
	if conn.DriverName() == "postgres" {
		dialect = DialectPostgres
	}
	return &DB{DB: conn, dialect: dialect, cache: c, now: time.Now}
}

// SetClock replaces the time source. Used by tests.
func (d *DB) SetClock(now func() time.Time) {
	d.now = now
}

// Dialect reports which SQL flavour the connection speaks.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Cache returns the config cache in front of this store.
func (d *DB) Cache() *cache.Service {
	return d.cache
}

// Now is the store's clock.
func (d *DB) Now() time.Time {
	return d.now()
}

func (d *DB) nowUnix() int64 {
	return d.now().Unix()
}

// lockGuild takes the per-guild transaction-scoped advisory lock. SQLite
// connections are opened with _txlock=immediate, which already serializes
// writers, so there is nothing to take there.
func (d *DB) lockGuild(ctx context.Context, tx *sqlx.Tx, guildID int64) error {
	if d.dialect != DialectPostgres {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", guildID); err != nil {
		return fmt.Errorf("failed to acquire guild lock for %d: %w", guildID, err)
	}
	return nil
}

func (d *DB) forUpdate() string {
	if d.dialect == DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// isDuplicateColumn reports whether err is the "column already exists"
// error of an ADD COLUMN migration.
func isDuplicateColumn(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42701"
	}
	return strings.Contains(err.Error(), "duplicate column name")
}

// EnsureSchema creates missing tables and runs the case-numbering migration.
func (d *DB) EnsureSchema(ctx context.Context) error {
	schema := sqliteSchema
	if d.dialect == DialectPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return d.EnsureCaseSchemaCompat(ctx)
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
