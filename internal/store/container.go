package store

import (
	"context"
	"database/sql"
	"fmt"

	"tidy-go/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Container owns the shared SQLite connection pool. The container itself is
// safe to share; individual Handles are not, so every worker opens its own
// handle for the duration of one operation.
type Container struct {
	db   *sql.DB
	path string
}

// Open opens and configures the SQLite database at path.
// path can be a file path or ":memory:" for an in-memory database.
func Open(path string) (*Container, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A plain in-memory database exists per connection; pin the pool to a
	// single connection so every handle sees the same data.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Foreign keys are off by default in SQLite for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	// Background aggregations and snapshot recording contend for the same
	// file; wait for locks instead of failing.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &Container{db: db, path: path}, nil
}

// Migrate brings the schema to the latest version.
func (c *Container) Migrate() error {
	return migrations.MigrateUp(c.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (c *Container) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(c.db)
}

// OpenHandle checks out a dedicated connection for one worker. The returned
// handle must not be shared across concurrent tasks; Close returns the
// connection to the pool.
func (c *Container) OpenHandle(ctx context.Context) (*Handle, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking out connection: %w", err)
	}
	return &Handle{conn: conn}, nil
}

// Path returns the database file path (or ":memory:").
func (c *Container) Path() string { return c.path }

// Close closes the underlying connection pool.
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
