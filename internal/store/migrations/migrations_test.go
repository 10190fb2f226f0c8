package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Migrate up
	err := MigrateUp(db)
	if err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Verify tables were created
	tables := []string{"files", "activity", "snapshots", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Fresh database should need migration
	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Error("CheckDBMigrationStatus() expected error for fresh database, got nil")
	}

	// Error should mention needing migration
	if err.Error() != "database has no schema version (needs migration)" {
		t.Errorf("CheckDBMigrationStatus() error = %q, want error about needing migration", err.Error())
	}
}

func TestCheckDBMigrationStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Migrate up
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Status should be OK now
	err := CheckDBMigrationStatus(db)
	if err != nil {
		t.Errorf("CheckDBMigrationStatus() after migration returned error: %v", err)
	}
}

func TestCheckDBMigrationStatus_SchemaAheadOfBinary(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Simulate a database migrated by a newer binary.
	if _, err := db.Exec("UPDATE schema_migrations SET version = version + 1"); err != nil {
		t.Fatalf("Failed to bump schema version: %v", err)
	}

	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Fatal("CheckDBMigrationStatus() expected error for schema ahead of binary, got nil")
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Run migration twice
	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}

	// Status should still be OK
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestSchema_FilePathUnique(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Insert first record
	_, err := db.Exec(`
		INSERT INTO files (id, path, name, size, created_at, modified_at, accessed_at, category, status)
		VALUES ('f1', '/test/path', 'path', 1, datetime('now'), datetime('now'), datetime('now'), 'other', 'pending')
	`)
	if err != nil {
		t.Fatalf("Failed to insert first file: %v", err)
	}

	// Try to insert duplicate path (should fail due to UNIQUE constraint)
	_, err = db.Exec(`
		INSERT INTO files (id, path, name, size, created_at, modified_at, accessed_at, category, status)
		VALUES ('f2', '/test/path', 'path', 2, datetime('now'), datetime('now'), datetime('now'), 'other', 'pending')
	`)
	if err == nil {
		t.Error("Expected unique constraint violation for duplicate path, but insert succeeded")
	}
}

func TestSchema_SnapshotDayUnique(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	_, err := db.Exec(`
		INSERT INTO snapshots (id, day, total_bytes, file_count, category_bytes)
		VALUES ('s1', '2024-01-15 00:00:00', 1000, 3, '{}')
	`)
	if err != nil {
		t.Fatalf("Failed to insert first snapshot: %v", err)
	}

	// Second snapshot for the same day should fail due to UNIQUE constraint
	_, err = db.Exec(`
		INSERT INTO snapshots (id, day, total_bytes, file_count, category_bytes)
		VALUES ('s2', '2024-01-15 00:00:00', 900, 2, '{}')
	`)
	if err == nil {
		t.Error("Expected unique constraint violation for duplicate day, but insert succeeded")
	}
}

// openTestDB opens an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Migration state and data must land on the same connection.
	db.SetMaxOpenConns(1)

	return db
}
