package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"tidy-go/internal/store"
)

// NewTestContainer creates a SQLite container backed by a per-test temporary
// file, with the schema applied. It is closed automatically when the test
// completes; the file goes away with the test's temp directory.
func NewTestContainer(t *testing.T) *store.Container {
	t.Helper()

	c, err := store.Open(filepath.Join(t.TempDir(), "tidy.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := c.Migrate(); err != nil {
		c.Close()
		t.Fatalf("failed to apply migrations: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// NewTestHandle checks out a handle from a fresh in-memory container.
func NewTestHandle(t *testing.T) *store.Handle {
	t.Helper()

	c := NewTestContainer(t)
	h, err := c.OpenHandle(context.Background())
	if err != nil {
		t.Fatalf("failed to open handle: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}
