package tidy

import (
	"context"
	"time"
)

// Store provides access to the shared record store. Implementations are not
// required to be safe for concurrent use: each background operation opens its
// own handle against a shared, thread-safe container and the handle is used
// by exactly one worker at a time.
type Store interface {
	// File records

	// ListFiles returns every tracked file record.
	ListFiles(ctx context.Context) ([]FileRecord, error)

	// UpsertFile inserts a file record, or refreshes the size and timestamp
	// fields of an existing record with the same path. Organization state
	// (status, confidence, rule, destination) is preserved on update.
	UpsertFile(ctx context.Context, f *FileRecord) error

	// UpdateFileStatus sets the organization status of one record.
	UpdateFileStatus(ctx context.Context, id string, status OrgStatus) error

	// UpdateFileDestination assigns a proposed destination to one record.
	UpdateFileDestination(ctx context.Context, id string, dest *Destination) error

	// Activity log

	// AppendActivity appends one immutable activity record.
	AppendActivity(ctx context.Context, a *ActivityRecord) error

	// ListActivity returns activity records with from <= timestamp < to,
	// ordered by timestamp ascending.
	ListActivity(ctx context.Context, from, to time.Time) ([]ActivityRecord, error)

	// Snapshots

	// SnapshotForDay returns the snapshot whose day falls in the half-open
	// interval [dayStart, nextDay), or nil if none exists.
	SnapshotForDay(ctx context.Context, dayStart, nextDay time.Time) (*StorageSnapshot, error)

	// LatestSnapshotBefore returns the most recent snapshot strictly before
	// day, or nil if none exists.
	LatestSnapshotBefore(ctx context.Context, day time.Time) (*StorageSnapshot, error)

	// SnapshotsInRange returns snapshots with from <= day <= to, ordered by
	// day ascending.
	SnapshotsInRange(ctx context.Context, from, to time.Time) ([]StorageSnapshot, error)

	// InsertSnapshot persists a new snapshot.
	InsertSnapshot(ctx context.Context, s *StorageSnapshot) error

	// DeleteSnapshotsBefore removes snapshots strictly older than cutoff and
	// returns the number removed. The cutoff day itself is retained.
	DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the handle.
	Close() error
}
