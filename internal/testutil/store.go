package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"tidy-go/internal/tidy"
)

// MemStore is an in-memory tidy.Store for engine tests. Unlike real handles
// it is safe for concurrent use, so snapshot-guard tests can hammer it from
// multiple goroutines.
type MemStore struct {
	mu        sync.Mutex
	files     []tidy.FileRecord
	activity  []tidy.ActivityRecord
	snapshots []tidy.StorageSnapshot
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

// AddFiles seeds file records.
func (m *MemStore) AddFiles(files ...tidy.FileRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, files...)
}

// AddActivity seeds activity records.
func (m *MemStore) AddActivity(activities ...tidy.ActivityRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = append(m.activity, activities...)
}

// AddSnapshots seeds snapshots.
func (m *MemStore) AddSnapshots(snaps ...tidy.StorageSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snaps...)
}

// Snapshots returns a copy of all stored snapshots, sorted by day.
func (m *MemStore) Snapshots() []tidy.StorageSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]tidy.StorageSnapshot(nil), m.snapshots...)
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

func (m *MemStore) ListFiles(context.Context) ([]tidy.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tidy.FileRecord(nil), m.files...), nil
}

func (m *MemStore) UpsertFile(_ context.Context, f *tidy.FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.files {
		if m.files[i].Path == f.Path {
			m.files[i].Size = f.Size
			m.files[i].ModifiedAt = f.ModifiedAt
			m.files[i].AccessedAt = f.AccessedAt
			m.files[i].Category = f.Category
			return nil
		}
	}
	m.files = append(m.files, *f)
	return nil
}

func (m *MemStore) UpdateFileStatus(_ context.Context, id string, status tidy.OrgStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.files {
		if m.files[i].ID == id {
			m.files[i].Status = status
		}
	}
	return nil
}

func (m *MemStore) UpdateFileDestination(_ context.Context, id string, dest *tidy.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.files {
		if m.files[i].ID == id {
			m.files[i].Destination = dest
		}
	}
	return nil
}

func (m *MemStore) AppendActivity(_ context.Context, a *tidy.ActivityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = append(m.activity, *a)
	return nil
}

func (m *MemStore) ListActivity(_ context.Context, from, to time.Time) ([]tidy.ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tidy.ActivityRecord
	for _, a := range m.activity {
		if !a.Timestamp.Before(from) && a.Timestamp.Before(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MemStore) SnapshotForDay(_ context.Context, dayStart, nextDay time.Time) (*tidy.StorageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.snapshots {
		s := m.snapshots[i]
		if !s.Day.Before(dayStart) && s.Day.Before(nextDay) {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MemStore) LatestSnapshotBefore(_ context.Context, day time.Time) (*tidy.StorageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *tidy.StorageSnapshot
	for i := range m.snapshots {
		s := m.snapshots[i]
		if s.Day.Before(day) && (best == nil || s.Day.After(best.Day)) {
			best = &s
		}
	}
	return best, nil
}

func (m *MemStore) SnapshotsInRange(_ context.Context, from, to time.Time) ([]tidy.StorageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tidy.StorageSnapshot
	for _, s := range m.snapshots {
		if !s.Day.Before(from) && !s.Day.After(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (m *MemStore) InsertSnapshot(_ context.Context, s *tidy.StorageSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, *s)
	return nil
}

func (m *MemStore) DeleteSnapshotsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []tidy.StorageSnapshot
	var pruned int64
	for _, s := range m.snapshots {
		if s.Day.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, s)
	}
	m.snapshots = kept
	return pruned, nil
}

func (m *MemStore) Close() error { return nil }

// Compile-time check that MemStore implements tidy.Store.
var _ tidy.Store = (*MemStore)(nil)
