package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tidy-go/internal/tidy"
)

// Handle is one worker's view of the record store. It wraps a dedicated
// connection checked out from the Container and implements tidy.Store.
type Handle struct {
	conn *sql.Conn
}

const fileColumns = `id, path, name, size, created_at, modified_at, accessed_at,
	category, status, confidence, rule_id, dest_kind, dest_path, dest_bookmark`

func (h *Handle) ListFiles(ctx context.Context) ([]tidy.FileRecord, error) {
	rows, err := h.conn.QueryContext(ctx, `SELECT `+fileColumns+` FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var files []tidy.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	return files, nil
}

func scanFile(rows *sql.Rows) (*tidy.FileRecord, error) {
	var f tidy.FileRecord
	var confidence sql.NullFloat64
	var ruleID sql.NullString
	var destKind, destPath sql.NullString
	var destBookmark []byte

	err := rows.Scan(&f.ID, &f.Path, &f.Name, &f.Size, &f.CreatedAt, &f.ModifiedAt, &f.AccessedAt,
		&f.Category, &f.Status, &confidence, &ruleID, &destKind, &destPath, &destBookmark)
	if err != nil {
		return nil, fmt.Errorf("scanning file row: %w", err)
	}

	if confidence.Valid {
		v := confidence.Float64
		f.Confidence = &v
	}
	if ruleID.Valid {
		f.RuleID = ruleID.String
	}
	if destKind.Valid {
		f.Destination = &tidy.Destination{
			Kind:     tidy.DestinationKind(destKind.String),
			Path:     destPath.String,
			Bookmark: destBookmark,
		}
	}
	return &f, nil
}

func (h *Handle) UpsertFile(ctx context.Context, f *tidy.FileRecord) error {
	var confidence sql.NullFloat64
	if f.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *f.Confidence, Valid: true}
	}
	var ruleID sql.NullString
	if f.RuleID != "" {
		ruleID = sql.NullString{String: f.RuleID, Valid: true}
	}
	var destKind, destPath sql.NullString
	var destBookmark []byte
	if f.Destination != nil {
		destKind = sql.NullString{String: string(f.Destination.Kind), Valid: true}
		destPath = sql.NullString{String: f.Destination.Path, Valid: true}
		destBookmark = f.Destination.Bookmark
	}

	// Rescans refresh size and timestamps but must not clobber organization
	// state already attached to the record.
	_, err := h.conn.ExecContext(ctx, `
		INSERT INTO files (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			modified_at = excluded.modified_at,
			accessed_at = excluded.accessed_at,
			category = excluded.category`,
		f.ID, f.Path, f.Name, f.Size, f.CreatedAt, f.ModifiedAt, f.AccessedAt,
		f.Category, f.Status, confidence, ruleID, destKind, destPath, destBookmark)
	if err != nil {
		return fmt.Errorf("upserting file: %w", err)
	}
	return nil
}

func (h *Handle) UpdateFileStatus(ctx context.Context, id string, status tidy.OrgStatus) error {
	_, err := h.conn.ExecContext(ctx, `UPDATE files SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating file status: %w", err)
	}
	return nil
}

func (h *Handle) UpdateFileDestination(ctx context.Context, id string, dest *tidy.Destination) error {
	var destKind, destPath sql.NullString
	var destBookmark []byte
	if dest != nil {
		destKind = sql.NullString{String: string(dest.Kind), Valid: true}
		destPath = sql.NullString{String: dest.Path, Valid: true}
		destBookmark = dest.Bookmark
	}
	_, err := h.conn.ExecContext(ctx,
		`UPDATE files SET dest_kind = ?, dest_path = ?, dest_bookmark = ? WHERE id = ?`,
		destKind, destPath, destBookmark, id)
	if err != nil {
		return fmt.Errorf("updating file destination: %w", err)
	}
	return nil
}

func (h *Handle) AppendActivity(ctx context.Context, a *tidy.ActivityRecord) error {
	var ruleID sql.NullString
	if a.RuleID != "" {
		ruleID = sql.NullString{String: a.RuleID, Valid: true}
	}
	var affected sql.NullInt64
	if a.AffectedFiles != nil {
		affected = sql.NullInt64{Int64: int64(*a.AffectedFiles), Valid: true}
	}
	_, err := h.conn.ExecContext(ctx,
		`INSERT INTO activity (id, type, timestamp, rule_id, affected_files) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Type, a.Timestamp, ruleID, affected)
	if err != nil {
		return fmt.Errorf("appending activity: %w", err)
	}
	return nil
}

func (h *Handle) ListActivity(ctx context.Context, from, to time.Time) ([]tidy.ActivityRecord, error) {
	rows, err := h.conn.QueryContext(ctx, `
		SELECT id, type, timestamp, rule_id, affected_files
		FROM activity
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp`, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	var activities []tidy.ActivityRecord
	for rows.Next() {
		var a tidy.ActivityRecord
		var ruleID sql.NullString
		var affected sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Type, &a.Timestamp, &ruleID, &affected); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		if ruleID.Valid {
			a.RuleID = ruleID.String
		}
		if affected.Valid {
			n := int(affected.Int64)
			a.AffectedFiles = &n
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity: %w", err)
	}
	return activities, nil
}

const snapshotColumns = `id, day, total_bytes, file_count, category_bytes, delta_bytes`

func (h *Handle) SnapshotForDay(ctx context.Context, dayStart, nextDay time.Time) (*tidy.StorageSnapshot, error) {
	row := h.conn.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+` FROM snapshots
		WHERE day >= ? AND day < ? LIMIT 1`, dayStart, nextDay)
	return scanSnapshot(row)
}

func (h *Handle) LatestSnapshotBefore(ctx context.Context, day time.Time) (*tidy.StorageSnapshot, error) {
	row := h.conn.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+` FROM snapshots
		WHERE day < ? ORDER BY day DESC LIMIT 1`, day)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*tidy.StorageSnapshot, error) {
	var s tidy.StorageSnapshot
	var categoryJSON string
	var delta sql.NullInt64
	err := row.Scan(&s.ID, &s.Day, &s.TotalBytes, &s.FileCount, &categoryJSON, &delta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(categoryJSON), &s.CategoryBytes); err != nil {
		return nil, fmt.Errorf("decoding category breakdown: %w", err)
	}
	if delta.Valid {
		d := delta.Int64
		s.DeltaBytes = &d
	}
	return &s, nil
}

func (h *Handle) SnapshotsInRange(ctx context.Context, from, to time.Time) ([]tidy.StorageSnapshot, error) {
	rows, err := h.conn.QueryContext(ctx, `
		SELECT `+snapshotColumns+` FROM snapshots
		WHERE day >= ? AND day <= ?
		ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []tidy.StorageSnapshot
	for rows.Next() {
		var s tidy.StorageSnapshot
		var categoryJSON string
		var delta sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Day, &s.TotalBytes, &s.FileCount, &categoryJSON, &delta); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		if err := json.Unmarshal([]byte(categoryJSON), &s.CategoryBytes); err != nil {
			return nil, fmt.Errorf("decoding category breakdown: %w", err)
		}
		if delta.Valid {
			d := delta.Int64
			s.DeltaBytes = &d
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snaps, nil
}

func (h *Handle) InsertSnapshot(ctx context.Context, s *tidy.StorageSnapshot) error {
	categoryJSON, err := json.Marshal(s.CategoryBytes)
	if err != nil {
		return fmt.Errorf("encoding category breakdown: %w", err)
	}
	var delta sql.NullInt64
	if s.DeltaBytes != nil {
		delta = sql.NullInt64{Int64: *s.DeltaBytes, Valid: true}
	}
	_, err = h.conn.ExecContext(ctx, `
		INSERT INTO snapshots (`+snapshotColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Day, s.TotalBytes, s.FileCount, string(categoryJSON), delta)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (h *Handle) DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := h.conn.ExecContext(ctx, `DELETE FROM snapshots WHERE day < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned snapshots: %w", err)
	}
	return n, nil
}

// Close returns the connection to the container's pool.
func (h *Handle) Close() error {
	return h.conn.Close()
}

// Compile-time check that Handle implements tidy.Store.
var _ tidy.Store = (*Handle)(nil)
