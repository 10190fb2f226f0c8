package tidy

import "time"

// FileCategory classifies a tracked file by its content type.
type FileCategory string

const (
	CategoryDocuments    FileCategory = "documents"
	CategoryImages       FileCategory = "images"
	CategoryVideos       FileCategory = "videos"
	CategoryAudio        FileCategory = "audio"
	CategoryArchives     FileCategory = "archives"
	CategoryCode         FileCategory = "code"
	CategoryScreenshots  FileCategory = "screenshots"
	CategoryApplications FileCategory = "applications"
	CategoryOther        FileCategory = "other"
)

// OrgStatus is the organization state of a tracked file.
type OrgStatus string

const (
	StatusPending   OrgStatus = "pending"
	StatusReady     OrgStatus = "ready"
	StatusCompleted OrgStatus = "completed"
	StatusSkipped   OrgStatus = "skipped"
)

// DestinationKind distinguishes folder destinations from the trash.
type DestinationKind string

const (
	DestinationFolder DestinationKind = "folder"
	DestinationTrash  DestinationKind = "trash"
)

// Destination is where a file should be moved when organized.
// Folder destinations carry an opaque bookmark handle whose validity
// must be confirmed before use; the trash needs no validation.
type Destination struct {
	Kind     DestinationKind
	Path     string
	Bookmark []byte
}

// BookmarkIdentity returns a stable byte-identity for the bookmark handle,
// suitable as a cache key for validity lookups.
func (d *Destination) BookmarkIdentity() string {
	return string(d.Bookmark)
}

// FileRecord is one tracked filesystem entry.
type FileRecord struct {
	ID         string
	Path       string
	Name       string
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	AccessedAt time.Time
	Category   FileCategory
	Status     OrgStatus

	// Confidence is the ML prediction score, if one was produced.
	Confidence *float64
	// RuleID identifies the user rule that matched, empty if none.
	RuleID string
	// Destination is the proposed target, nil until one is assigned.
	Destination *Destination
}

// ActivityType enumerates the kinds of logged actions.
type ActivityType string

const (
	ActivityFileOrganized  ActivityType = "file_organized"
	ActivityFileMoved      ActivityType = "file_moved"
	ActivityBulkOrganized  ActivityType = "bulk_organized"
	ActivityRuleApplied    ActivityType = "rule_applied"
	ActivityAutoOrganized  ActivityType = "auto_organized"
	ActivityPatternApplied ActivityType = "pattern_applied"
)

// ActivityRecord is an immutable log entry of one user- or system-triggered
// action. Bulk and rule events carry AffectedFiles so an operation touching
// twelve files counts as twelve, not one.
type ActivityRecord struct {
	ID            string
	Type          ActivityType
	Timestamp     time.Time
	RuleID        string
	AffectedFiles *int
}

// AffectedCount returns the number of files this activity touched,
// defaulting to 1 when the record doesn't say.
func (a *ActivityRecord) AffectedCount() int {
	if a.AffectedFiles == nil {
		return 1
	}
	return *a.AffectedFiles
}

// IsAutomated reports whether the activity was performed without user
// involvement (automation, rules, learned patterns).
func (a *ActivityRecord) IsAutomated() bool {
	switch a.Type {
	case ActivityAutoOrganized, ActivityRuleApplied, ActivityPatternApplied:
		return true
	}
	return false
}

// StorageSnapshot is one persisted daily measurement of aggregate storage
// usage. At most one snapshot exists per calendar day. DeltaBytes is the
// signed change versus the immediately preceding snapshot, computed once at
// creation time and frozen; nil when no prior snapshot existed.
type StorageSnapshot struct {
	ID            string
	Day           time.Time // local midnight
	TotalBytes    int64
	FileCount     int
	CategoryBytes map[FileCategory]int64
	DeltaBytes    *int64
}

// StorageTrendPoint is a derived per-day trend entry. Unlike the snapshot it
// is built from, its delta is always resolved: the stored delta when present,
// otherwise recomputed from the previous point in the sequence.
type StorageTrendPoint struct {
	Day        time.Time
	TotalBytes int64
	DeltaBytes int64
}

// CleanupImpact summarizes how much space was freed across a trend range.
type CleanupImpact struct {
	TotalFreedBytes   int64
	AvgFreedPerWeek   int64
	LargestFreedBytes int64
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
