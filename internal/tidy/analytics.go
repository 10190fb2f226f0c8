package tidy

// StorageAnalytics summarizes the current set of tracked files.
type StorageAnalytics struct {
	TotalBytes       int64
	FileCount        int
	CategoryBytes    map[FileCategory]int64
	CompletedCount   int
	UnorganizedCount int // any status other than completed
}

// ComputeStorageAnalytics reduces the full set of file records into aggregate
// storage figures. It is a pure function over its input.
func ComputeStorageAnalytics(files []FileRecord) StorageAnalytics {
	a := StorageAnalytics{
		CategoryBytes: make(map[FileCategory]int64),
	}
	for i := range files {
		f := &files[i]
		a.TotalBytes += f.Size
		a.FileCount++
		a.CategoryBytes[f.Category] += f.Size
		if f.Status == StatusCompleted {
			a.CompletedCount++
		} else {
			a.UnorganizedCount++
		}
	}
	return a
}

// OrganizationScore returns completed/total as a percentage in [0,100].
// An empty file set scores 100: nothing is left to organize.
func OrganizationScore(files []FileRecord) float64 {
	if len(files) == 0 {
		return 100
	}
	completed := 0
	for i := range files {
		if files[i].Status == StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(files)) * 100
}
