package tidy_test

import (
	"tidy-go/internal/tidy"
)

func confPtr(v float64) *float64 { return &v }
func countPtr(n int) *int        { return &n }
func deltaPtr(d int64) *int64    { return &d }

func folderDest(path string) *tidy.Destination {
	return &tidy.Destination{Kind: tidy.DestinationFolder, Path: path, Bookmark: []byte(path)}
}
