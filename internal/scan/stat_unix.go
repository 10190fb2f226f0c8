//go:build unix

package scan

import (
	"io/fs"
	"syscall"
	"time"
)

// accessTime extracts the last-access time from a FileInfo, falling back to
// the modification time when stat data is unavailable.
func accessTime(info fs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
}

// creationTime extracts the metadata-change time as the closest portable
// stand-in for creation time on Unix filesystems.
func creationTime(info fs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
