//go:build unix

package fs

import "golang.org/x/sys/unix"

// StatfsProber reports filesystem capacity via statfs.
type StatfsProber struct{}

// TotalBytes returns the total byte capacity of the filesystem containing
// path. ok is false when the filesystem cannot be queried; callers treat
// that as "no capacity penalty" rather than an error.
func (StatfsProber) TotalBytes(path string) (int64, bool) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, false
	}
	return int64(st.Blocks) * int64(st.Bsize), true
}
