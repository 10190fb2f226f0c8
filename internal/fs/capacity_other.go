//go:build !unix

package fs

// StatfsProber reports filesystem capacity. On platforms without statfs it
// reports capacity as undeterminable.
type StatfsProber struct{}

func (StatfsProber) TotalBytes(path string) (int64, bool) {
	return 0, false
}
