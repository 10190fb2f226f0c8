package fs

import (
	"os"

	"tidy-go/internal/tidy"
)

// DirValidator resolves a folder destination's bookmark by checking that the
// target directory exists and is writable. The trash never reaches here:
// the eligibility pass short-circuits it.
type DirValidator struct{}

func (DirValidator) Usable(dest *tidy.Destination) bool {
	if dest.Kind == tidy.DestinationTrash {
		return true
	}
	info, err := os.Stat(dest.Path)
	if err != nil || !info.IsDir() {
		return false
	}
	// A probe write catches read-only mounts that Stat alone misses.
	f, err := os.CreateTemp(dest.Path, ".tidy-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
