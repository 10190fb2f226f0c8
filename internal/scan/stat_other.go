//go:build !unix

package scan

import (
	"io/fs"
	"time"
)

func accessTime(info fs.FileInfo) time.Time   { return info.ModTime() }
func creationTime(info fs.FileInfo) time.Time { return info.ModTime() }
