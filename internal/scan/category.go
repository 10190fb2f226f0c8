package scan

import (
	"path/filepath"
	"strings"

	"tidy-go/internal/tidy"
)

var extensionCategories = map[string]tidy.FileCategory{
	".pdf":  tidy.CategoryDocuments,
	".doc":  tidy.CategoryDocuments,
	".docx": tidy.CategoryDocuments,
	".txt":  tidy.CategoryDocuments,
	".md":   tidy.CategoryDocuments,
	".rtf":  tidy.CategoryDocuments,
	".xls":  tidy.CategoryDocuments,
	".xlsx": tidy.CategoryDocuments,
	".csv":  tidy.CategoryDocuments,
	".key":  tidy.CategoryDocuments,
	".ppt":  tidy.CategoryDocuments,
	".pptx": tidy.CategoryDocuments,

	".png":  tidy.CategoryImages,
	".jpg":  tidy.CategoryImages,
	".jpeg": tidy.CategoryImages,
	".gif":  tidy.CategoryImages,
	".heic": tidy.CategoryImages,
	".tiff": tidy.CategoryImages,
	".webp": tidy.CategoryImages,
	".svg":  tidy.CategoryImages,

	".mov": tidy.CategoryVideos,
	".mp4": tidy.CategoryVideos,
	".m4v": tidy.CategoryVideos,
	".avi": tidy.CategoryVideos,
	".mkv": tidy.CategoryVideos,

	".mp3":  tidy.CategoryAudio,
	".m4a":  tidy.CategoryAudio,
	".wav":  tidy.CategoryAudio,
	".flac": tidy.CategoryAudio,
	".aiff": tidy.CategoryAudio,

	".zip": tidy.CategoryArchives,
	".tar": tidy.CategoryArchives,
	".gz":  tidy.CategoryArchives,
	".bz2": tidy.CategoryArchives,
	".xz":  tidy.CategoryArchives,
	".7z":  tidy.CategoryArchives,
	".rar": tidy.CategoryArchives,

	".go":    tidy.CategoryCode,
	".py":    tidy.CategoryCode,
	".js":    tidy.CategoryCode,
	".ts":    tidy.CategoryCode,
	".swift": tidy.CategoryCode,
	".c":     tidy.CategoryCode,
	".h":     tidy.CategoryCode,
	".rs":    tidy.CategoryCode,
	".java":  tidy.CategoryCode,
	".sh":    tidy.CategoryCode,

	".app": tidy.CategoryApplications,
	".dmg": tidy.CategoryApplications,
	".pkg": tidy.CategoryApplications,
}

// screenshotPrefixes match the default macOS screenshot naming patterns.
var screenshotPrefixes = []string{"screenshot", "screen shot", "cleanshot"}

// Categorize classifies a file by its name and extension. Screenshot-named
// images get their own category so the insight heuristics can see them.
func Categorize(name string) tidy.FileCategory {
	ext := strings.ToLower(filepath.Ext(name))
	category, ok := extensionCategories[ext]
	if !ok {
		return tidy.CategoryOther
	}

	if category == tidy.CategoryImages {
		lower := strings.ToLower(name)
		for _, prefix := range screenshotPrefixes {
			if strings.HasPrefix(lower, prefix) {
				return tidy.CategoryScreenshots
			}
		}
	}
	return category
}
