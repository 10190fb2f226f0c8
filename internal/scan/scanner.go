// Package scan discovers files under the configured folders and turns them
// into tracked file records for the aggregation core.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"tidy-go/internal/tidy"
)

// Scanner walks scan roots and produces file records. It proposes a folder
// destination per record from the category mapping; records without a mapped
// category stay destination-less and are never auto-organized.
type Scanner struct {
	clock        tidy.Clock
	idgen        tidy.IDGenerator
	logger       tidy.Logger
	timeout      time.Duration
	destinations map[tidy.FileCategory]string
}

func NewScanner(clock tidy.Clock, idgen tidy.IDGenerator, logger tidy.Logger,
	timeout time.Duration, destinations map[tidy.FileCategory]string) *Scanner {
	return &Scanner{
		clock:        clock,
		idgen:        idgen,
		logger:       logger,
		timeout:      timeout,
		destinations: destinations,
	}
}

// Scan walks the given roots. Per-file stat failures are collected into the
// outcome's error summary and do not fail the scan; exceeding the configured
// timeout stops the walk and marks the outcome as timed out.
func (s *Scanner) Scan(roots []string) *tidy.ScanOutcome {
	outcome := &tidy.ScanOutcome{}
	start := s.clock.Now()
	deadline := start.Add(s.timeout)
	var errs []string

	for _, root := range roots {
		if outcome.TimedOut {
			break
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if s.timeout > 0 && s.clock.Now().After(deadline) {
				outcome.TimedOut = true
				return filepath.SkipAll
			}
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", path, err))
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", path, err))
				return nil
			}

			outcome.Files = append(outcome.Files, s.record(path, info))
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", root, err))
		}
	}

	if len(errs) > 0 {
		outcome.ErrorSummary = fmt.Sprintf("%d files could not be read: %s", len(errs), strings.Join(errs, "; "))
	}

	s.logger.Info("scan finished",
		"files", len(outcome.Files), "errors", len(errs), "timedOut", outcome.TimedOut,
		"elapsed", s.clock.Now().Sub(start))
	return outcome
}

func (s *Scanner) record(path string, info fs.FileInfo) tidy.FileRecord {
	name := filepath.Base(path)
	category := Categorize(name)

	f := tidy.FileRecord{
		ID:         s.idgen.New(),
		Path:       path,
		Name:       name,
		Size:       info.Size(),
		CreatedAt:  creationTime(info),
		ModifiedAt: info.ModTime(),
		AccessedAt: accessTime(info),
		Category:   category,
		Status:     tidy.StatusPending,
	}

	if dest, ok := s.destinations[category]; ok {
		f.Destination = &tidy.Destination{
			Kind: tidy.DestinationFolder,
			Path: dest,
			// The stored path doubles as the opaque bookmark handle here;
			// validity is still resolved through the validator.
			Bookmark: []byte(dest),
		}
	}
	return f
}
