package tidy

// DestinationValidator reports whether a destination descriptor is usable.
// Resolving a folder bookmark is assumed expensive and rate-limited by the
// OS, so callers memoize results within one filtering pass.
type DestinationValidator interface {
	Usable(dest *Destination) bool
}

// EligibilityFilter decides, file by file, whether a scanned file may be
// auto-organized without user confirmation.
type EligibilityFilter struct {
	validator DestinationValidator
	// ruleConfidenceFloor is the separate, lower confidence bound applied to
	// rule-matched files. Rule matches are trusted more than raw ML
	// predictions, so this check is strictly weaker than the main threshold.
	ruleConfidenceFloor float64
	logger              Logger
}

func NewEligibilityFilter(validator DestinationValidator, ruleConfidenceFloor float64, logger Logger) *EligibilityFilter {
	return &EligibilityFilter{
		validator:           validator,
		ruleConfidenceFloor: ruleConfidenceFloor,
		logger:              logger,
	}
}

// EligibilityPass holds the bookmark-validity cache for one filtering pass.
// Validity must never leak into a later scan, so each pass starts empty.
type EligibilityPass struct {
	filter   *EligibilityFilter
	validity map[string]bool
}

// NewPass starts a filtering pass with a fresh validity cache.
func (f *EligibilityFilter) NewPass() *EligibilityPass {
	return &EligibilityPass{
		filter:   f,
		validity: make(map[string]bool),
	}
}

// Eligible reports whether the file qualifies for unattended organization.
// It returns false on any unmet condition and never errors; the only side
// effect is populating the pass-scoped validity cache.
func (p *EligibilityPass) Eligible(file *FileRecord, confidenceThreshold float64) bool {
	f := p.filter

	if file.Destination == nil {
		f.logger.Debug("not eligible: no destination", "path", file.Path)
		return false
	}

	if !p.DestinationUsable(file.Destination) {
		f.logger.Debug("not eligible: destination unusable", "path", file.Path)
		return false
	}

	if file.Confidence != nil && *file.Confidence < confidenceThreshold {
		f.logger.Debug("not eligible: below confidence threshold",
			"path", file.Path, "confidence", *file.Confidence, "threshold", confidenceThreshold)
		return false
	}

	if file.RuleID != "" && file.Confidence != nil {
		// The rule floor must never reject a file the main threshold already
		// accepted, even if misconfigured above it.
		floor := f.ruleConfidenceFloor
		if floor > confidenceThreshold {
			floor = confidenceThreshold
		}
		if *file.Confidence < floor {
			f.logger.Debug("not eligible: below rule confidence floor",
				"path", file.Path, "confidence", *file.Confidence, "floor", floor)
			return false
		}
	}

	return true
}

// DestinationUsable resolves destination validity, memoized by bookmark
// identity for the lifetime of the pass. The trash is always usable.
func (p *EligibilityPass) DestinationUsable(dest *Destination) bool {
	if dest.Kind == DestinationTrash {
		return true
	}
	key := dest.BookmarkIdentity()
	if usable, ok := p.validity[key]; ok {
		return usable
	}
	usable := p.filter.validator.Usable(dest)
	p.validity[key] = usable
	return usable
}
