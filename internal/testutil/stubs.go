package testutil

import (
	"sync"

	"tidy-go/internal/tidy"
)

// StubValidator records how often each destination was validated and answers
// from a configured map.
type StubValidator struct {
	mu sync.Mutex
	// Usability maps bookmark identity to the answer. Missing keys are
	// treated as usable.
	Usability map[string]bool
	Calls     map[string]int
}

func NewStubValidator() *StubValidator {
	return &StubValidator{
		Usability: make(map[string]bool),
		Calls:     make(map[string]int),
	}
}

func (v *StubValidator) Usable(dest *tidy.Destination) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	key := dest.BookmarkIdentity()
	v.Calls[key]++
	usable, ok := v.Usability[key]
	if !ok {
		return true
	}
	return usable
}

// StubGate enables only the listed features.
type StubGate struct {
	Features map[tidy.Feature]bool
}

func NewStubGate(enabled ...tidy.Feature) *StubGate {
	g := &StubGate{Features: make(map[tidy.Feature]bool)}
	for _, f := range enabled {
		g.Features[f] = true
	}
	return g
}

func (g *StubGate) Enabled(f tidy.Feature) bool { return g.Features[f] }

// StubProber reports a fixed filesystem capacity.
type StubProber struct {
	Total int64
	OK    bool
}

func (p StubProber) TotalBytes(string) (int64, bool) { return p.Total, p.OK }
