package monitor

import (
	"slices"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/samber/lo"
)

// State holds the tracked symbols, keyed by BASE/QUOTE pair. It is owned by
// a single Monitor and not safe for concurrent use.
type State struct {
	symbols map[string]*core.TrackedSymbol
}

// NewState creates an empty state
func NewState() *State {
	return &State{symbols: make(map[string]*core.TrackedSymbol)}
}

// Track adds or replaces a symbol
func (s *State) Track(symbol core.TrackedSymbol) {
	s.symbols[symbol.Pair] = &symbol
}

// Get returns the tracked symbol for a pair
func (s *State) Get(pair string) (*core.TrackedSymbol, bool) {
	symbol, ok := s.symbols[pair]
	return symbol, ok
}

// Has reports whether the pair is tracked
func (s *State) Has(pair string) bool {
	_, ok := s.symbols[pair]
	return ok
}

// Len returns the number of tracked symbols
func (s *State) Len() int { return len(s.symbols) }

// Pairs returns the tracked pairs in sorted order
func (s *State) Pairs() []string {
	pairs := lo.Keys(s.symbols)
	slices.Sort(pairs)
	return pairs
}

// Snapshot returns a copy of every tracked symbol, sorted by pair
func (s *State) Snapshot() []core.TrackedSymbol {
	return lo.Map(s.Pairs(), func(pair string, _ int) core.TrackedSymbol {
		return *s.symbols[pair]
	})
}
