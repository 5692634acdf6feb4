package persist

import (
	"github.com/robocore-labs/maze-rover/learning"
	"github.com/robocore-labs/maze-rover/maze"
)

// Status summarizes the persisted state.
type Status struct {
	SavedCount    uint32 // number of valid heuristics records present
	ActiveProfile uint32 // active profile slot, reserved for future use
}

// Store encodes, validates, and round-trips the two persisted records
// over a pluggable backend. It keeps the last heuristics handed to
// SaveHeuristics in RAM, so a backend write fault degrades to
// session-local persistence instead of losing the value.
type Store struct {
	backend Backend

	last    learning.Heuristics
	hasLast bool
}

// NewStore wraps a backend.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// SaveHeuristics writes the heuristics record. The value is retained in
// RAM before the write, so LoadHeuristics keeps answering after a write
// fault.
func (s *Store) SaveHeuristics(h learning.Heuristics) error {
	s.last = h
	s.hasLast = true
	return s.backend.WriteHeuristics(encodeHeuristics(h))
}

// LoadHeuristics returns the persisted heuristics, falling back to the
// in-RAM copy from this session. The second return is false when
// neither source holds a valid record.
func (s *Store) LoadHeuristics() (learning.Heuristics, bool) {
	if raw, err := s.backend.ReadHeuristics(); err == nil {
		if h, ok := decodeHeuristics(raw); ok {
			return h, true
		}
	}
	if s.hasLast {
		return s.last, true
	}
	return learning.Heuristics{}, false
}

// SaveMapSnapshot writes the wall-map snapshot record.
func (s *Store) SaveMapSnapshot(m *maze.Map) error {
	return s.backend.WriteMap(encodeMap(m))
}

// LoadMapSnapshot decodes the stored snapshot into out, which must
// already have the persisted dimensions. Returns false on a missing or
// invalid record or a dimension mismatch; out is untouched on failure.
func (s *Store) LoadMapSnapshot(out *maze.Map) bool {
	raw, err := s.backend.ReadMap()
	if err != nil {
		return false
	}
	return decodeMapInto(out, raw)
}

// EraseAll removes both records and drops the in-RAM fallback.
func (s *Store) EraseAll() error {
	s.hasLast = false
	return s.backend.EraseAll()
}

// Status reports whether a valid heuristics record is present.
func (s *Store) Status() Status {
	st := Status{}
	if raw, err := s.backend.ReadHeuristics(); err == nil {
		if _, ok := decodeHeuristics(raw); ok {
			st.SavedCount = 1
		}
	}
	return st
}
