package persist

// Flash geometry of the reserved erase unit.
const (
	sectorSize = 4096
	pageSize   = 256
)

// SectorBackend emulates the embedded storage layout: one 4 KiB erase
// unit holding the heuristics record in its first 256-byte page and the
// map snapshot in the second. Writing the heuristics erases the sector
// first, mirroring the flash erase-before-program cycle, so the save
// order on goal arrival is heuristics first, then the map snapshot.
//
// FailWrites injects write faults for exercising the fault-recovery
// path.
type SectorBackend struct {
	sector [sectorSize]byte

	// FailWrites makes every write return ErrWriteFault.
	FailWrites bool
}

// NewSectorBackend returns an erased sector.
func NewSectorBackend() *SectorBackend {
	s := &SectorBackend{}
	s.erase()
	return s
}

func (s *SectorBackend) erase() {
	for i := range s.sector {
		s.sector[i] = 0xFF
	}
}

// WriteHeuristics erases the sector and programs the first page.
func (s *SectorBackend) WriteHeuristics(record []byte) error {
	if s.FailWrites {
		return ErrWriteFault
	}
	if len(record) > pageSize {
		return ErrTooLarge
	}
	s.erase()
	copy(s.sector[:pageSize], record)
	return nil
}

// ReadHeuristics returns the first page.
func (s *SectorBackend) ReadHeuristics() ([]byte, error) {
	page := make([]byte, pageSize)
	copy(page, s.sector[:pageSize])
	return page, nil
}

// WriteMap programs the second page. The record must fit the page
// budget.
func (s *SectorBackend) WriteMap(record []byte) error {
	if s.FailWrites {
		return ErrWriteFault
	}
	if len(record) > pageSize {
		return ErrTooLarge
	}
	copy(s.sector[pageSize:2*pageSize], record)
	return nil
}

// ReadMap returns the second page.
func (s *SectorBackend) ReadMap() ([]byte, error) {
	page := make([]byte, pageSize)
	copy(page, s.sector[pageSize:2*pageSize])
	return page, nil
}

// EraseAll erases the whole sector.
func (s *SectorBackend) EraseAll() error {
	if s.FailWrites {
		return ErrWriteFault
	}
	s.erase()
	return nil
}
