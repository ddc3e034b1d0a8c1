package chunk

import "sync"

// Record is the saved decoration state of a coordinate. The masks are index aligned
// with Template.Decor and Template.Obstacles.
type Record struct {
	Coordinate Coordinate `json:"coordinate"`
	Decor      []bool     `json:"decor"`
	Obstacles  []bool     `json:"obstacles"`
}

// StateStore keeps one Record per coordinate ever occupied.
type StateStore interface {
	Get(Coordinate) (Record, bool)
	Put(Record) bool
}

// MemoryStore is an append-only StateStore that lives for the process lifetime.
// The first Put for a coordinate wins; later ones are ignored.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Coordinate]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: map[Coordinate]Record{},
	}
}

// Get returns a copy of the record stored for c.
func (s *MemoryStore) Get(c Coordinate) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[c]
	if !ok {
		return Record{}, false
	}
	return r.clone(), true
}

// Put stores r unless a record for its coordinate already exists.
// Returns false when the record was discarded.
func (s *MemoryStore) Put(r Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.Coordinate]; exists {
		return false
	}
	s.records[r.Coordinate] = r.clone()
	return true
}

// Len returns the number of coordinates with a saved record.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (r Record) clone() Record {
	return Record{
		Coordinate: r.Coordinate,
		Decor:      append([]bool(nil), r.Decor...),
		Obstacles:  append([]bool(nil), r.Obstacles...),
	}
}
