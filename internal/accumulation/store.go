package accumulation

import (
	"slices"
	"sort"
	"sync"

	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
)

// Record holds the two engine-owned maps of one character. Active lists the
// accumulative states the character had when the record was captured.
type Record struct {
	CharacterID   string                `json:"character_id"`
	Accumulation  map[states.ID]float64 `json:"accumulation"`
	ImmunityCount map[states.ID]int     `json:"immunity_count"`
	Active        []states.ID           `json:"active,omitempty"`
}

// NewRecord creates an empty record
func NewRecord(characterID string) *Record {
	return &Record{
		CharacterID:   characterID,
		Accumulation:  make(map[states.ID]float64),
		ImmunityCount: make(map[states.ID]int),
	}
}

// Rehydrate creates any map missing from data saved before it existed
func (r *Record) Rehydrate() {
	if r.Accumulation == nil {
		r.Accumulation = make(map[states.ID]float64)
	}
	if r.ImmunityCount == nil {
		r.ImmunityCount = make(map[states.ID]int)
	}
}

// Clone returns a deep copy
func (r *Record) Clone() *Record {
	c := &Record{
		CharacterID:   r.CharacterID,
		Accumulation:  make(map[states.ID]float64, len(r.Accumulation)),
		ImmunityCount: make(map[states.ID]int, len(r.ImmunityCount)),
		Active:        slices.Clone(r.Active),
	}
	for k, v := range r.Accumulation {
		c.Accumulation[k] = v
	}
	for k, v := range r.ImmunityCount {
		c.ImmunityCount[k] = v
	}
	return c
}

// Store keeps accumulation records keyed by character id
type Store interface {
	// Record returns the live record, creating it on first access
	Record(characterID string) *Record

	// Peek returns the live record without creating one
	Peek(characterID string) (*Record, bool)

	// Delete forgets a character
	Delete(characterID string)

	// Records returns copies of every record sorted by character id
	Records() []*Record

	// Replace swaps the whole content, rehydrating each record
	Replace(records []*Record)
}

// MemoryStore is the in-process Store
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

func (s *MemoryStore) Record(characterID string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[characterID]; ok {
		return rec
	}
	rec := NewRecord(characterID)
	s.records[characterID] = rec
	return rec
}

func (s *MemoryStore) Peek(characterID string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[characterID]
	return rec, ok
}

func (s *MemoryStore) Delete(characterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, characterID)
}

func (s *MemoryStore) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CharacterID < out[j].CharacterID })
	return out
}

func (s *MemoryStore) Replace(records []*Record) {
	fresh := make(map[string]*Record, len(records))
	for _, rec := range records {
		if rec == nil || rec.CharacterID == "" {
			continue
		}
		c := rec.Clone()
		c.Rehydrate()
		fresh[c.CharacterID] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = fresh
}
