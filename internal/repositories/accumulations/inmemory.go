package accumulations

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*accumulation.Record
}

// NewInMemoryRepository creates a new in-memory accumulation repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		records: make(map[string]*accumulation.Record),
	}
}

// Save stores a copy of the record
func (r *InMemoryRepository) Save(_ context.Context, record *accumulation.Record) error {
	if err := validate(record); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.CharacterID] = record.Clone()
	return nil
}

// Get retrieves a copy of a record
func (r *InMemoryRepository) Get(_ context.Context, characterID string) (*accumulation.Record, error) {
	if characterID == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[characterID]
	if !ok {
		return nil, notFound(characterID)
	}
	return rec.Clone(), nil
}

// List returns the stored character IDs
func (r *InMemoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// SaveAll replaces every stored record
func (r *InMemoryRepository) SaveAll(_ context.Context, records []*accumulation.Record) error {
	fresh := make(map[string]*accumulation.Record, len(records))
	for _, rec := range records {
		if err := validate(rec); err != nil {
			return err
		}
		fresh[rec.CharacterID] = rec.Clone()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = fresh
	return nil
}

// LoadAll returns copies of every record
func (r *InMemoryRepository) LoadAll(_ context.Context) ([]*accumulation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*accumulation.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CharacterID < out[j].CharacterID })
	return out, nil
}

// Delete removes a record
func (r *InMemoryRepository) Delete(_ context.Context, characterID string) error {
	if characterID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[characterID]; !ok {
		return notFound(characterID)
	}
	delete(r.records, characterID)
	return nil
}

func validate(record *accumulation.Record) error {
	if record == nil {
		return dnderr.InvalidArgument("record cannot be nil")
	}
	if record.CharacterID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}
	return nil
}

func notFound(characterID string) error {
	return dnderr.NotFoundf("accumulation record for '%s' not found", characterID).
		WithMeta("character_id", characterID)
}
