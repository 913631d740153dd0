package accumulations

//go:generate mockgen -destination=mock/mock.go -package=mockaccumulations -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
)

// Repository defines the interface for accumulation record persistence
type Repository interface {
	// Save stores one character's record
	Save(ctx context.Context, record *accumulation.Record) error

	// Get retrieves a record by character ID. Missing maps come back empty.
	Get(ctx context.Context, characterID string) (*accumulation.Record, error)

	// List returns the IDs of every stored character, sorted
	List(ctx context.Context) ([]string, error)

	// SaveAll replaces the stored set with the given records
	SaveAll(ctx context.Context, records []*accumulation.Record) error

	// LoadAll retrieves every stored record sorted by character ID
	LoadAll(ctx context.Context) ([]*accumulation.Record, error)

	// Delete removes a character's record
	Delete(ctx context.Context, characterID string) error
}
