// Package uuid hands out event ids. Ids are UUIDv7 so they sort in emission order.
package uuid

//go:generate mockgen -destination=mocks/mock.go -package=mocks -source=uuid.go

import (
	"github.com/google/uuid"
)

// Generator produces unique ids for emitted events
type Generator interface {
	New() string
}

type timeOrdered struct{}

// NewTimeOrdered returns a generator of UUIDv7 strings
func NewTimeOrdered() Generator {
	return timeOrdered{}
}

func (timeOrdered) New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// only fails when the random source does
		return uuid.NewString()
	}
	return id.String()
}
