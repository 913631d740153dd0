package dice

import (
	"math/rand"
	"sync"
)

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller rolls dice for state chance checks
type Roller interface {
	Roll(count, sides, bonus int) (*RollResult, error)
}

type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller returns a roller backed by the global math/rand source
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// NewSeededRoller returns a roller that replays the same sequence for a seed.
// Handy for reproducing a reported battle.
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if r.rng == nil {
		return roll(rand.Intn, count, sides, bonus)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return roll(r.rng.Intn, count, sides, bonus)
}
