package dice

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
)

// PercentileSides is the die used for state chance rolls
const PercentileSides = 100

// RollResult is the outcome of one roll
type RollResult struct {
	Total    int
	Rolls    []int
	Bonus    int
	Count    int
	Sides    int
	RawTotal int
}

// Roll rolls count dice of the given size and adds bonus
func Roll(count, sides, bonus int) (*RollResult, error) {
	return roll(rand.Intn, count, sides, bonus)
}

func roll(intn func(int) int, count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, dnderr.InvalidArgumentf("invalid dice count %d", count)
	}
	if sides < 1 {
		return nil, dnderr.InvalidArgumentf("invalid dice size %d", sides)
	}

	out := make([]int, count)
	raw := 0
	for i := 0; i < count; i++ {
		out[i] = intn(sides) + 1
		raw += out[i]
	}

	log.Println("Rolling", count, "d", sides, ":", out, "total:", raw+bonus)
	return &RollResult{
		Total:    raw + bonus,
		Rolls:    out,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: raw,
	}, nil
}

// Chance rolls a d100 and succeeds when it lands at or under chance*100.
// Chances at or below 0 always fail and at or above 1 always succeed, without rolling.
func Chance(roller Roller, chance float64) (bool, *RollResult, error) {
	if chance <= 0 {
		return false, nil, nil
	}
	if chance >= 1 {
		return true, nil, nil
	}

	result, err := roller.Roll(1, PercentileSides, 0)
	if err != nil {
		return false, nil, dnderr.Wrap(err, "failed to roll state chance")
	}
	return float64(result.RawTotal) <= chance*PercentileSides, result, nil
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	return fmt.Sprintf("**%d** : %s", r.Total, compact)
}
