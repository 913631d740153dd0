package testutils

import (
	"testing"

	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	"github.com/KirkDiggler/state-accumulation/internal/gamedata"
	"github.com/stretchr/testify/require"
)

// State ids used by the test fixtures
const (
	StateKnockout  = states.DeathStateID
	StatePoison    states.ID = 3
	StateParalysis states.ID = 4
	StateSilence   states.ID = 6
)

// CreateTestStates builds a game data store with one state of each kind:
// knockout, a battle-scoped accumulative state with gauge tags, a persistent
// accumulative state and an ordinary state.
func CreateTestStates(t *testing.T) *gamedata.Store {
	t.Helper()

	store, err := gamedata.NewStore(
		&states.Definition{ID: StateKnockout, Name: "Knockout"},
		&states.Definition{
			ID:               StatePoison,
			Name:             "Poison",
			Accumulative:     true,
			ClearOnBattleEnd: true,
			Tags: map[string]string{
				states.TagGaugeX: "0",
				states.TagGaugeY: "-40",
			},
		},
		&states.Definition{ID: StateParalysis, Name: "Paralysis", Accumulative: true},
		&states.Definition{ID: StateSilence, Name: "Silence"},
	)
	require.NoError(t, err)
	return store
}

// CreateTestCharacter creates a battler with neutral rates
func CreateTestCharacter(id string, side character.Side) *character.Character {
	return &character.Character{
		ID:           id,
		Name:         id,
		Side:         side,
		Luck:         10,
		GaugeStateID: StatePoison,
	}
}
