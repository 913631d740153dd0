package events

import (
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
)

// EventType names something that happened to a character's accumulation
type EventType string

const (
	// OnAccumulated fires after a delta was added to an accumulative state
	OnAccumulated EventType = "on_accumulated"
	// OnStateActivated fires when accumulation crossed 1.0 and added the state
	OnStateActivated EventType = "on_state_activated"
	// OnStateRemoved fires when a state left the active set and its accumulation was zeroed
	OnStateRemoved EventType = "on_state_removed"
	// OnStatesCleared fires when every state and both accumulation maps were cleared
	OnStatesCleared EventType = "on_states_cleared"
	// OnBattleEndReset fires when battle end zeroed an accumulation entry
	OnBattleEndReset EventType = "on_battle_end_reset"
	// OnFormulaError fires when the custom formula failed and contributed 0
	OnFormulaError EventType = "on_formula_error"
)

// PriorityLog runs logging listeners after any other listener. Lower runs first.
const PriorityLog = 500

// Event carries one accumulation change
type Event struct {
	ID          string
	Type        EventType
	CharacterID string
	StateID     states.ID
	// Value is the delta for OnAccumulated and the stored total otherwise
	Value float64
	Total float64
	Err   error

	cancelled bool
}

// Cancel stops propagation to lower priority listeners
func (e *Event) Cancel() { e.cancelled = true }

// IsCancelled reports whether a listener cancelled the event
func (e *Event) IsCancelled() bool { return e.cancelled }
