package character

import (
	"slices"

	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
)

// Side tells which group a battler fights for
type Side string

const (
	SideParty Side = "party"
	SideTroop Side = "troop"
)

// Character is a battler taking part in combat
type Character struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Side Side   `yaml:"side" json:"side"`
	Luck int    `yaml:"luck" json:"luck"`

	// StateRates scales infliction per state; missing entries mean 1.0
	StateRates map[states.ID]float64 `yaml:"state_rates,omitempty" json:"state_rates,omitempty"`

	// GaugeStateID is the accumulative state shown on this battler's gauge. 0 hides it.
	GaugeStateID states.ID `yaml:"gauge_state_id" json:"gauge_state_id"`

	// States is the active state set in application order
	States []states.ID `yaml:"states,omitempty" json:"states,omitempty"`
}

// GetID returns the character id
func (c *Character) GetID() string {
	return c.ID
}

// HasState reports whether the state is active
func (c *Character) HasState(id states.ID) bool {
	return slices.Contains(c.States, id)
}

// ActiveStates returns a copy of the active state set
func (c *Character) ActiveStates() []states.ID {
	return slices.Clone(c.States)
}

// AddState activates a state. Adding an active state is a no-op.
func (c *Character) AddState(id states.ID) {
	if c.HasState(id) {
		return
	}
	c.States = append(c.States, id)
}

// RemoveState deactivates a state and reports whether it was active
func (c *Character) RemoveState(id states.ID) bool {
	idx := slices.Index(c.States, id)
	if idx < 0 {
		return false
	}
	c.States = slices.Delete(c.States, idx, idx+1)
	return true
}

// ClearStates drops every active state and returns what was removed
func (c *Character) ClearStates() []states.ID {
	removed := c.States
	c.States = nil
	return removed
}

// StateRate returns the target effectiveness for a state
func (c *Character) StateRate(id states.ID) float64 {
	if rate, ok := c.StateRates[id]; ok {
		return rate
	}
	return 1.0
}

// IsDead reports whether the knockout state is active
func (c *Character) IsDead() bool {
	return c.HasState(states.DeathStateID)
}

// GaugeState returns the state followed by this battler's gauge
func (c *Character) GaugeState() states.ID {
	return c.GaugeStateID
}
