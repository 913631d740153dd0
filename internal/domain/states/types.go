package states

import (
	"strconv"
	"strings"
)

// ID identifies a state in the game database. Ids start at 1.
type ID int

// DeathStateID is the knockout state. Adding it clears every other state.
const DeathStateID ID = 1

// Tag keys authors may put on state definitions
const (
	TagGaugeX = "AccumulationGaugeX"
	TagGaugeY = "AccumulationGaugeY"
)

// Definition is a read-only state entry loaded from game data
type Definition struct {
	ID               ID                `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Accumulative     bool              `yaml:"accumulative" json:"accumulative"`
	ClearOnBattleEnd bool              `yaml:"clear_on_battle_end" json:"clear_on_battle_end"`
	Tags             map[string]string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Tag returns the raw tag value and whether it was set
func (d *Definition) Tag(key string) (string, bool) {
	if d == nil || d.Tags == nil {
		return "", false
	}
	v, ok := d.Tags[key]
	return strings.TrimSpace(v), ok
}

// FloatTag returns a numeric tag, or fallback when missing or malformed
func (d *Definition) FloatTag(key string, fallback float64) float64 {
	raw, ok := d.Tag(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// Lookup resolves state definitions by id
type Lookup interface {
	State(id ID) (*Definition, bool)
}
