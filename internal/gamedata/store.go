// Package gamedata loads the read-only game database: state definitions and
// the battlers placed in play at startup.
package gamedata

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
)

// File is the on-disk layout of a game data file
type File struct {
	States   []*states.Definition   `yaml:"states"`
	Battlers []*character.Character `yaml:"battlers"`
}

// Store serves state definitions by id
type Store struct {
	states   map[states.ID]*states.Definition
	battlers []*character.Character
}

// NewStore builds a store from definitions already in memory
func NewStore(defs ...*states.Definition) (*Store, error) {
	return build(&File{States: defs})
}

// Load reads and validates a YAML game data file
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game data %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML game data
func Parse(raw []byte) (*Store, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "failed to parse game data")
	}
	return build(&f)
}

func build(f *File) (*Store, error) {
	s := &Store{
		states: make(map[states.ID]*states.Definition, len(f.States)),
	}

	for _, def := range f.States {
		if def == nil {
			continue
		}
		if def.ID <= 0 {
			return nil, dnderr.InvalidArgumentf("state '%s' has invalid id %d", def.Name, def.ID)
		}
		if _, dup := s.states[def.ID]; dup {
			return nil, dnderr.InvalidArgumentf("duplicate state id %d", def.ID)
		}
		s.states[def.ID] = def
	}

	seen := make(map[string]bool, len(f.Battlers))
	for _, b := range f.Battlers {
		if b == nil {
			continue
		}
		if b.ID == "" {
			return nil, dnderr.InvalidArgumentf("battler '%s' has no id", b.Name)
		}
		if seen[b.ID] {
			return nil, dnderr.InvalidArgumentf("duplicate battler id '%s'", b.ID)
		}
		if b.Side != character.SideParty && b.Side != character.SideTroop {
			return nil, dnderr.InvalidArgumentf("battler '%s' has unknown side '%s'", b.ID, b.Side)
		}
		seen[b.ID] = true
		s.battlers = append(s.battlers, b)
	}

	return s, nil
}

// State returns a definition. Ids <= 0 are never defined.
func (s *Store) State(id states.ID) (*states.Definition, bool) {
	if id <= 0 {
		return nil, false
	}
	def, ok := s.states[id]
	return def, ok
}

// AccumulativeStates lists the ids flagged accumulative, ascending
func (s *Store) AccumulativeStates() []states.ID {
	var ids []states.ID
	for id, def := range s.states {
		if def.Accumulative {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Battlers returns fresh copies of the configured battlers
func (s *Store) Battlers() []*character.Character {
	out := make([]*character.Character, 0, len(s.battlers))
	for _, b := range s.battlers {
		c := *b
		if b.StateRates != nil {
			c.StateRates = make(map[states.ID]float64, len(b.StateRates))
			for k, v := range b.StateRates {
				c.StateRates[k] = v
			}
		}
		c.States = append([]states.ID(nil), b.States...)
		out = append(out, &c)
	}
	return out
}
