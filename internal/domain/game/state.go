package game

import (
	"sort"
	"strings"
	"sync"

	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
)

// Character references that expand to a whole side
const (
	RefParty = "party"
	RefTroop = "troop"
)

// State is the explicit game context: the battlers in play and the switch table.
// Components receive it instead of reaching for globals.
type State struct {
	mu         sync.RWMutex
	characters map[string]*character.Character
	switches   map[int]bool
}

// NewState creates an empty game state
func NewState() *State {
	return &State{
		characters: make(map[string]*character.Character),
		switches:   make(map[int]bool),
	}
}

// AddCharacter puts a battler in play, replacing one with the same id
func (s *State) AddCharacter(c *character.Character) error {
	if c == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if c.ID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[c.ID] = c
	return nil
}

// Character returns a battler by id
func (s *State) Character(id string) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.characters[id]
	if !ok {
		return nil, dnderr.NotFoundf("character '%s' not found", id).
			WithMeta("character_id", id)
	}
	return c, nil
}

// Members returns the battlers of one side sorted by id
func (s *State) Members(side character.Side) []*character.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*character.Character
	for _, c := range s.characters {
		if c.Side == side {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every battler sorted by id
func (s *State) All() []*character.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*character.Character, 0, len(s.characters))
	for _, c := range s.characters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve expands a character reference: an id, "party" or "troop"
func (s *State) Resolve(ref string) ([]*character.Character, error) {
	ref = strings.TrimSpace(ref)
	switch strings.ToLower(ref) {
	case "":
		return nil, dnderr.InvalidArgument("character reference is required")
	case RefParty:
		return s.Members(character.SideParty), nil
	case RefTroop:
		return s.Members(character.SideTroop), nil
	}

	c, err := s.Character(ref)
	if err != nil {
		return nil, err
	}
	return []*character.Character{c}, nil
}

// SetSwitch flips a game switch
func (s *State) SetSwitch(id int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switches[id] = on
}

// Switch reads a game switch. Unset switches are off.
func (s *State) Switch(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.switches[id]
}
