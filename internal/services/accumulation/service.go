package accumulation

//go:generate mockgen -destination=mock/mock_service.go -package=mockaccumulation -source=service.go

import (
	"context"
	"log"
	"sync"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	"github.com/KirkDiggler/state-accumulation/internal/battle"
	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	"github.com/KirkDiggler/state-accumulation/internal/domain/game"
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	"github.com/KirkDiggler/state-accumulation/internal/repositories/accumulations"
)

// MaxPercent bounds the signed percent of a direct accumulation
const MaxPercent = 100

// Result is the state of one character's accumulation after a command
type Result struct {
	CharacterID string
	Name        string
	StateID     states.ID
	// Value is the stored, uncapped accumulation
	Value     float64
	Landed    bool
	Activated bool
	Active    bool
}

// InflictInput simulates one inflicted-state event from combat
type InflictInput struct {
	// AttackerID is optional. Without it luck is neutral.
	AttackerID string
	TargetRef  string
	StateID    states.ID
	// Percent is the base infliction of the effect, 0 or more
	Percent    float64
	CertainHit bool
}

// Service is the game master facing surface of the accumulation feature
type Service interface {
	// Accumulate adjusts accumulation directly by signedPercent in [-100, 100].
	// characterRef is a character ID, "party" or "troop".
	Accumulate(ctx context.Context, characterRef string, stateID states.ID, signedPercent float64) ([]*Result, error)

	// Inflict runs one inflicted-state event through the combat resolver
	Inflict(ctx context.Context, input *InflictInput) ([]*Result, error)

	// RemoveState takes a state off the referenced characters
	RemoveState(ctx context.Context, characterRef string, stateID states.ID) ([]*Result, error)

	// EndBattle applies battle end to every character in play
	EndBattle(ctx context.Context) error

	// Gauge returns the gauge views of the referenced characters
	Gauge(ctx context.Context, characterRef string) ([]accumulation.GaugeView, error)

	// Save persists every accumulation record, with the accumulative states
	// active on each character, and returns how many were written
	Save(ctx context.Context) (int, error)

	// Load replaces every accumulation record from storage, puts the saved
	// accumulative states back on the characters and returns how many were read
	Load(ctx context.Context) (int, error)
}

// ServiceConfig holds configuration for the accumulation service
type ServiceConfig struct {
	GameState  *game.State
	States     states.Lookup
	Engine     *accumulation.Engine
	Resolver   *battle.Resolver
	Repository accumulations.Repository
}

type service struct {
	// mu serialises commands; interactions arrive on separate goroutines
	mu         sync.Mutex
	gameState  *game.State
	states     states.Lookup
	engine     *accumulation.Engine
	resolver   *battle.Resolver
	repository accumulations.Repository
}

// NewService creates a new accumulation service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("ServiceConfig cannot be nil")
	}
	if cfg.GameState == nil {
		panic("game state is required")
	}
	if cfg.States == nil {
		panic("state lookup is required")
	}
	if cfg.Engine == nil {
		panic("accumulation engine is required")
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = battle.NewResolver(&battle.ResolverConfig{
			Engine: cfg.Engine,
			States: cfg.States,
		})
	}

	repo := cfg.Repository
	if repo == nil {
		repo = accumulations.NewInMemoryRepository()
	}

	return &service{
		gameState:  cfg.GameState,
		states:     cfg.States,
		engine:     cfg.Engine,
		resolver:   resolver,
		repository: repo,
	}
}

func (s *service) Accumulate(_ context.Context, characterRef string, stateID states.ID, signedPercent float64) ([]*Result, error) {
	if signedPercent < -MaxPercent || signedPercent > MaxPercent {
		return nil, dnderr.InvalidArgumentf("percent must be between -%d and %d, got %v", MaxPercent, MaxPercent, signedPercent).
			WithMeta("percent", signedPercent)
	}
	if err := s.requireAccumulative(stateID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets, err := s.gameState.Resolve(characterRef)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to resolve '%s'", characterRef)
	}

	results := make([]*Result, 0, len(targets))
	for _, c := range targets {
		activated := s.resolver.Accumulate(c, stateID, signedPercent/100)
		res := s.result(c, stateID)
		res.Activated = activated
		res.Landed = true
		results = append(results, res)
	}

	log.Printf("[ACCUMULATION] Command adjusted state %d on %s by %+.1f%% (%d characters)",
		stateID, characterRef, signedPercent, len(results))
	return results, nil
}

func (s *service) Inflict(_ context.Context, input *InflictInput) ([]*Result, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if input.Percent < 0 {
		return nil, dnderr.InvalidArgumentf("infliction percent cannot be negative, got %v", input.Percent)
	}
	if _, ok := s.states.State(input.StateID); !ok {
		return nil, stateNotFound(input.StateID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var attacker *character.Character
	if input.AttackerID != "" {
		var err error
		attacker, err = s.gameState.Character(input.AttackerID)
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to find attacker")
		}
	}

	targets, err := s.gameState.Resolve(input.TargetRef)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to resolve '%s'", input.TargetRef)
	}

	results := make([]*Result, 0, len(targets))
	for _, c := range targets {
		action := &battle.ActionContext{
			Attacker:   attacker,
			CertainHit: input.CertainHit,
			Result:     &battle.ActionResult{},
		}
		landed, err := s.resolver.ApplyState(action, c, input.StateID, input.Percent/100)
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to inflict state %d on %s", input.StateID, c.ID)
		}

		res := s.result(c, input.StateID)
		res.Landed = landed
		for _, added := range action.Result.AddedStates {
			if added == input.StateID {
				res.Activated = true
			}
		}
		results = append(results, res)
	}

	return results, nil
}

func (s *service) RemoveState(_ context.Context, characterRef string, stateID states.ID) ([]*Result, error) {
	if _, ok := s.states.State(stateID); !ok {
		return nil, stateNotFound(stateID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets, err := s.gameState.Resolve(characterRef)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to resolve '%s'", characterRef)
	}

	results := make([]*Result, 0, len(targets))
	for _, c := range targets {
		removed := s.resolver.RemoveState(c, stateID)
		res := s.result(c, stateID)
		res.Landed = removed
		results = append(results, res)
	}
	return results, nil
}

func (s *service) EndBattle(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolver.EndBattle(s.gameState.All())
	return nil
}

func (s *service) Gauge(_ context.Context, characterRef string) ([]accumulation.GaugeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets, err := s.gameState.Resolve(characterRef)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to resolve '%s'", characterRef)
	}

	views := make([]accumulation.GaugeView, 0, len(targets))
	for _, c := range targets {
		views = append(views, s.engine.Gauge(c, s.gameState))
	}
	return views, nil
}

func (s *service) Save(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.engine.Capture(s.roster())
	if err := s.repository.SaveAll(ctx, records); err != nil {
		return 0, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to save accumulation")
	}

	log.Printf("[ACCUMULATION] Saved %d records", len(records))
	return len(records), nil
}

func (s *service) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repository.LoadAll(ctx)
	if err != nil {
		return 0, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to load accumulation")
	}
	s.engine.Apply(records, s.roster())

	log.Printf("[ACCUMULATION] Loaded %d records", len(records))
	return len(records), nil
}

func (s *service) roster() []accumulation.Roster {
	all := s.gameState.All()
	out := make([]accumulation.Roster, 0, len(all))
	for _, c := range all {
		out = append(out, c)
	}
	return out
}

func (s *service) requireAccumulative(id states.ID) error {
	def, ok := s.states.State(id)
	if !ok {
		return stateNotFound(id)
	}
	if !def.Accumulative {
		return dnderr.InvalidArgumentf("state %d (%s) is not accumulative", id, def.Name).
			WithMeta("state_id", id)
	}
	return nil
}

func (s *service) result(c *character.Character, id states.ID) *Result {
	return &Result{
		CharacterID: c.ID,
		Name:        c.Name,
		StateID:     id,
		Value:       s.engine.Value(c, id),
		Active:      c.HasState(id),
	}
}

func stateNotFound(id states.ID) error {
	return dnderr.NotFoundf("state %d not found", id).
		WithMeta("state_id", id)
}
