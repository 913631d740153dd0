package battle

import (
	"log"
	"math"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	"github.com/KirkDiggler/state-accumulation/internal/dice"
	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
)

// ResolverConfig holds the dependencies of a Resolver
type ResolverConfig struct {
	Engine *accumulation.Engine
	States states.Lookup
	Roller dice.Roller
}

// Resolver applies and removes states during combat. Every removal path goes
// through it so the accumulation engine hears about each one.
type Resolver struct {
	engine *accumulation.Engine
	states states.Lookup
	roller dice.Roller
}

// NewResolver creates a resolver
func NewResolver(cfg *ResolverConfig) *Resolver {
	if cfg == nil {
		panic("ResolverConfig cannot be nil")
	}
	if cfg.Engine == nil {
		panic("accumulation engine cannot be nil")
	}
	if cfg.States == nil {
		panic("state lookup cannot be nil")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	return &Resolver{
		engine: cfg.Engine,
		states: cfg.States,
		roller: roller,
	}
}

// LuckEffectRate is the luck ratio between attacker and target, never negative
func LuckEffectRate(attacker, target *character.Character) float64 {
	if attacker == nil || target == nil {
		return 1
	}
	return math.Max(1+float64(attacker.Luck-target.Luck)*0.001, 0)
}

// ApplyState handles one inflicted-state event and reports whether it landed.
// Accumulative states build up through the engine and land when the delta is
// positive. Ordinary states roll their chance.
func (r *Resolver) ApplyState(action *ActionContext, target *character.Character, id states.ID, baseInfliction float64) (bool, error) {
	if target == nil {
		return false, dnderr.InvalidArgument("target cannot be nil")
	}
	if action == nil {
		action = &ActionContext{}
	}
	if _, ok := r.states.State(id); !ok {
		return false, dnderr.NotFoundf("state %d not found", id).
			WithMeta("state_id", id)
	}

	if r.engine.IsAccumulative(id) {
		return r.applyAccumulative(action, target, id, baseInfliction), nil
	}
	return r.applyOrdinary(action, target, id, baseInfliction)
}

func (r *Resolver) applyAccumulative(action *ActionContext, target *character.Character, id states.ID, base float64) bool {
	delta := r.engine.ComputeDelta(accumulation.DeltaInput{
		BaseInfliction: base,
		TargetRate:     target.StateRate(id),
		LuckFactor:     LuckEffectRate(action.Attacker, target),
		CertainHit:     action.CertainHit,
		Resistance:     r.engine.Resistance(target, id),
		CharacterID:    target.ID,
		StateID:        id,
	})
	if delta <= 0 {
		return false
	}

	if r.accumulate(action.Result, target, id, delta) {
		action.Result.pushAdded(id)
	}
	action.Result.markSuccess()
	return true
}

// Accumulate adds delta directly, bypassing rates and resistance, as scripted
// events do. Reports whether the state activated.
func (r *Resolver) Accumulate(target *character.Character, id states.ID, delta float64) bool {
	if target == nil {
		return false
	}
	return r.accumulate(nil, target, id, delta)
}

func (r *Resolver) accumulate(result *ActionResult, target *character.Character, id states.ID, delta float64) bool {
	if !r.engine.Accumulate(target, id, delta) {
		return false
	}
	if id == states.DeathStateID {
		r.die(result, target)
	}
	return true
}

func (r *Resolver) applyOrdinary(action *ActionContext, target *character.Character, id states.ID, base float64) (bool, error) {
	chance := base
	if !action.CertainHit {
		chance *= target.StateRate(id)
		chance *= LuckEffectRate(action.Attacker, target)
	}

	ok, roll, err := dice.Chance(r.roller, chance)
	if err != nil {
		return false, dnderr.Wrapf(err, "failed to resolve state %d on %s", id, target.ID)
	}
	if roll != nil {
		log.Printf("[BATTLE] State %d on %s: chance %.3f, rolled %d, landed %t", id, target.ID, chance, roll.RawTotal, ok)
	}
	if !ok {
		return false, nil
	}

	r.addState(action.Result, target, id)
	action.Result.markSuccess()
	return true, nil
}

func (r *Resolver) addState(result *ActionResult, target *character.Character, id states.ID) {
	if id == states.DeathStateID {
		r.die(result, target)
	} else {
		target.AddState(id)
	}
	result.pushAdded(id)
}

// die clears everything the target had and leaves only the death state
func (r *Resolver) die(result *ActionResult, target *character.Character) {
	removed := r.ClearStates(target)
	for _, id := range removed {
		if id != states.DeathStateID {
			result.pushRemoved(id)
		}
	}
	target.AddState(states.DeathStateID)
	log.Printf("[BATTLE] %s was knocked out, cleared %d states", target.ID, len(removed))
}

// RemoveState takes a state off the target, as on expiry or cure
func (r *Resolver) RemoveState(target *character.Character, id states.ID) bool {
	if target == nil || !target.RemoveState(id) {
		return false
	}
	r.engine.OnRemoved(target, id)
	return true
}

// ClearStates removes every state and drops the target's accumulation
func (r *Resolver) ClearStates(target *character.Character) []states.ID {
	if target == nil {
		return nil
	}
	removed := target.ClearStates()
	r.engine.OnStatesCleared(target)
	return removed
}

// EndBattle lets the engine reset battle-scoped accumulation for every participant
func (r *Resolver) EndBattle(participants []*character.Character) {
	log.Printf("[BATTLE] Battle ended with %d participants", len(participants))
	for _, c := range participants {
		if c == nil {
			continue
		}
		r.engine.OnBattleEnd(c)
	}
}

// SetupEnemy prepares a freshly spawned enemy with no accumulation history
func (r *Resolver) SetupEnemy(enemy *character.Character) {
	if enemy == nil {
		return
	}
	r.engine.Reset(enemy)
}
