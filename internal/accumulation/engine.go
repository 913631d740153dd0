package accumulation

import (
	"log"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	"github.com/KirkDiggler/state-accumulation/internal/events"
	"github.com/KirkDiggler/state-accumulation/internal/formula"
)

// ActivationThreshold is the accumulated rate at which a state activates
const ActivationThreshold = 1.0

// Battler is the part of a character the engine touches
type Battler interface {
	GetID() string
	HasState(id states.ID) bool
	AddState(id states.ID)
}

// Settings are the author-tunable switches of the engine
type Settings struct {
	// Formula is an optional custom rate expression over a and b
	Formula string
	// LuckAdjust multiplies deltas by the attacker's luck effect rate
	LuckAdjust bool
	// CertainHitOverride skips the target state rate for certain hits
	CertainHitOverride bool
	// ImmunityRatePercent is the resistance gained per activation, in percent
	ImmunityRatePercent float64
	// ResetOnBattleEnd zeroes states flagged ClearOnBattleEnd when a battle ends
	ResetOnBattleEnd bool
	// GaugeVisible shows gauges at all
	GaugeVisible bool
	// GaugeSwitchID additionally requires this switch to be on. 0 disables the check.
	GaugeSwitchID int
}

// EngineConfig holds the dependencies of an Engine
type EngineConfig struct {
	States   states.Lookup
	Store    Store
	EventBus *events.Bus
	Settings Settings
}

// Engine owns per-character accumulation and immunity for accumulative states
type Engine struct {
	mu       sync.RWMutex
	states   states.Lookup
	store    Store
	eventBus *events.Bus
	settings Settings

	formula    *formula.Formula
	formulaErr error
}

// NewEngine creates an engine. A formula that fails to compile is reported
// here and then contributes 0 to every delta.
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg == nil {
		panic("EngineConfig cannot be nil")
	}
	if cfg.States == nil {
		panic("state lookup cannot be nil")
	}

	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}

	e := &Engine{
		states:   cfg.States,
		store:    store,
		eventBus: cfg.EventBus,
		settings: cfg.Settings,
	}

	if cfg.Settings.Formula != "" {
		f, err := formula.Compile(cfg.Settings.Formula)
		if err != nil {
			e.formulaErr = err
			log.Printf("[ACCUMULATION] WARNING: custom formula rejected, accumulation will add 0 until fixed: %v", err)
		} else {
			e.formula = f
		}
	}

	return e
}

// Settings returns the active settings
func (e *Engine) Settings() Settings {
	return e.settings
}

// FormulaError returns the compile error of the configured formula, if any
func (e *Engine) FormulaError() error {
	return e.formulaErr
}

// IsAccumulative reports whether the state is defined and flagged accumulative
func (e *Engine) IsAccumulative(id states.ID) bool {
	if id <= 0 {
		return false
	}
	def, ok := e.states.State(id)
	return ok && def.Accumulative
}

// Accumulate adds delta to the character's accumulation for the state. When the
// total reaches the threshold and the state is not already active, the state is
// added, the immunity count grows and true is returned. The stored total is
// left as is on activation.
func (e *Engine) Accumulate(b Battler, id states.ID, delta float64) bool {
	if !e.IsAccumulative(id) {
		return false
	}

	var pending []*events.Event
	activated := false

	e.mu.Lock()
	rec := e.store.Record(b.GetID())
	rec.Accumulation[id] += delta
	total := rec.Accumulation[id]

	pending = append(pending, &events.Event{
		Type:        events.OnAccumulated,
		CharacterID: b.GetID(),
		StateID:     id,
		Value:       delta,
		Total:       total,
	})

	if !b.HasState(id) && total >= ActivationThreshold {
		b.AddState(id)
		rec.ImmunityCount[id]++
		activated = true

		pending = append(pending, &events.Event{
			Type:        events.OnStateActivated,
			CharacterID: b.GetID(),
			StateID:     id,
			Value:       total,
			Total:       total,
		})
	}
	e.mu.Unlock()

	e.emit(pending)
	return activated
}

// Resistance returns the damping factor earned from past activations
func (e *Engine) Resistance(b Battler, id states.ID) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, ok := e.store.Peek(b.GetID())
	if !ok {
		return 0
	}
	return float64(rec.ImmunityCount[id]) * e.settings.ImmunityRatePercent / 100
}

// DeltaInput is everything that shapes one infliction
type DeltaInput struct {
	BaseInfliction float64
	TargetRate     float64
	LuckFactor     float64
	CertainHit     bool
	Resistance     float64

	// CharacterID and StateID only label formula diagnostics
	CharacterID string
	StateID     states.ID
}

// ComputeDelta turns an infliction into an accumulation delta in [0, 1]
func (e *Engine) ComputeDelta(in DeltaInput) float64 {
	var result float64

	switch {
	case e.formulaErr != nil:
		e.reportFormulaError(in, e.formulaErr)
	case e.formula != nil:
		v, err := e.formula.Evaluate(in.BaseInfliction, in.TargetRate)
		if err != nil {
			e.reportFormulaError(in, err)
		} else {
			result = v
		}
	case in.CertainHit && e.settings.CertainHitOverride:
		result = in.BaseInfliction
	default:
		result = in.BaseInfliction * in.TargetRate
	}

	if e.settings.LuckAdjust {
		result *= in.LuckFactor
	}
	result *= 1 - in.Resistance

	return clamp01(result)
}

// OnRemoved zeroes the accumulation of a state that left the active set
func (e *Engine) OnRemoved(b Battler, id states.ID) {
	e.mu.Lock()
	rec, ok := e.store.Peek(b.GetID())
	if !ok {
		e.mu.Unlock()
		return
	}
	_, had := rec.Accumulation[id]
	if had {
		rec.Accumulation[id] = 0
	}
	e.mu.Unlock()

	if had {
		e.emit([]*events.Event{{
			Type:        events.OnStateRemoved,
			CharacterID: b.GetID(),
			StateID:     id,
		}})
	}
}

// OnStatesCleared drops both maps after the whole state set was cleared
func (e *Engine) OnStatesCleared(b Battler) {
	e.mu.Lock()
	rec, ok := e.store.Peek(b.GetID())
	if ok {
		rec.Accumulation = make(map[states.ID]float64)
		rec.ImmunityCount = make(map[states.ID]int)
	}
	e.mu.Unlock()

	if ok {
		e.emit([]*events.Event{{
			Type:        events.OnStatesCleared,
			CharacterID: b.GetID(),
		}})
	}
}

// OnBattleEnd zeroes positive entries of states flagged ClearOnBattleEnd.
// Does nothing unless ResetOnBattleEnd is set.
func (e *Engine) OnBattleEnd(b Battler) {
	if !e.settings.ResetOnBattleEnd {
		return
	}

	var pending []*events.Event

	e.mu.Lock()
	if rec, ok := e.store.Peek(b.GetID()); ok {
		for id, v := range rec.Accumulation {
			def, defined := e.states.State(id)
			if !defined || !def.ClearOnBattleEnd || v <= 0 {
				continue
			}
			rec.Accumulation[id] = 0
			pending = append(pending, &events.Event{
				Type:        events.OnBattleEndReset,
				CharacterID: b.GetID(),
				StateID:     id,
				Value:       v,
			})
		}
	}
	e.mu.Unlock()

	e.emit(pending)
}

// Reset forgets everything about a character, as for a freshly set up enemy
func (e *Engine) Reset(b Battler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Delete(b.GetID())
}

// Value returns the stored, uncapped accumulation
func (e *Engine) Value(b Battler, id states.ID) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if rec, ok := e.store.Peek(b.GetID()); ok {
		return rec.Accumulation[id]
	}
	return 0
}

// ImmunityCount returns how many times accumulation activated the state
func (e *Engine) ImmunityCount(b Battler, id states.ID) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if rec, ok := e.store.Peek(b.GetID()); ok {
		return rec.ImmunityCount[id]
	}
	return 0
}

// GaugeFraction is the display value: accumulation capped at 1.0 and floored
// at 0, so a negative stored total shows as an empty gauge.
func (e *Engine) GaugeFraction(b Battler, id states.ID) float64 {
	return clamp01(e.Value(b, id))
}

// Snapshot copies every record for persistence
func (e *Engine) Snapshot() []*Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Records()
}

// Restore replaces every record, rehydrating legacy ones
func (e *Engine) Restore(records []*Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Replace(records)
}

// Roster is a battler whose whole state set can be read and rewritten
type Roster interface {
	Battler
	ActiveStates() []states.ID
	RemoveState(id states.ID) bool
}

// Capture snapshots every record and stamps it with the accumulative states
// active on its battler. Battlers holding such a state without a record get one.
func (e *Engine) Capture(battlers []Roster) []*Record {
	records := e.Snapshot()

	byID := make(map[string]*Record, len(records))
	for _, rec := range records {
		byID[rec.CharacterID] = rec
	}

	for _, b := range battlers {
		active := e.accumulativeOnly(b.ActiveStates())
		if len(active) == 0 {
			continue
		}
		rec, ok := byID[b.GetID()]
		if !ok {
			rec = NewRecord(b.GetID())
			byID[rec.CharacterID] = rec
			records = append(records, rec)
		}
		rec.Active = active
	}

	sort.Slice(records, func(i, j int) bool { return records[i].CharacterID < records[j].CharacterID })
	return records
}

// Apply restores the records and makes every battler's accumulative states
// match what was captured. A battler without a record ends up with none active,
// so accumulation, immunity and the active set always come from the same capture.
func (e *Engine) Apply(records []*Record, battlers []Roster) {
	e.Restore(records)

	wanted := make(map[string][]states.ID, len(records))
	for _, rec := range records {
		if rec != nil {
			wanted[rec.CharacterID] = rec.Active
		}
	}

	for _, b := range battlers {
		want := wanted[b.GetID()]
		for _, id := range e.accumulativeOnly(b.ActiveStates()) {
			if !slices.Contains(want, id) {
				b.RemoveState(id)
			}
		}
		for _, id := range e.accumulativeOnly(want) {
			b.AddState(id)
		}
	}
}

func (e *Engine) accumulativeOnly(ids []states.ID) []states.ID {
	var out []states.ID
	for _, id := range ids {
		if e.IsAccumulative(id) {
			out = append(out, id)
		}
	}
	return out
}

// reportFormulaError hands the failure to the bus, whose author warning
// listener logs it. Without a bus it is logged here.
func (e *Engine) reportFormulaError(in DeltaInput, err error) {
	if e.eventBus == nil {
		log.Printf("[ACCUMULATION] WARNING: formula error for %s state %d: %v", in.CharacterID, in.StateID, err)
		return
	}
	e.emit([]*events.Event{{
		Type:        events.OnFormulaError,
		CharacterID: in.CharacterID,
		StateID:     in.StateID,
		Err:         err,
	}})
}

func (e *Engine) emit(pending []*events.Event) {
	if e.eventBus == nil {
		return
	}
	for _, event := range pending {
		if err := e.eventBus.Emit(event); err != nil {
			log.Printf("Failed to emit event: %v", err)
		}
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
