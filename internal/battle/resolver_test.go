package battle_test

import (
	"testing"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	"github.com/KirkDiggler/state-accumulation/internal/battle"
	"github.com/KirkDiggler/state-accumulation/internal/dice"
	mockdice "github.com/KirkDiggler/state-accumulation/internal/dice/mock"
	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	"github.com/KirkDiggler/state-accumulation/internal/gamedata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	statePoison    states.ID = 3
	stateParalysis states.ID = 4
	stateSilence   states.ID = 6
)

type ResolverTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	roller   *mockdice.MockRoller
	engine   *accumulation.Engine
	resolver *battle.Resolver
	hero     *character.Character
	orc      *character.Character
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roller = mockdice.NewMockRoller(s.ctrl)
	s.setup(accumulation.Settings{ImmunityRatePercent: 25, ResetOnBattleEnd: true})
}

func (s *ResolverTestSuite) setup(settings accumulation.Settings) {
	lookup, err := gamedata.NewStore(
		&states.Definition{ID: states.DeathStateID, Name: "Knockout"},
		&states.Definition{ID: statePoison, Name: "Poison", Accumulative: true, ClearOnBattleEnd: true},
		&states.Definition{ID: stateParalysis, Name: "Paralysis", Accumulative: true},
		&states.Definition{ID: stateSilence, Name: "Silence"},
	)
	s.Require().NoError(err)

	s.engine = accumulation.NewEngine(&accumulation.EngineConfig{
		States:   lookup,
		Settings: settings,
	})
	s.resolver = battle.NewResolver(&battle.ResolverConfig{
		Engine: s.engine,
		States: lookup,
		Roller: s.roller,
	})
	s.hero = &character.Character{ID: "hero", Side: character.SideParty, Luck: 10}
	s.orc = &character.Character{
		ID: "orc", Side: character.SideTroop, Luck: 10,
		StateRates: map[states.ID]float64{statePoison: 0.5, stateSilence: 0.5},
	}
}

func (s *ResolverTestSuite) expectPercentile(roll int) {
	s.roller.EXPECT().Roll(1, dice.PercentileSides, 0).
		Return(&dice.RollResult{Total: roll, RawTotal: roll, Rolls: []int{roll}, Count: 1, Sides: dice.PercentileSides}, nil)
}

func (s *ResolverTestSuite) TestAccumulativeBuildsUpThenActivates() {
	result := &battle.ActionResult{}
	action := &battle.ActionContext{Attacker: s.hero, Result: result}

	landed, err := s.resolver.ApplyState(action, s.orc, statePoison, 0.8)
	s.Require().NoError(err)
	s.True(landed)
	s.True(result.Success)
	s.Empty(result.AddedStates)
	s.InDelta(0.4, s.engine.Value(s.orc, statePoison), 1e-9)
	s.False(s.orc.HasState(statePoison))

	landed, err = s.resolver.ApplyState(action, s.orc, statePoison, 1.4)
	s.Require().NoError(err)
	s.True(landed)
	s.True(s.orc.HasState(statePoison))
	s.Equal([]states.ID{statePoison}, result.AddedStates)
	s.Equal(1, s.engine.ImmunityCount(s.orc, statePoison))
}

func (s *ResolverTestSuite) TestAccumulativeWithZeroDeltaDoesNotLand() {
	result := &battle.ActionResult{}
	s.orc.StateRates[statePoison] = 0

	landed, err := s.resolver.ApplyState(&battle.ActionContext{Attacker: s.hero, Result: result}, s.orc, statePoison, 0.8)
	s.Require().NoError(err)
	s.False(landed)
	s.False(result.Success)
}

func (s *ResolverTestSuite) TestAccumulativeCertainHitOverride() {
	s.setup(accumulation.Settings{CertainHitOverride: true})

	_, err := s.resolver.ApplyState(&battle.ActionContext{CertainHit: true}, s.orc, statePoison, 0.8)
	s.Require().NoError(err)
	s.InDelta(0.8, s.engine.Value(s.orc, statePoison), 1e-9)
}

func (s *ResolverTestSuite) TestResistanceDampsLaterInflictions() {
	s.Require().True(s.engine.Accumulate(s.orc, statePoison, 1))
	s.True(s.resolver.RemoveState(s.orc, statePoison))
	s.Zero(s.engine.Value(s.orc, statePoison))

	_, err := s.resolver.ApplyState(&battle.ActionContext{}, s.orc, statePoison, 0.8)
	s.Require().NoError(err)
	s.InDelta(0.3, s.engine.Value(s.orc, statePoison), 1e-9, "0.8 * 0.5 * (1 - 0.25)")
}

func (s *ResolverTestSuite) TestOrdinaryStateRollsChance() {
	result := &battle.ActionResult{}
	s.expectPercentile(40)

	landed, err := s.resolver.ApplyState(&battle.ActionContext{Attacker: s.hero, Result: result}, s.orc, stateSilence, 0.8)
	s.Require().NoError(err)
	s.True(landed)
	s.True(s.orc.HasState(stateSilence))
	s.Equal([]states.ID{stateSilence}, result.AddedStates)
	s.Zero(s.engine.Value(s.orc, stateSilence), "ordinary states never accumulate")
}

func (s *ResolverTestSuite) TestOrdinaryStateMisses() {
	result := &battle.ActionResult{}
	s.expectPercentile(41)

	landed, err := s.resolver.ApplyState(&battle.ActionContext{Attacker: s.hero, Result: result}, s.orc, stateSilence, 0.8)
	s.Require().NoError(err)
	s.False(landed)
	s.False(result.Success)
	s.False(s.orc.HasState(stateSilence))
}

func (s *ResolverTestSuite) TestOrdinaryCertainHitSkipsRate() {
	s.expectPercentile(80)

	landed, err := s.resolver.ApplyState(&battle.ActionContext{CertainHit: true}, s.orc, stateSilence, 0.8)
	s.Require().NoError(err)
	s.True(landed)
}

func (s *ResolverTestSuite) TestUnknownState() {
	_, err := s.resolver.ApplyState(&battle.ActionContext{}, s.orc, 42, 1)
	s.True(dnderr.IsNotFound(err))

	_, err = s.resolver.ApplyState(&battle.ActionContext{}, nil, statePoison, 1)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ResolverTestSuite) TestDeathClearsStatesAndAccumulation() {
	s.Require().True(s.engine.Accumulate(s.orc, statePoison, 1.2))
	s.engine.Accumulate(s.orc, stateParalysis, 0.5)
	s.orc.AddState(stateSilence)

	result := &battle.ActionResult{}
	s.expectPercentile(1)

	landed, err := s.resolver.ApplyState(&battle.ActionContext{CertainHit: true, Result: result}, s.orc, states.DeathStateID, 0.5)
	s.Require().NoError(err)
	s.True(landed)

	s.Equal([]states.ID{states.DeathStateID}, s.orc.States)
	s.ElementsMatch([]states.ID{statePoison, stateSilence}, result.RemovedStates)
	s.Zero(s.engine.Value(s.orc, statePoison))
	s.Zero(s.engine.Value(s.orc, stateParalysis))
	s.Zero(s.engine.ImmunityCount(s.orc, statePoison))
}

func (s *ResolverTestSuite) TestEndBattle() {
	s.engine.Accumulate(s.hero, statePoison, 0.6)
	s.engine.Accumulate(s.hero, stateParalysis, 0.6)
	s.hero.AddState(stateSilence)

	s.resolver.EndBattle([]*character.Character{s.hero, nil})

	s.Zero(s.engine.Value(s.hero, statePoison))
	s.InDelta(0.6, s.engine.Value(s.hero, stateParalysis), 1e-9)
	s.True(s.hero.HasState(stateSilence))
}

func (s *ResolverTestSuite) TestSetupEnemyForgetsHistory() {
	s.Require().True(s.engine.Accumulate(s.orc, statePoison, 1))

	s.resolver.SetupEnemy(s.orc)

	s.Zero(s.engine.Value(s.orc, statePoison))
	s.Zero(s.engine.Resistance(s.orc, statePoison))
}

func (s *ResolverTestSuite) TestRemoveInactiveState() {
	s.engine.Accumulate(s.orc, statePoison, 0.5)

	s.False(s.resolver.RemoveState(s.orc, statePoison))
	s.InDelta(0.5, s.engine.Value(s.orc, statePoison), 1e-9)
}

func (s *ResolverTestSuite) TestDirectAccumulateBypassesRates() {
	s.False(s.resolver.Accumulate(s.orc, statePoison, 0.6))
	s.InDelta(0.6, s.engine.Value(s.orc, statePoison), 1e-9)

	s.True(s.resolver.Accumulate(s.orc, statePoison, 0.5))
	s.True(s.orc.HasState(statePoison))

	s.False(s.resolver.Accumulate(nil, statePoison, 1))
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func TestLuckEffectRate(t *testing.T) {
	tests := []struct {
		name     string
		attacker *character.Character
		target   *character.Character
		expected float64
	}{
		{name: "equal luck", attacker: &character.Character{Luck: 20}, target: &character.Character{Luck: 20}, expected: 1},
		{name: "luckier attacker", attacker: &character.Character{Luck: 120}, target: &character.Character{Luck: 20}, expected: 1.1},
		{name: "unluckier attacker", attacker: &character.Character{Luck: 20}, target: &character.Character{Luck: 220}, expected: 0.8},
		{name: "never negative", attacker: &character.Character{Luck: 0}, target: &character.Character{Luck: 5000}, expected: 0},
		{name: "scripted source", attacker: nil, target: &character.Character{Luck: 999}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, battle.LuckEffectRate(tt.attacker, tt.target), 1e-9)
		})
	}
}

func TestNewResolver_RequiresConfig(t *testing.T) {
	require.Panics(t, func() { battle.NewResolver(nil) })
	require.Panics(t, func() { battle.NewResolver(&battle.ResolverConfig{}) })
}
