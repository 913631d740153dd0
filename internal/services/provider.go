package services

import (
	"log"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	"github.com/KirkDiggler/state-accumulation/internal/battle"
	"github.com/KirkDiggler/state-accumulation/internal/dice"
	"github.com/KirkDiggler/state-accumulation/internal/domain/character"
	"github.com/KirkDiggler/state-accumulation/internal/domain/game"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	"github.com/KirkDiggler/state-accumulation/internal/events"
	"github.com/KirkDiggler/state-accumulation/internal/gamedata"
	"github.com/KirkDiggler/state-accumulation/internal/repositories/accumulations"
	accumulationService "github.com/KirkDiggler/state-accumulation/internal/services/accumulation"
)

// Provider holds all service instances
type Provider struct {
	AccumulationService accumulationService.Service
	Engine              *accumulation.Engine
	GameState           *game.State
	EventBus            *events.Bus
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	GameData               *gamedata.Store
	Settings               accumulation.Settings
	AccumulationRepository accumulations.Repository
	Roller                 dice.Roller
}

// NewProvider creates a new service provider with all services initialized.
// Battlers from the game data are put in play and enemies start with a clean record.
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	if cfg == nil {
		panic("ProviderConfig cannot be nil")
	}
	if cfg.GameData == nil {
		return nil, dnderr.InvalidArgument("game data is required")
	}

	// Use in-memory repository if none provided
	repo := cfg.AccumulationRepository
	if repo == nil {
		repo = accumulations.NewInMemoryRepository()
	}

	bus := events.NewBus(nil)
	bus.Subscribe(events.OnFormulaError, events.NewAuthorWarningListener())
	battleLog := events.NewBattleLogListener()
	for _, eventType := range events.BattleLogEvents {
		bus.Subscribe(eventType, battleLog)
	}

	engine := accumulation.NewEngine(&accumulation.EngineConfig{
		States:   cfg.GameData,
		EventBus: bus,
		Settings: cfg.Settings,
	})

	resolver := battle.NewResolver(&battle.ResolverConfig{
		Engine: engine,
		States: cfg.GameData,
		Roller: cfg.Roller,
	})

	state := game.NewState()
	for _, c := range cfg.GameData.Battlers() {
		if err := state.AddCharacter(c); err != nil {
			return nil, dnderr.Wrapf(err, "failed to add battler %s", c.ID)
		}
		if c.Side == character.SideTroop {
			resolver.SetupEnemy(c)
		}
	}
	log.Printf("Loaded %d battlers and %d accumulative states",
		len(state.All()), len(cfg.GameData.AccumulativeStates()))

	svc := accumulationService.NewService(&accumulationService.ServiceConfig{
		GameState:  state,
		States:     cfg.GameData,
		Engine:     engine,
		Resolver:   resolver,
		Repository: repo,
	})

	return &Provider{
		AccumulationService: svc,
		Engine:              engine,
		GameState:           state,
		EventBus:            bus,
	}, nil
}
