package accumulation

import (
	"strings"

	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	accumulationService "github.com/KirkDiggler/state-accumulation/internal/services/accumulation"
	"github.com/bwmarrin/discordgo"
)

// CommandName is the slash command this package serves
const CommandName = "accumulation"

// Subcommands of /accumulation
const (
	SubcommandAdd       = "add"
	SubcommandInflict   = "inflict"
	SubcommandRemove    = "remove"
	SubcommandGauge     = "gauge"
	SubcommandEndBattle = "end-battle"
	SubcommandSave      = "save"
	SubcommandLoad      = "load"
	SubcommandHelp      = "help"
)

// Command is a parsed /accumulation invocation
type Command struct {
	Subcommand   string
	CharacterRef string
	StateID      states.ID
	Percent      float64
	AttackerID   string
	CertainHit   bool
}

func characterOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func stateOption() *discordgo.ApplicationCommandOption {
	minID := 1.0
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "state",
		Description: "State ID from the game data",
		Required:    true,
		MinValue:    &minID,
	}
}

// Definition returns the slash command registration
func Definition() *discordgo.ApplicationCommand {
	minPercent := -float64(accumulationService.MaxPercent)
	zero := 0.0

	return &discordgo.ApplicationCommand{
		Name:        CommandName,
		Description: "Accumulative state commands",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        SubcommandAdd,
				Description: "Raise or lower a state's accumulation directly",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					characterOption("character", "Character ID, party or troop"),
					stateOption(),
					{
						Type:        discordgo.ApplicationCommandOptionNumber,
						Name:        "percent",
						Description: "Signed percent to add, -100 to 100",
						Required:    true,
						MinValue:    &minPercent,
						MaxValue:    accumulationService.MaxPercent,
					},
				},
			},
			{
				Name:        SubcommandInflict,
				Description: "Simulate a combat hit that inflicts a state",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					characterOption("target", "Character ID, party or troop"),
					stateOption(),
					{
						Type:        discordgo.ApplicationCommandOptionNumber,
						Name:        "percent",
						Description: "Base infliction rate in percent",
						Required:    true,
						MinValue:    &zero,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "attacker",
						Description: "Attacking character ID (optional)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "certain",
						Description: "Treat the hit as certain",
					},
				},
			},
			{
				Name:        SubcommandRemove,
				Description: "Remove a state, as on cure or expiry",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					characterOption("character", "Character ID, party or troop"),
					stateOption(),
				},
			},
			{
				Name:        SubcommandGauge,
				Description: "Show accumulation gauges",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					characterOption("character", "Character ID, party or troop"),
				},
			},
			{
				Name:        SubcommandEndBattle,
				Description: "End the battle and reset battle-scoped accumulation",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        SubcommandSave,
				Description: "Persist accumulation records",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        SubcommandLoad,
				Description: "Reload accumulation records",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        SubcommandHelp,
				Description: "Explain the accumulation commands",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

// ParseCommand reads the subcommand and its options
func ParseCommand(data discordgo.ApplicationCommandInteractionData) (*Command, error) {
	if data.Name != CommandName {
		return nil, dnderr.InvalidArgumentf("unexpected command '%s'", data.Name)
	}
	if len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return nil, dnderr.InvalidArgument("a subcommand is required")
	}

	sub := data.Options[0]
	cmd := &Command{Subcommand: sub.Name}

	for _, opt := range sub.Options {
		switch opt.Name {
		case "character", "target":
			cmd.CharacterRef = strings.TrimSpace(opt.StringValue())
		case "state":
			cmd.StateID = states.ID(opt.IntValue())
		case "percent":
			cmd.Percent = opt.FloatValue()
		case "attacker":
			cmd.AttackerID = strings.TrimSpace(opt.StringValue())
		case "certain":
			cmd.CertainHit = opt.BoolValue()
		}
	}

	switch cmd.Subcommand {
	case SubcommandAdd, SubcommandInflict, SubcommandRemove:
		if cmd.CharacterRef == "" {
			return nil, dnderr.InvalidArgument("a character is required")
		}
		if cmd.StateID <= 0 {
			return nil, dnderr.InvalidArgument("a state ID is required")
		}
	case SubcommandGauge:
		if cmd.CharacterRef == "" {
			return nil, dnderr.InvalidArgument("a character is required")
		}
	case SubcommandEndBattle, SubcommandSave, SubcommandLoad, SubcommandHelp:
	default:
		return nil, dnderr.InvalidArgumentf("unknown subcommand '%s'", cmd.Subcommand)
	}

	return cmd, nil
}
