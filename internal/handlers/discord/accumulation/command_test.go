package accumulation_test

import (
	"testing"

	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	"github.com/KirkDiggler/state-accumulation/internal/handlers/discord/accumulation"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringOpt(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

func intOpt(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	// discord delivers every number as a JSON float
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v)}
}

func numberOpt(name string, v float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionNumber, Value: v}
}

func boolOpt(name string, v bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: v}
}

func commandData(sub string, opts ...*discordgo.ApplicationCommandInteractionDataOption) discordgo.ApplicationCommandInteractionData {
	return discordgo.ApplicationCommandInteractionData{
		Name: accumulation.CommandName,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts},
		},
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		data     discordgo.ApplicationCommandInteractionData
		expected *accumulation.Command
	}{
		{
			name: "add",
			data: commandData(accumulation.SubcommandAdd, stringOpt("character", " hero "), intOpt("state", 3), numberOpt("percent", -25)),
			expected: &accumulation.Command{
				Subcommand:   accumulation.SubcommandAdd,
				CharacterRef: "hero",
				StateID:      states.ID(3),
				Percent:      -25,
			},
		},
		{
			name: "inflict with attacker and certain hit",
			data: commandData(accumulation.SubcommandInflict,
				stringOpt("target", "troop"), intOpt("state", 4), numberOpt("percent", 80),
				stringOpt("attacker", "reid"), boolOpt("certain", true)),
			expected: &accumulation.Command{
				Subcommand:   accumulation.SubcommandInflict,
				CharacterRef: "troop",
				StateID:      states.ID(4),
				Percent:      80,
				AttackerID:   "reid",
				CertainHit:   true,
			},
		},
		{
			name:     "gauge",
			data:     commandData(accumulation.SubcommandGauge, stringOpt("character", "party")),
			expected: &accumulation.Command{Subcommand: accumulation.SubcommandGauge, CharacterRef: "party"},
		},
		{
			name:     "save takes no options",
			data:     commandData(accumulation.SubcommandSave),
			expected: &accumulation.Command{Subcommand: accumulation.SubcommandSave},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := accumulation.ParseCommand(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		data discordgo.ApplicationCommandInteractionData
	}{
		{name: "other command", data: discordgo.ApplicationCommandInteractionData{Name: "dnd"}},
		{name: "no subcommand", data: discordgo.ApplicationCommandInteractionData{Name: accumulation.CommandName}},
		{name: "unknown subcommand", data: commandData("explode")},
		{name: "add without character", data: commandData(accumulation.SubcommandAdd, intOpt("state", 3), numberOpt("percent", 10))},
		{name: "remove without state", data: commandData(accumulation.SubcommandRemove, stringOpt("character", "hero"))},
		{name: "gauge without character", data: commandData(accumulation.SubcommandGauge)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accumulation.ParseCommand(tt.data)
			assert.True(t, dnderr.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func TestDefinition(t *testing.T) {
	def := accumulation.Definition()
	assert.Equal(t, accumulation.CommandName, def.Name)

	var names []string
	for _, opt := range def.Options {
		names = append(names, opt.Name)
	}
	assert.ElementsMatch(t, []string{
		accumulation.SubcommandAdd,
		accumulation.SubcommandInflict,
		accumulation.SubcommandRemove,
		accumulation.SubcommandGauge,
		accumulation.SubcommandEndBattle,
		accumulation.SubcommandSave,
		accumulation.SubcommandLoad,
		accumulation.SubcommandHelp,
	}, names)
}

func TestGaugeBar(t *testing.T) {
	assert.Equal(t, "▱▱▱▱▱▱▱▱▱▱", accumulation.GaugeBar(0))
	assert.Equal(t, "▰▰▰▰▱▱▱▱▱▱", accumulation.GaugeBar(0.42))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰", accumulation.GaugeBar(1))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰", accumulation.GaugeBar(3))
}
