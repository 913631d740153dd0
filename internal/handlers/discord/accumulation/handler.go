package accumulation

import (
	"context"
	"fmt"
	"log"
	"strings"

	engine "github.com/KirkDiggler/state-accumulation/internal/accumulation"
	"github.com/KirkDiggler/state-accumulation/internal/handlers/discord/help"
	accumulationService "github.com/KirkDiggler/state-accumulation/internal/services/accumulation"
	"github.com/bwmarrin/discordgo"
)

const (
	colorSuccess = 0x2ecc71
	colorInfo    = 0x3498db
	gaugeWidth   = 10
)

// Responder is the part of the discord session used to answer interactions
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Request is one /accumulation interaction
type Request struct {
	Session     Responder
	Interaction *discordgo.InteractionCreate
}

// HandlerConfig holds configuration for the accumulation handler
type HandlerConfig struct {
	Service accumulationService.Service
}

// Handler serves /accumulation
type Handler struct {
	service accumulationService.Service
}

// NewHandler creates a new accumulation command handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil || cfg.Service == nil {
		panic("accumulation service is required")
	}
	return &Handler{service: cfg.Service}
}

// Handle parses, runs and answers the interaction. Command failures are
// reported to the user; only a failed response is returned.
func (h *Handler) Handle(req *Request) error {
	cmd, err := ParseCommand(req.Interaction.ApplicationCommandData())
	if err != nil {
		return respondContent(req, fmt.Sprintf("❌ %v", err))
	}

	embed, err := h.Execute(context.Background(), cmd)
	if err != nil {
		log.Printf("Error handling accumulation %s: %v", cmd.Subcommand, err)
		return respondContent(req, fmt.Sprintf("❌ Failed to run %s: %v", cmd.Subcommand, err))
	}

	return req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// Execute runs a parsed command against the service
func (h *Handler) Execute(ctx context.Context, cmd *Command) (*discordgo.MessageEmbed, error) {
	switch cmd.Subcommand {
	case SubcommandAdd:
		results, err := h.service.Accumulate(ctx, cmd.CharacterRef, cmd.StateID, cmd.Percent)
		if err != nil {
			return nil, err
		}
		return resultsEmbed(fmt.Sprintf("State %d %+.0f%%", cmd.StateID, cmd.Percent), results), nil

	case SubcommandInflict:
		results, err := h.service.Inflict(ctx, &accumulationService.InflictInput{
			AttackerID: cmd.AttackerID,
			TargetRef:  cmd.CharacterRef,
			StateID:    cmd.StateID,
			Percent:    cmd.Percent,
			CertainHit: cmd.CertainHit,
		})
		if err != nil {
			return nil, err
		}
		return resultsEmbed(fmt.Sprintf("Inflicted state %d at %.0f%%", cmd.StateID, cmd.Percent), results), nil

	case SubcommandRemove:
		results, err := h.service.RemoveState(ctx, cmd.CharacterRef, cmd.StateID)
		if err != nil {
			return nil, err
		}
		return resultsEmbed(fmt.Sprintf("Removed state %d", cmd.StateID), results), nil

	case SubcommandGauge:
		views, err := h.service.Gauge(ctx, cmd.CharacterRef)
		if err != nil {
			return nil, err
		}
		return gaugeEmbed(views), nil

	case SubcommandEndBattle:
		if err := h.service.EndBattle(ctx); err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{
			Title:       "🏁 Battle ended",
			Description: "Battle-scoped accumulation was reset.",
			Color:       colorSuccess,
		}, nil

	case SubcommandSave:
		count, err := h.service.Save(ctx)
		if err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{
			Title:       "💾 Saved",
			Description: fmt.Sprintf("Stored %d accumulation records.", count),
			Color:       colorSuccess,
		}, nil

	case SubcommandLoad:
		count, err := h.service.Load(ctx)
		if err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{
			Title:       "📂 Loaded",
			Description: fmt.Sprintf("Restored %d accumulation records.", count),
			Color:       colorSuccess,
		}, nil

	case SubcommandHelp:
		return help.AccumulationHelp(), nil
	}

	return nil, fmt.Errorf("unknown subcommand '%s'", cmd.Subcommand)
}

func resultsEmbed(title string, results []*accumulationService.Result) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: colorInfo,
	}
	if len(results) == 0 {
		embed.Description = "No characters matched."
		return embed
	}

	for _, r := range results {
		status := make([]string, 0, 2)
		if r.Activated {
			status = append(status, "💥 activated")
		}
		if r.Active {
			status = append(status, "active")
		} else if !r.Landed {
			status = append(status, "no effect")
		}

		value := fmt.Sprintf("%.0f%%", r.Value*100)
		if len(status) > 0 {
			value += " · " + strings.Join(status, ", ")
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   displayName(r.Name, r.CharacterID),
			Value:  value,
			Inline: false,
		})
	}
	return embed
}

func gaugeEmbed(views []engine.GaugeView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📊 Accumulation gauges",
		Color: colorInfo,
	}

	for _, v := range views {
		value := "hidden"
		if v.Visible {
			value = fmt.Sprintf("%s %.0f%% (state %d)", GaugeBar(v.Fraction), v.Fraction*100, v.StateID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  v.CharacterID,
			Value: value,
		})
	}
	if len(embed.Fields) == 0 {
		embed.Description = "No characters matched."
	}
	return embed
}

// GaugeBar draws a fraction in [0, 1] as a fixed width bar
func GaugeBar(fraction float64) string {
	filled := int(fraction*gaugeWidth + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > gaugeWidth {
		filled = gaugeWidth
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", gaugeWidth-filled)
}

func displayName(name, id string) string {
	if name == "" || name == id {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}

func respondContent(req *Request, content string) error {
	return req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
