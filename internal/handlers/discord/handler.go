package discord

import (
	"fmt"
	"log"

	"github.com/KirkDiggler/state-accumulation/internal/handlers/discord/accumulation"
	"github.com/KirkDiggler/state-accumulation/internal/services"
	"github.com/bwmarrin/discordgo"
)

// Handler handles all Discord interactions
type Handler struct {
	ServiceProvider     *services.Provider
	accumulationHandler *accumulation.Handler
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ServiceProvider *services.Provider
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil || cfg.ServiceProvider == nil {
		panic("service provider is required")
	}

	return &Handler{
		ServiceProvider: cfg.ServiceProvider,
		accumulationHandler: accumulation.NewHandler(&accumulation.HandlerConfig{
			Service: cfg.ServiceProvider.AccumulationService,
		}),
	}
}

// Commands returns every slash command the bot serves
func (h *Handler) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		accumulation.Definition(),
	}
}

// RegisterCommands registers all slash commands with Discord
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	for _, cmd := range h.Commands() {
		_, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		log.Printf("Registered command: %s", cmd.Name)
	}

	return nil
}

// HandleInteraction handles all Discord interactions
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case accumulation.CommandName:
		req := &accumulation.Request{
			Session:     s,
			Interaction: i,
		}
		if err := h.accumulationHandler.Handle(req); err != nil {
			log.Printf("Error handling accumulation command: %v", err)
		}
	}
}
