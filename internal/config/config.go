package config

import (
	"fmt"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Discord      DiscordConfig
	Redis        RedisConfig
	GameDataPath string `env:"GAME_DATA_PATH" envDefault:"data/game.yaml"`
	Accumulation AccumulationConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is optional. Without it records live in memory only.
	URL string `env:"REDIS_URL"`
}

// AccumulationConfig holds the author-tunable accumulation switches
type AccumulationConfig struct {
	Formula            string  `env:"ACCUMULATION_FORMULA"`
	LuckAdjust         bool    `env:"ACCUMULATION_LUCK_ADJUST" envDefault:"true"`
	CertainHitOverride bool    `env:"ACCUMULATION_CERTAIN_HIT_OVERRIDE" envDefault:"true"`
	ImmunityRate       float64 `env:"ACCUMULATION_IMMUNITY_RATE" envDefault:"0"`
	ResetOnBattleEnd   bool    `env:"ACCUMULATION_RESET_ON_BATTLE_END" envDefault:"true"`
	GaugeVisible       bool    `env:"ACCUMULATION_GAUGE_VISIBLE" envDefault:"true"`
	GaugeSwitchID      int     `env:"ACCUMULATION_GAUGE_SWITCH_ID" envDefault:"0"`
}

// Settings converts the configuration into engine settings
func (c AccumulationConfig) Settings() accumulation.Settings {
	return accumulation.Settings{
		Formula:             c.Formula,
		LuckAdjust:          c.LuckAdjust,
		CertainHitOverride:  c.CertainHitOverride,
		ImmunityRatePercent: c.ImmunityRate,
		ResetOnBattleEnd:    c.ResetOnBattleEnd,
		GaugeVisible:        c.GaugeVisible,
		GaugeSwitchID:       c.GaugeSwitchID,
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}
	if cfg.Accumulation.ImmunityRate < 0 || cfg.Accumulation.ImmunityRate > 100 {
		return nil, fmt.Errorf("ACCUMULATION_IMMUNITY_RATE must be between 0 and 100, got %v", cfg.Accumulation.ImmunityRate)
	}
	if cfg.Accumulation.GaugeSwitchID < 0 {
		return nil, fmt.Errorf("ACCUMULATION_GAUGE_SWITCH_ID cannot be negative")
	}

	return cfg, nil
}
