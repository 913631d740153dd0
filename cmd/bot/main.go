package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/state-accumulation/internal/config"
	"github.com/KirkDiggler/state-accumulation/internal/gamedata"
	"github.com/KirkDiggler/state-accumulation/internal/handlers/discord"
	"github.com/KirkDiggler/state-accumulation/internal/repositories/accumulations"
	"github.com/KirkDiggler/state-accumulation/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Bot Token: %s", maskToken(cfg.Discord.Token))
	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	gameData, err := gamedata.Load(cfg.GameDataPath)
	if err != nil {
		log.Fatalf("Failed to load game data: %v", err)
	}
	log.Printf("Loaded game data from %s", cfg.GameDataPath)

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	providerConfig := &services.ProviderConfig{
		GameData: gameData,
		Settings: cfg.Accumulation.Settings(),
	}

	// Keep Redis client for cleanup
	redisClient := connectRedis(cfg.Redis.URL)
	if redisClient != nil {
		providerConfig.AccumulationRepository = accumulations.NewRedisRepository(&accumulations.RedisRepoConfig{
			Client: redisClient,
		})
		log.Println("Using Redis for persistence")
	}

	serviceProvider, err := services.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		count, loadErr := serviceProvider.AccumulationService.Load(ctx)
		cancel()
		if loadErr != nil {
			log.Printf("Failed to restore accumulation records: %v", loadErr)
		} else {
			log.Printf("Restored %d accumulation records", count)
		}
	}

	handler := discord.NewHandler(&discord.HandlerConfig{
		ServiceProvider: serviceProvider,
	})

	dg.AddHandler(handler.HandleInteraction)

	err = dg.Open()
	if err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		clientErr := dg.Close()
		if clientErr != nil {
			log.Printf("Failed to close Discord connection: %v", clientErr)
		}
	}()

	// Use empty string for global commands, or set a specific guild ID for testing
	if err := handler.RegisterCommands(dg, cfg.Discord.GuildID); err != nil {
		log.Printf("Failed to register commands: %v", err)
		return
	}

	if cfg.Discord.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.Discord.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if count, saveErr := serviceProvider.AccumulationService.Save(ctx); saveErr != nil {
			log.Printf("Failed to save accumulation records: %v", saveErr)
		} else {
			log.Printf("Saved %d accumulation records", count)
		}
		cancel()

		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}

// connectRedis returns nil when persistence should fall back to memory
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("No REDIS_URL found, using in-memory repositories")
		return nil
	}

	log.Printf("Connecting to Redis at: %s", redisURL)

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v", err)
		log.Println("Falling back to in-memory repositories")
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		log.Println("Falling back to in-memory repositories")
		_ = client.Close()
		return nil
	}

	log.Println("Successfully connected to Redis")
	return client
}

func maskToken(token string) string {
	if len(token) < 12 {
		return "****"
	}
	return token[:8] + "..." + token[len(token)-4:]
}
