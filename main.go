package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nomadai/config"
	"nomadai/database"
	"nomadai/handlers"
	"nomadai/planner"
	"nomadai/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	store, pinger := openStore(ctx, cfg.Store)

	amadeus := services.NewAmadeusClient(services.AmadeusOptions{
		ClientID:     cfg.Amadeus.ClientID,
		ClientSecret: cfg.Amadeus.ClientSecret,
		Env:          cfg.Amadeus.Env,
		Currency:     cfg.Planner.Currency,
		RPS:          cfg.Amadeus.RPS,
	})
	amadeus.Warm(ctx)

	places := services.NewPlacesClient(cfg.Places.APIKey, "")

	svc := planner.NewService(amadeus, amadeus, places, newCompleter(ctx, cfg.LLM), store, planner.Options{
		Currency:            cfg.Planner.Currency,
		ActivityCostCeiling: cfg.Planner.ActivityCostCeiling,
		PriceSeed:           cfg.Planner.PriceSeed,
	})

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.SetTrustedProxies(nil)

	allowedOrigins := append([]string{"http://localhost:5173", "http://localhost:3000"}, cfg.FrontendURL...)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	handlers.New(svc, amadeus, amadeus, places, pinger).Register(api)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Printf("🚀 NomadAI backend starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig) (planner.Store, handlers.Pinger) {
	switch cfg.Backend {
	case "postgres":
		pg, err := database.NewPostgresStore(ctx, cfg.DSN)
		if err != nil {
			log.Fatalf("❌ Failed to open postgres store: %v", err)
		}
		return pg, pg
	case "redis":
		client, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("❌ Failed to connect to redis: %v", err)
		}
		rs := database.NewRedisStore(client, cfg.TTL)
		log.Printf("✅ Redis store connected at %s", cfg.RedisAddr)
		return rs, rs
	default:
		if cfg.Backend != "memory" {
			log.Printf("⚠️  Unknown STORE_BACKEND %q — using memory store", cfg.Backend)
		}
		log.Printf("✅ Memory store ready (ttl %s, max %d itineraries)", cfg.TTL, cfg.MaxItems)
		return database.NewMemoryStore(cfg.TTL, cfg.MaxItems), nil
	}
}

// newCompleter returns nil when no provider is configured; the planner then
// serves the template itinerary.
func newCompleter(ctx context.Context, cfg config.LLMConfig) planner.Completer {
	switch cfg.Provider {
	case "gemini":
		g, err := services.NewGeminiClient(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("⚠️  Gemini unavailable: %v — itineraries will use the fallback template", err)
			return nil
		}
		log.Printf("✅ AI (Gemini) initialized with model: %s", cfg.GeminiModel)
		return g
	default:
		if cfg.OpenAIKey == "" {
			log.Println("⚠️  OPENAI_API_KEY not set — itineraries will use the fallback template")
			return nil
		}
		log.Printf("✅ AI (OpenAI) initialized with model: %s", cfg.OpenAIModel)
		return services.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}
}
