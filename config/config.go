package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at boot.
type Config struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	CORSOrigin    string

	MinPlayers   int
	MaxPlayers   int
	GameDuration time.Duration
	DrawInterval time.Duration
	PrizePool    float64
}

// Load reads .env (if present) and the environment, applying defaults
// for everything except DATABASE_URL.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "4000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		MinPlayers:    getEnvInt("MIN_PLAYERS", 2),
		MaxPlayers:    getEnvInt("MAX_PLAYERS", 50),
		GameDuration:  time.Duration(getEnvInt("GAME_DURATION_MS", 300000)) * time.Millisecond,
		DrawInterval:  time.Duration(getEnvInt("DRAW_INTERVAL_MS", 5000)) * time.Millisecond,
		PrizePool:     getEnvFloat("PRIZE_POOL", 100),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] invalid %s=%q, using %d", key, v, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[WARN] invalid %s=%q, using %f", key, v, fallback)
	}
	return fallback
}
