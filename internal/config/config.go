package config

import (
	"log"
	"os"
)

type Config struct {
	Port string

	// AIEnabled selects the real model-backed chat backend and summarizer.
	// When false the deterministic summarizer and the fallback chat backend
	// are wired instead. The choice is made once, at startup.
	AIEnabled bool

	GCPProjectID string
	GCPLocation  string
	ModelName    string
	Temperature  float64

	TaskBackend    string // "memory" or "firestore"
	SessionBackend string // "memory", "redis" or "firestore"

	RedisAddr     string
	RedisPassword string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config
func Load() *Config {
	cfg := &Config{
		Port: getEnv("CALTODO_PORT", "8080"),

		AIEnabled: getBoolEnv("CALTODO_AI_ENABLED", false),

		GCPProjectID: getEnv("CALTODO_GCP_PROJECT", ""),
		GCPLocation:  getEnv("CALTODO_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("CALTODO_MODEL_NAME", "gemini-2.5-flash"),
		Temperature:  0.2,

		TaskBackend:    getEnv("CALTODO_STORAGE_BACKEND", "memory"),
		SessionBackend: getEnv("CALTODO_SESSION_BACKEND", "memory"),

		RedisAddr:     getEnv("CALTODO_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("CALTODO_REDIS_PASSWORD", ""),
	}

	if cfg.AIEnabled && cfg.GCPProjectID == "" {
		log.Fatal("CALTODO_GCP_PROJECT must be set when CALTODO_AI_ENABLED=true")
	}

	return cfg
}
