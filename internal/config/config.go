package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongoDB  = "mongodb"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	StoreBackend  string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	KafkaBrokers  []string // empty disables event publishing
	KafkaTopic    string
	LogLevel      string
}

// Load reads a .env file when present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		StoreBackend:  getenv("STORE_BACKEND", BackendMemory),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getenv("MONGO_DATABASE", "negocio"),
		KafkaTopic:    getenv("KAFKA_TOPIC", "entry_reconciled"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
