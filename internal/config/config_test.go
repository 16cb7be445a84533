package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "entry_reconciled", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", BackendPostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/ledgers")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "postgres://localhost/ledgers", cfg.DatabaseURL)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
}
