package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, 30*time.Second, cfg.Ingest.Timeout())
	assert.True(t, cfg.Ozon.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, domain.DefaultThresholds(), cfg.Finance.Thresholds())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FINANCE_LOW_MARGIN_THRESHOLD", "25")
	t.Setenv("FINANCE_STALE_DAYS", "14")
	t.Setenv("WB_ENABLED", "false")
	t.Setenv("CACHE_BACKEND", "Redis")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	cfg := fromViper(v)

	th := cfg.Finance.Thresholds()
	assert.Equal(t, 25.0, th.LowMargin)
	assert.Equal(t, 14*24*time.Hour, th.StaleAfter)
	assert.False(t, cfg.Wildberries.Enabled)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db", DatabaseConfig{URL: "postgres://u@h/db"}.DSN())
	assert.Equal(t,
		"host=h port=5432 user=u password=p dbname=d sslmode=disable",
		DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}.DSN())
}
