package config_test

import (
	"testing"
	"time"

	"mainstreet/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	cfg := config.FromViper(v)

	assert.Equal(t, ":3000", cfg.Port)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, 10*time.Second, cfg.ShopsQueryTimeout)
	assert.Equal(t, "data/shops.json", cfg.ShopsJSONPath)
	assert.Equal(t, "data/boutique-data.csv", cfg.ShopsCSVPath)
	assert.Equal(t, "data", cfg.DataDir())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, time.Minute, cfg.AuthRateWindow)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("PORT", ":8081")
	v.Set("ENVIRONMENT", "Production")
	v.Set("SHOPS_QUERY_TIMEOUT", "250ms")
	v.Set("DATABASE_URL", "  postgres://localhost/mainstreet  ")

	cfg := config.FromViper(v)

	assert.Equal(t, ":8081", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 250*time.Millisecond, cfg.ShopsQueryTimeout)
	assert.Equal(t, "postgres://localhost/mainstreet", cfg.DatabaseURL)
}
