package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STOCK_ALLOW_NEGATIVE", "LOW_STOCK_CRON", "REPORT_TIMEZONE", "JWT_TTL", "INVENTORY_TABLE", "PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.StockAllowNegative)
	assert.Equal(t, "@every 1h", cfg.LowStockCron)
	assert.Equal(t, "America/Sao_Paulo", cfg.ReportTimezone)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "inventory_items", cfg.InventoryTable)
	assert.False(t, cfg.PaymentGatewayMock)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STOCK_ALLOW_NEGATIVE", "true")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("MERCADOPAGO_MOCK", "on")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.StockAllowNegative)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	assert.True(t, cfg.PaymentGatewayMock)
}

func TestFromEnv_BadDuration(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{GoEnv: "development", Port: "8080", JWTSecret: "dev", JWTTTL: time.Hour, ReportTimezone: "UTC"}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.JWTSecret = ""
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET is required")

	c = valid()
	c.GoEnv = "production"
	assert.ErrorContains(t, c.Validate(), "at least 32 characters")

	c = valid()
	c.Port = "http"
	c.ReportTimezone = "Mars/Olympus"
	err := c.Validate()
	assert.ErrorContains(t, err, "PORT")
	assert.ErrorContains(t, err, "REPORT_TIMEZONE")
}
