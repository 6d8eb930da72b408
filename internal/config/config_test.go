package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("RATE_ICU_DAILY", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := LoadConfig()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.True(t, decimal.NewFromInt(550).Equal(cfg.Billing.ICUDailyRate))
	assert.True(t, decimal.NewFromInt(400).Equal(cfg.Billing.PrivateDailyRate))
	assert.True(t, decimal.NewFromInt(250).Equal(cfg.Billing.DefaultDailyRate))
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/hms.db")
	t.Setenv("RATE_ICU_DAILY", "600.50")
	t.Setenv("FEE_DOCTOR", "not-a-number")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "bogus")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEED_ON_STARTUP", "false")

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/hms.db", cfg.Database.SQLitePath)
	assert.True(t, decimal.RequireFromString("600.50").Equal(cfg.Billing.ICUDailyRate))
	assert.True(t, decimal.NewFromInt(500).Equal(cfg.Billing.DoctorFee))
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.Seed.OnStartup)
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, parseOrigins("http://a, http://b,,"))
	assert.Equal(t, []string{}, parseOrigins(""))
}
