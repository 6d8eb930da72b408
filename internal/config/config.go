package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig
	Redis    RedisConfig
	Billing  BillingConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Driver     string // "mysql" or "sqlite"
	Host       string
	Port       string
	User       string
	Password   string
	Database   string
	SQLitePath string
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level   string
	Format  string
	Service string
}

// RedisConfig configures the optional change-event publisher. An empty Addr disables it.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
}

// BillingConfig holds the daily room rates and fixed discharge charges
type BillingConfig struct {
	ICUDailyRate     decimal.Decimal
	PrivateDailyRate decimal.Decimal
	DefaultDailyRate decimal.Decimal
	DoctorFee        decimal.Decimal
	MedicineFee      decimal.Decimal
	OtherCharges     decimal.Decimal
	ConsultationFee  decimal.Decimal
}

type SeedConfig struct {
	OnStartup bool
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "mysql"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "3306"),
			User:       getEnv("DB_USER", "root"),
			Password:   getEnv("DB_PASSWORD", ""),
			Database:   getEnv("DB_NAME", "hospital"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "hospital.db"),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: getEnv("SERVICE_NAME", "hospital-workflow-backend"),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            parseInt(getEnv("REDIS_DB", "0"), 0),
			ChannelPrefix: getEnv("REDIS_CHANNEL_PREFIX", "hospital:events"),
		},
		Billing: BillingConfig{
			ICUDailyRate:     parseAmount(getEnv("RATE_ICU_DAILY", "550"), 550),
			PrivateDailyRate: parseAmount(getEnv("RATE_PRIVATE_DAILY", "400"), 400),
			DefaultDailyRate: parseAmount(getEnv("RATE_DEFAULT_DAILY", "250"), 250),
			DoctorFee:        parseAmount(getEnv("FEE_DOCTOR", "500"), 500),
			MedicineFee:      parseAmount(getEnv("FEE_MEDICINE", "300"), 300),
			OtherCharges:     parseAmount(getEnv("FEE_OTHER", "100"), 100),
			ConsultationFee:  parseAmount(getEnv("FEE_CONSULTATION", "150"), 150),
		},
		Seed: SeedConfig{
			OnStartup: parseBool(getEnv("SEED_ON_STARTUP", "true"), true),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(s string, fallback bool) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

func parseAmount(s string, fallback int64) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		fmt.Printf("Warning: Invalid amount '%s', using default\n", s)
		return decimal.NewFromInt(fallback)
	}
	return v
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
