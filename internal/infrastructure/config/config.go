package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	GoEnv    string
	Port     string
	LogLevel string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string

	ClientsTable       string
	VehiclesTable      string
	InventoryTable     string
	ServiceOrdersTable string
	UsersTable         string
	PaymentsTable      string

	JWTSecret string
	JWTTTL    time.Duration

	// StockAllowNegative lets order consumption take current_stock below zero.
	StockAllowNegative bool
	LowStockCron       string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ReportCacheTTL time.Duration
	ReportTimezone string

	MercadoPagoAccessToken    string
	MercadoPagoTestPayerEmail string
	MercadoPagoTestPayerID    string
	PaymentGatewayMock        bool
}

// Load loads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	LoadEnvFiles()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFiles reads .env.<GO_ENV> first and falls back to .env. Variables
// already set in the environment win over both.
func LoadEnvFiles() {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			logrus.Debug("no .env file found, using system environment variables")
		}
		return
	}
	logrus.WithField("file", envFile).Debug("loaded configuration file")
}

// FromEnv builds a Config from the current environment without reading files
// or validating it.
func FromEnv() (*Config, error) {
	jwtTTL, err := getDuration("JWT_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("REPORT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	return &Config{
		GoEnv:    getEnv("GO_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", "local"),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", "local"),
		DynamoDBEndpoint:   getEnv("DYNAMODB_ENDPOINT", ""),

		ClientsTable:       getEnv("CLIENTS_TABLE", "clients"),
		VehiclesTable:      getEnv("VEHICLES_TABLE", "vehicles"),
		InventoryTable:     getEnv("INVENTORY_TABLE", "inventory_items"),
		ServiceOrdersTable: getEnv("SERVICE_ORDERS_TABLE", "service_orders"),
		UsersTable:         getEnv("USERS_TABLE", "users"),
		PaymentsTable:      getEnv("PAYMENTS_TABLE", "payments"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    jwtTTL,

		StockAllowNegative: getBool("STOCK_ALLOW_NEGATIVE"),
		LowStockCron:       getEnv("LOW_STOCK_CRON", "@every 1h"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASS", ""),
		RedisDB:        redisDB,
		ReportCacheTTL: cacheTTL,
		ReportTimezone: getEnv("REPORT_TIMEZONE", "America/Sao_Paulo"),

		MercadoPagoAccessToken:    getEnv("MERCADOPAGO_ACCESS_TOKEN", ""),
		MercadoPagoTestPayerEmail: getEnv("MERCADOPAGO_TEST_PAYER_EMAIL", ""),
		MercadoPagoTestPayerID:    getEnv("MERCADOPAGO_TEST_PAYER_USER_ID", ""),
		PaymentGatewayMock:        getBool("PAYMENT_GATEWAY_MOCK") || getBool("MERCADOPAGO_MOCK"),
	}, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must have at least 32 characters in production"))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric: %q", c.Port))
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		errs = append(errs, fmt.Errorf("REPORT_TIMEZONE: %w", err))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Location returns the time zone reports group days in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
