package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is the process configuration, read from the environment and an
// optional .env file.
type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort string
	// Timezone names the location naive timestamps are written and read in.
	Timezone string

	// DatabaseURL, when set, is used instead of the DB_* parts.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string

	// Stores is "name|domain|api key|password" entries separated by commas.
	Stores        string
	LookupTimeout time.Duration
	RecencyWindow time.Duration

	CustomerSheetPath     string
	VerificationSheetPath string

	KafkaBrokers          []string
	KafkaOrderEventsTopic string

	CacheTTL       time.Duration
	HubBuffer      int
	DefaultDrivers []string

	NormalFee      decimal.Decimal
	ExchangeFee    decimal.Decimal
	SweepOnApprove bool

	VerificationSyncSpec string
	CacheSweepSpec       string
}

// LoadConfig reads the environment. A missing .env file is not an error.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var errList []error
	c := Config{
		AppEnv:   getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnv("HTTP_PORT", "8000"),
		Timezone: getEnv("APP_TIMEZONE", "Local"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "driverdesk"),
		DBSslMode:   getEnv("DB_SSLMODE", "disable"),

		Stores:                getEnv("STORES", ""),
		CustomerSheetPath:     getEnv("CUSTOMER_SHEET_PATH", ""),
		VerificationSheetPath: getEnv("VERIFICATION_SHEET_PATH", ""),

		KafkaBrokers:          getList("KAFKA_BROKERS"),
		KafkaOrderEventsTopic: getEnv("KAFKA_ORDER_EVENTS_TOPIC", "driverdesk.order-events"),

		DefaultDrivers: getList("DEFAULT_DRIVERS"),

		VerificationSyncSpec: getEnv("VERIFICATION_SYNC_CRON", "0 */15 * * * *"),
		CacheSweepSpec:       getEnv("CACHE_SWEEP_CRON", "0 * * * * *"),
	}

	c.LookupTimeout = getDuration("LOOKUP_TIMEOUT", 10*time.Second, &errList)
	c.RecencyWindow = getDuration("LOOKUP_RECENCY_WINDOW", 50*24*time.Hour, &errList)
	c.CacheTTL = getDuration("CACHE_TTL", 60*time.Second, &errList)
	c.HubBuffer = getInt("HUB_BUFFER", 64, &errList)
	c.NormalFee = getDecimal("NORMAL_DELIVERY_FEE", decimal.NewFromInt(20), &errList)
	c.ExchangeFee = getDecimal("EXCHANGE_DELIVERY_FEE", decimal.NewFromInt(10), &errList)
	c.SweepOnApprove = getBool("PAYOUT_SWEEP_ON_APPROVE", true, &errList)

	if len(c.KafkaBrokers) > 0 && c.KafkaOrderEventsTopic == "" {
		errList = append(errList, errors.New("KAFKA_ORDER_EVENTS_TOPIC is required with KAFKA_BROKERS"))
	}
	if _, err := c.Location(); err != nil {
		errList = append(errList, err)
	}

	if err := errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDuration(key string, fallback time.Duration, errList *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errList *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errList *[]error) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func getDecimal(key string, fallback decimal.Decimal, errList *[]error) decimal.Decimal {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
