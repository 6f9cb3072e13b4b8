package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	TwelveAPIKey string `env:"TWELVE_API_KEY" envDefault:"-"`
	Symbol       string `env:"SYMBOL" envDefault:"EUR/USD"`
	Interval     string `env:"INTERVAL" envDefault:"5min"`
	CandleCount  int    `env:"CANDLE_COUNT" envDefault:"200"`

	// Regime classifier
	LookbackVol      int     `env:"LOOKBACK_VOL" envDefault:"20"`
	LookbackTrend    int     `env:"LOOKBACK_TREND" envDefault:"40"`
	TypicalVolWindow int     `env:"TYPICAL_VOL_WINDOW" envDefault:"100"`
	VolMultHigh      float64 `env:"VOL_MULT_HIGH" envDefault:"1.5"`
	SlopeThreshold   float64 `env:"SLOPE_THRESHOLD" envDefault:"0"` // 0 = auto-pick
	AutoSlopeWindow  int     `env:"AUTO_SLOPE_WINDOW" envDefault:"200"`

	// Risk
	AccountSize    float64 `env:"ACCOUNT_SIZE" envDefault:"10000"`
	RiskPerTrade   float64 `env:"RISK_PER_TRADE" envDefault:"0.01"`
	ATRPeriod      int     `env:"ATR_PERIOD" envDefault:"14"`
	ATRShortPeriod int     `env:"ATR_SHORT_PERIOD" envDefault:"5"`
	ATRLongPeriod  int     `env:"ATR_LONG_PERIOD" envDefault:"20"`

	// Gate policy file (optional, built-in defaults apply when empty)
	GatePolicyFile string `env:"GATE_POLICY_FILE" envDefault:""`

	// Engine
	EvalSchedule string `env:"EVAL_SCHEDULE" envDefault:"0 */5 * * * *"` // cron with seconds
	RunOnStart   bool   `env:"RUN_ON_START" envDefault:"true"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds

	// Backtest
	BacktestDays int `env:"BACKTEST_DAYS" envDefault:"5"`

	// Postgres (optional; engine runs without persistence when DB_HOST empty)
	DBHost     string `env:"DB_HOST" envDefault:""`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:""`
	DBName     string `env:"DB_NAME" envDefault:"regime"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Telegram alerts (optional)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN" envDefault:""`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID" envDefault:"0"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.TwelveAPIKey = os.Getenv("TWELVE_API_KEY")
	cfg.Symbol = getEnvWithDefault("SYMBOL", "EUR/USD")
	cfg.Interval = getEnvWithDefault("INTERVAL", "5min")
	cfg.CandleCount = getEnvIntWithDefault("CANDLE_COUNT", 200)

	cfg.LookbackVol = getEnvIntWithDefault("LOOKBACK_VOL", 20)
	cfg.LookbackTrend = getEnvIntWithDefault("LOOKBACK_TREND", 40)
	cfg.TypicalVolWindow = getEnvIntWithDefault("TYPICAL_VOL_WINDOW", 100)
	cfg.VolMultHigh = getEnvFloatWithDefault("VOL_MULT_HIGH", 1.5)
	cfg.SlopeThreshold = getEnvFloatWithDefault("SLOPE_THRESHOLD", 0)
	cfg.AutoSlopeWindow = getEnvIntWithDefault("AUTO_SLOPE_WINDOW", 200)

	cfg.AccountSize = getEnvFloatWithDefault("ACCOUNT_SIZE", 10000)
	cfg.RiskPerTrade = getEnvFloatWithDefault("RISK_PER_TRADE", 0.01)
	cfg.ATRPeriod = getEnvIntWithDefault("ATR_PERIOD", 14)
	cfg.ATRShortPeriod = getEnvIntWithDefault("ATR_SHORT_PERIOD", 5)
	cfg.ATRLongPeriod = getEnvIntWithDefault("ATR_LONG_PERIOD", 20)

	cfg.GatePolicyFile = os.Getenv("GATE_POLICY_FILE")

	cfg.EvalSchedule = getEnvWithDefault("EVAL_SCHEDULE", "0 */5 * * * *")
	cfg.RunOnStart = getEnvBoolWithDefault("RUN_ON_START", true)

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.BacktestDays = getEnvIntWithDefault("BACKTEST_DAYS", 5)

	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "regime")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
