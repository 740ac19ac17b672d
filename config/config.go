package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderDB  int    `mapstructure:"REDIS_REMINDER_DB"`
	CalendarCacheTTL int    `mapstructure:"CALENDAR_CACHE_TTL_SECONDS"`

	// Stripe configuration.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	// Firebase push notifications.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Booking engine settings.
	ReferenceTimeZone       string  `mapstructure:"REFERENCE_TIME_ZONE"`
	Currency                string  `mapstructure:"CURRENCY"`
	CommissionRate          float64 `mapstructure:"COMMISSION_RATE"`
	MinBookingAmountCents   int64   `mapstructure:"MIN_BOOKING_AMOUNT_CENTS"`
	CancelDeadlineHours     int     `mapstructure:"CANCEL_DEADLINE_HOURS"`
	DefaultLeadTimeMinutes  int     `mapstructure:"DEFAULT_LEAD_TIME_MINUTES"`
	DefaultSlotGranularity  int     `mapstructure:"DEFAULT_SLOT_GRANULARITY_MINUTES"`
	MaxCalendarRangeDays    int     `mapstructure:"MAX_CALENDAR_RANGE_DAYS"`
	ReminderLeadHours       int     `mapstructure:"REMINDER_LEAD_HOURS"`
	ReviewRequestDelayHours int     `mapstructure:"REVIEW_REQUEST_DELAY_HOURS"`
	CollaboratorTimeoutSecs int     `mapstructure:"COLLABORATOR_TIMEOUT_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REMINDER_DB", 1)
	viper.SetDefault("CALENDAR_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "pawsit")
	viper.SetDefault("REFERENCE_TIME_ZONE", "Europe/Berlin")
	viper.SetDefault("CURRENCY", "EUR")
	viper.SetDefault("COMMISSION_RATE", 0.15)
	viper.SetDefault("MIN_BOOKING_AMOUNT_CENTS", 500)
	viper.SetDefault("CANCEL_DEADLINE_HOURS", 24)
	viper.SetDefault("DEFAULT_LEAD_TIME_MINUTES", 120)
	viper.SetDefault("DEFAULT_SLOT_GRANULARITY_MINUTES", 60)
	viper.SetDefault("MAX_CALENDAR_RANGE_DAYS", 62)
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)
	viper.SetDefault("REVIEW_REQUEST_DELAY_HOURS", 2)
	viper.SetDefault("COLLABORATOR_TIMEOUT_SECONDS", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
