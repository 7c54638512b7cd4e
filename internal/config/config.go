package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Messaging    MessagingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// NotificationConfig configures the email and SMS providers. Empty
// credentials select the logging channel instead.
type NotificationConfig struct {
	SendGrid              SendGridConfig
	Twilio                TwilioConfig
	ChannelTimeoutSeconds int
	ResetURLBase          string
}

// SendGridConfig holds SendGrid mail API settings.
type SendGridConfig struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
}

// TwilioConfig holds Twilio messaging API settings.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	BaseURL    string
	FromNumber string
}

// MessagingConfig configures the RabbitMQ event bridge.
type MessagingConfig struct {
	AMQPURL  string
	Exchange string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "appointment-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			SendGrid: SendGridConfig{
				APIKey:    os.Getenv("SENDGRID_API_KEY"),
				BaseURL:   getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
				FromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@example.com"),
				FromName:  getEnv("SENDGRID_FROM_NAME", "Appointments"),
			},
			Twilio: TwilioConfig{
				AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
				AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
				BaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com/2010-04-01"),
				FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
			},
			ChannelTimeoutSeconds: getEnvAsInt("NOTIFY_CHANNEL_TIMEOUT_SECONDS", 10),
			ResetURLBase:          getEnv("NOTIFY_RESET_URL_BASE", "http://localhost:8080/reset-password?token="),
		},
		Messaging: MessagingConfig{
			AMQPURL:  os.Getenv("AMQP_URL"),
			Exchange: getEnv("NOTIFY_EXCHANGE", "appointments.events"),
		},
	}

	return cfg, nil
}

// ChannelTimeout bounds a single email or SMS attempt.
func (n NotificationConfig) ChannelTimeout() time.Duration {
	if n.ChannelTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n.ChannelTimeoutSeconds) * time.Second
}

// EmailEnabled reports whether SendGrid credentials are present.
func (n NotificationConfig) EmailEnabled() bool {
	return strings.TrimSpace(n.SendGrid.APIKey) != ""
}

// SMSEnabled reports whether Twilio credentials are present.
func (n NotificationConfig) SMSEnabled() bool {
	return strings.TrimSpace(n.Twilio.AccountSID) != "" && strings.TrimSpace(n.Twilio.AuthToken) != ""
}

// PasswordResetTTL returns how long reset tokens stay valid.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
