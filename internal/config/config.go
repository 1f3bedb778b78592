package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Security
	JWTSecret     string
	OrganizerAuth bool
	TeamAuth      bool
	AllowedOrigin string

	// Application
	AppEnv    string
	AppBind   string
	AppPort   int
	LogLevel  string
	PublicURL string

	// Rate Limiting
	RateLimitPerTeam int
	RateLimitPerIP   int
	RateLimitWindow  time.Duration

	// Real-time channel
	WSSendBuffer   int
	WSMaxMessage   int64
	WSPingInterval time.Duration

	// Telegram hint mirror (optional)
	TelegramBotToken string
	TelegramChatID   int64
}

const defaultJWTSecret = "your_jwt_secret_minimum_32_chars_here_change_this"

// NewViper returns a viper instance with every key defaulted and bound to
// the environment variable of the same name in upper case.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_driver", DBDriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "quiz")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "quiz_db")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("sqlite_path", "quiz.db")

	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("organizer_auth", false)
	v.SetDefault("team_auth", false)
	v.SetDefault("allowed_origin", "*")

	v.SetDefault("app_env", "development")
	v.SetDefault("app_bind", "0.0.0.0")
	v.SetDefault("app_port", 3002)
	v.SetDefault("log_level", "info")
	v.SetDefault("public_url", "")

	v.SetDefault("rate_limit_per_team", 30)
	v.SetDefault("rate_limit_per_ip", 120)
	v.SetDefault("rate_limit_window", time.Minute)

	v.SetDefault("ws_send_buffer", 16)
	v.SetDefault("ws_max_message", 4096)
	v.SetDefault("ws_ping_interval", 30*time.Second)

	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_chat_id", "")

	return v
}

// LoadConfig reads the configuration from v, or from the environment when
// v is nil, and validates it.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	cfg := &Config{
		DBDriver:   strings.ToLower(v.GetString("db_driver")),
		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetString("db_port"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),
		DBSSLMode:  v.GetString("db_sslmode"),
		SQLitePath: v.GetString("sqlite_path"),

		JWTSecret:     v.GetString("jwt_secret_key"),
		OrganizerAuth: v.GetBool("organizer_auth"),
		TeamAuth:      v.GetBool("team_auth"),
		AllowedOrigin: v.GetString("allowed_origin"),

		AppEnv:    v.GetString("app_env"),
		AppBind:   v.GetString("app_bind"),
		AppPort:   v.GetInt("app_port"),
		LogLevel:  v.GetString("log_level"),
		PublicURL: v.GetString("public_url"),

		RateLimitPerTeam: v.GetInt("rate_limit_per_team"),
		RateLimitPerIP:   v.GetInt("rate_limit_per_ip"),
		RateLimitWindow:  v.GetDuration("rate_limit_window"),

		WSSendBuffer:   v.GetInt("ws_send_buffer"),
		WSMaxMessage:   v.GetInt64("ws_max_message"),
		WSPingInterval: v.GetDuration("ws_ping_interval"),

		TelegramBotToken: v.GetString("telegram_bot_token"),
	}

	// Parse telegram chat ID
	chatIDStr := v.GetString("telegram_chat_id")
	if chatIDStr != "" {
		id, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DBDriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DBDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %q or %q)", c.DBDriver, DBDriverPostgres, DBDriverSQLite)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.AppPort < 1 || c.AppPort > 65535 {
		return fmt.Errorf("invalid APP_PORT (must be between 1-65535 inclusive): %d", c.AppPort)
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBDriver != DBDriverPostgres {
		return fmt.Errorf("DB_DRIVER must be %q in production", DBDriverPostgres)
	}
	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}
	if !c.OrganizerAuth {
		return fmt.Errorf("ORGANIZER_AUTH must be enabled in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	if c.DBDriver == DBDriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.AppBind, c.AppPort)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
