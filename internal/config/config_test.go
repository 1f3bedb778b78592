package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "this_is_a_test_secret_key_with_32_chars_minimum"

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("JWT_SECRET_KEY", testSecret)
	os.Setenv("APP_PORT", "9090")
	os.Setenv("RATE_LIMIT_WINDOW", "30s")
	defer func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("JWT_SECRET_KEY")
		os.Unsetenv("APP_PORT")
		os.Unsetenv("RATE_LIMIT_WINDOW")
	}()

	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}
	if cfg.DBDriver != DBDriverPostgres {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DBDriverPostgres)
	}
	if cfg.AppPort != 9090 {
		t.Errorf("AppPort = %d, want 9090", cfg.AppPort)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.RateLimitWindow)
	}
	if cfg.WSSendBuffer != 16 {
		t.Errorf("WSSendBuffer = %d, want 16", cfg.WSSendBuffer)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing DB_PASSWORD",
			envVars: map[string]string{
				"JWT_SECRET_KEY": testSecret,
			},
		},
		{
			name: "Missing JWT_SECRET_KEY",
			envVars: map[string]string{
				"DB_PASSWORD": "password",
			},
		},
		{
			name: "Invalid TELEGRAM_CHAT_ID",
			envVars: map[string]string{
				"DB_PASSWORD":      "password",
				"JWT_SECRET_KEY":   testSecret,
				"TELEGRAM_CHAT_ID": "not-a-number",
			},
		},
		{
			name: "Unknown DB_DRIVER",
			envVars: map[string]string{
				"DB_DRIVER":      "oracle",
				"JWT_SECRET_KEY": testSecret,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear all env vars
			os.Clearenv()

			// Set only the provided env vars
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			_, err := LoadConfig(nil)
			if err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_SQLiteNeedsNoPassword(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_DRIVER", "SQLite")
	os.Setenv("JWT_SECRET_KEY", testSecret)
	defer os.Clearenv()

	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.GetDSN() != "quiz.db" {
		t.Errorf("GetDSN() = %q, want %q", cfg.GetDSN(), "quiz.db")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBDriver:   DBDriverPostgres,
			DBPassword: "password",
			JWTSecret:  testSecret,
			AppPort:    3002,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "JWT secret too short", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: true},
		{name: "Port zero", mutate: func(c *Config) { c.AppPort = 0 }, wantErr: true},
		{name: "Port too high", mutate: func(c *Config) { c.AppPort = 70000 }, wantErr: true},
		{name: "Telegram token without chat", mutate: func(c *Config) { c.TelegramBotToken = "123:abc" }, wantErr: true},
		{name: "Empty sqlite path", mutate: func(c *Config) { c.DBDriver = DBDriverSQLite; c.SQLitePath = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "Valid production config",
			cfg: &Config{
				AppEnv:        "production",
				DBDriver:      DBDriverPostgres,
				DBSSLMode:     "require",
				JWTSecret:     "production_secret_key_different_from_default",
				OrganizerAuth: true,
			},
			shouldErr: false,
		},
		{
			name: "Development mode - no validation",
			cfg: &Config{
				AppEnv:    "development",
				DBDriver:  DBDriverSQLite,
				DBSSLMode: "disable",
			},
			shouldErr: false,
		},
		{
			name: "Production without SSL",
			cfg: &Config{
				AppEnv:        "production",
				DBDriver:      DBDriverPostgres,
				DBSSLMode:     "disable",
				JWTSecret:     "production_secret",
				OrganizerAuth: true,
			},
			shouldErr: true,
		},
		{
			name: "Production with default JWT secret",
			cfg: &Config{
				AppEnv:        "production",
				DBDriver:      DBDriverPostgres,
				DBSSLMode:     "require",
				JWTSecret:     defaultJWTSecret,
				OrganizerAuth: true,
			},
			shouldErr: true,
		},
		{
			name: "Production without organizer auth",
			cfg: &Config{
				AppEnv:    "production",
				DBDriver:  DBDriverPostgres,
				DBSSLMode: "require",
				JWTSecret: "production_secret_key_different",
			},
			shouldErr: true,
		},
		{
			name: "Production on sqlite",
			cfg: &Config{
				AppEnv:        "production",
				DBDriver:      DBDriverSQLite,
				DBSSLMode:     "require",
				JWTSecret:     "production_secret_key_different",
				OrganizerAuth: true,
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if tt.shouldErr && err == nil {
				t.Error("ValidateProductionSecurity() expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("ValidateProductionSecurity() unexpected error = %v", err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBDriver:   DBDriverPostgres,
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "testuser",
		DBPassword: "testpass",
		DBName:     "testdb",
		DBSSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	dsn := cfg.GetDSN()

	if dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{AppBind: "127.0.0.1", AppPort: 3002}
	if got := cfg.Addr(); got != "127.0.0.1:3002" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:3002")
	}
}
