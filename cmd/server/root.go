package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/config"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/database"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
	"gorm.io/gorm"
)

// flagKeys maps command-line flags onto configuration keys
var flagKeys = map[string]string{
	"bind":           "app_bind",
	"port":           "app_port",
	"env":            "app_env",
	"log-level":      "log_level",
	"db-driver":      "db_driver",
	"sqlite-path":    "sqlite_path",
	"public-url":     "public_url",
	"organizer-auth": "organizer_auth",
	"team-auth":      "team_auth",
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           "quiz-server",
		Short:         "Live treasure-hunt quiz server with a real-time organizer channel.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringP("bind", "b", "0.0.0.0", "address to bind to (env: APP_BIND)")
	fs.IntP("port", "p", 3002, "port to listen on (env: APP_PORT)")
	fs.String("env", "development", "runtime environment (env: APP_ENV)")
	fs.String("log-level", "info", "log level: debug, info, warn, error (env: LOG_LEVEL)")
	fs.String("db-driver", config.DBDriverPostgres, "store driver: postgres or sqlite (env: DB_DRIVER)")
	fs.String("sqlite-path", "quiz.db", "sqlite database file (env: SQLITE_PATH)")
	fs.String("public-url", "", "URL encoded in the join QR code (env: PUBLIC_URL)")
	fs.Bool("organizer-auth", false, "require organizer tokens on organizer routes (env: ORGANIZER_AUTH)")
	fs.Bool("team-auth", false, "require the login token on answer and question routes (env: TEAM_AUTH)")

	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})

	cmd.AddCommand(newImportCmd(v), newTokenCmd(v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

// loadConfig builds and validates the configuration and initializes the
// logger from it.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	if err := cfg.ValidateProductionSecurity(); err != nil {
		return nil, fmt.Errorf("production security validation failed: %w", err)
	}
	return cfg, nil
}

// openStore connects to the configured store and migrates its schema
func openStore(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
