package database

import (
	"fmt"
	"time"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/config"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	var logLevel gormlogger.LogLevel
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DBDriverSQLite:
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		dialector = postgres.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.DBDriver == config.DBDriverSQLite {
		// SQLite allows one writer; a single long-lived connection also keeps
		// in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		// Event traffic is a few hundred teams polling and submitting; keep a
		// modest warm pool.
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	logger.Info("Database connected", "driver", cfg.DBDriver)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.Question{},
		&models.TeamProgress{},
		&models.Hint{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedQuestions inserts every question whose label is not stored yet and
// returns how many were added. Existing questions are left untouched.
func SeedQuestions(db *gorm.DB, questions []models.Question) (int, error) {
	added := 0
	for i := range questions {
		q := questions[i]

		var count int64
		if err := db.Model(&models.Question{}).Where("label = ?", q.Label).Count(&count).Error; err != nil {
			return added, fmt.Errorf("failed to check question %q: %w", q.Label, err)
		}
		if count > 0 {
			continue
		}

		if err := db.Create(&q).Error; err != nil {
			return added, fmt.Errorf("failed to seed question %q: %w", q.Label, err)
		}
		added++
	}

	if added > 0 {
		logger.Info("Seeded questions", "count", added)
	}
	return added, nil
}
