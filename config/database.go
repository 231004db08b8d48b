package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fengin/umani/logger"
	"github.com/fengin/umani/models"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the configured database and migrates the schema.
// DB_DRIVER selects sqlite (the default, a local file) or postgres.
func InitDB(log *logger.Logger) (*gorm.DB, error) {
	driver := getEnv("DB_DRIVER", "sqlite")

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_NAME", "umani"),
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(getEnv("DB_PATH", "umani.db"))
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}

	log.Info("connecting to database", "driver", driver)
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if driver == "sqlite" {
		// WAL for concurrent readers; foreign keys are off by default.
		if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
		if err := db.Exec("PRAGMA foreign_keys=ON;").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Migrate creates the schema and seeds the single LLM settings row.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.SkillVersion{},
		&models.OriginalSample{},
		&models.Article{},
		&models.DiffRecord{},
		&models.LLMProfile{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := db.Model(&models.LLMProfile{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&models.LLMProfile{ID: 1}).Error; err != nil {
			return fmt.Errorf("seed llm profile: %w", err)
		}
	}
	return nil
}
