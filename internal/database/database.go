package database

import (
	"fmt"
	"log"

	"github.com/Levi-LMN/Trivia/internal/config"
	"github.com/Levi-LMN/Trivia/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

// Migrate brings the schema up to date. Idempotent by construction; runs once
// at startup or via `quizctl migrate`.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.QuizSession{},
		&models.Section{},
		&models.Question{},
		&models.Participant{},
		&models.Attempt{},
		&models.Answer{},
		&models.CheatFlag{},
	); err != nil {
		return err
	}

	// At most one open attempt per (participant, session). GORM tags cannot
	// express a partial index; postgres and sqlite both accept this form.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_open_attempt
		 ON attempts (participant_id, quiz_session_id)
		 WHERE completed_at IS NULL`,
	).Error; err != nil {
		return err
	}

	log.Println("database migrated")
	return nil
}
