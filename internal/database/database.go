package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"readle/internal/config"
	logging "readle/internal/logging"
	"readle/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Route GORM's own logging through zap
		Logger:         logging.NewGormLogger(log),
		TranslateError: true,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := DB.AutoMigrate(
		&models.User{},
		&models.Classroom{},
		&models.ClassroomMembership{},
		&models.BookProgress{},
		&models.ActivityAttempt{},
		&models.PredictionCheckpoint{},
		&models.PredictionAttempt{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	// The rollup builder fans out one lookup per book per activity; this
	// index keeps that path off sequential scans.
	attemptIndex := `CREATE INDEX IF NOT EXISTS idx_attempt_lookup ON activity_attempts (student_id, book_id, activity_type);`
	if err := DB.Exec(attemptIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on activity attempts", zap.Error(err))
	}

	predictionIndex := `CREATE INDEX IF NOT EXISTS idx_prediction_latest ON prediction_attempts (checkpoint_id, student_id, created_at DESC);`
	if err := DB.Exec(predictionIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on prediction attempts", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
