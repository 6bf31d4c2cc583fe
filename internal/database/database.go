package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/config"
	logging "github.com/nicolippi7-boop/sensory-lab-sub000/internal/logging"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Route GORM's own logging through zap
	gormLogger := logging.NewGormZapLogger(log)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
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
		&models.Test{},
		&models.Sample{},
		&models.Attribute{},
		&models.Result{},
		&models.ResultEvent{},
		&models.FlashAttribute{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	// Temporal curves are read per test+attribute ordered by elapsed time.
	eventsIndex := `CREATE INDEX IF NOT EXISTS idx_result_events_query ON result_events (result_id, sample_code, kind, at_seconds);`
	if err := DB.Exec(eventsIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on result events table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
