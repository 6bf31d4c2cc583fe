package main

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/config"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/database"
	logger "github.com/nicolippi7-boop/sensory-lab-sub000/internal/logging"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/repository"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/router"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/session"
)

func main() {
	projectRoot := "."

	// Initialize Logger
	log, err := logger.Init(projectRoot)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(projectRoot, log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Seed example test definitions on an empty database
	seedTests(log, filepath.Join(projectRoot, "config", "tests.yaml"))

	// Judge session registry with idle cleanup
	mgr := session.NewManager(sessionTuning(config.Conf.Session), log)
	stopReaper := mgr.StartReaper(
		10*time.Minute,
		time.Duration(config.Conf.Session.IdleReapMinutes)*time.Minute,
	)
	defer stopReaper()

	// Setup router, passing the logger to it
	r := router.Setup(log, mgr)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}

// sessionTuning maps the configured session knobs onto the runner's timing,
// keeping the built-in values for anything unset.
func sessionTuning(cfg config.SessionConfig) session.Tuning {
	t := session.DefaultTuning()
	if cfg.DefaultDurationSeconds > 0 {
		t.DefaultDuration = time.Duration(cfg.DefaultDurationSeconds) * time.Second
	}
	if cfg.ClockTickMillis > 0 {
		t.ClockTick = time.Duration(cfg.ClockTickMillis) * time.Millisecond
	}
	if cfg.IntensityTickMillis > 0 {
		t.IntensityTick = time.Duration(cfg.IntensityTickMillis) * time.Millisecond
	}
	return t
}

// seedTests loads starter test definitions the first time the app runs
// against an empty database.
func seedTests(log *zap.Logger, path string) {
	ctx := context.Background()

	count, err := repository.CountTests(ctx)
	if err != nil {
		log.Fatal("Failed to count tests", zap.Error(err))
	}
	if count > 0 {
		return
	}

	tests, err := models.LoadSeedTests(path)
	if err != nil {
		log.Warn("No seed tests loaded", zap.Error(err), zap.String("path", path))
		return
	}
	for i := range tests {
		if err := repository.CreateTest(ctx, &tests[i]); err != nil {
			log.Error("Failed to seed test", zap.Error(err), zap.String("name", tests[i].Name))
		}
	}
	log.Info("Seeded example tests", zap.Int("count", len(tests)))
}
