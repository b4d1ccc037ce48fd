package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahilchouksey/edu-directory/api"
	"github.com/sahilchouksey/edu-directory/config"
	"github.com/sahilchouksey/edu-directory/database"
	"github.com/sahilchouksey/edu-directory/repository"
	"github.com/sahilchouksey/edu-directory/router"
	"github.com/sahilchouksey/edu-directory/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV; a missing .env file is fine when variables are exported
	_ = config.LoadENV()

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(getEnv.GO_ENV, getEnv.LOG_LEVEL)
	defer logger.Sync()

	deps := router.Dependencies{Logger: logger, Env: getEnv}

	switch getEnv.DIRECTORY_BACKEND {
	case "memory":
		logger.Info("serving sample directory from memory")
		deps.Repo = NewSampleRepository(time.Now().UTC())

	case "postgres":
		store, err := database.StartGORM(getEnv, logger)
		if err != nil {
			logger.Error("check whether Postgres is running, or set DIRECTORY_BACKEND=memory")
			return err
		}
		defer store.Close()

		if err := store.Init(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			return fmt.Errorf("unexpected database handle %T", store.GetDB())
		}
		deps.Store = store
		deps.Repo = repository.NewGormRepository(db)

	default:
		return fmt.Errorf("unknown DIRECTORY_BACKEND %q", getEnv.DIRECTORY_BACKEND)
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), logger)
	router.SetupRoutes(server.GetEngine(), deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		if err := server.Shutdown(10 * time.Second); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	return server.Run()
}

// NewSampleRepository loads the sample directory into an in-memory repository
func NewSampleRepository(now time.Time) *repository.MemoryRepository {
	data := database.Sample(now)
	repo := repository.NewMemoryRepository()
	for _, u := range data.Users {
		repo.AddUser(u)
	}
	for _, inst := range data.Institutions {
		repo.AddInstitution(inst)
	}
	for _, c := range data.Courses {
		repo.AddCourse(c)
	}
	for _, r := range data.Reviews {
		repo.AddReview(r)
	}
	return repo
}
