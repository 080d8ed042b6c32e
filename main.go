package main

import (
	"go.uber.org/zap"

	"readle/internal/config"
	"readle/internal/database"
	logger "readle/internal/logging"
	"readle/internal/models"
	"readle/internal/progress"
	"readle/internal/repository"
	"readle/internal/router"
	"readle/internal/services"
)

func main() {
	// Load configuration first; the logger needs its rotation settings. The
	// hot-reload watcher logs through the global, swapped in below.
	if err := config.Init(".", zap.L()); err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.Init(".", config.Conf.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	log.Info("Configuration loaded successfully")

	// Initialize Database
	database.Init(log)

	// Load the book catalog at startup
	catalog, err := models.LoadCatalog(config.Conf.Catalog.Path)
	if err != nil {
		log.Fatal("Failed to load book catalog", zap.Error(err))
	}
	log.Info("Book catalog loaded", zap.Int("books", len(catalog.Books)))

	// Weekly needs-attention digest for teachers
	builder := progress.NewBuilder(repository.Source{}, log)
	emailService := services.NewEmailService(log)
	services.NewScheduler(log, emailService, builder).Start()

	// Setup router, passing the logger to it
	r := router.Setup(log, catalog)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
