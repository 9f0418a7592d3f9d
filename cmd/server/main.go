package main

import (
	"os"

	"electrochem-data-api/config"
	"electrochem-data-api/internal/comparison"
	"electrochem-data-api/internal/dataset"
	"electrochem-data-api/internal/logs"
	"electrochem-data-api/internal/logutils"
	"electrochem-data-api/internal/lookup"
	"electrochem-data-api/internal/project"
	"electrochem-data-api/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logutils.Log.WithError(err).Fatal("Failed to connect to database")
	}

	if err := os.MkdirAll(cfg.MediaRoot, 0o755); err != nil {
		logutils.Log.WithError(err).Fatal("Failed to create media root")
	}

	r := gin.Default()

	origins := append([]string{cfg.FrontendURL}, cfg.AllowedHosts...)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}
	userService := &users.UserService{DB: db}
	logs.RegisterRoutes(r, logService, userService)

	lookupService := &lookup.LookupService{DB: db}
	lookup.RegisterRoutes(r, lookupService, cfg.CacheTTL)

	datasetService := &dataset.DatasetService{DB: db}
	dataset.RegisterRoutes(r, datasetService, logService)

	projectService := &project.ProjectService{DB: db}
	project.RegisterRoutes(r, projectService, logService)

	comparisonService := &comparison.ComparisonService{DB: db, Datasets: datasetService}
	comparison.RegisterRoutes(r, comparisonService, datasetService, logService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logutils.Log.Infof("Starting server on 0.0.0.0:%s ...", port)
	logutils.Log.Fatal(r.Run("0.0.0.0:" + port))
}
