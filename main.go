// File: /main.go
package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stocktalk-api/config"
	"stocktalk-api/middleware"
	"stocktalk-api/routes"
	"stocktalk-api/services"
	"stocktalk-api/storage"
	"stocktalk-api/storage/mongo"
	"stocktalk-api/storage/mysql"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	// Initialize storage backend
	var store storage.Storage
	switch cfg.StorageBackend {
	case "mysql":
		store, err = mysql.Open(cfg.MySQLDSN)
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to mysql")
		}
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		mongoStore, err := mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to mongodb")
		}
		defer mongoStore.Close(context.Background())
		store = mongoStore
	}

	stockService := services.NewStockService(cfg.StockAPIBaseURL)

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	router.Use(routes.SetupCORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	// Setup routes
	routes.SetupRoutes(router, store, stockService, cfg)

	logrus.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"backend": cfg.StorageBackend,
	}).Info("starting StockTalk API server")

	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
