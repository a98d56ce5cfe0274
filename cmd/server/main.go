package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/boukii"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/config"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/database"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/handlers"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db := database.InitDB()
	api := boukii.NewClient(cfg.APIBaseURL)

	// The school's own timeline hours win over the env defaults.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	settings, err := api.FetchSchoolSettings(ctx, cfg.SchoolID)
	cancel()
	if err != nil {
		log.Printf("school settings unavailable, using defaults: %v", err)
	} else {
		if settings.TimelineHourStart != "" {
			cfg.HourStart = settings.TimelineHourStart
		}
		if settings.TimelineHourEnd != "" {
			cfg.HourEnd = settings.TimelineHourEnd
		}
	}

	h := handlers.NewHandler(db, api, cfg)

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Boukii Planner API",
			"version": "1.0.0",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/board", h.GetBoard)
		apiGroup.GET("/monitors/available", h.GetAvailability)
		apiGroup.POST("/transfers", h.PostTransfer)
		apiGroup.GET("/transfers", h.ListTransfers)
		apiGroup.GET("/usage", h.GetUsage)
	}

	port := cfg.Port
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
