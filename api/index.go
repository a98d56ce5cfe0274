package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/boukii"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/config"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/database"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/handlers"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	db := database.InitDB()
	api := boukii.NewClient(cfg.APIBaseURL)
	h := handlers.NewHandler(db, api, cfg)

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

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
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r_req *http.Request) {
	r.ServeHTTP(w, r_req)
}
