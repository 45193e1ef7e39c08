package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/argus-dev/argus/internal/handlers"
	"github.com/argus-dev/argus/internal/middleware"
	"github.com/argus-dev/argus/internal/types"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), h.EventStream)

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Login)
		}

		protected := api.Group("", middleware.AuthMiddleware())
		{
			protected.POST("/accounts", h.CreateAccount)
			protected.GET("/accounts", h.ListAccounts)
			protected.PUT("/accounts/:name/credentials", h.UpdateAccountCredentials)

			protected.POST("/jobs", h.CreateJob)
			protected.GET("/jobs", h.ListJobs)

			protected.POST("/alerts", h.CreateAlert)
			protected.GET("/alerts", h.ListAlerts)
			protected.POST("/alerts/:name/start", h.StartAlert)
			protected.POST("/alerts/:name/pause", h.PauseAlert)
			protected.POST("/alerts/:name/stop", h.StopAlert)

			protected.POST("/silences", h.CreateSilence)
			protected.GET("/silences", h.ListSilences)
		}
	}

	return r
}
