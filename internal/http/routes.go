package http

import (
	"tasklist_backend/internal/config"
	"tasklist_backend/internal/http/handlers"
	"tasklist_backend/internal/http/middleware"
	"tasklist_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, tokens *service.TokenService, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, tokens)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)

	tasks := r.Group("/tasks")
	tasks.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Token issuance and registration, no auth required
	tasks.POST("/register", authRL, h.Register)
	tasks.POST("/token", authRL, h.Token)
	tasks.POST("/token/refresh", h.Refresh)

	// Owner-scoped task CRUD
	auth := middleware.JWT(tokens)
	tasks.GET("", auth, h.ListTasks)
	tasks.POST("", auth, h.CreateTask)
	tasks.GET("/:id", auth, h.GetTask)
	tasks.PUT("/:id", auth, h.UpdateTask)
	tasks.PATCH("/:id", auth, h.UpdateTask)
	tasks.DELETE("/:id", auth, h.DeleteTask)
}
