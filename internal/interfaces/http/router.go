package http

import (
	"github.com/gin-gonic/gin"

	"github.com/chronicle-it/chronicle/internal/interfaces/http/handlers"
	"github.com/chronicle-it/chronicle/internal/interfaces/http/middleware"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

// Router represents the ops HTTP router configuration
type Router struct {
	engine     *gin.Engine
	opsHandler *handlers.OpsHandler
	logger     logger.Interface
}

func NewRouter(opsHandler *handlers.OpsHandler, log logger.Interface) *Router {
	engine := gin.New()
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.Logger(log))

	return &Router{
		engine:     engine,
		opsHandler: opsHandler,
		logger:     log,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", r.opsHandler.Health)
	r.engine.GET("/metrics", r.opsHandler.Metrics)
	r.engine.GET("/sync/status", r.opsHandler.SyncStatus)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
