package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/giftwise/giftwise-backend/internal/http/handlers"
	httpMW "github.com/giftwise/giftwise-backend/internal/http/middleware"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	ContactHandler        *httpH.ContactHandler
	RecommendationHandler *httpH.RecommendationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("giftwise-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/signup", cfg.AuthHandler.Signup)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Contacts
		if cfg.ContactHandler != nil {
			protected.POST("/contacts", cfg.ContactHandler.Create)
			protected.GET("/contacts", cfg.ContactHandler.List)
			protected.GET("/contacts/:id", cfg.ContactHandler.Get)
			protected.PUT("/contacts/:id", cfg.ContactHandler.Update)
			protected.DELETE("/contacts/:id", cfg.ContactHandler.Delete)
		}

		// Preference extraction + recommendations
		if cfg.RecommendationHandler != nil {
			protected.POST("/contacts/:id/extract", cfg.RecommendationHandler.Extract)
			protected.POST("/recommendations", cfg.RecommendationHandler.Recommend)
		}
	}

	return r
}
