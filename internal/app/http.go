package app

import (
	"github.com/gin-gonic/gin"

	"github.com/giftwise/giftwise-backend/internal/http"
	httpH "github.com/giftwise/giftwise-backend/internal/http/handlers"
	httpMW "github.com/giftwise/giftwise-backend/internal/http/middleware"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health         *httpH.HealthHandler
	Auth           *httpH.AuthHandler
	Contact        *httpH.ContactHandler
	Recommendation *httpH.RecommendationHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(),
		Auth:           httpH.NewAuthHandler(services.Auth, int(cfg.AccessTokenTTL.Seconds())),
		Contact:        httpH.NewContactHandler(services.Contact),
		Recommendation: httpH.NewRecommendationHandler(services.Contact, services.Extraction, services.Recommendation),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                   log,
		HealthHandler:         handlers.Health,
		AuthHandler:           handlers.Auth,
		AuthMiddleware:        middleware.Auth,
		ContactHandler:        handlers.Contact,
		RecommendationHandler: handlers.Recommendation,
	})
}
