package app

import (
	"gorm.io/gorm"

	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
	"github.com/giftwise/giftwise-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	Contact        services.ContactService
	Extraction     services.ExtractionService
	Recommendation services.RecommendationService
	Catalog        services.CatalogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, repos Repos) Services {
	log.Info("Wiring services...")

	auth := services.NewAuthService(db, log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	contact := services.NewContactService(db, log, repos.Contact)
	extraction := services.NewExtractionService(db, log, clients.Openai, repos.Preference, cfg.OpenAIModel)
	recommendation := services.NewRecommendationService(
		db, log,
		clients.Openai, clients.VectorStore, clients.Cache,
		repos.Run, extraction,
		cfg.OpenAIModel,
	)
	catalog := services.NewCatalogService(db, log, clients.Openai, clients.VectorStore, repos.Gift)

	return Services{
		Auth:           auth,
		Contact:        contact,
		Extraction:     extraction,
		Recommendation: recommendation,
		Catalog:        catalog,
	}
}
