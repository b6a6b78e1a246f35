package app

import (
	"time"

	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
	"github.com/giftwise/giftwise-backend/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	OpenAIModel    string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	openAIModel := utils.GetEnv("OPENAI_MODEL", "gpt-5.2", log)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		OpenAIModel:    openAIModel,
	}
}
