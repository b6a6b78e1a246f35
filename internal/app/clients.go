package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/giftwise/giftwise-backend/internal/clients/openai"
	"github.com/giftwise/giftwise-backend/internal/clients/pinecone"
	"github.com/giftwise/giftwise-backend/internal/clients/redis"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type Clients struct {
	Openai      openai.Client
	Pinecone    pinecone.Client
	VectorStore pinecone.VectorStore
	Cache       redis.RecommendationCache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	pc, err := pinecone.New(log, pinecone.Config{
		APIKey: strings.TrimSpace(os.Getenv("PINECONE_API_KEY")),
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init pinecone client: %w", err)
	}
	vs, err := pinecone.NewVectorStore(log, pc)
	if err != nil {
		return Clients{}, fmt.Errorf("init vector store: %w", err)
	}

	// Redis is optional: without REDIS_ADDR the cache stays nil and callers skip it.
	var cache redis.RecommendationCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewRecommendationCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init recommendation cache: %w", err)
		}
		cache = c
	}

	return Clients{
		Openai:      openaiClient,
		Pinecone:    pc,
		VectorStore: vs,
		Cache:       cache,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
