package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/giftwise/giftwise-backend/internal/clients/openai"
	"github.com/giftwise/giftwise-backend/internal/clients/pinecone"
	giftrepo "github.com/giftwise/giftwise-backend/internal/data/repos/gift"
	types "github.com/giftwise/giftwise-backend/internal/domain"
	pkgerrors "github.com/giftwise/giftwise-backend/internal/pkg/errors"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

// catalogFile is the YAML shape the indexer consumes.
type catalogFile struct {
	Gifts []catalogEntry `yaml:"gifts"`
}

type catalogEntry struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// CatalogService maintains the gift catalog: rows in the database and
// embeddings in the vector index.
type CatalogService interface {
	ImportYAML(ctx context.Context, path string) (int, error)
	IndexAll(ctx context.Context) (int, error)
}

type catalogService struct {
	db       *gorm.DB
	log      *logger.Logger
	ai       openai.Client
	vs       pinecone.VectorStore
	giftRepo giftrepo.GiftRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, ai openai.Client, vs pinecone.VectorStore, giftRepo giftrepo.GiftRepo) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{db: db, log: serviceLog, ai: ai, vs: vs, giftRepo: giftRepo}
}

// ImportYAML upserts catalog rows from a YAML file. Entries without an id
// get a fresh one; entries without a name are rejected.
func (cs *catalogService) ImportYAML(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog file: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(file.Gifts) == 0 {
		return 0, fmt.Errorf("%w: catalog file holds no gifts", pkgerrors.ErrInvalidArgument)
	}

	gifts := make([]*types.Gift, 0, len(file.Gifts))
	for i, entry := range file.Gifts {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return 0, fmt.Errorf("%w: gift %d has no name", pkgerrors.ErrInvalidArgument, i)
		}
		id := uuid.New()
		if strings.TrimSpace(entry.ID) != "" {
			parsed, err := uuid.Parse(strings.TrimSpace(entry.ID))
			if err != nil {
				return 0, fmt.Errorf("%w: gift %q has invalid id %q", pkgerrors.ErrInvalidArgument, name, entry.ID)
			}
			id = parsed
		}
		gifts = append(gifts, &types.Gift{
			ID:          id,
			Name:        name,
			Category:    strings.TrimSpace(entry.Category),
			Price:       strings.TrimSpace(entry.Price),
			Description: strings.TrimSpace(entry.Description),
			Tags:        strings.Join(entry.Tags, ","),
		})
	}

	if _, err := cs.giftRepo.Upsert(ctx, nil, gifts); err != nil {
		return 0, fmt.Errorf("upsert gifts: %w", err)
	}
	return len(gifts), nil
}

// IndexAll embeds every gift and upserts the vectors with catalog metadata
// attached, so queries can rebuild candidates without a database round trip.
func (cs *catalogService) IndexAll(ctx context.Context) (int, error) {
	gifts, err := cs.giftRepo.ListAll(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list gifts: %w", err)
	}
	if len(gifts) == 0 {
		return 0, nil
	}

	const batchSize = 64
	indexed := 0
	for start := 0; start < len(gifts); start += batchSize {
		end := start + batchSize
		if end > len(gifts) {
			end = len(gifts)
		}
		batch := gifts[start:end]

		inputs := make([]string, 0, len(batch))
		for _, g := range batch {
			inputs = append(inputs, embeddingText(g))
		}
		vecs, err := cs.ai.Embed(ctx, inputs)
		if err != nil {
			return indexed, fmt.Errorf("embed catalog batch: %w", err)
		}

		vectors := make([]pinecone.Vector, 0, len(batch))
		for i, g := range batch {
			vectors = append(vectors, pinecone.Vector{
				ID:     g.ID.String(),
				Values: vecs[i],
				Metadata: map[string]any{
					"name":        g.Name,
					"category":    g.Category,
					"price":       g.Price,
					"description": g.Description,
				},
			})
		}
		if err := cs.vs.Upsert(ctx, CatalogNamespace, vectors); err != nil {
			return indexed, fmt.Errorf("upsert catalog vectors: %w", err)
		}
		indexed += len(batch)
		cs.log.Info("Indexed catalog batch", "from", start, "to", end, "total", len(gifts))
	}
	return indexed, nil
}

func embeddingText(g *types.Gift) string {
	parts := []string{g.Name}
	if g.Category != "" {
		parts = append(parts, g.Category)
	}
	if g.Description != "" {
		parts = append(parts, g.Description)
	}
	if g.Tags != "" {
		parts = append(parts, strings.ReplaceAll(g.Tags, ",", " "))
	}
	return strings.Join(parts, ". ")
}
