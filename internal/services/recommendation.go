package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/giftwise/giftwise-backend/internal/clients/openai"
	"github.com/giftwise/giftwise-backend/internal/clients/pinecone"
	"github.com/giftwise/giftwise-backend/internal/clients/redis"
	runrepo "github.com/giftwise/giftwise-backend/internal/data/repos/run"
	types "github.com/giftwise/giftwise-backend/internal/domain"
	pkgerrors "github.com/giftwise/giftwise-backend/internal/pkg/errors"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
	"github.com/giftwise/giftwise-backend/internal/recommend"
)

const (
	// CatalogNamespace is the vector namespace holding gift embeddings.
	CatalogNamespace = "catalog"

	defaultPoolTopK = 60
	maxRequestCount = 20
)

// RecommendedGift is one entry of the API response: the catalog fields plus
// the generated pitch.
type RecommendedGift struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	Description string  `json:"description"`
	Similarity  float64 `json:"similarity"`
	Title       string  `json:"title"`
	Rationale   string  `json:"rationale"`
}

type RecommendationResponse struct {
	ContactID    string            `json:"contact_id"`
	Gifts        []RecommendedGift `json:"gifts"`
	UsedFallback bool              `json:"used_fallback"`
	ProfileUsed  bool              `json:"profile_used"`
	Cached       bool              `json:"cached"`
}

type RecommendationService interface {
	Recommend(ctx context.Context, userID uuid.UUID, contact *types.Contact, count int, excludeDislikes bool) (*RecommendationResponse, error)
}

type recommendationService struct {
	db         *gorm.DB
	log        *logger.Logger
	ai         openai.Client
	vs         pinecone.VectorStore
	cache      redis.RecommendationCache
	runRepo    runrepo.RunRepo
	extraction ExtractionService
	reranker   *recommend.Reranker
	rationales *recommend.RationaleGenerator
	model      string
	poolTopK   int
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	ai openai.Client,
	vs pinecone.VectorStore,
	cache redis.RecommendationCache,
	runRepo runrepo.RunRepo,
	extraction ExtractionService,
	model string,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:         db,
		log:        serviceLog,
		ai:         ai,
		vs:         vs,
		cache:      cache,
		runRepo:    runRepo,
		extraction: extraction,
		reranker:   recommend.NewReranker(log, ai),
		rationales: recommend.NewRationaleGenerator(log, ai),
		model:      model,
		poolTopK:   defaultPoolTopK,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, contact *types.Contact, count int, excludeDislikes bool) (*RecommendationResponse, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", pkgerrors.ErrInvalidArgument)
	}
	if count > maxRequestCount {
		count = maxRequestCount
	}

	// strict-mode responses are not cached; the flag changes the pool
	if rs.cache != nil && !excludeDislikes {
		var cached RecommendationResponse
		hit, err := rs.cache.Get(ctx, userID.String(), contact.ID.String(), count, &cached)
		if err != nil {
			rs.log.Warn("Cache read failed, continuing without", "error", err)
		} else if hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	started := time.Now()

	profile, err := rs.extraction.LoadProfile(ctx, contact.ID)
	if err != nil {
		return nil, err
	}

	pool, err := rs.retrievePool(ctx, contact, profile)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: gift catalog is empty", pkgerrors.ErrNotFound)
	}

	persona := recommend.Persona{
		Rank:     contact.Rank,
		Relation: contact.Relation,
		Gender:   contact.Gender,
	}
	result := rs.reranker.Rerank(ctx, recommend.RerankRequest{
		Pool:            pool,
		Persona:         persona,
		Profile:         profile,
		MemoHobby:       contact.MemoHobby,
		MemoStyle:       contact.MemoStyle,
		Count:           count,
		ExcludeDislikes: excludeDislikes,
	})

	rationales := rs.rationales.GenerateAll(ctx, result.Candidates, persona)

	resp := &RecommendationResponse{
		ContactID:    contact.ID.String(),
		Gifts:        make([]RecommendedGift, 0, len(result.Candidates)),
		UsedFallback: result.UsedFallback,
		ProfileUsed:  result.ProfileUsed,
	}
	for i, c := range result.Candidates {
		resp.Gifts = append(resp.Gifts, RecommendedGift{
			ID:          c.ID,
			Name:        c.Metadata.Name,
			Category:    c.Metadata.Category,
			Price:       c.Metadata.Price,
			Description: c.Metadata.Description,
			Similarity:  c.Similarity(),
			Title:       rationales[i].Title,
			Rationale:   rationales[i].Description,
		})
	}

	rs.persistRun(ctx, userID, contact.ID, count, len(pool), result, started)

	if rs.cache != nil && !excludeDislikes {
		if err := rs.cache.Set(ctx, userID.String(), contact.ID.String(), count, resp); err != nil {
			rs.log.Warn("Cache write failed", "error", err)
		}
	}
	return resp, nil
}

// retrievePool embeds a persona/profile query and pulls the candidate pool
// from the catalog index. Match scores are similarities; candidates carry
// distance = 1 - score so similarity order is ascending distance.
func (rs *recommendationService) retrievePool(ctx context.Context, contact *types.Contact, profile recommend.Profile) ([]recommend.Candidate, error) {
	query := buildRetrievalQuery(contact, profile)
	vecs, err := rs.ai.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed retrieval query: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("embed retrieval query: empty vector")
	}

	matches, err := rs.vs.QueryMatches(ctx, CatalogNamespace, vecs[0], rs.poolTopK, nil)
	if err != nil {
		return nil, fmt.Errorf("query catalog index: %w", err)
	}

	pool := make([]recommend.Candidate, 0, len(matches))
	for _, m := range matches {
		pool = append(pool, recommend.Candidate{
			ID: m.ID,
			Metadata: recommend.GiftMetadata{
				Name:        metaString(m.Metadata, "name"),
				Category:    metaString(m.Metadata, "category"),
				Price:       metaString(m.Metadata, "price"),
				Description: metaString(m.Metadata, "description"),
			},
			Distance: 1 - m.Score,
		})
	}
	return pool, nil
}

func buildRetrievalQuery(contact *types.Contact, profile recommend.Profile) string {
	var parts []string
	if strings.TrimSpace(contact.Relation) != "" {
		parts = append(parts, "gift for "+strings.TrimSpace(contact.Relation))
	}
	for _, it := range profile.Likes {
		parts = append(parts, it.Item)
	}
	if len(profile.Likes) == 0 {
		if strings.TrimSpace(contact.MemoHobby) != "" {
			parts = append(parts, strings.TrimSpace(contact.MemoHobby))
		}
		if strings.TrimSpace(contact.MemoStyle) != "" {
			parts = append(parts, strings.TrimSpace(contact.MemoStyle))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "a thoughtful gift")
	}
	return strings.Join(parts, ", ")
}

func (rs *recommendationService) persistRun(ctx context.Context, userID, contactID uuid.UUID, count, poolSize int, result recommend.RerankResult, started time.Time) {
	ids := make([]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		ids = append(ids, c.ID)
	}
	rawIDs, err := json.Marshal(ids)
	if err != nil {
		rawIDs = []byte("[]")
	}
	run := &types.RecommendationRun{
		ID:             uuid.New(),
		UserID:         userID,
		ContactID:      contactID,
		RequestedCount: count,
		PoolSize:       poolSize,
		WorkingSetSize: result.WorkingSetSize,
		UsedFallback:   result.UsedFallback,
		ProfileUsed:    result.ProfileUsed,
		ChosenGiftIDs:  datatypes.JSON(rawIDs),
		Model:          rs.model,
		LatencyMS:      time.Since(started).Milliseconds(),
	}
	if _, err := rs.runRepo.Create(ctx, nil, run); err != nil {
		// audit only; the response already succeeded
		rs.log.Warn("Failed to persist recommendation run", "error", err)
	}
}

func metaString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
