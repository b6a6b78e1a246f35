package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftwise/giftwise-backend/internal/clients/pinecone"
	types "github.com/giftwise/giftwise-backend/internal/domain"
	"github.com/giftwise/giftwise-backend/internal/recommend"
)

// routedAI scripts the completion per call kind so one fake can serve the
// reranker and the rationale generator at once.
type routedAI struct {
	fakeAI
	rankReply      string
	rationaleReply string
	rankCalls      int
}

func (r *routedAI) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	if strings.Contains(user, "candidate indexes") {
		r.rankCalls++
		return r.rankReply, nil
	}
	return r.rationaleReply, nil
}

type fakeVectorStore struct {
	matches   []pinecone.QueryMatch
	upserted  int
	lastTopK  int
	lastSpace string
}

func (f *fakeVectorStore) Upsert(ctx context.Context, namespace string, vectors []pinecone.Vector) error {
	f.upserted += len(vectors)
	return nil
}

func (f *fakeVectorStore) QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]pinecone.QueryMatch, error) {
	f.lastSpace = namespace
	f.lastTopK = topK
	return f.matches, nil
}

type fakeRunRepo struct {
	runs []*types.RecommendationRun
}

func (f *fakeRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.RecommendationRun) (*types.RecommendationRun, error) {
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeRunRepo) ListByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, limit int) ([]*types.RecommendationRun, error) {
	return f.runs, nil
}

type fixedProfileExtraction struct {
	profile recommend.Profile
}

func (f *fixedProfileExtraction) Extract(ctx context.Context, userID uuid.UUID, contact *types.Contact) (*types.PreferenceExtraction, error) {
	return nil, nil
}

func (f *fixedProfileExtraction) LoadProfile(ctx context.Context, contactID uuid.UUID) (recommend.Profile, error) {
	return f.profile, nil
}

func catalogMatches() []pinecone.QueryMatch {
	entries := []struct {
		id, name, category string
		score              float64
	}{
		{"g1", "Leather Wallet", "accessories", 0.95},
		{"g2", "Golf Balls", "sports", 0.90},
		{"g3", "Scented Candles", "home", 0.85},
		{"g4", "Coffee Sampler", "food", 0.80},
		{"g5", "Desk Organizer", "office", 0.75},
	}
	out := make([]pinecone.QueryMatch, 0, len(entries))
	for _, e := range entries {
		out = append(out, pinecone.QueryMatch{
			ID:    e.id,
			Score: e.score,
			Metadata: map[string]any{
				"name":        e.name,
				"category":    e.category,
				"price":       "$25",
				"description": e.name + " for gifting",
			},
		})
	}
	return out
}

func TestRecommendEndToEnd(t *testing.T) {
	ai := &routedAI{
		rankReply:      "[2, 0, 4]",
		rationaleReply: `{"title": "A fine pick", "description": "They will love it."}`,
	}
	vs := &fakeVectorStore{matches: catalogMatches()}
	runs := &fakeRunRepo{}
	extraction := &fixedProfileExtraction{}

	svc := NewRecommendationService(nil, serviceTestLogger(t), ai, vs, nil, runs, extraction, "test-model")

	contact := &types.Contact{ID: uuid.New(), Name: "Dana", Relation: "sister"}
	resp, err := svc.Recommend(context.Background(), uuid.New(), contact, 3, false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Gifts) != 3 {
		t.Fatalf("got %d gifts, want 3", len(resp.Gifts))
	}
	got := []string{resp.Gifts[0].ID, resp.Gifts[1].ID, resp.Gifts[2].ID}
	want := []string{"g3", "g1", "g5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("gift order = %v, want %v", got, want)
		}
	}
	if resp.UsedFallback {
		t.Fatal("ranking was honored; fallback flag must be false")
	}
	for i, g := range resp.Gifts {
		if g.Title != "A fine pick" || g.Rationale != "They will love it." {
			t.Fatalf("gift %d rationale = %+v", i, g)
		}
		if g.Similarity <= 0 || g.Similarity > 1 {
			t.Fatalf("gift %d similarity out of range: %f", i, g.Similarity)
		}
	}
	if vs.lastSpace != CatalogNamespace {
		t.Fatalf("queried namespace %q, want %q", vs.lastSpace, CatalogNamespace)
	}
	if len(runs.runs) != 1 {
		t.Fatalf("persisted %d runs, want 1", len(runs.runs))
	}
	run := runs.runs[0]
	if run.RequestedCount != 3 || run.PoolSize != 5 || run.UsedFallback {
		t.Fatalf("run audit fields wrong: %+v", run)
	}
}

func TestRecommendRejectsBadCount(t *testing.T) {
	svc := NewRecommendationService(nil, serviceTestLogger(t), &routedAI{}, &fakeVectorStore{}, nil, &fakeRunRepo{}, &fixedProfileExtraction{}, "test-model")
	contact := &types.Contact{ID: uuid.New(), Name: "Dana"}
	if _, err := svc.Recommend(context.Background(), uuid.New(), contact, 0, false); err == nil {
		t.Fatal("expected error for count 0")
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	svc := NewRecommendationService(nil, serviceTestLogger(t), &routedAI{}, &fakeVectorStore{}, nil, &fakeRunRepo{}, &fixedProfileExtraction{}, "test-model")
	contact := &types.Contact{ID: uuid.New(), Name: "Dana"}
	if _, err := svc.Recommend(context.Background(), uuid.New(), contact, 3, false); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestRecommendSmallPoolSkipsRanking(t *testing.T) {
	ai := &routedAI{rationaleReply: `{"title": "A fine pick", "description": "They will love it."}`}
	vs := &fakeVectorStore{matches: catalogMatches()}
	svc := NewRecommendationService(nil, serviceTestLogger(t), ai, vs, nil, &fakeRunRepo{}, &fixedProfileExtraction{}, "test-model")

	contact := &types.Contact{ID: uuid.New(), Name: "Dana"}
	resp, err := svc.Recommend(context.Background(), uuid.New(), contact, 10, false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if ai.rankCalls != 0 {
		t.Fatalf("ranking called %d times for a pool smaller than the request", ai.rankCalls)
	}
	if len(resp.Gifts) != 5 {
		t.Fatalf("got %d gifts, want the whole pool of 5", len(resp.Gifts))
	}
}

func TestBuildRetrievalQuery(t *testing.T) {
	contact := &types.Contact{Relation: "sister", MemoHobby: "hiking", MemoStyle: "minimalist"}

	withLikes := recommend.Profile{Likes: []recommend.PreferenceItem{{Item: "golf", Weight: 0.9}}}
	q := buildRetrievalQuery(contact, withLikes)
	if !strings.Contains(q, "golf") || strings.Contains(q, "hiking") {
		t.Fatalf("profile likes should drive the query, got %q", q)
	}

	q = buildRetrievalQuery(contact, recommend.Profile{})
	if !strings.Contains(q, "hiking") || !strings.Contains(q, "minimalist") {
		t.Fatalf("memos should drive the query without a profile, got %q", q)
	}

	q = buildRetrievalQuery(&types.Contact{}, recommend.Profile{})
	if q == "" {
		t.Fatal("query must never be empty")
	}
}
