package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
	"github.com/giftwise/giftwise-backend/internal/recommend/llmjson"
)

const (
	defaultRationaleTemperature = 0.7
	defaultRationaleMaxTokens   = 200
	defaultRationaleConcurrency = 4
)

// Rationale is the short pitch shown next to one recommended gift.
type Rationale struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RationaleGenerator writes one rationale per candidate. Calls are
// independent: they fan out concurrently with a per-call timeout and a
// failed sibling never disturbs the others, it just gets the deterministic
// fallback pitch.
type RationaleGenerator struct {
	log         *logger.Logger
	llm         Completer
	temperature float64
	maxTokens   int
	callTimeout time.Duration
	concurrency int
}

func NewRationaleGenerator(log *logger.Logger, llm Completer) *RationaleGenerator {
	return &RationaleGenerator{
		log:         log.With("component", "rationale"),
		llm:         llm,
		temperature: defaultRationaleTemperature,
		maxTokens:   defaultRationaleMaxTokens,
		callTimeout: defaultCallTimeout,
		concurrency: defaultRationaleConcurrency,
	}
}

// GenerateAll returns one rationale per candidate, index-aligned.
func (g *RationaleGenerator) GenerateAll(ctx context.Context, candidates []Candidate, persona Persona) []Rationale {
	out := make([]Rationale, len(candidates))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.concurrency)
	for i, c := range candidates {
		grp.Go(func() error {
			out[i] = g.generateOne(gctx, c, persona)
			return nil
		})
	}
	// goroutines only ever return nil; the group is used for bounding and ctx
	_ = grp.Wait()
	return out
}

func (g *RationaleGenerator) generateOne(ctx context.Context, c Candidate, persona Persona) Rationale {
	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()
	raw, err := g.llm.Complete(callCtx, systemRationale, promptRationale(c, persona), g.temperature, g.maxTokens)
	if err != nil {
		g.log.Warn("rationale completion failed, using fallback", "gift", c.Metadata.Name, "error", err)
		return fallbackRationale(c, persona)
	}
	var parsed struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := llmjson.Recover(raw, &parsed); err != nil {
		g.log.Warn("rationale output unusable, using fallback", "gift", c.Metadata.Name, "error", err)
		return fallbackRationale(c, persona)
	}
	title := strings.TrimSpace(parsed.Title)
	desc := strings.TrimSpace(parsed.Description)
	if title == "" || desc == "" {
		return fallbackRationale(c, persona)
	}
	return Rationale{Title: title, Description: desc}
}

// fallbackRationale is fully deterministic so degraded responses stay stable
// across retries.
func fallbackRationale(c Candidate, persona Persona) Rationale {
	who := strings.TrimSpace(persona.Relation)
	if who == "" {
		who = "them"
	}
	category := strings.ToLower(strings.TrimSpace(c.Metadata.Category))
	if category == "" {
		category = "gift"
	}
	return Rationale{
		Title:       strings.TrimSpace(c.Metadata.Name),
		Description: fmt.Sprintf("A solid %s choice for %s.", category, who),
	}
}
