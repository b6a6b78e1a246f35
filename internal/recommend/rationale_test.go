package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type routedCompleter struct {
	route func(user string) (string, error)
}

func (f *routedCompleter) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	return f.route(user)
}

func TestGenerateAllIndexAligned(t *testing.T) {
	candidates := testPool()[:3]
	llm := &routedCompleter{route: func(user string) (string, error) {
		switch {
		case strings.Contains(user, "Leather Wallet"):
			return `{"title": "Everyday Carry Upgrade", "description": "A slim wallet they will use daily."}`, nil
		case strings.Contains(user, "Golf Balls"):
			return "```json\n{\"title\": \"Fresh Dozen\", \"description\": \"Tour-grade balls for weekend rounds.\"}\n```", nil
		default:
			return `{"title": "Cozy Evenings", "description": "Lavender and vanilla for winding down."}`, nil
		}
	}}
	g := NewRationaleGenerator(testLogger(t), llm)

	got := g.GenerateAll(context.Background(), candidates, Persona{Relation: "father"})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "Everyday Carry Upgrade" || got[1].Title != "Fresh Dozen" || got[2].Title != "Cozy Evenings" {
		t.Fatalf("rationales misaligned: %+v", got)
	}
}

func TestGenerateAllSiblingIsolation(t *testing.T) {
	candidates := testPool()[:3]
	llm := &routedCompleter{route: func(user string) (string, error) {
		if strings.Contains(user, "Golf Balls") {
			return "", errors.New("backend down")
		}
		return `{"title": "Fine Pick", "description": "Works well for them."}`, nil
	}}
	g := NewRationaleGenerator(testLogger(t), llm)

	got := g.GenerateAll(context.Background(), candidates, Persona{Relation: "boss"})
	if got[0].Title != "Fine Pick" || got[2].Title != "Fine Pick" {
		t.Fatalf("healthy siblings disturbed by a failure: %+v", got)
	}
	// the failed slot gets the deterministic fallback
	if got[1].Title != "Golf Balls" {
		t.Fatalf("fallback title = %q, want gift name", got[1].Title)
	}
	if got[1].Description != "A solid sports choice for boss." {
		t.Fatalf("fallback description = %q", got[1].Description)
	}
}

func TestGenerateOneFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "backend error", err: errors.New("unavailable")},
		{name: "malformed json", reply: "Sure, here is a title for you!"},
		{name: "missing fields", reply: `{"title": "", "description": ""}`},
	}
	c := testPool()[2] // scented candles, category home
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &routedCompleter{route: func(string) (string, error) { return tc.reply, tc.err }}
			g := NewRationaleGenerator(testLogger(t), llm)
			got := g.generateOne(context.Background(), c, Persona{Relation: "sister"})
			want := Rationale{Title: "Scented Candles", Description: "A solid home choice for sister."}
			if got != want {
				t.Fatalf("fallback = %+v, want %+v", got, want)
			}
		})
	}
}

func TestFallbackRationaleDefaults(t *testing.T) {
	c := Candidate{Metadata: GiftMetadata{Name: "Mystery Box"}}
	got := fallbackRationale(c, Persona{})
	if got.Description != "A solid gift choice for them." {
		t.Fatalf("description = %q", got.Description)
	}
}
