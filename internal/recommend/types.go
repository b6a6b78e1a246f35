package recommend

import "context"

// Completer is the slice of the completion backend the pipeline needs.
// Implementations return the raw output text; callers never assume it is
// valid JSON and always go through llmjson.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

// GiftMetadata is the catalog payload carried alongside a vector match.
type GiftMetadata struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Candidate is one gift in the retrieval pool. Distance is the vector
// distance from the query; similarity is 1 - distance, so pools arrive
// sorted by ascending distance.
type Candidate struct {
	ID       string       `json:"id"`
	Metadata GiftMetadata `json:"metadata"`
	Distance float64      `json:"distance"`
}

// Similarity converts the stored distance back to a similarity score.
func (c Candidate) Similarity() float64 { return 1 - c.Distance }

// Persona describes who the gift is for, as worded in prompts.
type Persona struct {
	Rank     string
	Relation string
	Gender   string
}

// RerankRequest carries one re-ranking invocation.
type RerankRequest struct {
	Pool    []Candidate
	Persona Persona
	Profile Profile
	// MemoHobby and MemoStyle are the free-text fallback when no profile
	// collection is populated.
	MemoHobby string
	MemoStyle string
	// Count is the number of gifts to return (N).
	Count int
	// ExcludeDislikes enables the strict post-filter that drops candidates
	// matching a disliked item outright. Off by default: dislikes are
	// normally steered away from in the prompt only.
	ExcludeDislikes bool
}

// RerankResult is the chosen subset of the pool, in result order.
type RerankResult struct {
	Candidates   []Candidate
	UsedFallback bool
	ProfileUsed  bool
	// WorkingSetSize is how many candidates were actually shown to the model.
	WorkingSetSize int
}
