package recommend

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
	"github.com/giftwise/giftwise-backend/internal/recommend/llmjson"
)

const (
	defaultRerankTemperature = 0.2
	defaultRerankMaxTokens   = 256
	defaultCallTimeout       = 20 * time.Second
)

// Reranker picks the best Count candidates from a retrieval pool using the
// completion backend under deterministic constraints. Rerank never fails
// outward: every backend or parse error degrades to the similarity-order
// fallback and is logged.
type Reranker struct {
	log         *logger.Logger
	llm         Completer
	temperature float64
	maxTokens   int
	callTimeout time.Duration
}

func NewReranker(log *logger.Logger, llm Completer) *Reranker {
	return &Reranker{
		log:         log.With("component", "reranker"),
		llm:         llm,
		temperature: defaultRerankTemperature,
		maxTokens:   defaultRerankMaxTokens,
		callTimeout: defaultCallTimeout,
	}
}

func (r *Reranker) Rerank(ctx context.Context, req RerankRequest) RerankResult {
	n := req.Count
	if n <= 0 {
		return RerankResult{}
	}
	pool := req.Pool
	if req.ExcludeDislikes && len(req.Profile.Dislikes) > 0 {
		pool = filterDislikes(pool, req.Profile.Dislikes)
	}

	useProfile, memos := DecidePriority(req.Profile, req.MemoHobby, req.MemoStyle)

	// a pool that already fits passes through untouched
	if len(pool) <= n {
		return RerankResult{Candidates: pool, ProfileUsed: useProfile, WorkingSetSize: len(pool)}
	}

	working, indexMap := prefilter(pool, req.Profile, workingSetLimit)

	var chosen []int
	usedFallback := false

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	raw, err := r.llm.Complete(callCtx, systemRerank, promptRerank(req, working, useProfile, memos), r.temperature, r.maxTokens)
	cancel()
	if err != nil {
		r.log.Warn("rerank completion failed, falling back to similarity order", "error", err)
		usedFallback = true
	} else {
		idxs, perr := parseRanking(raw, len(working), n)
		if perr != nil {
			r.log.Warn("rerank output unusable, falling back to similarity order", "error", perr)
			usedFallback = true
		} else if len(idxs) == 0 {
			r.log.Warn("rerank output held no usable indexes, falling back to similarity order")
			usedFallback = true
		} else {
			for _, wi := range idxs {
				chosen = append(chosen, indexMap[wi])
			}
		}
	}
	if usedFallback {
		end := n
		if end > len(indexMap) {
			end = len(indexMap)
		}
		chosen = append([]int(nil), indexMap[:end]...)
	}

	result := r.assemble(pool, chosen, indexMap, n)

	if !useProfile && nonTrivial(req.MemoHobby) && nonTrivial(req.MemoStyle) {
		result = enforceMemoCoverage(result, pool, []string{req.MemoHobby, req.MemoStyle})
	}

	return RerankResult{
		Candidates:     result,
		UsedFallback:   usedFallback,
		ProfileUsed:    useProfile,
		WorkingSetSize: len(working),
	}
}

// parseRanking recovers a JSON int array from raw and validates it against
// the working set: numeric strings are coerced, out-of-range entries are
// dropped, duplicates keep their first occurrence, and the list is cut to n.
func parseRanking(raw string, workingSize, n int) ([]int, error) {
	var arr []any
	if err := llmjson.Recover(raw, &arr); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, n)
	out := make([]int, 0, n)
	for _, v := range arr {
		idx, ok := coerceIndex(v)
		if !ok || idx < 0 || idx >= workingSize {
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func coerceIndex(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// assemble materializes chosen pool positions into candidates, de-duping by
// id and normalized name, topping up in working-set then pool order until n.
func (r *Reranker) assemble(pool []Candidate, chosen, indexMap []int, n int) []Candidate {
	seenID := make(map[string]bool, n)
	seenName := make(map[string]bool, n)
	out := make([]Candidate, 0, n)

	add := func(poolIdx int) {
		if len(out) == n {
			return
		}
		c := pool[poolIdx]
		name := normalizeName(c.Metadata.Name)
		if c.ID != "" && seenID[c.ID] {
			return
		}
		if name != "" && seenName[name] {
			return
		}
		if c.ID != "" {
			seenID[c.ID] = true
		}
		if name != "" {
			seenName[name] = true
		}
		out = append(out, c)
	}

	for _, pi := range chosen {
		add(pi)
	}
	for _, pi := range indexMap {
		if len(out) == n {
			break
		}
		add(pi)
	}
	for pi := range pool {
		if len(out) == n {
			break
		}
		add(pi)
	}
	return out
}

// filterDislikes is the optional strict mode: candidates matching a disliked
// item by substring are removed from the pool outright.
func filterDislikes(pool []Candidate, dislikes []PreferenceItem) []Candidate {
	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if likesRelated(c, dislikes) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func nonTrivial(memo string) bool {
	return len(strings.TrimSpace(memo)) >= 2
}

// memoStopwords are the connective words of persona memos ("I like golf",
// "she loves candles"). They carry no interest signal and a candidate that
// happens to contain one must not count as covering the memo.
var memoStopwords = map[string]bool{
	"the": true, "and": true, "with": true, "for": true, "has": true,
	"she": true, "him": true, "her": true, "his": true,
	"they": true, "them": true, "their": true,
	"like": true, "likes": true, "liked": true,
	"love": true, "loves": true, "loved": true,
	"dislike": true, "dislikes": true, "hate": true, "hates": true,
	"enjoy": true, "enjoys": true, "enjoyed": true,
	"prefer": true, "prefers": true, "into": true,
	"really": true, "very": true,
}

// memoTokens breaks a free-text memo into lowercase match terms.
func memoTokens(memo string) []string {
	fields := strings.Fields(strings.ToLower(memo))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()\"'")
		if len(f) < 3 || memoStopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func matchesMemo(c Candidate, tokens []string) bool {
	hay := searchText(c)
	for _, tok := range tokens {
		if strings.Contains(hay, tok) {
			return true
		}
	}
	return false
}

// enforceMemoCoverage guarantees each memo at least one matching candidate
// in the result when the pool has one, spending the lowest-priority slots
// (from the tail) on replacements.
func enforceMemoCoverage(result, pool []Candidate, memos []string) []Candidate {
	if len(result) == 0 {
		return result
	}
	slot := len(result) - 1
	for _, memo := range memos {
		tokens := memoTokens(memo)
		if len(tokens) == 0 {
			continue
		}
		covered := false
		for _, c := range result {
			if matchesMemo(c, tokens) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		repl, ok := findUnusedMatch(pool, result, tokens)
		if !ok || slot < 0 {
			continue
		}
		result[slot] = repl
		slot--
	}
	return result
}

func findUnusedMatch(pool, result []Candidate, tokens []string) (Candidate, bool) {
	used := make(map[string]bool, len(result))
	for _, c := range result {
		used[c.ID+"|"+normalizeName(c.Metadata.Name)] = true
	}
	for _, c := range pool {
		if used[c.ID+"|"+normalizeName(c.Metadata.Name)] {
			continue
		}
		if matchesMemo(c, tokens) {
			return c, true
		}
	}
	return Candidate{}, false
}
