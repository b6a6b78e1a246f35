package recommend

import "strings"

// workingSetLimit caps how many candidates are shown to the model (W).
const workingSetLimit = 30

// likesRelated reports whether c matches any liked item by case-insensitive
// substring over name, category and description.
func likesRelated(c Candidate, likes []PreferenceItem) bool {
	hay := searchText(c)
	for _, it := range likes {
		needle := strings.ToLower(strings.TrimSpace(it.Item))
		if needle == "" {
			continue
		}
		if strings.Contains(hay, needle) {
			return true
		}
	}
	return false
}

// prefilter narrows pool to at most limit candidates for the prompt.
// Likes-related candidates come first, keeping pool (similarity) order
// within each partition; without any likes match the head of the pool is
// taken as-is. indexMap translates working-set positions back to pool
// positions.
func prefilter(pool []Candidate, profile Profile, limit int) (working []Candidate, indexMap []int) {
	if limit <= 0 {
		limit = workingSetLimit
	}
	if len(pool) == 0 {
		return nil, nil
	}

	var related, rest []int
	if len(profile.Likes) > 0 {
		for i, c := range pool {
			if likesRelated(c, profile.Likes) {
				related = append(related, i)
			} else {
				rest = append(rest, i)
			}
		}
	} else {
		for i := range pool {
			rest = append(rest, i)
		}
	}

	order := append(related, rest...)
	if len(order) > limit {
		order = order[:limit]
	}
	working = make([]Candidate, 0, len(order))
	indexMap = make([]int, 0, len(order))
	for _, poolIdx := range order {
		working = append(working, pool[poolIdx])
		indexMap = append(indexMap, poolIdx)
	}
	return working, indexMap
}
