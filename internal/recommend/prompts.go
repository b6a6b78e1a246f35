package recommend

import (
	"fmt"
	"strings"
)

const systemRerank = "You are a considerate gift advisor. You answer with JSON only, no prose, no markdown fences."

const systemRationale = "You are a considerate gift advisor writing short, concrete gift pitches. You answer with JSON only, no prose, no markdown fences."

func describePersona(p Persona) string {
	parts := make([]string, 0, 3)
	if strings.TrimSpace(p.Relation) != "" {
		parts = append(parts, strings.TrimSpace(p.Relation))
	}
	if strings.TrimSpace(p.Rank) != "" {
		parts = append(parts, "("+strings.TrimSpace(p.Rank)+")")
	}
	if strings.TrimSpace(p.Gender) != "" {
		parts = append(parts, strings.TrimSpace(p.Gender))
	}
	if len(parts) == 0 {
		return "someone the user knows"
	}
	return strings.Join(parts, " ")
}

func formatPreferences(items []PreferenceItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- %s (weight %.2f)\n", it.Item, it.Weight)
	}
	return b.String()
}

// promptRerank renders the working set zero-indexed and asks for exactly one
// JSON array of n integers, nothing else.
func promptRerank(req RerankRequest, working []Candidate, useProfile bool, memos []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pick the %d best gifts for %s.\n\n", req.Count, describePersona(req.Persona))

	if useProfile {
		if len(req.Profile.Likes) > 0 {
			b.WriteString("They like:\n")
			b.WriteString(formatPreferences(req.Profile.Likes))
		}
		if len(req.Profile.Dislikes) > 0 {
			b.WriteString("They dislike (avoid these):\n")
			b.WriteString(formatPreferences(req.Profile.Dislikes))
		}
		if len(req.Profile.Uncertain) > 0 {
			b.WriteString("Unconfirmed signals (weigh lightly):\n")
			b.WriteString(formatPreferences(req.Profile.Uncertain))
		}
	} else if len(memos) > 0 {
		b.WriteString("What the user noted about them:\n")
		for _, m := range memos {
			fmt.Fprintf(&b, "- %s\n", trimToChars(m, 300))
		}
	}

	b.WriteString("\nCandidates (zero-indexed):\n")
	for i, c := range working {
		fmt.Fprintf(&b, "%d. %s | %s | %s | %s\n",
			i,
			trimToChars(c.Metadata.Name, 80),
			trimToChars(c.Metadata.Category, 40),
			trimToChars(c.Metadata.Price, 20),
			trimToChars(c.Metadata.Description, 160))
	}

	fmt.Fprintf(&b, "\nRespond with a JSON array of exactly %d candidate indexes, best first. Example: [4, 0, 17]. No other text.\n", req.Count)
	return b.String()
}

// promptRationale asks for a {"title", "description"} object for one gift.
func promptRationale(c Candidate, p Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a gift pitch for giving %q to %s.\n", c.Metadata.Name, describePersona(p))
	if c.Metadata.Category != "" {
		fmt.Fprintf(&b, "Category: %s.\n", trimToChars(c.Metadata.Category, 40))
	}
	if c.Metadata.Description != "" {
		fmt.Fprintf(&b, "Product notes: %s\n", trimToChars(c.Metadata.Description, 240))
	}
	b.WriteString("\nRespond with a JSON object with exactly two string fields: \"title\" (max 8 words) and \"description\" (1-2 sentences, why it suits them). No other text.\n")
	return b.String()
}
