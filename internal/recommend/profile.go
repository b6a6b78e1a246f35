package recommend

import "strings"

// DefaultPreferenceWeight is assumed when extraction returned an item
// without a confidence weight, including bare-string shorthand.
const DefaultPreferenceWeight = 0.7

// PreferenceItem is one extracted preference with its supporting evidence
// excerpts from the contact's notes.
type PreferenceItem struct {
	Item     string   `json:"item"`
	Weight   float64  `json:"weight"`
	Evidence []string `json:"evidence"`
}

// Profile is the normalized preference profile for a contact.
type Profile struct {
	Likes     []PreferenceItem `json:"likes"`
	Dislikes  []PreferenceItem `json:"dislikes"`
	Uncertain []PreferenceItem `json:"uncertain"`
}

// Empty reports whether no collection holds any item.
func (p Profile) Empty() bool {
	return len(p.Likes) == 0 && len(p.Dislikes) == 0 && len(p.Uncertain) == 0
}

// NormalizeItems converts a raw extraction collection into PreferenceItems.
// Bare strings become items carrying themselves as evidence; structured
// records missing a weight get the default; records without an item name
// are dropped silently.
func NormalizeItems(raw []any) []PreferenceItem {
	if len(raw) == 0 {
		return nil
	}
	out := make([]PreferenceItem, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			out = append(out, PreferenceItem{Item: s, Weight: DefaultPreferenceWeight, Evidence: []string{s}})
		case map[string]any:
			item := strings.TrimSpace(asString(v["item"]))
			if item == "" {
				continue
			}
			weight := asFloat(v["weight"], DefaultPreferenceWeight)
			var evidence []string
			if list, ok := v["evidence"].([]any); ok {
				for _, e := range list {
					if s := strings.TrimSpace(asString(e)); s != "" {
						evidence = append(evidence, s)
					}
				}
			}
			out = append(out, PreferenceItem{Item: item, Weight: weight, Evidence: evidence})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BuildProfile normalizes the three raw collections at once.
func BuildProfile(likes, dislikes, uncertain []any) Profile {
	return Profile{
		Likes:     NormalizeItems(likes),
		Dislikes:  NormalizeItems(dislikes),
		Uncertain: NormalizeItems(uncertain),
	}
}

// DecidePriority resolves which preference source drives the prompt and the
// coverage rules: the extracted profile is authoritative whenever any of its
// collections is populated, otherwise the persona memos carry the request.
func DecidePriority(p Profile, memoHobby, memoStyle string) (useProfile bool, memos []string) {
	if !p.Empty() {
		return true, nil
	}
	for _, m := range []string{memoHobby, memoStyle} {
		if strings.TrimSpace(m) != "" {
			memos = append(memos, strings.TrimSpace(m))
		}
	}
	return false, memos
}
