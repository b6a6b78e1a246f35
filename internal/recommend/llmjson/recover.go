package llmjson

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Model output is advisory text, not a wire format. The helpers in this
// package pull a JSON payload out of whatever the completion backend
// returned: prose around a fenced block, markdown fences, trailing commas,
// or output truncated mid-structure by the token limit.

const (
	excerptHeadChars = 200
	excerptTailChars = 120
)

// MalformedOutputError reports output that no recovery strategy could parse.
// Head and Tail carry bounded excerpts of the raw text for logs.
type MalformedOutputError struct {
	Reason string
	Head   string
	Tail   string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output (%s): head=%q tail=%q", e.Reason, e.Head, e.Tail)
}

func malformed(reason, raw string) *MalformedOutputError {
	head := raw
	if len(head) > excerptHeadChars {
		head = head[:excerptHeadChars]
	}
	tail := ""
	if len(raw) > excerptHeadChars {
		tail = raw[len(raw)-min(excerptTailChars, len(raw)-excerptHeadChars):]
	}
	return &MalformedOutputError{Reason: reason, Head: head, Tail: tail}
}

var fenceRe = regexp.MustCompile("(?s)```(?:[a-zA-Z]+)?[ \t]*\n?(.*?)```")

// stripTrailingCommas removes commas that directly precede a closing
// bracket. It tracks string state so a "," inside a string value is
// never touched.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == ']' || s[j] == '}') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Recover extracts a JSON payload from text and unmarshals it into v.
// Strategies run in order: fenced-block extraction (first block wins),
// greedy bracket matching, trailing-comma normalization, direct parse,
// then bracket-closure repair for output truncated mid-structure.
func Recover(text string, v any) error {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return malformed("empty output", text)
	}
	cand := stripTrailingCommas(extractCandidate(raw))
	if err := json.Unmarshal([]byte(cand), v); err == nil {
		return nil
	}
	if repaired, ok := closeTruncated(cand); ok {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}
	return malformed("no strategy produced valid JSON", raw)
}

// RecoverObject parses text as a JSON object. When the object itself is
// unrecoverable it falls back to salvaging the arrays under knownKeys
// individually, so one truncated collection does not sink the others.
func RecoverObject(text string, knownKeys []string) (map[string]any, error) {
	var obj map[string]any
	if err := Recover(text, &obj); err == nil {
		return obj, nil
	}
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, malformed("empty output", text)
	}
	cand := stripTrailingCommas(extractCandidate(raw))
	out := map[string]any{}
	for _, key := range knownKeys {
		if items, ok := salvageArray(cand, key); ok {
			out[key] = items
		}
	}
	if len(out) == 0 {
		return nil, malformed("object unrecoverable and no known key salvageable", raw)
	}
	return out, nil
}

// extractCandidate narrows raw down to the most plausible JSON span.
// The first fenced block wins when present; otherwise the widest span
// between the earliest opening bracket and its last same-kind closer.
func extractCandidate(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner
		}
	}
	objOpen := strings.IndexByte(raw, '{')
	arrOpen := strings.IndexByte(raw, '[')
	open := objOpen
	closer := byte('}')
	if arrOpen >= 0 && (objOpen < 0 || arrOpen < objOpen) {
		open = arrOpen
		closer = ']'
	}
	if open < 0 {
		return raw
	}
	if end := strings.LastIndexByte(raw, closer); end > open {
		return raw[open : end+1]
	}
	// opener with no closer: keep the tail for truncation repair
	return raw[open:]
}

// closeTruncated repairs output cut off mid-structure. It scans cand
// tracking string state and the open-bracket stack, remembers the rightmost
// position that ends a complete value, truncates there and appends the
// closers the stack still owes (innermost first, so ']' lands before '}').
func closeTruncated(cand string) (string, bool) {
	var stack []byte
	inString := false
	escaped := false
	stringIsValue := false
	var lastSig byte

	safeEnd := -1
	safeClosers := ""

	markSafe := func(end int) {
		if len(stack) == 0 {
			return
		}
		closers := make([]byte, len(stack))
		for i := range stack {
			closers[i] = stack[len(stack)-1-i]
		}
		safeEnd = end
		safeClosers = string(closers)
	}

	for i := 0; i < len(cand); i++ {
		c := cand[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
				if stringIsValue {
					markSafe(i + 1)
					lastSig = 'v'
				} else {
					lastSig = 'k'
				}
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			// inside an object a bare string is a key unless it follows ':'
			stringIsValue = len(stack) == 0 || stack[len(stack)-1] == ']' || lastSig == ':'
		case '{':
			stack = append(stack, '}')
			lastSig = '{'
		case '[':
			stack = append(stack, ']')
			lastSig = '['
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
			markSafe(i + 1)
			lastSig = 'v'
		case ':':
			lastSig = ':'
		case ',':
			lastSig = ','
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			markSafe(i + 1)
			lastSig = 'v'
		case 'e', 'l':
			// terminal letter of true/false/null
			markSafe(i + 1)
			lastSig = 'v'
		}
	}

	if len(stack) == 0 || safeEnd <= 0 {
		return "", false
	}
	return cand[:safeEnd] + safeClosers, true
}

// salvageArray recovers the array value under key from a broken object.
// A properly closed array parses as-is; a truncated one is cut back to the
// last complete element boundary ("},") and re-closed.
func salvageArray(cand, key string) ([]any, bool) {
	idx := strings.Index(cand, `"`+key+`"`)
	if idx < 0 {
		return nil, false
	}
	rest := cand[idx+len(key)+2:]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return nil, false
	}
	open := strings.IndexByte(rest[colon:], '[')
	if open < 0 {
		return nil, false
	}
	seg := rest[colon+open:]

	if end, ok := matchBracket(seg); ok {
		var items []any
		if err := json.Unmarshal([]byte(seg[:end+1]), &items); err == nil {
			return items, true
		}
	}
	if cut := strings.LastIndex(seg, "},"); cut >= 0 {
		cand := stripTrailingCommas(seg[:cut+1] + "]")
		var items []any
		if err := json.Unmarshal([]byte(cand), &items); err == nil {
			return items, true
		}
	}
	return nil, false
}

// matchBracket returns the index of the closer matching seg[0], which must
// be an opening bracket, honoring strings and nesting.
func matchBracket(seg string) (int, bool) {
	if len(seg) == 0 || (seg[0] != '[' && seg[0] != '{') {
		return 0, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
