package llmjson

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestRecoverArrays(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []float64
	}{
		{
			name: "clean array",
			text: `[3, 0, 7, 12, 5]`,
			want: []float64{3, 0, 7, 12, 5},
		},
		{
			name: "fenced json block",
			text: "Here is the ranking:\n```json\n[1, 2, 3]\n```\nHope that helps!",
			want: []float64{1, 2, 3},
		},
		{
			name: "bare fence without language tag",
			text: "```\n[4, 5]\n```",
			want: []float64{4, 5},
		},
		{
			name: "first fenced block wins",
			text: "```json\n[9]\n```\nor maybe\n```json\n[1]\n```",
			want: []float64{9},
		},
		{
			name: "prose around bare brackets",
			text: "Sure! The best picks are [2, 8, 1] based on the profile.",
			want: []float64{2, 8, 1},
		},
		{
			name: "trailing comma",
			text: `[1, 2, 3,]`,
			want: []float64{1, 2, 3},
		},
		{
			name: "truncated mid element",
			text: `[10, 4, 22, 1`,
			want: []float64{10, 4, 22, 1},
		},
		{
			name: "truncated after comma",
			text: `[10, 4,`,
			want: []float64{10, 4},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []float64
			if err := Recover(tc.text, &got); err != nil {
				t.Fatalf("Recover(%q) error: %v", tc.text, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Recover(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestRecoverObjects(t *testing.T) {
	cases := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "clean object",
			text: `{"title": "Golf balls", "description": "A dozen."}`,
			want: map[string]any{"title": "Golf balls", "description": "A dozen."},
		},
		{
			name: "fenced with prose",
			text: "Of course.\n```json\n{\"title\": \"Scarf\", \"description\": \"Warm.\"}\n```",
			want: map[string]any{"title": "Scarf", "description": "Warm."},
		},
		{
			name: "trailing comma inside object",
			text: `{"title": "Mug", "description": "Ceramic",}`,
			want: map[string]any{"title": "Mug", "description": "Ceramic"},
		},
		{
			name: "truncated after string value",
			text: `{"title": "Candle set", "description": "Lavender scented`,
			want: map[string]any{"title": "Candle set"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got map[string]any
			if err := Recover(tc.text, &got); err != nil {
				t.Fatalf("Recover(%q) error: %v", tc.text, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Recover(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestRecoverFailures(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace only", text: "   \n\t  "},
		{name: "no json at all", text: "I could not produce a ranking for this request."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got any
			err := Recover(tc.text, &got)
			if err == nil {
				t.Fatalf("Recover(%q) expected error, got %v", tc.text, got)
			}
			var moe *MalformedOutputError
			if !errors.As(err, &moe) {
				t.Fatalf("Recover(%q) error type = %T, want *MalformedOutputError", tc.text, err)
			}
		})
	}
}

func TestMalformedExcerptsBounded(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	var got any
	err := Recover(string(long), &got)
	var moe *MalformedOutputError
	if !errors.As(err, &moe) {
		t.Fatalf("expected *MalformedOutputError, got %v", err)
	}
	if len(moe.Head) > excerptHeadChars {
		t.Fatalf("head excerpt too long: %d", len(moe.Head))
	}
	if len(moe.Tail) > excerptTailChars {
		t.Fatalf("tail excerpt too long: %d", len(moe.Tail))
	}
}

func TestRecoverObjectSalvage(t *testing.T) {
	knownKeys := []string{"likes", "dislikes", "uncertain"}

	t.Run("intact object passes through", func(t *testing.T) {
		text := `{"likes": [{"item": "golf", "weight": 0.9}], "dislikes": []}`
		got, err := RecoverObject(text, knownKeys)
		if err != nil {
			t.Fatalf("RecoverObject error: %v", err)
		}
		likes, ok := got["likes"].([]any)
		if !ok || len(likes) != 1 {
			t.Fatalf("likes = %#v, want one entry", got["likes"])
		}
	})

	t.Run("salvages closed array before the break", func(t *testing.T) {
		// dislikes is cut mid-record; likes should still survive whole
		text := `{"likes": [{"item": "golf", "weight": 0.9}, {"item": "wine", "weight": 0.7}], "dislikes": [{"item": "socks", "wei`
		got, err := RecoverObject(text, knownKeys)
		if err != nil {
			t.Fatalf("RecoverObject error: %v", err)
		}
		likes, ok := got["likes"].([]any)
		if !ok || len(likes) != 2 {
			t.Fatalf("likes = %#v, want two entries", got["likes"])
		}
	})

	t.Run("repairs truncation at last record boundary", func(t *testing.T) {
		text := `{"likes": [{"item": "golf", "weight": 0.9}, {"item": "wine", "weight": 0.7}, {"item": "trav`
		got, err := RecoverObject(text, knownKeys)
		if err != nil {
			t.Fatalf("RecoverObject error: %v", err)
		}
		likes, ok := got["likes"].([]any)
		if !ok || len(likes) != 2 {
			t.Fatalf("likes = %#v, want two entries", got["likes"])
		}
	})

	t.Run("falls back to per-key salvage when repair fails", func(t *testing.T) {
		// truncation inside a bare literal defeats bracket-closure repair
		text := `{"likes": [{"item": "golf", "weight": 0.9}, {"item": "wine", "weight": 0.7}], "confident": fal`
		got, err := RecoverObject(text, knownKeys)
		if err != nil {
			t.Fatalf("RecoverObject error: %v", err)
		}
		likes, ok := got["likes"].([]any)
		if !ok || len(likes) != 2 {
			t.Fatalf("likes = %#v, want two entries", got["likes"])
		}
		if _, present := got["confident"]; present {
			t.Fatal("unknown key should not be salvaged")
		}
	})

	t.Run("parsed object without known keys passes through", func(t *testing.T) {
		// shape validation is the caller's job; a well-formed object is
		// returned as-is even when no known key appears
		got, err := RecoverObject(`{"other": [1, 2, 3]}`, knownKeys)
		if err != nil {
			t.Fatalf("RecoverObject error: %v", err)
		}
		if _, ok := got["other"]; !ok {
			t.Fatalf("object should pass through unfiltered, got %#v", got)
		}
	})

	t.Run("nothing salvageable", func(t *testing.T) {
		if _, err := RecoverObject(`{"other": fal`, knownKeys); err == nil {
			t.Fatal("expected error when no known key can be salvaged")
		}
	})
}

func TestRecoverPreservesCommasInStrings(t *testing.T) {
	t.Run("bracket after comma inside array element", func(t *testing.T) {
		var got []any
		if err := Recover(`["a,]", "b,}"]`, &got); err != nil {
			t.Fatalf("Recover error: %v", err)
		}
		want := []any{"a,]", "b,}"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("brace after comma inside value with real trailing comma", func(t *testing.T) {
		var got map[string]any
		if err := Recover(`{"note": "ends with ,}",}`, &got); err != nil {
			t.Fatalf("Recover error: %v", err)
		}
		want := map[string]any{"note": "ends with ,}"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("serialized value round trips", func(t *testing.T) {
		orig := []any{"a,]", "x", map[string]any{"k": ",}"}}
		raw, err := json.Marshal(orig)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got []any
		if err := Recover(string(raw), &got); err != nil {
			t.Fatalf("Recover(%s) error: %v", raw, err)
		}
		if !reflect.DeepEqual(got, orig) {
			t.Fatalf("round trip changed value: got %v, want %v", got, orig)
		}
	})
}
