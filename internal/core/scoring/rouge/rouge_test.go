package rouge

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenizeLowercasesAndStripsPunctuation(t *testing.T) {
	got := Tokenize("Hello, WORLD! Age>=18", false)
	want := []string{"hello", "world", "age", "18"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeStemsOnlyLongTokens(t *testing.T) {
	got := Tokenize("the friends had a meeting", true)
	want := []string{"the", "friend", "had", "a", "meet"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize("  --  ", true); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}

func TestStemIrregularForms(t *testing.T) {
	cases := map[string]string{
		"skies":    "sky",
		"dying":    "die",
		"innings":  "inning",
		"cannings": "canning",
		"proceed":  "proceed",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Fatalf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStemSuffixRules(t *testing.T) {
	cases := map[string]string{
		"dies":        "die",
		"died":        "die",
		"spied":       "spi",
		"enjoy":       "enjoy",
		"caresses":    "caress",
		"ponies":      "poni",
		"hopping":     "hop",
		"filing":      "file",
		"relational":  "relat",
		"conditional": "condit",
		"happy":       "happi",
		"patients":    "patient",
		"treatment":   "treatment",
		"randomized":  "random",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Fatalf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLCSLength(t *testing.T) {
	a := []string{"a", "b", "c", "d", "e"}
	b := []string{"a", "c", "e", "f"}
	if got := LCSLength(a, b); got != 3 {
		t.Fatalf("LCSLength() = %d, want 3", got)
	}
	if got := LCSLength(nil, b); got != 0 {
		t.Fatalf("LCSLength(nil) = %d, want 0", got)
	}
}

func TestRougeLMatchesReferenceImplementation(t *testing.T) {
	scorer := NewScorer(true)
	score := scorer.RougeL(
		"The quick brown fox jumps over the lazy dog",
		"The quick brown dog jumps on the log.",
	)
	assertClose(t, "precision", score.Precision, 0.625)
	assertClose(t, "recall", score.Recall, 5.0/9.0)
	assertClose(t, "fmeasure", score.FMeasure, 0.5882352941)
}

func TestRougeLPartialOverlap(t *testing.T) {
	score := NewScorer(false).RougeL("the cat sat on the mat", "the cat on the mat")
	assertClose(t, "precision", score.Precision, 1)
	assertClose(t, "recall", score.Recall, 5.0/6.0)
	assertClose(t, "fmeasure", score.FMeasure, 10.0/11.0)
}

func TestRougeLNoTokens(t *testing.T) {
	score := NewScorer(true).RougeL("...", "some text")
	if score != (Score{}) {
		t.Fatalf("expected zero score, got %+v", score)
	}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("%s = %.8f, want %.8f", name, got, want)
	}
}
