package rouge

import "strings"

// irregularForms short-circuits stemming for words the suffix rules get wrong.
var irregularForms = map[string]string{
	"sky":      "sky",
	"skies":    "sky",
	"dying":    "die",
	"lying":    "lie",
	"tying":    "tie",
	"news":     "news",
	"inning":   "inning",
	"innings":  "inning",
	"outing":   "outing",
	"outings":  "outing",
	"canning":  "canning",
	"cannings": "canning",
	"howe":     "howe",
	"proceed":  "proceed",
	"exceed":   "exceed",
	"succeed":  "succeed",
}

// Stem reduces an ASCII word with the Porter algorithm as extended by NLTK
// (the variant rouge_score uses).
func Stem(word string) string {
	word = strings.ToLower(word)
	if base, ok := irregularForms[word]; ok {
		return base
	}
	if len(word) <= 2 {
		return word
	}

	steps := []func(string) string{
		step1a, step1b, step1c, step2, step3, step4, step5a, step5b,
	}
	for _, step := range steps {
		word = step(word)
	}
	return word
}

type suffixRule struct {
	suffix      string
	replacement string
	// when is evaluated against the word with suffix removed; nil always applies.
	when func(stem string) bool
}

// doubleConsonant is the pseudo-suffix matching any doubled final consonant.
const doubleConsonant = "*d"

// applyFirst applies the first rule whose suffix matches. A matching rule
// whose condition fails stops the search and leaves the word unchanged.
func applyFirst(word string, rules []suffixRule) string {
	for _, rule := range rules {
		if rule.suffix == doubleConsonant {
			if !endsDoubleConsonant(word) {
				continue
			}
			stem := word[:len(word)-2]
			if rule.when == nil || rule.when(stem) {
				return stem + rule.replacement
			}
			return word
		}
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		stem := strings.TrimSuffix(word, rule.suffix)
		if rule.when == nil || rule.when(stem) {
			return stem + rule.replacement
		}
		return word
	}
	return word
}

func isConsonant(word string, i int) bool {
	switch word[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isConsonant(word, i-1)
	default:
		return true
	}
}

// measure counts vowel-to-consonant transitions, the m of [C](VC)^m[V].
func measure(stem string) int {
	m := 0
	prevVowel := false
	for i := 0; i < len(stem); i++ {
		if isConsonant(stem, i) {
			if prevVowel {
				m++
			}
			prevVowel = false
			continue
		}
		prevVowel = true
	}
	return m
}

func positiveMeasure(stem string) bool {
	return measure(stem) > 0
}

func measureAboveOne(stem string) bool {
	return measure(stem) > 1
}

func containsVowel(stem string) bool {
	for i := 0; i < len(stem); i++ {
		if !isConsonant(stem, i) {
			return true
		}
	}
	return false
}

func endsDoubleConsonant(word string) bool {
	n := len(word)
	return n >= 2 && word[n-1] == word[n-2] && isConsonant(word, n-1)
}

// endsCVC reports a consonant-vowel-consonant ending whose last letter is not
// w, x or y. Two-letter vowel-consonant words also qualify.
func endsCVC(word string) bool {
	n := len(word)
	if n >= 3 &&
		isConsonant(word, n-3) &&
		!isConsonant(word, n-2) &&
		isConsonant(word, n-1) &&
		!strings.ContainsRune("wxy", rune(word[n-1])) {
		return true
	}
	return n == 2 && !isConsonant(word, 0) && isConsonant(word, 1)
}

func step1a(word string) string {
	if len(word) == 4 && strings.HasSuffix(word, "ies") {
		return strings.TrimSuffix(word, "ies") + "ie"
	}
	return applyFirst(word, []suffixRule{
		{suffix: "sses", replacement: "ss"},
		{suffix: "ies", replacement: "i"},
		{suffix: "ss", replacement: "ss"},
		{suffix: "s", replacement: ""},
	})
}

func step1b(word string) string {
	if strings.HasSuffix(word, "ied") {
		if len(word) == 4 {
			return strings.TrimSuffix(word, "ied") + "ie"
		}
		return strings.TrimSuffix(word, "ied") + "i"
	}
	if strings.HasSuffix(word, "eed") {
		stem := strings.TrimSuffix(word, "eed")
		if measure(stem) > 0 {
			return stem + "ee"
		}
		return word
	}

	var stem string
	matched := false
	for _, suffix := range []string{"ed", "ing"} {
		if strings.HasSuffix(word, suffix) && containsVowel(strings.TrimSuffix(word, suffix)) {
			stem = strings.TrimSuffix(word, suffix)
			matched = true
			break
		}
	}
	if !matched {
		return word
	}

	last := stem[len(stem)-1:]
	return applyFirst(stem, []suffixRule{
		{suffix: "at", replacement: "ate"},
		{suffix: "bl", replacement: "ble"},
		{suffix: "iz", replacement: "ize"},
		{
			suffix:      doubleConsonant,
			replacement: last,
			when: func(string) bool {
				return last != "l" && last != "s" && last != "z"
			},
		},
		{
			suffix:      "",
			replacement: "e",
			when: func(s string) bool {
				return measure(s) == 1 && endsCVC(s)
			},
		},
	})
}

func step1c(word string) string {
	return applyFirst(word, []suffixRule{
		{
			suffix:      "y",
			replacement: "i",
			when: func(stem string) bool {
				return len(stem) > 1 && isConsonant(stem, len(stem)-1)
			},
		},
	})
}

func step2(word string) string {
	if strings.HasSuffix(word, "alli") && positiveMeasure(strings.TrimSuffix(word, "alli")) {
		return step2(strings.TrimSuffix(word, "alli") + "al")
	}

	rules := []suffixRule{
		{"ational", "ate", positiveMeasure},
		{"tional", "tion", positiveMeasure},
		{"enci", "ence", positiveMeasure},
		{"anci", "ance", positiveMeasure},
		{"izer", "ize", positiveMeasure},
		{"bli", "ble", positiveMeasure},
		{"alli", "al", positiveMeasure},
		{"entli", "ent", positiveMeasure},
		{"eli", "e", positiveMeasure},
		{"ousli", "ous", positiveMeasure},
		{"ization", "ize", positiveMeasure},
		{"ation", "ate", positiveMeasure},
		{"ator", "ate", positiveMeasure},
		{"alism", "al", positiveMeasure},
		{"iveness", "ive", positiveMeasure},
		{"fulness", "ful", positiveMeasure},
		{"ousness", "ous", positiveMeasure},
		{"aliti", "al", positiveMeasure},
		{"iviti", "ive", positiveMeasure},
		{"biliti", "ble", positiveMeasure},
		{"fulli", "ful", positiveMeasure},
		// The measure for "logi" is taken with the "l" kept on the stem so
		// short stems such as "geo" and "theo" still qualify.
		{"logi", "log", func(string) bool {
			return positiveMeasure(word[:len(word)-3])
		}},
	}
	return applyFirst(word, rules)
}

func step3(word string) string {
	return applyFirst(word, []suffixRule{
		{"icate", "ic", positiveMeasure},
		{"ative", "", positiveMeasure},
		{"alize", "al", positiveMeasure},
		{"iciti", "ic", positiveMeasure},
		{"ical", "ic", positiveMeasure},
		{"ful", "", positiveMeasure},
		{"ness", "", positiveMeasure},
	})
}

func step4(word string) string {
	return applyFirst(word, []suffixRule{
		{"al", "", measureAboveOne},
		{"ance", "", measureAboveOne},
		{"ence", "", measureAboveOne},
		{"er", "", measureAboveOne},
		{"ic", "", measureAboveOne},
		{"able", "", measureAboveOne},
		{"ible", "", measureAboveOne},
		{"ant", "", measureAboveOne},
		{"ement", "", measureAboveOne},
		{"ment", "", measureAboveOne},
		{"ent", "", measureAboveOne},
		{"ion", "", func(stem string) bool {
			if measure(stem) <= 1 || stem == "" {
				return false
			}
			last := stem[len(stem)-1]
			return last == 's' || last == 't'
		}},
		{"ou", "", measureAboveOne},
		{"ism", "", measureAboveOne},
		{"ate", "", measureAboveOne},
		{"iti", "", measureAboveOne},
		{"ous", "", measureAboveOne},
		{"ive", "", measureAboveOne},
		{"ize", "", measureAboveOne},
	})
}

func step5a(word string) string {
	if !strings.HasSuffix(word, "e") {
		return word
	}
	stem := strings.TrimSuffix(word, "e")
	m := measure(stem)
	if m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}
	return word
}

func step5b(word string) string {
	return applyFirst(word, []suffixRule{
		{"ll", "l", func(string) bool {
			return measure(word[:len(word)-1]) > 1
		}},
	})
}
