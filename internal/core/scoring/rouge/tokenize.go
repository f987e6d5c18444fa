package rouge

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace  = regexp.MustCompile(`\s+`)
	validToken  = regexp.MustCompile(`^[a-z0-9]+$`)
)

// Tokens shorter than minStemLength are never stemmed.
const minStemLength = 4

// Tokenize lowercases text, turns every run of characters outside [a-z0-9]
// into a single space and splits on whitespace. With stemming enabled,
// tokens of four or more characters are reduced by the Porter stemmer.
func Tokenize(text string, stemming bool) []string {
	text = nonAlphaNum.ReplaceAllString(strings.ToLower(text), " ")

	parts := whitespace.Split(text, -1)
	tokens := make([]string, 0, len(parts))
	for _, token := range parts {
		if stemming && len(token) >= minStemLength {
			token = Stem(token)
		}
		if !validToken.MatchString(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
