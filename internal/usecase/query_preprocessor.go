package usecase

import (
	"regexp"
	"strings"
)

var (
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	punctuationRegex    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// queryStopWords carry no meaning when comparing food names
var queryStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true,
	"with": true, "in": true, "or": true, "raw": true,
}

// normalizeQuery trims and collapses whitespace.
func normalizeQuery(query string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(query, " "))
}

// tokenize splits a food name into lowercase tokens, dropping punctuation,
// stop words, and pure numbers.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if queryStopWords[word] || isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
