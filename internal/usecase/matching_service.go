package usecase

import (
	"sort"
	"strings"
)

// Scoring weights
const (
	exactTokenWeight  = 1.0
	fuzzyWeightFactor = 0.8 // Fuzzy matches get 80% of an exact match
	prefixMatchBonus  = 0.2
)

// MatchConfig holds configuration for name matching
type MatchConfig struct {
	MinScore       float64 // 0..1, candidates below are not suggested
	FuzzyThreshold int     // Max edit distance for a fuzzy token match
	MaxSuggestions int
}

// MatchingService ranks stored food names against a name that was not found,
// so callers can offer "did you mean" choices instead of a bare miss.
type MatchingService struct {
	config MatchConfig
}

// Suggestion is one ranked candidate name
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// NewMatchingService creates a matcher, filling zero fields with defaults
func NewMatchingService(config MatchConfig) *MatchingService {
	if config.MinScore <= 0 {
		config.MinScore = 0.3
	}
	if config.FuzzyThreshold <= 0 {
		config.FuzzyThreshold = 2
	}
	if config.MaxSuggestions <= 0 {
		config.MaxSuggestions = 5
	}
	return &MatchingService{config: config}
}

// Suggest returns up to MaxSuggestions candidates scoring at least MinScore,
// best first. Ties keep candidate order.
func (s *MatchingService) Suggest(name string, candidates []string) []Suggestion {
	queryTokens := tokenize(name)
	if len(queryTokens) == 0 {
		return nil
	}

	var out []Suggestion
	for _, candidate := range candidates {
		score := s.score(queryTokens, name, candidate)
		if score >= s.config.MinScore {
			out = append(out, Suggestion{Name: candidate, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > s.config.MaxSuggestions {
		out = out[:s.config.MaxSuggestions]
	}
	return out
}

// score is a fuzzy Jaccard similarity over tokens, capped at 1.
func (s *MatchingService) score(queryTokens []string, query, candidate string) float64 {
	candidateTokens := tokenize(candidate)
	if len(candidateTokens) == 0 {
		return 0
	}

	exact, matched := findIntersection(queryTokens, candidateTokens)
	total := float64(exact) * exactTokenWeight

	matchedSet := make(map[string]bool, len(matched))
	for _, t := range matched {
		matchedSet[t] = true
	}
	for _, qt := range queryTokens {
		if matchedSet[qt] {
			continue
		}
		for _, ct := range candidateTokens {
			if !matchedSet[ct] && fuzzyTokenMatch(qt, ct, s.config.FuzzyThreshold) {
				total += exactTokenWeight * fuzzyWeightFactor
				matchedSet[ct] = true
				break
			}
		}
	}

	score := total / float64(findUnion(queryTokens, candidateTokens))
	if strings.HasPrefix(strings.ToLower(candidate), strings.ToLower(strings.TrimSpace(query))) {
		score += prefixMatchBonus
	}
	return min(score, 1.0)
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to tokens >= 4 chars to avoid false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two rows instead of the full matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}
