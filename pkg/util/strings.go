package util

import (
	"math"
	"strings"
)

// SuggestThreshold is the lowest FuzzyMatchScore worth suggesting
const SuggestThreshold = 0.7

// normalise lowercases and collapses whitespace
func normalise(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// FuzzyMatch performs fuzzy string matching using Levenshtein distance
// Returns the minimum edit distance between the shorter string and the best
// matching substring of the longer one
func FuzzyMatch(str1, str2 string) int {
	str1, str2 = normalise(str1), normalise(str2)

	shorter, longer := str1, str2
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	minDistance := math.MaxInt32
	for i := 0; i <= len(longer)-len(shorter); i++ {
		distance := LevenshteinDistance(shorter, longer[i:i+len(shorter)])
		if distance < minDistance {
			minDistance = distance
		}
		if minDistance == 0 {
			break
		}
	}
	return minDistance
}

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}

// FuzzyMatchScore returns a similarity score between 0.0 and 1.0
// where 1.0 is a perfect (or substring) match
func FuzzyMatchScore(str1, str2 string) float64 {
	distance := FuzzyMatch(str1, str2)
	maxLen := len(normalise(str1))
	if l := len(normalise(str2)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// ClosestMatch returns the candidate most similar to query, if any scores at
// least SuggestThreshold. Ties go to the shorter candidate, then the first
func ClosestMatch(query string, candidates []string) (string, bool) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		score := FuzzyMatchScore(query, c)
		if score > bestScore || (score == bestScore && len(c) < len(best)) {
			best, bestScore = c, score
		}
	}
	if bestScore < SuggestThreshold {
		return "", false
	}
	return best, true
}
