package dedupe

import (
	"github.com/fairgroundhq/trellis/pkg/normalizers"
)

// Similarity returns a score between 0.0 and 1.0 for two strings.
// Both inputs are trimmed and lowercased before comparison; an empty
// input after normalization always scores 0.0.
func Similarity(a, b string) float64 {
	a = normalizers.NormalizeName(a)
	b = normalizers.NormalizeName(b)

	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	distance := levenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	return 1.0 - float64(distance)/float64(maxLen)
}

// nameSimilarity scores two company names with the higher of the
// edit-distance similarity and a Jaro-Winkler score. The Winkler
// prefix boost keeps truncated names ("Acme Corporation" vs "Acme Corp")
// inside match range, where the pure edit-distance ratio scores them as
// mostly different because the missing suffix counts as deletions.
func nameSimilarity(a, b string) float64 {
	na := normalizers.NormalizeName(a)
	nb := normalizers.NormalizeName(b)

	if na == "" || nb == "" {
		return 0.0
	}
	return max(Similarity(na, nb), jaroWinkler(na, nb))
}

// jaroWinkler calculates the Jaro-Winkler similarity between two strings
// Returns a value between 0.0 (no similarity) and 1.0 (exact match)
func jaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	j := jaro(a, b)

	// Winkler modification: boost for common prefix
	prefixLen := 0
	maxPrefix := 4
	for i := 0; i < len(a) && i < len(b) && i < maxPrefix; i++ {
		if a[i] == b[i] {
			prefixLen++
		} else {
			break
		}
	}

	// Winkler scaling factor is typically 0.1
	scalingFactor := 0.1
	return j + float64(prefixLen)*scalingFactor*(1.0-j)
}

// jaro calculates the Jaro similarity between two strings
func jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Maximum distance for character matching
	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	transpositions := 0

	for i := 0; i < len(a); i++ {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	k := 0
	for i := 0; i < len(a); i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rows are enough for the DP table
	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}
