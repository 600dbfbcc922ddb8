package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical strings",
			a:        "Acme Corporation",
			b:        "Acme Corporation",
			expected: 1.0,
		},
		{
			name:     "case and whitespace insensitive",
			a:        "  ACME Corporation ",
			b:        "acme corporation",
			expected: 1.0,
		},
		{
			name:     "empty left",
			a:        "",
			b:        "anything",
			expected: 0.0,
		},
		{
			name:     "empty right",
			a:        "anything",
			b:        "",
			expected: 0.0,
		},
		{
			name:     "whitespace only",
			a:        "   ",
			b:        "anything",
			expected: 0.0,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 0.0,
		},
		{
			name: "single substitution",
			a:    "cat",
			b:    "bat",
			// 1 - 1/3
			expected: 1.0 - 1.0/3.0,
		},
		{
			name: "suffix difference",
			a:    "Acme Corporation",
			b:    "Acme Corp",
			// 7 deletions over max length 16
			expected: 1.0 - 7.0/16.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Acme Corporation", "Acme Corp"},
		{"Innovation Labs", "Inovation Labs"},
		{"Company One", "Completely Different Company"},
	}

	for _, pair := range pairs {
		assert.Equal(t, Similarity(pair[0], pair[1]), Similarity(pair[1], pair[0]))
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical names",
			a:        "Acme Corporation",
			b:        "Acme Corporation",
			expected: 1.0,
		},
		{
			// Edit distance alone scores this 0.5625; the Winkler prefix
			// boost lifts the pair into match range.
			// jaro = (9/16 + 1 + 1)/3, then + 4*0.1*(1-jaro)
			name:     "truncated name",
			a:        "Acme Corporation",
			b:        "Acme Corp",
			expected: 0.9125,
		},
		{
			name:     "empty side",
			a:        "",
			b:        "Acme Corp",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, nameSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNameSimilarityUnrelatedStaysBelowGate(t *testing.T) {
	// A shared word and prefix must not push genuinely different names over
	// the detector's 0.85 name gate.
	score := nameSimilarity("Company One", "Completely Different Company")
	assert.Less(t, score, nameThreshold)
}

func TestJaroWinkler(t *testing.T) {
	assert.Equal(t, 1.0, jaroWinkler("acme", "acme"))
	assert.Equal(t, 0.0, jaro("", "acme"))
	assert.InDelta(t, 0.9125, jaroWinkler("acme corporation", "acme corp"), 1e-9)
	// No shared prefix: reduces to plain jaro.
	assert.Equal(t, jaro("northwind", "fabrikam"), jaroWinkler("northwind", "fabrikam"))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{name: "equal", a: "kitten", b: "kitten", expected: 0},
		{name: "classic", a: "kitten", b: "sitting", expected: 3},
		{name: "empty to full", a: "", b: "abc", expected: 3},
		{name: "full to empty", a: "abc", b: "", expected: 3},
		{name: "single insert", a: "acme", b: "acmes", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshteinDistance(tt.a, tt.b))
		})
	}
}
