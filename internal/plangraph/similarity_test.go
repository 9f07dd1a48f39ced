package plangraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "create a poster", "create a poster", 1},
		{"case insensitive", "Create a Poster", "create a poster", 1},
		{"both empty", "", "", 1},
		{"completely different length one", "a", "z", 0},
		{"one empty", "abcd", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityNormalization(t *testing.T) {
	// One substitution in a ten-rune string scores 0.9.
	assert.InDelta(t, 0.9, Similarity("abcdefghij", "abcdefghiX"), 1e-9)

	// Distance divides by the longer string's length.
	assert.InDelta(t, 0.5, Similarity("abcd", "abcdefgh"), 1e-9)
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "analyze the market for scarves", "analyze the market for shawls"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestRankCandidateOrdering(t *testing.T) {
	higherSim := rankCandidate{similarity: 0.9, executions: 1}
	lowerSim := rankCandidate{similarity: 0.7, executions: 50}
	assert.True(t, higherSim.better(lowerSim), "similarity outranks executions")

	moreRuns := rankCandidate{similarity: 0.8, executions: 5}
	fewerRuns := rankCandidate{similarity: 0.8, executions: 2}
	assert.True(t, moreRuns.better(fewerRuns), "executions break similarity ties")
	assert.False(t, fewerRuns.better(moreRuns))
}
