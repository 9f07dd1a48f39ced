package plangraph

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SimilarityThreshold is the minimum similarity between a stored command
// and a query for the stored plan to be considered for reuse. Candidates
// below it are excluded; ties above it break on execution count. The
// value is a reuse-quality policy choice, tune it rather than re-derive.
const SimilarityThreshold = 0.6

// Similarity computes a case-insensitive normalized edit-distance ratio
// between two command strings on a 0-1 scale: 1 minus the Levenshtein
// distance divided by the longer string's rune length. Two empty strings
// score 1.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// rankCandidate holds a scored candidate during retrieval.
type rankCandidate struct {
	planJSON   string
	similarity float64
	executions int
}

// better reports whether c ranks above other: similarity descending,
// then executions descending.
func (c rankCandidate) better(other rankCandidate) bool {
	if c.similarity != other.similarity {
		return c.similarity > other.similarity
	}
	return c.executions > other.executions
}
