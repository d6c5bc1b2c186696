package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditSimilarity_Identical(t *testing.T) {
	assert.Equal(t, 1.0, editSimilarity("same text", "same text"))
}

func TestEditSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 1.0, editSimilarity("", ""))
	assert.Equal(t, 0.0, editSimilarity("abc", ""))
}

func TestEditSimilarity_Disjoint(t *testing.T) {
	sim := editSimilarity("aaaa", "bbbb")
	assert.Equal(t, 0.0, sim)
}

func TestEditSimilarity_SmallEdit(t *testing.T) {
	a := "the quick brown fox jumps over the lazy dog"
	b := "the quick brown fox jumped over the lazy dog"
	sim := editSimilarity(a, b)
	assert.Greater(t, sim, 0.9)
	assert.Less(t, sim, 1.0)
}

func TestEditSimilarity_Symmetric(t *testing.T) {
	a, b := "kitten", "sitting"
	assert.InDelta(t, editSimilarity(a, b), editSimilarity(b, a), 1e-9)
}

func TestTokenOverlap_Identical(t *testing.T) {
	assert.Equal(t, 1.0, tokenOverlap("a b c", "c b a"))
}

func TestTokenOverlap_Disjoint(t *testing.T) {
	assert.Equal(t, 0.0, tokenOverlap("a b c", "x y z"))
}

func TestTokenOverlap_Partial(t *testing.T) {
	// Two tokens of three shared on each side.
	sim := tokenOverlap("a b c", "a b z")
	assert.InDelta(t, 2.0*2.0/6.0, sim, 1e-9)
}

func TestTokenOverlap_Empty(t *testing.T) {
	assert.Equal(t, 0.0, tokenOverlap("", "a b"))
	assert.Equal(t, 0.0, tokenOverlap("a b", ""))
}

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{0.5, 0.2, 0.8}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-6)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}
	assert.InDelta(t, 0.0, cosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 1}
	b := []float32{-1, -1}
	assert.InDelta(t, -1.0, cosineSimilarity(a, b), 1e-6)
}

func TestCosineSimilarity_Mismatched(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	assert.Equal(t, 0.0, cosineSimilarity(a, b))
}
