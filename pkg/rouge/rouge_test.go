package rouge_test

import (
	"testing"

	"github.com/aretw0/textsum/pkg/rouge"
	"github.com/stretchr/testify/assert"
)

func words(s ...string) []string { return s }

func TestN(t *testing.T) {
	cand := words("the", "cat", "sat", "on", "the", "mat")
	ref := words("the", "cat", "is", "on", "the", "mat")

	r1 := rouge.N(1, cand, ref)
	assert.InDelta(t, 5.0/6.0, r1.F1, 1e-9)

	r2 := rouge.N(2, cand, ref)
	// cat-sat/sat-on miss; the-cat, on-the, the-mat hit
	assert.InDelta(t, 3.0/5.0, r2.F1, 1e-9)
}

func TestN_ClipsCounts(t *testing.T) {
	s := rouge.N(1, words("the", "the", "the"), words("the", "cat"))
	assert.InDelta(t, 1.0/3.0, s.Precision, 1e-9)
	assert.InDelta(t, 0.5, s.Recall, 1e-9)
}

func TestL(t *testing.T) {
	s := rouge.L(words("a", "b", "c", "d"), words("a", "c", "d", "e"))
	assert.InDelta(t, 0.75, s.F1, 1e-9)
}

func TestEmpty(t *testing.T) {
	assert.Equal(t, rouge.Score{}, rouge.N(2, words("a"), words("a")))
	assert.Equal(t, rouge.Score{}, rouge.L[string](nil, words("a")))
}

func TestLsum(t *testing.T) {
	cand := [][]string{words("a", "b"), words("c", "d")}
	ref := [][]string{words("a", "b", "c", "d")}

	s := rouge.Lsum(cand, ref)
	assert.InDelta(t, 1.0, s.F1, 1e-9)
}

func TestAll_UsesSeparator(t *testing.T) {
	const sep = -1
	scores := rouge.All([]int{1, 2, sep, 3}, []int{1, 2, 3}, sep)

	for _, m := range rouge.Metrics {
		assert.Contains(t, scores, m)
	}
	assert.InDelta(t, 1.0, scores[rouge.Rouge1].F1, 1e-9)
	assert.InDelta(t, 1.0, scores[rouge.RougeLsum].F1, 1e-9)
}

func TestAggregator_Mean(t *testing.T) {
	agg := rouge.NewAggregator()
	agg.Add(map[string]rouge.Score{rouge.Rouge1: {F1: 0.2}, rouge.RougeL: {F1: 1}})
	agg.Add(map[string]rouge.Score{rouge.Rouge1: {F1: 0.4}})

	mean := agg.Mean()
	assert.InDelta(t, 0.3, mean[rouge.Rouge1], 1e-9)
	assert.InDelta(t, 1.0, mean[rouge.RougeL], 1e-9)
	assert.Equal(t, 0.0, mean[rouge.Rouge2])
	assert.Equal(t, 2, agg.Len(rouge.Rouge1))
}
