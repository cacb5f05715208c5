// Package rouge computes ROUGE-N, ROUGE-L and summary-level ROUGE-Lsum F1 scores over token
// sequences, and aggregates them across a corpus.
package rouge

import (
	"gonum.org/v1/gonum/stat"
)

// Metric names, in report order.
const (
	Rouge1    = "rouge1"
	Rouge2    = "rouge2"
	RougeL    = "rougeL"
	RougeLsum = "rougeLsum"
)

// Metrics lists every metric Score produces.
var Metrics = []string{Rouge1, Rouge2, RougeL, RougeLsum}

// Score holds precision, recall and F1 for one metric.
type Score struct {
	Precision float64
	Recall    float64
	F1        float64
}

func newScore(hits, candidateLen, referenceLen int) Score {
	var s Score
	if candidateLen > 0 {
		s.Precision = float64(hits) / float64(candidateLen)
	}
	if referenceLen > 0 {
		s.Recall = float64(hits) / float64(referenceLen)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}

// N computes ROUGE-N between candidate and reference using clipped n-gram counts.
func N[T comparable](n int, candidate, reference []T) Score {
	cand := ngrams(n, candidate)
	ref := ngrams(n, reference)
	hits := 0
	for gram, c := range cand {
		hits += min(c, ref[gram])
	}
	return newScore(hits, max(len(candidate)-n+1, 0), max(len(reference)-n+1, 0))
}

// L computes ROUGE-L from the longest common subsequence.
func L[T comparable](candidate, reference []T) Score {
	return newScore(lcsLength(candidate, reference), len(candidate), len(reference))
}

// Lsum computes summary-level ROUGE-L: for every reference sentence the union of LCS
// matches against all candidate sentences counts as hits.
func Lsum[T comparable](candidate, reference [][]T) Score {
	candLen, refLen, hits := 0, 0, 0
	for _, c := range candidate {
		candLen += len(c)
	}
	for _, r := range reference {
		refLen += len(r)
		matched := make([]bool, len(r))
		for _, c := range candidate {
			for _, idx := range lcsIndices(r, c) {
				matched[idx] = true
			}
		}
		for _, ok := range matched {
			if ok {
				hits++
			}
		}
	}
	return newScore(hits, candLen, refLen)
}

// All computes every metric in Metrics. Sentences are the segments of the sequences split on sep.
func All[T comparable](candidate, reference []T, sep T) map[string]Score {
	return map[string]Score{
		Rouge1:    N(1, flatten(candidate, sep), flatten(reference, sep)),
		Rouge2:    N(2, flatten(candidate, sep), flatten(reference, sep)),
		RougeL:    L(flatten(candidate, sep), flatten(reference, sep)),
		RougeLsum: Lsum(split(candidate, sep), split(reference, sep)),
	}
}

// Aggregator accumulates per-sample F1 scores.
type Aggregator struct {
	values map[string][]float64
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{values: make(map[string][]float64)}
}

// Add records the F1 of every metric in scores.
func (a *Aggregator) Add(scores map[string]Score) {
	for name, s := range scores {
		a.values[name] = append(a.values[name], s.F1)
	}
}

// Len returns the number of samples recorded for metric.
func (a *Aggregator) Len(metric string) int {
	return len(a.values[metric])
}

// Mean returns the mean F1 per metric. Metrics without samples map to 0.
func (a *Aggregator) Mean() map[string]float64 {
	out := make(map[string]float64, len(Metrics))
	for _, name := range Metrics {
		if v := a.values[name]; len(v) > 0 {
			out[name] = stat.Mean(v, nil)
		} else {
			out[name] = 0
		}
	}
	return out
}

func ngrams[T comparable](n int, seq []T) map[string]int {
	out := make(map[string]int)
	if n <= 0 {
		return out
	}
	for i := 0; i+n <= len(seq); i++ {
		out[key(seq[i:i+n])]++
	}
	return out
}

func lcsTable[T comparable](a, b []T) [][]int {
	t := make([][]int, len(a)+1)
	for i := range t {
		t[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				t[i][j] = t[i-1][j-1] + 1
			} else {
				t[i][j] = max(t[i-1][j], t[i][j-1])
			}
		}
	}
	return t
}

func lcsLength[T comparable](a, b []T) int {
	return lcsTable(a, b)[len(a)][len(b)]
}

// lcsIndices returns the positions in a that take part in one LCS of a and b.
func lcsIndices[T comparable](a, b []T) []int {
	t := lcsTable(a, b)
	var idx []int
	i, j := len(a), len(b)
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			idx = append(idx, i-1)
			i--
			j--
		case t[i-1][j] >= t[i][j-1]:
			i--
		default:
			j--
		}
	}
	return idx
}

func split[T comparable](seq []T, sep T) [][]T {
	var out [][]T
	var cur []T
	for _, v := range seq {
		if v == sep {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, v)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func flatten[T comparable](seq []T, sep T) []T {
	out := make([]T, 0, len(seq))
	for _, v := range seq {
		if v != sep {
			out = append(out, v)
		}
	}
	return out
}
