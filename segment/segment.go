// Package segment implements dictionary-driven segmentation: the word DAG
// over a rune sequence and the maximum-probability path through it.
package segment

import "math"

// Lexicon is the read side of a dictionary. dictionary.View implements it.
type Lexicon interface {
	Freq(word string) (uint64, bool)
	Total() uint64
	Prefixes(runes []rune, start int, fn func(end int))
}

// DAG lists, for every start index, the ascending exclusive end indices of
// the candidate words beginning there. Row i always starts with i+1.
type DAG [][]int

// Span is a half-open rune range.
type Span struct {
	Start int
	End   int
}

// Len is the span length in runes.
func (s Span) Len() int {
	return s.End - s.Start
}

// BuildDAG records every dictionary word with positive frequency starting
// at each index, plus the single-rune edge.
func BuildDAG(lex Lexicon, runes []rune) DAG {
	dag := make(DAG, len(runes))
	for i := range runes {
		ends := []int{i + 1}
		lex.Prefixes(runes, i, func(end int) {
			if end > i+1 {
				ends = append(ends, end)
			}
		})
		dag[i] = ends
	}
	return dag
}

type step struct {
	logProb float64
	end     int
}

func logTotal(lex Lexicon) float64 {
	total := lex.Total()
	if total == 0 {
		total = 1
	}
	return math.Log(float64(total))
}

func edgeLogFreq(lex Lexicon, runes []rune, start, end int) float64 {
	freq, ok := lex.Freq(string(runes[start:end]))
	if !ok || freq == 0 {
		freq = 1
	}
	return math.Log(float64(freq))
}

// route fills route[i] with the best log probability of runes[i:] and the
// end of the first word on that path. Ties keep the shorter word.
func route(lex Lexicon, runes []rune, dag DAG) []step {
	n := len(runes)
	lt := logTotal(lex)
	r := make([]step, n+1)
	r[n] = step{end: n}
	for i := n - 1; i >= 0; i-- {
		best := step{logProb: math.Inf(-1), end: i + 1}
		for _, end := range dag[i] {
			p := edgeLogFreq(lex, runes, i, end) - lt + r[end].logProb
			if p > best.logProb {
				best = step{logProb: p, end: end}
			}
		}
		r[i] = best
	}
	return r
}

func walk(r []step, n int) []Span {
	spans := make([]Span, 0, n)
	for i := 0; i < n; i = r[i].end {
		spans = append(spans, Span{Start: i, End: r[i].end})
	}
	return spans
}

// Best returns the maximum-probability segmentation of runes. The spans
// tile the input in order.
func Best(lex Lexicon, runes []rune) []Span {
	if len(runes) == 0 {
		return []Span{}
	}
	return walk(route(lex, runes, BuildDAG(lex, runes)), len(runes))
}

// SuggestFreq estimates the frequency word needs so that Best keeps it as
// one token. The estimate is derived from the best segmentation that does
// not use word itself and is never lower than the stored frequency.
func SuggestFreq(lex Lexicon, word string) uint64 {
	runes := []rune(word)
	existing, _ := lex.Freq(word)
	if len(runes) == 0 {
		return existing
	}
	if len(runes) == 1 {
		return max(existing, 1)
	}

	n := len(runes)
	dag := BuildDAG(lex, runes)
	parts := make([]int, 0, len(dag[0]))
	for _, end := range dag[0] {
		if end != n {
			parts = append(parts, end)
		}
	}
	dag[0] = parts

	r := route(lex, runes, dag)
	estimate := uint64(math.Floor(math.Exp(r[0].logProb+logTotal(lex))*(1+1e-9))) + 1
	return max(existing, estimate)
}
