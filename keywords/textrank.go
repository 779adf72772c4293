package keywords

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// TextRank ranks terms by PageRank over an undirected co-occurrence graph.
// Two candidate terms are linked once for every pair of tokens closer than
// the span.
type TextRank struct {
	base
}

func NewTextRank(tagger Tagger, opts ...Option) (*TextRank, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &TextRank{base{tagger: tagger, opts: o}}, nil
}

type edge struct {
	to     int
	weight float64
}

func (e *TextRank) Extract(text string, topK int, allowedPOS []string) ([]Keyword, error) {
	terms, err := e.candidates(text, topK, allowedPOS)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	vertices := make([]string, 0)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, ok := index[term]; !ok {
			index[term] = len(vertices)
			vertices = append(vertices, term)
		}
	}
	if len(vertices) == 0 {
		return []Keyword{}, nil
	}

	pairs := make(map[[2]int]float64)
	for i, a := range terms {
		if a == "" {
			continue
		}
		for j := i + 1; j < i+e.opts.span && j < len(terms); j++ {
			b := terms[j]
			if b == "" || b == a {
				continue
			}
			u, v := index[a], index[b]
			pairs[[2]int{u, v}]++
			pairs[[2]int{v, u}]++
		}
	}

	weights := e.pageRank(graph(len(vertices), pairs))
	kws := make([]Keyword, len(vertices))
	for i, term := range vertices {
		kws[i] = Keyword{Term: term, Weight: weights[i]}
	}
	return rank(kws, topK), nil
}

// graph turns directed pair weights into per-vertex incoming edge lists
// sorted by source, so sums are evaluated in a fixed order.
func graph(n int, pairs map[[2]int]float64) [][]edge {
	in := make([][]edge, n)
	for p, w := range pairs {
		in[p[1]] = append(in[p[1]], edge{to: p[0], weight: w})
	}
	for _, edges := range in {
		slices.SortFunc(edges, func(a, b edge) int { return cmp.Compare(a.to, b.to) })
	}
	return in
}

func (e *TextRank) pageRank(in [][]edge) []float64 {
	n := len(in)
	d := e.opts.damping

	// The graph is symmetric, so a vertex's outgoing total equals its
	// incoming total.
	out := lo.Map(in, func(edges []edge, _ int) float64 {
		return lo.SumBy(edges, func(x edge) float64 { return x.weight })
	})

	ws := make([]float64, n)
	next := make([]float64, n)
	for i := range ws {
		ws[i] = 1
	}
	for it := 0; it < e.opts.iterations; it++ {
		for v, edges := range in {
			s := 0.0
			for _, x := range edges {
				s += x.weight / out[x.to] * ws[x.to]
			}
			next[v] = (1 - d) + d*s
		}
		ws, next = next, ws
	}

	lowest, highest := lo.Min(ws), lo.Max(ws)
	for i, w := range ws {
		ws[i] = (w - lowest/10) / (highest - lowest/10)
	}
	return ws
}
