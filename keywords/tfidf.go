package keywords

// TFIDF weights a term by count * idf / total, where total is the number
// of candidate tokens in the text. Terms missing from the IDF table use
// its median.
type TFIDF struct {
	base
}

func NewTFIDF(tagger Tagger, opts ...Option) (*TFIDF, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if o.idf == nil {
		if o.idf, err = DefaultIDF(); err != nil {
			return nil, err
		}
	}
	return &TFIDF{base{tagger: tagger, opts: o}}, nil
}

func (e *TFIDF) Extract(text string, topK int, allowedPOS []string) ([]Keyword, error) {
	terms, err := e.candidates(text, topK, allowedPOS)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(terms))
	total := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
		total++
	}

	kws := make([]Keyword, len(order))
	for i, term := range order {
		kws[i] = Keyword{
			Term:   term,
			Weight: float64(counts[term]) * e.opts.idf.Weight(term) / float64(total),
		}
	}
	return rank(kws, topK), nil
}
