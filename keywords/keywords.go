// Package keywords ranks the terms of a text by TF-IDF or TextRank.
package keywords

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/tsingjyujing/fenci/text"
	"github.com/tsingjyujing/fenci/utils"
)

var logger = utils.Logger

// Keyword is a ranked term.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Extractor returns at most topK keywords of text, highest weight first.
// An empty allowedPOS accepts every tag.
type Extractor interface {
	Extract(text string, topK int, allowedPOS []string) ([]Keyword, error)
}

// Tagger is the part of text.Segmenter the extractors need.
type Tagger interface {
	Tag(text string, useHMM bool) ([]text.Tag, error)
}

type Method int

const (
	MethodTFIDF Method = iota
	MethodTextRank
)

func (m Method) String() string {
	switch m {
	case MethodTFIDF:
		return "tfidf"
	case MethodTextRank:
		return "textrank"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "tfidf", "tf-idf":
		return MethodTFIDF, nil
	case "textrank":
		return MethodTextRank, nil
	default:
		return 0, fmt.Errorf("%w: unknown keyword method %q", utils.ErrInvalidArgument, s)
	}
}

// New builds the extractor for method.
func New(method Method, tagger Tagger, opts ...Option) (Extractor, error) {
	switch method {
	case MethodTFIDF:
		return NewTFIDF(tagger, opts...)
	case MethodTextRank:
		return NewTextRank(tagger, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown keyword method %v", utils.ErrInvalidArgument, method)
	}
}

type options struct {
	stopWords  *StopWords
	idf        *IDF
	normalizer text.Normalizer
	span       int
	damping    float64
	iterations int
}

type Option func(*options)

// WithStopWords replaces the default stop-word set.
func WithStopWords(s *StopWords) Option {
	return func(o *options) { o.stopWords = s }
}

// WithIDF replaces the packaged IDF table. Only TF-IDF uses it.
func WithIDF(idf *IDF) Option {
	return func(o *options) { o.idf = idf }
}

// WithNormalizer folds every candidate term before counting.
func WithNormalizer(n text.Normalizer) Option {
	return func(o *options) { o.normalizer = n }
}

// WithSpan sets the TextRank co-occurrence window.
func WithSpan(span int) Option {
	return func(o *options) { o.span = span }
}

// WithDamping sets the TextRank damping factor.
func WithDamping(d float64) Option {
	return func(o *options) { o.damping = d }
}

// WithIterations sets the number of TextRank iterations.
func WithIterations(n int) Option {
	return func(o *options) { o.iterations = n }
}

func buildOptions(opts []Option) (options, error) {
	o := options{span: 5, damping: 0.85, iterations: 10}
	for _, opt := range opts {
		opt(&o)
	}
	if o.span < 2 {
		return o, fmt.Errorf("%w: span must be at least 2, got %d", utils.ErrInvalidArgument, o.span)
	}
	if o.damping <= 0 || o.damping >= 1 {
		return o, fmt.Errorf("%w: damping must be in (0, 1), got %v", utils.ErrInvalidArgument, o.damping)
	}
	if o.iterations <= 0 {
		return o, fmt.Errorf("%w: iterations must be positive, got %d", utils.ErrInvalidArgument, o.iterations)
	}
	if o.stopWords == nil {
		sw, err := DefaultStopWords()
		if err != nil {
			return o, err
		}
		o.stopWords = sw
	}
	return o, nil
}

// base holds the candidate filtering shared by both extractors.
type base struct {
	tagger Tagger
	opts   options
}

// candidates tags input and returns one entry per token: the normalized
// term, or "" when the token is filtered out.
func (b *base) candidates(input string, topK int, allowedPOS []string) ([]string, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", utils.ErrInvalidArgument, topK)
	}
	tags, err := b.tagger.Tag(input, true)
	if err != nil {
		return nil, err
	}
	allowed := lo.SliceToMap(allowedPOS, func(pos string) (string, struct{}) {
		return pos, struct{}{}
	})
	return lo.Map(tags, func(t text.Tag, _ int) string {
		if len(allowed) > 0 {
			if _, ok := allowed[t.Tag]; !ok {
				return ""
			}
		}
		term := b.normalize(strings.TrimSpace(t.Word))
		if utf8.RuneCountInString(term) < 2 || b.opts.stopWords.Contains(term) {
			return ""
		}
		return term
	}), nil
}

func (b *base) normalize(term string) string {
	if b.opts.normalizer == nil || term == "" {
		return term
	}
	normalized, err := b.opts.normalizer.Normalize(term)
	if err != nil {
		logger.WithError(err).WithField("term", term).Warn("Failed to normalize term, using original")
		return term
	}
	return normalized
}

// rank orders keywords by descending weight, keeping input order for ties,
// and truncates to topK.
func rank(kws []Keyword, topK int) []Keyword {
	slices.SortStableFunc(kws, func(a, b Keyword) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return kws[:min(topK, len(kws))]
}
