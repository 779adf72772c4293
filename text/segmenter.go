// Package text turns raw text into words: accurate, full and search
// segmentation, part-of-speech tagging and positional tokens.
package text

import (
	"cmp"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/tsingjyujing/fenci/dictionary"
	"github.com/tsingjyujing/fenci/hmm"
	"github.com/tsingjyujing/fenci/segment"
	"github.com/tsingjyujing/fenci/utils"
)

var logger = utils.Logger

var (
	// Runs the dictionary route is computed over: Han characters plus the
	// ASCII characters that commonly appear inside words.
	reHanDefault = regexp.MustCompile(`[\x{3400}-\x{4DBF}\x{4E00}-\x{9FFF}\x{F900}-\x{FAFF}\x{20000}-\x{2FA1F}a-zA-Z0-9+#&._%\-]+`)
	reSkip       = regexp.MustCompile(`\r\n|\s`)
)

// Mode selects how Tokenize expands the accurate segmentation.
type Mode int

const (
	ModeDefault Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeSearch:
		return "search"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "default" and "search".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "default", "":
		return ModeDefault, nil
	case "search":
		return ModeSearch, nil
	default:
		return 0, fmt.Errorf("%w: unknown tokenize mode %q", utils.ErrInvalidArgument, s)
	}
}

// Token is a word with its rune offsets, End exclusive. A byte that is not
// valid UTF-8 counts as one rune.
type Token struct {
	Word  string `json:"word"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag,omitempty"`
}

// Tag is a word with its part-of-speech tag.
type Tag struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

// Segmenter segments text against a shared dictionary. It is safe for
// concurrent use: every call reads one consistent dictionary snapshot.
type Segmenter struct {
	dict     *dictionary.Dictionary
	model    *hmm.Model
	posModel *hmm.POSModel
}

func New(dict *dictionary.Dictionary, model *hmm.Model, posModel *hmm.POSModel) *Segmenter {
	return &Segmenter{dict: dict, model: model, posModel: posModel}
}

// NewDefault builds a segmenter over the packaged dictionary and models.
func NewDefault() (*Segmenter, error) {
	dict, err := dictionary.NewDefault()
	if err != nil {
		return nil, err
	}
	model, err := hmm.DefaultModel()
	if err != nil {
		return nil, err
	}
	posModel, err := hmm.DefaultPOSModel()
	if err != nil {
		return nil, err
	}
	return New(dict, model, posModel), nil
}

func (s *Segmenter) Dictionary() *dictionary.Dictionary {
	return s.dict
}

// LoadDictionary merges `word freq [tag]` lines into the dictionary. A
// malformed line aborts the whole load.
func (s *Segmenter) LoadDictionary(r io.Reader) error {
	return s.dict.Load(r)
}

// AddWord inserts or updates word. A negative freq asks for the suggested
// frequency; an empty tag keeps the stored one. It returns the stored
// frequency.
func (s *Segmenter) AddWord(word string, freq int64, tag string) (uint64, error) {
	if err := checkWord(word); err != nil {
		return 0, err
	}
	var stored uint64
	err := s.dict.Update(func(m dictionary.Mutator) error {
		f := uint64(freq)
		if freq < 0 {
			f = segment.SuggestFreq(m, word)
		}
		stored = m.Set(word, f, tag)
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.WithField("word", word).WithField("freq", stored).Debug("Added word")
	return stored, nil
}

func checkWord(word string) error {
	switch {
	case word == "":
		return fmt.Errorf("%w: empty word", utils.ErrInvalidArgument)
	case strings.ContainsRune(word, 0):
		return fmt.Errorf("%w: word %q contains NUL", utils.ErrInvalidArgument, word)
	}
	return nil
}

// SuggestFreq returns the frequency word needs to be kept as one token.
func (s *Segmenter) SuggestFreq(word string) (uint64, error) {
	if err := checkWord(word); err != nil {
		return 0, err
	}
	var freq uint64
	err := s.dict.Read(func(v dictionary.View) error {
		freq = segment.SuggestFreq(v, word)
		return nil
	})
	return freq, err
}

// ResetDictionary restores the packaged dictionary.
func (s *Segmenter) ResetDictionary() error {
	return s.dict.Reset()
}

// Cut returns the accurate segmentation of text. With useHMM, runs of
// characters the dictionary cannot combine are re-segmented by the HMM.
func (s *Segmenter) Cut(text string, useHMM bool) ([]string, error) {
	var words []string
	err := s.dict.Read(func(v dictionary.View) error {
		words = s.cut(v, text, useHMM)
		return nil
	})
	return words, err
}

func (s *Segmenter) cut(v dictionary.View, text string, useHMM bool) []string {
	words := make([]string, 0, utf8.RuneCountInString(text)/2+1)
	emit := func(w string) { words = append(words, w) }
	for _, piece := range utils.SplitMatches(reHanDefault, text) {
		if piece.Matched {
			if useHMM {
				s.cutBlockHMM(v, piece.Text, emit)
			} else {
				cutBlock(v, piece.Text, emit)
			}
			continue
		}
		splitOther(piece.Text, false, emit)
	}
	return words
}

// splitOther emits whitespace pieces whole and other characters one at a
// time, or every piece whole when whole is set.
func splitOther(text string, whole bool, emit func(string)) {
	for _, p := range utils.SplitMatches(reSkip, text) {
		if p.Matched || whole {
			emit(p.Text)
			continue
		}
		eachChar(p.Text, emit)
	}
}

// eachChar calls fn with every character of text as a substring. A byte
// that is not valid UTF-8 is passed through alone, unchanged.
func eachChar(text string, fn func(string)) {
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		fn(text[i : i+size])
		i += size
	}
}

func isASCIIAlnum(r rune) bool {
	return r < utf8.RuneSelf && ('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
}

func cutBlock(v dictionary.View, block string, emit func(string)) {
	runes := []rune(block)
	start := -1
	for _, sp := range segment.Best(v, runes) {
		if sp.Len() == 1 && isASCIIAlnum(runes[sp.Start]) {
			if start < 0 {
				start = sp.Start
			}
			continue
		}
		if start >= 0 {
			emit(string(runes[start:sp.Start]))
			start = -1
		}
		emit(string(runes[sp.Start:sp.End]))
	}
	if start >= 0 {
		emit(string(runes[start:]))
	}
}

func (s *Segmenter) cutBlockHMM(v dictionary.View, block string, emit func(string)) {
	runes := []rune(block)
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		run := runes[start:end]
		start = -1
		switch {
		case len(run) == 1:
			emit(string(run))
		case isWord(v, string(run)):
			for _, r := range run {
				emit(string(r))
			}
		default:
			for _, w := range s.model.Cut(string(run)) {
				emit(w)
			}
		}
	}
	for _, sp := range segment.Best(v, runes) {
		if sp.Len() == 1 {
			if start < 0 {
				start = sp.Start
			}
			continue
		}
		flush(sp.Start)
		emit(string(runes[sp.Start:sp.End]))
	}
	flush(len(runes))
}

func isWord(v dictionary.View, word string) bool {
	freq, ok := v.Freq(word)
	return ok && freq > 0
}

// CutAll returns every dictionary word found in text, overlapping, ordered
// by start then end. Single characters are kept when they are words
// themselves or are not covered by any longer word.
func (s *Segmenter) CutAll(text string) ([]string, error) {
	var words []string
	err := s.dict.Read(func(v dictionary.View) error {
		words = make([]string, 0, utf8.RuneCountInString(text))
		emit := func(w string) { words = append(words, w) }
		for _, piece := range utils.SplitMatches(reHanDefault, text) {
			if piece.Matched {
				cutAllBlock(v, piece.Text, emit)
				continue
			}
			splitOther(piece.Text, true, emit)
		}
		return nil
	})
	return words, err
}

func cutAllBlock(v dictionary.View, block string, emit func(string)) {
	runes := []rune(block)
	dag := segment.BuildDAG(v, runes)
	covered := 0
	eng := -1
	for i, ends := range dag {
		longer := ends[1:]
		if len(longer) == 0 && i >= covered && isASCIIAlnum(runes[i]) {
			if eng < 0 {
				eng = i
			}
			covered = i + 1
			continue
		}
		if eng >= 0 {
			emit(string(runes[eng:i]))
			eng = -1
		}
		if isWord(v, string(runes[i])) || (len(longer) == 0 && i >= covered) {
			emit(string(runes[i]))
			covered = max(covered, i+1)
		}
		for _, end := range longer {
			emit(string(runes[i:end]))
			covered = max(covered, end)
		}
	}
	if eng >= 0 {
		emit(string(runes[eng:]))
	}
}

// Tokenize returns the words of Cut with rune offsets. ModeSearch adds every
// shorter dictionary word of at least two runes found inside tokens longer
// than two runes; the result is then ordered by start and end.
func (s *Segmenter) Tokenize(text string, mode Mode, useHMM bool) ([]Token, error) {
	if mode != ModeDefault && mode != ModeSearch {
		return nil, fmt.Errorf("%w: unknown tokenize mode %v", utils.ErrInvalidArgument, mode)
	}
	var tokens []Token
	err := s.dict.Read(func(v dictionary.View) error {
		words := s.cut(v, text, useHMM)
		tokens = make([]Token, 0, len(words))
		start := 0
		for _, w := range words {
			n := utf8.RuneCountInString(w)
			if mode == ModeSearch && n > 2 {
				tokens = appendSubWords(v, tokens, []rune(w), start)
			}
			tokens = append(tokens, Token{Word: w, Start: start, End: start + n})
			start += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if mode == ModeSearch {
		slices.SortStableFunc(tokens, func(a, b Token) int {
			return lo.CoalesceOrEmpty(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
		})
	}
	return tokens, nil
}

func appendSubWords(v dictionary.View, tokens []Token, runes []rune, offset int) []Token {
	n := len(runes)
	for size := 2; size < n; size++ {
		for i := 0; i+size <= n; i++ {
			sub := string(runes[i : i+size])
			if isWord(v, sub) {
				tokens = append(tokens, Token{Word: sub, Start: offset + i, End: offset + i + size})
			}
		}
	}
	return tokens
}

// CutForSearch returns the words of Tokenize in ModeSearch.
func (s *Segmenter) CutForSearch(text string, useHMM bool) ([]string, error) {
	tokens, err := s.Tokenize(text, ModeSearch, useHMM)
	if err != nil {
		return nil, err
	}
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Word
	}
	return words, nil
}
