package keywords

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-ego/gse"
	"github.com/samber/lo"

	"github.com/tsingjyujing/fenci/data"
)

// StopWords is a case-insensitive word set.
type StopWords struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

func NewStopWords(words ...string) *StopWords {
	s := &StopWords{}
	s.Set(words)
	return s
}

var defaultStopWords = sync.OnceValues(func() ([]string, error) {
	words, err := readWords(bytes.NewReader(data.StopWords))
	if err != nil {
		return nil, err
	}
	var seg gse.Segmenter
	if err := seg.LoadStopEmbed(); err != nil {
		return nil, fmt.Errorf("load gse stop words: %w", err)
	}
	for w, ok := range seg.StopWordMap {
		if ok {
			words = append(words, w)
		}
	}
	logger.WithField("words", len(words)).Debug("Loaded default stop words")
	return words, nil
})

// DefaultStopWords returns a new set holding the packaged English list and
// the stop words embedded in gse.
func DefaultStopWords() (*StopWords, error) {
	words, err := defaultStopWords()
	if err != nil {
		return nil, err
	}
	return NewStopWords(words...), nil
}

func readWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var words []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

func fold(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Add reports whether word was not already present.
func (s *StopWords) Add(word string) bool {
	w := fold(word)
	if w == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.words[w]; ok {
		return false
	}
	s.words[w] = struct{}{}
	return true
}

// Remove reports whether word was present.
func (s *StopWords) Remove(word string) bool {
	w := fold(word)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.words[w]; !ok {
		return false
	}
	delete(s.words, w)
	return true
}

// Set replaces the whole set.
func (s *StopWords) Set(words []string) {
	folded := lo.Uniq(lo.Filter(lo.Map(words, func(w string, _ int) string { return fold(w) }),
		func(w string, _ int) bool { return w != "" }))
	set := lo.SliceToMap(folded, func(w string) (string, struct{}) { return w, struct{}{} })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = set
}

// Load adds one word per line from r. Blank lines and '#' comments are
// skipped.
func (s *StopWords) Load(r io.Reader) error {
	words, err := readWords(r)
	if err != nil {
		return err
	}
	for _, w := range words {
		s.Add(w)
	}
	return nil
}

func (s *StopWords) Contains(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.words[fold(word)]
	return ok
}

func (s *StopWords) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}
