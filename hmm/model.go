// Package hmm holds the hidden Markov models used for words the dictionary
// does not know: a four-state (B, M, E, S) segmentation model and a
// POS-annotated variant that tags words the segmentation model produced.
package hmm

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/tsingjyujing/fenci/data"
	"github.com/tsingjyujing/fenci/utils"
)

var logger = utils.Logger

// Word positions.
const (
	B = iota
	M
	E
	S
	numPositions
)

var positionNames = [numPositions]string{"B", "M", "E", "S"}

func parsePosition(name string) (int, error) {
	for i, n := range positionNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

var (
	reHan        = regexp.MustCompile(`[\x{3400}-\x{4DBF}\x{4E00}-\x{9FFF}\x{F900}-\x{FAFF}\x{20000}-\x{2FA1F}]+`)
	reSkipDetail = regexp.MustCompile(`[a-zA-Z0-9]+(?:\.\d+)?%?`)
)

type modelFile struct {
	MinEmit float64                       `yaml:"min_emit"`
	Start   map[string]float64            `yaml:"start"`
	Trans   map[string]map[string]float64 `yaml:"trans"`
	Emit    map[string]map[string]float64 `yaml:"emit"`
}

// Model is the segmentation HMM. It is immutable once loaded.
type Model struct {
	startP  [numPositions]float64
	transP  [numPositions][numPositions]float64
	emitP   [numPositions]map[rune]float64
	minEmit float64
}

// LoadModel decodes a YAML model. Missing start and transition entries are
// impossible; missing emissions score min_emit.
func LoadModel(r io.Reader) (*Model, error) {
	var file modelFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode hmm model: %w", err)
	}

	m := &Model{minEmit: file.MinEmit}
	for i := range m.startP {
		m.startP[i] = negInf
		for j := range m.transP[i] {
			m.transP[i][j] = negInf
		}
		m.emitP[i] = map[rune]float64{}
	}
	for name, p := range file.Start {
		s, err := parsePosition(name)
		if err != nil {
			return nil, fmt.Errorf("hmm start: %w", err)
		}
		m.startP[s] = p
	}
	for fromName, row := range file.Trans {
		from, err := parsePosition(fromName)
		if err != nil {
			return nil, fmt.Errorf("hmm trans: %w", err)
		}
		for toName, p := range row {
			to, err := parsePosition(toName)
			if err != nil {
				return nil, fmt.Errorf("hmm trans: %w", err)
			}
			m.transP[from][to] = p
		}
	}
	for name, table := range file.Emit {
		s, err := parsePosition(name)
		if err != nil {
			return nil, fmt.Errorf("hmm emit: %w", err)
		}
		if err := fillEmissions(m.emitP[s], table); err != nil {
			return nil, fmt.Errorf("hmm emit %s: %w", name, err)
		}
	}
	return m, nil
}

func fillEmissions(dst map[rune]float64, table map[string]float64) error {
	for key, p := range table {
		r, size := utf8.DecodeRuneInString(key)
		if r == utf8.RuneError || size != len(key) {
			return fmt.Errorf("emission key %q is not a single character", key)
		}
		dst[r] = p
	}
	return nil
}

var defaultModel = sync.OnceValues(func() (*Model, error) {
	m, err := LoadModel(bytes.NewReader(data.SegModel))
	if err == nil {
		logger.Debug("Loaded packaged segmentation HMM")
	}
	return m, err
})

// DefaultModel returns the packaged segmentation model, decoded once.
func DefaultModel() (*Model, error) {
	return defaultModel()
}

func (m *Model) numStates() int { return numPositions }

func (m *Model) start(s int) float64 { return m.startP[s] }

func (m *Model) trans(from, to int) float64 { return m.transP[from][to] }

func (m *Model) emit(s int, r rune) float64 {
	if p, ok := m.emitP[s][r]; ok {
		return p
	}
	return m.minEmit
}

func (m *Model) final(s int) bool { return s == E || s == S }

// Cut segments text that the dictionary could not. Han runs are segmented
// by Viterbi decoding; alphanumeric runs such as "3.5%" and everything else
// are kept whole.
func (m *Model) Cut(text string) []string {
	words := make([]string, 0, len(text)/3+1)
	for _, piece := range utils.SplitMatches(reHan, text) {
		if !piece.Matched {
			for _, p := range utils.SplitMatches(reSkipDetail, piece.Text) {
				words = append(words, p.Text)
			}
			continue
		}
		words = append(words, m.cutHan([]rune(piece.Text))...)
	}
	return words
}

func (m *Model) cutHan(runes []rune) []string {
	path, ok := viterbi[rune](m, runes)
	if !ok {
		return splitRunes(runes)
	}
	spans := positionSpans(path)
	words := make([]string, len(spans))
	for i, sp := range spans {
		words[i] = string(runes[sp[0]:sp[1]])
	}
	return words
}

// positionSpans groups a decoded B/M/E/S path into word spans.
func positionSpans(path []int) [][2]int {
	spans := make([][2]int, 0, len(path))
	begin, next := 0, 0
	for i, state := range path {
		switch state {
		case B:
			begin = i
		case E:
			spans = append(spans, [2]int{begin, i + 1})
			next = i + 1
		case S:
			spans = append(spans, [2]int{i, i + 1})
			next = i + 1
		}
	}
	if next < len(path) {
		spans = append(spans, [2]int{next, len(path)})
	}
	return spans
}

func splitRunes(runes []rune) []string {
	words := make([]string, len(runes))
	for i, r := range runes {
		words[i] = string(r)
	}
	return words
}
