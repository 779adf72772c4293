package hmm

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/tsingjyujing/fenci/data"
)

var (
	reHanWord = regexp.MustCompile(`^(?:` + reHan.String() + `)$`)
	reNumber  = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?$`)
	reASCII   = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// ClassifyTag is the tag given to a word with no dictionary or model tag:
// "m" for numbers, "eng" for ASCII alphanumerics and "x" otherwise.
func ClassifyTag(word string) string {
	switch {
	case reNumber.MatchString(word):
		return "m"
	case reASCII.MatchString(word):
		return "eng"
	default:
		return "x"
	}
}

// TaggedWord is a word with its part-of-speech tag.
type TaggedWord struct {
	Word string
	Tag  string
}

type posFile struct {
	MinEmit   float64                       `yaml:"min_emit"`
	MinTrans  float64                       `yaml:"min_trans"`
	Tags      []string                      `yaml:"tags"`
	WordShape map[string]float64            `yaml:"word_shape"`
	Inner     map[string]float64            `yaml:"inner"`
	Start     map[string]float64            `yaml:"start"`
	Trans     map[string]map[string]float64 `yaml:"trans"`
	Emit      map[string]map[string]float64 `yaml:"emit"`
}

// POSModel is the POS-annotated HMM. A state pairs a word position with a
// tag, state = tag*4 + position. The tag may only change across a word
// boundary (E or S followed by B or S).
type POSModel struct {
	tags     []string
	tagStart []float64
	tagTrans [][]float64
	shape    [numPositions]float64
	inner    [numPositions][numPositions]float64
	emitP    []map[rune]float64
	minEmit  float64
}

// LoadPOSModel decodes a YAML POS model.
func LoadPOSModel(r io.Reader) (*POSModel, error) {
	var file posFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode pos model: %w", err)
	}
	if len(file.Tags) == 0 {
		return nil, fmt.Errorf("pos model has no tags")
	}

	tagIndex := make(map[string]int, len(file.Tags))
	for i, tag := range file.Tags {
		if _, dup := tagIndex[tag]; dup {
			return nil, fmt.Errorf("pos model: duplicate tag %q", tag)
		}
		tagIndex[tag] = i
	}
	lookupTag := func(tag string) (int, error) {
		i, ok := tagIndex[tag]
		if !ok {
			return 0, fmt.Errorf("pos model: tag %q is not declared", tag)
		}
		return i, nil
	}

	nt := len(file.Tags)
	m := &POSModel{
		tags:     file.Tags,
		tagStart: make([]float64, nt),
		tagTrans: make([][]float64, nt),
		emitP:    make([]map[rune]float64, nt*numPositions),
		minEmit:  file.MinEmit,
	}
	for i := range m.tagStart {
		m.tagStart[i] = file.MinTrans
		m.tagTrans[i] = make([]float64, nt)
		for j := range m.tagTrans[i] {
			m.tagTrans[i][j] = file.MinTrans
		}
	}
	for i := range m.emitP {
		m.emitP[i] = map[rune]float64{}
	}
	for i := range m.shape {
		m.shape[i] = negInf
		for j := range m.inner[i] {
			m.inner[i][j] = negInf
		}
	}

	for name, p := range file.WordShape {
		pos, err := parsePosition(name)
		if err != nil || (pos != B && pos != S) {
			return nil, fmt.Errorf("pos model: word_shape key %q must be B or S", name)
		}
		m.shape[pos] = p
	}
	for name, p := range file.Inner {
		from, to, ok := parsePair(name)
		if !ok || (from != B && from != M) || (to != M && to != E) {
			return nil, fmt.Errorf("pos model: inner key %q must be one of BM, BE, MM, ME", name)
		}
		m.inner[from][to] = p
	}
	for tag, p := range file.Start {
		i, err := lookupTag(tag)
		if err != nil {
			return nil, err
		}
		m.tagStart[i] = p
	}
	for fromTag, row := range file.Trans {
		from, err := lookupTag(fromTag)
		if err != nil {
			return nil, err
		}
		for toTag, p := range row {
			to, err := lookupTag(toTag)
			if err != nil {
				return nil, err
			}
			m.tagTrans[from][to] = p
		}
	}
	for key, table := range file.Emit {
		posName, tag, found := strings.Cut(key, "-")
		if !found {
			return nil, fmt.Errorf("pos model: emission key %q is not POSITION-TAG", key)
		}
		pos, err := parsePosition(posName)
		if err != nil {
			return nil, fmt.Errorf("pos model: %w", err)
		}
		t, err := lookupTag(tag)
		if err != nil {
			return nil, err
		}
		if err := fillEmissions(m.emitP[t*numPositions+pos], table); err != nil {
			return nil, fmt.Errorf("pos model emit %s: %w", key, err)
		}
	}
	return m, nil
}

func parsePair(name string) (int, int, bool) {
	if len(name) != 2 {
		return 0, 0, false
	}
	from, err := parsePosition(name[:1])
	if err != nil {
		return 0, 0, false
	}
	to, err := parsePosition(name[1:])
	if err != nil {
		return 0, 0, false
	}
	return from, to, true
}

var defaultPOSModel = sync.OnceValues(func() (*POSModel, error) {
	m, err := LoadPOSModel(bytes.NewReader(data.POSModel))
	if err == nil {
		logger.WithField("tags", len(m.tags)).Debug("Loaded packaged POS HMM")
	}
	return m, err
})

// DefaultPOSModel returns the packaged POS model, decoded once.
func DefaultPOSModel() (*POSModel, error) {
	return defaultPOSModel()
}

// Tags lists the tag set in model order.
func (m *POSModel) Tags() []string {
	return append([]string(nil), m.tags...)
}

func (m *POSModel) numStates() int { return len(m.tags) * numPositions }

func (m *POSModel) start(s int) float64 {
	tag, pos := s/numPositions, s%numPositions
	if pos != B && pos != S {
		return negInf
	}
	return m.tagStart[tag] + m.shape[pos]
}

func (m *POSModel) trans(from, to int) float64 {
	fromTag, fromPos := from/numPositions, from%numPositions
	toTag, toPos := to/numPositions, to%numPositions
	switch fromPos {
	case B, M:
		if fromTag != toTag {
			return negInf
		}
		return m.inner[fromPos][toPos]
	default:
		if toPos != B && toPos != S {
			return negInf
		}
		return m.tagTrans[fromTag][toTag] + m.shape[toPos]
	}
}

func (m *POSModel) emitRune(s int, r rune) float64 {
	if p, ok := m.emitP[s][r]; ok {
		return p
	}
	return m.minEmit
}

func (m *POSModel) final(s int) bool {
	pos := s % numPositions
	return pos == E || pos == S
}

// fixedChar is a character whose position inside its word is already known.
type fixedChar struct {
	r   rune
	pos int
}

// boundedPOS decodes only the tags: states whose position disagrees with
// the observed one cannot emit.
type boundedPOS struct {
	*POSModel
}

func (b boundedPOS) emit(s int, c fixedChar) float64 {
	if s%numPositions != c.pos {
		return negInf
	}
	return b.emitRune(s, c.r)
}

// TagWords tags an existing segmentation without changing it. Runs of Han
// words are decoded together with their boundaries held fixed and each word
// takes the tag of the state at its first character. Other words are tagged
// by ClassifyTag.
func (m *POSModel) TagWords(words []string) []TaggedWord {
	tagged := make([]TaggedWord, 0, len(words))
	var han []string
	flush := func() {
		if len(han) > 0 {
			tagged = append(tagged, m.tagHan(han)...)
			han = han[:0]
		}
	}
	for _, w := range words {
		if reHanWord.MatchString(w) {
			han = append(han, w)
			continue
		}
		flush()
		tagged = append(tagged, TaggedWord{Word: w, Tag: ClassifyTag(w)})
	}
	flush()
	return tagged
}

func (m *POSModel) tagHan(words []string) []TaggedWord {
	obs := make([]fixedChar, 0, len(words)*2)
	for _, w := range words {
		runes := []rune(w)
		for i, r := range runes {
			pos := M
			switch {
			case len(runes) == 1:
				pos = S
			case i == 0:
				pos = B
			case i == len(runes)-1:
				pos = E
			}
			obs = append(obs, fixedChar{r: r, pos: pos})
		}
	}

	path, ok := viterbi[fixedChar](boundedPOS{m}, obs)
	tagged := make([]TaggedWord, len(words))
	at := 0
	for i, w := range words {
		tag := "x"
		if ok {
			tag = m.tags[path[at]/numPositions]
		}
		tagged[i] = TaggedWord{Word: w, Tag: tag}
		at += utf8.RuneCountInString(w)
	}
	return tagged
}
