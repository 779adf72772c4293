package keywords

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/tsingjyujing/fenci/data"
	"github.com/tsingjyujing/fenci/dictionary"
)

// IDF is a term to inverse-document-frequency table.
type IDF struct {
	mu     sync.RWMutex
	table  map[string]float64
	median float64
}

// NewIDF returns an empty table; every term weighs 0 until Load.
func NewIDF() *IDF {
	return &IDF{table: map[string]float64{}}
}

var defaultIDFTable = sync.OnceValues(func() (map[string]float64, error) {
	return parseIDF(bytes.NewReader(data.IDF))
})

// DefaultIDF returns a table holding the packaged IDF values.
func DefaultIDF() (*IDF, error) {
	table, err := defaultIDFTable()
	if err != nil {
		return nil, fmt.Errorf("packaged idf table: %w", err)
	}
	idf := NewIDF()
	idf.replace(maps.Clone(table))
	return idf, nil
}

// Load replaces the table with `term weight` lines read from r. A malformed
// line returns a *dictionary.LoadError and keeps the previous table.
func (t *IDF) Load(r io.Reader) error {
	table, err := parseIDF(r)
	if err != nil {
		return err
	}
	t.replace(table)
	logger.WithField("terms", len(table)).Debug("Loaded idf table")
	return nil
}

func (t *IDF) replace(table map[string]float64) {
	values := lo.Values(table)
	slices.Sort(values)
	median := 0.0
	if len(values) > 0 {
		median = values[len(values)/2]
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.table = table
	t.median = median
}

func parseIDF(r io.Reader) (map[string]float64, error) {
	scanner := bufio.NewScanner(r)
	table := make(map[string]float64)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, &dictionary.LoadError{Line: lineNo, Text: line, Reason: "expected `term weight`"}
		}
		w, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &dictionary.LoadError{Line: lineNo, Text: line, Reason: "invalid weight", Err: err}
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &dictionary.LoadError{Line: lineNo, Text: line, Reason: "weight is not finite"}
		}
		table[fields[0]] = w
	}
	if err := scanner.Err(); err != nil {
		return nil, &dictionary.LoadError{Line: lineNo + 1, Reason: "read failed", Err: err}
	}
	return table, nil
}

// Get returns the stored weight of term.
func (t *IDF) Get(term string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w, ok := t.table[term]
	return w, ok
}

// Weight returns the stored weight of term, or the median weight.
func (t *IDF) Weight(term string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if w, ok := t.table[term]; ok {
		return w
	}
	return t.median
}

// Median is sorted[len/2] over all weights, 0 for an empty table.
func (t *IDF) Median() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.median
}

func (t *IDF) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.table)
}
