// Package dictionary holds the word/frequency/tag table shared by every
// segmentation call.
//
// A Dictionary is guarded by a reader-writer lock: Read runs a callback
// against a consistent snapshot, Update runs a callback with exclusive
// access. A panic inside Update poisons the dictionary; from then on Read
// and Update return a *LockError until Reset installs a fresh state.
package dictionary

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/tsingjyujing/fenci/data"
	"github.com/tsingjyujing/fenci/utils"
	"github.com/vcaesar/cedar"
)

var logger = utils.Logger

// Entry is one dictionary word.
type Entry struct {
	Word string `json:"word"`
	Freq uint64 `json:"freq"`
	Tag  string `json:"tag,omitempty"`
}

var defaultEntries = sync.OnceValues(func() ([]Entry, error) {
	return Parse(bytes.NewReader(data.Dictionary))
})

// DefaultEntries returns the parsed packaged dictionary.
func DefaultEntries() ([]Entry, error) {
	entries, err := defaultEntries()
	if err != nil {
		return nil, fmt.Errorf("packaged dictionary: %w", err)
	}
	return entries, nil
}

type Dictionary struct {
	mu     sync.RWMutex
	poison atomic.Pointer[LockError]
	state  *state
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{state: newState(nil)}
}

// NewDefault returns a dictionary holding the packaged default entries.
func NewDefault() (*Dictionary, error) {
	entries, err := DefaultEntries()
	if err != nil {
		return nil, err
	}
	return &Dictionary{state: newState(entries)}, nil
}

// Reset discards every entry and reloads the packaged default dictionary.
// It also clears a poisoned lock.
func (d *Dictionary) Reset() error {
	entries, err := DefaultEntries()
	if err != nil {
		return err
	}
	s := newState(entries)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
	d.poison.Store(nil)
	logger.WithField("entries", len(entries)).Debug("Dictionary reset to packaged default")
	return nil
}

// Read runs fn with a read-only view. The view must not escape fn.
func (d *Dictionary) Read(fn func(View) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p := d.poison.Load(); p != nil {
		return p
	}
	return fn(View{s: d.state})
}

// Update runs fn with exclusive write access. Mutations made by fn are
// visible to readers only after fn returns.
func (d *Dictionary) Update(fn func(Mutator) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.poison.Load(); p != nil {
		return p
	}
	defer d.poisonOnPanic()
	return fn(Mutator{View{s: d.state}})
}

func (d *Dictionary) poisonOnPanic() {
	if r := recover(); r != nil {
		d.poison.Store(&LockError{Cause: r})
		logger.WithField("panic", r).Error("Dictionary mutation panicked, dictionary is poisoned until reset")
		panic(r)
	}
}

type state struct {
	trie    *cedar.Cedar
	entries []Entry
	total   uint64
	maxLen  int
}

func newState(entries []Entry) *state {
	s := &state{
		trie:    cedar.New(),
		entries: make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		s.set(e.Word, e.Freq, e.Tag)
	}
	return s
}

// index finds word in the trie. Words holding NUL are never stored: the
// trie uses label 0 to mark values.
func (s *state) index(word string) (int, bool) {
	if word == "" || strings.ContainsRune(word, 0) {
		return 0, false
	}
	idx, err := s.trie.Get([]byte(word))
	if err != nil {
		return 0, false
	}
	return idx, true
}

func (s *state) set(word string, freq uint64, tag string) uint64 {
	if idx, ok := s.index(word); ok {
		e := &s.entries[idx]
		s.total = s.total - e.Freq + freq
		e.Freq = freq
		if tag != "" {
			e.Tag = tag
		}
		return freq
	}
	if strings.ContainsRune(word, 0) {
		panic(fmt.Errorf("word %q contains NUL", word))
	}
	if err := s.trie.Insert([]byte(word), len(s.entries)); err != nil {
		panic(fmt.Errorf("insert %q into trie: %w", word, err))
	}
	s.entries = append(s.entries, Entry{Word: word, Freq: freq, Tag: tag})
	s.total += freq
	if n := utf8.RuneCountInString(word); n > s.maxLen {
		s.maxLen = n
	}
	return freq
}

// View is a read-only snapshot handed to Read and Update callbacks.
type View struct {
	s *state
}

// Lookup returns the entry stored for word.
func (v View) Lookup(word string) (Entry, bool) {
	idx, ok := v.s.index(word)
	if !ok {
		return Entry{}, false
	}
	return v.s.entries[idx], true
}

// Freq returns the stored frequency of word.
func (v View) Freq(word string) (uint64, bool) {
	e, ok := v.Lookup(word)
	return e.Freq, ok
}

// Total is the sum of every entry's frequency.
func (v View) Total() uint64 {
	return v.s.total
}

// Len is the number of distinct words.
func (v View) Len() int {
	return len(v.s.entries)
}

// MaxWordLen is the rune length of the longest word.
func (v View) MaxWordLen() int {
	return v.s.maxLen
}

// Prefixes calls fn(end) for every word runes[start:end] with a positive
// frequency, in ascending end order. The walk stops at the first prefix the
// dictionary does not contain or after MaxWordLen runes.
func (v View) Prefixes(runes []rune, start int, fn func(end int)) {
	var buf [utf8.UTFMax]byte
	id := 0
	for j := start; j < len(runes) && j-start < v.s.maxLen && runes[j] != 0; j++ {
		n := utf8.EncodeRune(buf[:], runes[j])
		next, err := v.s.trie.Jump(buf[:n], id)
		if err != nil {
			return
		}
		id = next
		idx, err := v.s.trie.Value(id)
		if err == nil && v.s.entries[idx].Freq > 0 {
			fn(j + 1)
		}
	}
}

// Mutator extends View with write access inside Update.
type Mutator struct {
	View
}

// Set inserts word or updates its frequency, keeping the total consistent.
// An empty tag keeps the stored tag. It returns the stored frequency. Set
// panics on a word containing NUL; callers validate words first.
func (m Mutator) Set(word string, freq uint64, tag string) uint64 {
	return m.s.set(word, freq, tag)
}
