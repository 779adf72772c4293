package dictionary

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const maxLineBytes = 1 << 20

// Parse reads `word frequency [tag]` lines. Blank lines and lines starting
// with '#' are skipped. The first malformed line aborts parsing.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	entries := make([]Entry, 0, 1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, &LoadError{Line: lineNo, Text: line, Reason: "expected `word frequency [tag]`"}
		}
		if strings.ContainsRune(fields[0], 0) {
			return nil, &LoadError{Line: lineNo, Text: line, Reason: "word contains NUL"}
		}
		freq, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, &LoadError{Line: lineNo, Text: line, Reason: "invalid frequency", Err: err}
		}
		entry := Entry{Word: fields[0], Freq: freq}
		if len(fields) == 3 {
			entry.Tag = fields[2]
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Line: lineNo + 1, Reason: "read failed", Err: err}
	}
	return entries, nil
}

// Load merges the entries read from r into the dictionary. The input is
// fully parsed before the dictionary is locked: a malformed line returns a
// *LoadError and leaves the dictionary untouched. Existing words take the
// new frequency, and the new tag when one is given.
func (d *Dictionary) Load(r io.Reader) error {
	entries, err := Parse(r)
	if err != nil {
		return err
	}
	err = d.Update(func(m Mutator) error {
		for _, e := range entries {
			m.Set(e.Word, e.Freq, e.Tag)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.WithField("entries", len(entries)).Debug("Merged dictionary entries")
	return nil
}
