package utils

import "regexp"

// Piece is one part of a string split by a regular expression.
type Piece struct {
	Text    string
	Matched bool
}

// SplitMatches splits s into the substrings matched by re and the
// substrings between them, in order. Empty pieces are dropped, so joining
// the Text of every piece gives back s.
func SplitMatches(re *regexp.Regexp, s string) []Piece {
	pieces := make([]Piece, 0, 4)
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			pieces = append(pieces, Piece{Text: s[last:loc[0]]})
		}
		if loc[1] > loc[0] {
			pieces = append(pieces, Piece{Text: s[loc[0]:loc[1]], Matched: true})
		}
		last = loc[1]
	}
	if last < len(s) {
		pieces = append(pieces, Piece{Text: s[last:]})
	}
	return pieces
}
