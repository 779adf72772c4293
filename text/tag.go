package text

import (
	"unicode/utf8"

	"github.com/tsingjyujing/fenci/dictionary"
	"github.com/tsingjyujing/fenci/hmm"
	"github.com/tsingjyujing/fenci/segment"
	"github.com/tsingjyujing/fenci/utils"
)

// Tag segments text exactly like Cut and attaches a part-of-speech tag to
// every word. Dictionary words carry their stored tag; with useHMM, words
// the segmentation model produced are tagged by the POS model.
func (s *Segmenter) Tag(text string, useHMM bool) ([]Tag, error) {
	var tags []Tag
	err := s.dict.Read(func(v dictionary.View) error {
		tags = s.tag(v, text, useHMM)
		return nil
	})
	return tags, err
}

// TagTokens is Tag with rune offsets.
func (s *Segmenter) TagTokens(text string, useHMM bool) ([]Token, error) {
	tags, err := s.Tag(text, useHMM)
	if err != nil {
		return nil, err
	}
	tokens := make([]Token, len(tags))
	start := 0
	for i, t := range tags {
		end := start + utf8.RuneCountInString(t.Word)
		tokens[i] = Token{Word: t.Word, Start: start, End: end, Tag: t.Tag}
		start = end
	}
	return tokens, nil
}

func (s *Segmenter) tag(v dictionary.View, text string, useHMM bool) []Tag {
	tags := make([]Tag, 0, utf8.RuneCountInString(text)/2+1)
	emit := func(word, tag string) { tags = append(tags, Tag{Word: word, Tag: tag}) }
	for _, piece := range utils.SplitMatches(reHanDefault, text) {
		if piece.Matched {
			if useHMM {
				s.tagBlockHMM(v, piece.Text, emit)
			} else {
				tagBlock(v, piece.Text, emit)
			}
			continue
		}
		for _, p := range utils.SplitMatches(reSkip, piece.Text) {
			if p.Matched {
				emit(p.Text, "x")
				continue
			}
			eachChar(p.Text, func(ch string) {
				emit(ch, hmm.ClassifyTag(ch))
			})
		}
	}
	return tags
}

func wordTag(v dictionary.View, word string) string {
	if e, ok := v.Lookup(word); ok && e.Tag != "" {
		return e.Tag
	}
	return hmm.ClassifyTag(word)
}

func tagBlock(v dictionary.View, block string, emit func(word, tag string)) {
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
			w := string(runes[start:sp.Start])
			emit(w, hmm.ClassifyTag(w))
			start = -1
		}
		w := string(runes[sp.Start:sp.End])
		emit(w, wordTag(v, w))
	}
	if start >= 0 {
		w := string(runes[start:])
		emit(w, hmm.ClassifyTag(w))
	}
}

func (s *Segmenter) tagBlockHMM(v dictionary.View, block string, emit func(word, tag string)) {
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
			emit(string(run), wordTag(v, string(run)))
		case isWord(v, string(run)):
			for _, r := range run {
				emit(string(r), wordTag(v, string(r)))
			}
		default:
			for _, tw := range s.posModel.TagWords(s.model.Cut(string(run))) {
				if e, ok := v.Lookup(tw.Word); ok && e.Tag != "" {
					tw.Tag = e.Tag
				}
				emit(tw.Word, tw.Tag)
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
		w := string(runes[sp.Start:sp.End])
		emit(w, wordTag(v, w))
	}
	flush(len(runes))
}
