// Package doc turns PDF and EPUB documents into a flat, paragraph-aware
// stream of display tokens for RSVP (Rapid Serial Visual Presentation)
// playback.
package doc

import (
	"regexp"
	"unicode/utf8"
)

// Kind discriminates the two token variants in a Stream.
type Kind uint8

const (
	// Word is a displayable word token.
	Word Kind = iota
	// ParagraphBreak marks the boundary between two paragraphs that each
	// contributed at least one word.
	ParagraphBreak
)

// Token is one unit of a document's linearized content.
type Token struct {
	Kind Kind
	Text string // set only for Word tokens
}

// Stream is the ordered token sequence for one document. It is built once
// and never mutated afterwards.
type Stream struct {
	Tokens    []Token
	WordCount int // Word tokens only; always <= len(Tokens)
}

// CountWords returns the number of Word tokens in the index range [lo, hi).
// Out-of-range bounds are clamped.
func (s *Stream) CountWords(lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s.Tokens) {
		hi = len(s.Tokens)
	}
	n := 0
	for i := lo; i < hi; i++ {
		if s.Tokens[i].Kind == Word {
			n++
		}
	}
	return n
}

// paragraphSep matches a blank-line boundary: a newline, optional
// whitespace, then at least one more newline.
var paragraphSep = regexp.MustCompile(`\n\s*\n+`)

// wordRun matches a maximal run of word-constituent characters. Punctuation
// and symbols never produce a token.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// TokenizeText converts raw extracted text into a token stream. Paragraphs
// are split on blank lines before any whitespace collapsing, so single
// newlines inside a paragraph behave like spaces. Paragraphs that yield no
// words are dropped and never produce a break on either side.
func TokenizeText(raw string) *Stream {
	s := &Stream{}
	for _, para := range paragraphSep.Split(raw, -1) {
		words := wordRun.FindAllString(para, -1)
		if len(words) == 0 {
			continue
		}
		if len(s.Tokens) > 0 {
			s.Tokens = append(s.Tokens, Token{Kind: ParagraphBreak})
		}
		for _, w := range words {
			s.Tokens = append(s.Tokens, Token{Kind: Word, Text: w})
		}
		s.WordCount += len(words)
	}
	return s
}

// ORPIndex returns the Optimal Recognition Point for a word: the rune
// position where the eye should focus for fastest recognition.
func ORPIndex(word string) int {
	length := utf8.RuneCountInString(word)
	if length <= 1 {
		return 0
	} else if length <= 5 {
		return 1
	}
	return length / 3
}
