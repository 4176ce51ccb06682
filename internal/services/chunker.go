package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// TextChunker splits reference documents into pieces small enough to embed.
// Sizes are counted in runes.
type TextChunker struct {
	size    int
	overlap int
}

func NewTextChunker(size, overlap int) *TextChunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}

	return &TextChunker{size: size, overlap: overlap}
}

// Chunk packs paragraphs into chunks of at most size runes, carrying up to
// overlap runes from the end of each finished chunk into the next one. The
// carried tail is shortened when the next piece would not fit beside it.
// Paragraphs longer than a chunk are packed sentence by sentence, and
// sentences longer than a chunk are cut at size runes.
func (c *TextChunker) Chunk(text string) []string {
	var chunks []string
	var current strings.Builder
	// carried is set while current holds only the tail of the previous chunk.
	carried := false

	flush := func() {
		finished := current.String()
		chunks = append(chunks, finished)

		current.Reset()
		current.WriteString(lastRunes(finished, c.overlap))
		carried = current.Len() > 0
	}

	add := func(piece, sep string) {
		fits := func() bool {
			return current.Len() == 0 || runeLen(current.String())+runeLen(sep)+runeLen(piece) <= c.size
		}

		if !fits() && !carried {
			flush()
		}
		if !fits() {
			tail := lastRunes(current.String(), c.size-runeLen(sep)-runeLen(piece))
			current.Reset()
			current.WriteString(tail)
		}

		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
		carried = false
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if runeLen(para) <= c.size {
			add(para, "\n\n")
			continue
		}

		for _, sentence := range splitSentences(para) {
			for _, piece := range splitRunes(sentence, c.size) {
				add(piece, " ")
			}
		}
	}

	if current.Len() > 0 && !carried {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSentences breaks text after '.', '!' and '?', keeping the punctuation.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}

// splitRunes cuts s into pieces of at most n runes.
func splitRunes(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}

	var pieces []string
	for len(runes) > n {
		pieces = append(pieces, string(runes[:n]))
		runes = runes[n:]
	}
	return append(pieces, string(runes))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
