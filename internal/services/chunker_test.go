package services

import (
	"strings"
	"testing"
)

func TestChunkKeepsShortTextWhole(t *testing.T) {
	chunks := NewTextChunker(100, 10).Chunk("First paragraph.\n\n\n\nSecond paragraph.")

	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "First paragraph.\n\nSecond paragraph." {
		t.Fatalf("unexpected chunk: %q", chunks[0])
	}
}

func TestChunkSplitsAtParagraphsWithOverlap(t *testing.T) {
	text := strings.Repeat("a", 30) + "\n\n" + strings.Repeat("b", 30)
	chunks := NewTextChunker(40, 5).Chunk(text)

	if len(chunks) != 2 {
		t.Fatalf("expected two chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[1], "aaaaa\n\n") {
		t.Fatalf("expected overlap from previous chunk, got %q", chunks[1])
	}
}

func TestChunkSplitsLongParagraphBySentence(t *testing.T) {
	text := "One two three. Four five six! Seven eight nine? Ten."
	chunks := NewTextChunker(20, 0).Chunk(text)

	want := []string{"One two three.", "Four five six!", "Seven eight nine?", "Ten."}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d: got %q want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunkNeverExceedsSize(t *testing.T) {
	text := strings.Repeat("a", 900) + "\n\n" + strings.Repeat("b", 850) + "\n\n" + strings.Repeat("c", 850)
	chunks := NewTextChunker(1000, 200).Chunk(text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := runeLen(chunk); n > 1000 {
			t.Fatalf("chunk %d has %d runes", i, n)
		}
	}
	if !strings.HasSuffix(chunks[1], strings.Repeat("b", 850)) || !strings.HasPrefix(chunks[1], "a") {
		t.Fatalf("second chunk should carry a shortened tail of the first: %q...", chunks[1][:10])
	}
	if !strings.HasSuffix(chunks[2], strings.Repeat("c", 850)) {
		t.Fatalf("third chunk lost its paragraph")
	}
}

func TestChunkDoesNotEmitOverlapOnlyChunks(t *testing.T) {
	text := strings.Repeat("x", 95) + "\n\n" + strings.Repeat("y", 95) + "\n\n" + strings.Repeat("z", 95)
	chunks := NewTextChunker(100, 50).Chunk(text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	for i, chunk := range chunks {
		if runeLen(chunk) > 100 {
			t.Fatalf("chunk %d has %d runes", i, runeLen(chunk))
		}
	}
}

func TestChunkCutsOversizedSentence(t *testing.T) {
	chunks := NewTextChunker(10, 0).Chunk(strings.Repeat("é", 25))

	want := []int{10, 10, 5}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i, n := range want {
		if runeLen(chunks[i]) != n {
			t.Fatalf("chunk %d: got %d runes want %d", i, runeLen(chunks[i]), n)
		}
	}
}

func TestChunkEmptyText(t *testing.T) {
	if chunks := NewTextChunker(0, 0).Chunk(" \n\n "); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %q", chunks)
	}
}

func TestNewTextChunkerNormalisesOverlap(t *testing.T) {
	c := NewTextChunker(100, 100)
	if c.overlap != 25 {
		t.Fatalf("expected overlap clamped to a quarter, got %d", c.overlap)
	}
}
