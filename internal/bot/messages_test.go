package bot

import (
	"strings"
	"testing"
)

func TestSplitMessage_Short(t *testing.T) {
	chunks := SplitMessage("short", 10)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestSplitMessage_LineBoundaries(t *testing.T) {
	text := "aaaa\nbbbb\ncccc"
	chunks := SplitMessage(text, 9)

	want := []string{"aaaa\nbbbb", "cccc"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %v, got %v", want, chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplitMessage_LongLine(t *testing.T) {
	text := strings.Repeat("x", 25)
	chunks := SplitMessage(text, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c) > 10 {
			t.Errorf("chunk exceeds limit: %d", len(c))
		}
	}
	if strings.Join(chunks, "") != text {
		t.Errorf("chunks lost content")
	}
}

func TestSplitMessage_RuneBoundary(t *testing.T) {
	text := strings.Repeat("é", 6) // 12 bytes
	for _, c := range SplitMessage(text, 5) {
		if !strings.HasPrefix(c, "é") || len(c)%2 != 0 {
			t.Errorf("chunk split inside a rune: %q", c)
		}
	}
}
