package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTranscriptRendersPDF(t *testing.T) {
	g := NewTranscriptGenerator("")
	out, err := g.Transcript(TranscriptData{
		Title:       "Conversation with bob",
		Participant: "alice",
		GeneratedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Lines: []TranscriptLine{
			{Author: "alice", SentAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), Text: "hello"},
			{Author: "bob", SentAt: time.Date(2024, 5, 1, 9, 1, 0, 0, time.UTC), Text: strings.Repeat("long line ", 80),
				Attachments: []string{"https://files.example.com/a.png"}},
		},
	})
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", out[:8])
	}
}

func TestTranscriptMissingFontFallsBack(t *testing.T) {
	g := NewTranscriptGenerator("/nonexistent/font.ttf")
	out, err := g.Transcript(TranscriptData{Title: "Empty", GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
}
