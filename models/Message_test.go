package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPreviewTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", 500)
	msg := Message{BodyType: MessageTypeText, Text: long}
	if got := msg.Preview(); got != long[:140] {
		t.Fatalf("Preview() = %d bytes, want 140", len(got))
	}
}

func TestPreviewKeepsValidUTF8(t *testing.T) {
	// 3-byte runes put the 140-byte mark inside a rune.
	long := strings.Repeat("你", 60)
	msg := Message{BodyType: MessageTypeText, Text: long}

	got := msg.Preview()
	if !utf8.ValidString(got) {
		t.Fatalf("Preview() produced invalid UTF-8: %q", got)
	}
	if len(got) > 140 {
		t.Fatalf("Preview() = %d bytes, want at most 140", len(got))
	}
	if !strings.HasPrefix(long, got) {
		t.Fatalf("Preview() is not a prefix of the original text: %q", got)
	}
}

func TestPreviewImageBody(t *testing.T) {
	msg := Message{BodyType: MessageTypeImage, MediaURL: "https://cdn.example.com/p.jpg"}
	if got := msg.Preview(); got != "Sent a photo" {
		t.Fatalf("Preview() = %q, want %q", got, "Sent a photo")
	}
}
