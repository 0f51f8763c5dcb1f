package pagination

import (
	"testing"
	"time"
)

func TestCursorRoundtrip(t *testing.T) {
	t.Parallel()

	original := Cursor{CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC), ID: 42}

	parsed, err := ParseCursor(EncodeCursor(original))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.CreatedAt.Equal(original.CreatedAt) || parsed.ID != original.ID {
		t.Fatalf("roundtrip mismatch: %+v", parsed)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	t.Parallel()

	parsed, err := ParseCursor("  ")
	if err != nil || parsed != nil {
		t.Fatalf("expected nil cursor, got %+v err=%v", parsed, err)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := ParseCursor("not base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Fatal("expected format error")
	}
}

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected max, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
}
