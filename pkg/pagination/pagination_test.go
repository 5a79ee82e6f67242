package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Microsecond), ID: uuid.New()}
	parsed, err := ParseCursor(EncodeCursor(cursor))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed == nil || !parsed.CreatedAt.Equal(cursor.CreatedAt) || parsed.ID != cursor.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, cursor)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	parsed, err := ParseCursor("  ")
	if err != nil || parsed != nil {
		t.Fatalf("expected nil cursor, got %+v err %v", parsed, err)
	}
}

func TestParseCursorGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestWindow(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	page, hasMore := Window(rows, 3)
	if len(page) != 3 || !hasMore {
		t.Fatalf("expected trimmed page with more, got %v %v", page, hasMore)
	}
	page, hasMore = Window(rows[:2], 3)
	if len(page) != 2 || hasMore {
		t.Fatalf("expected untouched page, got %v %v", page, hasMore)
	}
}
