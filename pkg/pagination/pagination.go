package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLimit is the page size used when the caller sends none.
	DefaultLimit = 25
	// MaxLimit caps how many rows one page may request.
	MaxLimit = 100
)

// Params carries the limit and opaque cursor a listing endpoint accepts.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the decoded keyset position: the (created_at, id) pair of the
// last row the previous page returned.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// NormalizeLimit clamps a requested limit into [1, MaxLimit], substituting
// the default for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer adds one row to the normalized limit so the query can tell
// whether another page exists without a count.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes a cursor as base64("<rfc3339nano>|<id>").
func EncodeCursor(c Cursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + strconv.FormatInt(c.ID, 10)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseCursor inverts EncodeCursor. An empty or blank value means "first
// page" and yields a nil cursor without error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	sep := strings.IndexByte(string(raw), '|')
	if sep < 0 {
		return nil, fmt.Errorf("invalid cursor format")
	}
	ts, err := time.Parse(time.RFC3339Nano, string(raw[:sep]))
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := strconv.ParseInt(string(raw[sep+1:]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}

	return &Cursor{CreatedAt: ts, ID: id}, nil
}
