package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the caller does not ask for one.
	DefaultLimit = 25
	// MaxLimit is the hard ceiling for a single page.
	MaxLimit = 100
)

// Params carries the pagination inputs parsed off a list request.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor pins a position in the created_at/id sort order.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps the requested limit into the allowed range.
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

// LimitWithBuffer adds one row past the page so the repository can tell
// whether a next page exists without a second count query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes a cursor into an opaque base64 token.
func EncodeCursor(cursor Cursor) string {
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor turns a token back into a cursor. An empty token means the
// first page and yields a nil cursor with no error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	createdAt, rawID, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: t, ID: id}, nil
}
