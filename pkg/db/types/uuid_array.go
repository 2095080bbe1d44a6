package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// UUIDArray maps a Postgres uuid[] column. Under sqlite (tests) the literal is
// stored as text, which round-trips through the same parser.
type UUIDArray []uuid.UUID

func (a *UUIDArray) Scan(src any) error {
	if src == nil {
		*a = UUIDArray{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return a.parseFromString(v)
	case []byte:
		return a.parseFromString(string(v))
	default:
		return fmt.Errorf("UUIDArray: unsupported Scan type %T", src)
	}
}

func (a UUIDArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(a))
	for _, id := range a {
		parts = append(parts, id.String())
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// GormDBDataType picks uuid[] on Postgres and plain text elsewhere so the
// sqlite test databases migrate cleanly.
func (UUIDArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "uuid[]"
	}
	return "text"
}

// Contains reports whether id is one of the array members.
func (a UUIDArray) Contains(id uuid.UUID) bool {
	for _, member := range a {
		if member == id {
			return true
		}
	}
	return false
}

func (a *UUIDArray) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if strings.TrimSpace(s) == "" {
		*a = UUIDArray{}
		return nil
	}

	raw := strings.Split(s, ",")
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(strings.Trim(r, `"`))
		id, err := uuid.Parse(r)
		if err != nil {
			return fmt.Errorf("UUIDArray: parse %q: %w", r, err)
		}
		out = append(out, id)
	}
	*a = UUIDArray(out)
	return nil
}
