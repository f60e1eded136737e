package types

import (
	"fmt"
	"strings"
	"time"
)

// RFC3339Time unmarshals the timestamp formats the server emits: RFC 3339
// with or without fractional seconds, and the bare ISO form with no zone
// suffix (treated as UTC).
type RFC3339Time struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *RFC3339Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range wireTimeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t RFC3339Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}
