package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StringList accepts either a JSON array of strings or one comma separated string.
// Entries are trimmed and blanks dropped. A JSON null leaves the list nil.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw []string
	if len(data) > 0 && data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		raw = strings.Split(joined, ",")
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected a string array or a comma separated string: %w", err)
	}

	out := make(StringList, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// OptionalString trims s and maps a blank value to nil so that stored optional fields can be cleared.
func OptionalString(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// ParseDateTime parses an ISO-8601 date-time as sent by clients. Fractional seconds are accepted.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
