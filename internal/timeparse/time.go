package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTime parses the timestamp forms the time criteria flags accept:
//   - unix seconds: "1714567890" (may be negative)
//   - YYYY-MM-DD (assumes 00:00:00 UTC)
//   - YYYY-MM-DD HH:MM:SS (UTC)
//   - RFC3339: 2018-10-27T10:00:00Z (can specify any timezone)
//
// Returns the parsed time or an error if no form matches.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	// Raw unix seconds, the exact value criteria compare against.
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}

	for _, layout := range []string{time.DateOnly, time.DateTime, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time %q (expected unix seconds, YYYY-MM-DD, YYYY-MM-DD HH:MM:SS, or RFC3339)", s)
}
