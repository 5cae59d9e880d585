package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOffset parses a textual clip boundary into whole seconds. Accepted
// forms: "90s", "1:30" (min:sec), "1:15:30" (hr:min:sec).
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("validate: empty time offset")
	}

	if strings.HasSuffix(s, "s") && !strings.Contains(s, ":") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "s"))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("validate: invalid time offset %q", s)
		}
		return n, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("validate: invalid time offset %q", s)
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("validate: invalid time offset %q", s)
		}
		total = total*60 + n
	}
	return total, nil
}

// ParseClip parses and validates a start/end offset pair. The end must be
// strictly after the start.
func ParseClip(start, end string) (int, int, error) {
	startSec, err := ParseOffset(start)
	if err != nil {
		return 0, 0, err
	}
	endSec, err := ParseOffset(end)
	if err != nil {
		return 0, 0, err
	}
	if endSec <= startSec {
		return 0, 0, fmt.Errorf("validate: clip end %q must be after start %q", end, start)
	}
	return startSec, endSec, nil
}
