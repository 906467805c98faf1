package climate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	periodPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	periodUnits   = map[string]time.Duration{
		"h":     time.Hour,
		"hr":    time.Hour,
		"hrs":   time.Hour,
		"hour":  time.Hour,
		"hours": time.Hour,
		"d":     24 * time.Hour,
		"day":   24 * time.Hour,
		"days":  24 * time.Hour,
		"w":     7 * 24 * time.Hour,
		"wk":    7 * 24 * time.Hour,
		"wks":   7 * 24 * time.Hour,
		"week":  7 * 24 * time.Hour,
		"weeks": 7 * 24 * time.Hour,
	}
	periodSpans = map[time.Duration]string{
		8 * time.Hour:       "8h",
		24 * time.Hour:      "24h",
		7 * 24 * time.Hour:  "7d",
		30 * 24 * time.Hour: "30d",
	}
)

// ParsePeriod accepts a human-friendly span such as "1d", "1 week" or
// "8hours" and returns the matching entry of Periods. Spans the backend
// cannot chart are rejected.
func ParsePeriod(input string) (string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return "", fmt.Errorf("period is empty")
	}
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := periodPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return "", fmt.Errorf("invalid period segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid period value %q: %w", matches[1], err)
		}
		unit, ok := periodUnits[matches[2]]
		if !ok {
			return "", fmt.Errorf("unsupported period unit %q", matches[2])
		}
		total += time.Duration(value) * unit
		remaining = remaining[len(matches[0]):]
	}

	period, ok := periodSpans[total]
	if !ok {
		return "", fmt.Errorf("period %q is not one of %s", input, strings.Join(Periods, ", "))
	}
	return period, nil
}
