package climate

import "testing"

func TestParsePeriod(t *testing.T) {
	tests := map[string]string{
		"24h":     "24h",
		"1d":      "24h",
		"1 day":   "24h",
		"8hours":  "8h",
		"1w":      "7d",
		"7d":      "7d",
		"4w2d":    "30d",
		" 30D ":   "30d",
		"6d24h":   "7d",
		"1 week ": "7d",
	}
	for in, want := range tests {
		got, err := ParsePeriod(in)
		if err != nil {
			t.Errorf("ParsePeriod(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePeriod(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePeriodRejects(t *testing.T) {
	for _, in := range []string{"", "noop", "3d", "90m", "1y"} {
		if _, err := ParsePeriod(in); err == nil {
			t.Errorf("ParsePeriod(%q): expected an error", in)
		}
	}
}
