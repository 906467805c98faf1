package garden

import (
	"fmt"
	"math"
	"time"
)

// Task is a recurring chore with a fixed frequency.
type Task struct {
	ID                 ID       `json:"id"`
	Name               string   `json:"name"`
	FrequencyDays      int      `json:"frequency_days"`
	LastCompleted      Date     `json:"last_completed_date"`
	DaysSinceCompleted *int     `json:"days_since_completed,omitempty"`
	UrgencyPercentage  *float64 `json:"urgency_percentage,omitempty"`
}

// Elapsed returns days since the last completion and whether it is known.
func (t Task) Elapsed(now time.Time) (int, bool) {
	switch {
	case !t.LastCompleted.IsZero():
		return DaysBetween(t.LastCompleted.Time, now), true
	case t.DaysSinceCompleted != nil:
		return *t.DaysSinceCompleted, true
	default:
		return 0, false
	}
}

// Urgency is the remaining-time percentage, 0 meaning overdue. It falls back
// to the server's value only when no completion data is present.
func (t Task) Urgency(now time.Time) float64 {
	if elapsed, ok := t.Elapsed(now); ok {
		return Remaining(elapsed, t.FrequencyDays)
	}
	if t.UrgencyPercentage != nil {
		return math.Max(0, math.Min(100, *t.UrgencyPercentage))
	}
	return 0
}

func (t Task) Tier(now time.Time) Tier {
	return TierFor(t.Urgency(now))
}

// FrequencyText describes how often the task recurs.
func (t Task) FrequencyText() string {
	if t.FrequencyDays == 1 {
		return "Every day"
	}
	return fmt.Sprintf("Every %d days", t.FrequencyDays)
}
