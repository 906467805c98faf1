package garden

import (
	"fmt"
	"math"
)

// Tier is the four-step status scale shared by plant and task cards.
type Tier int

const (
	TierSafe Tier = iota
	TierSoon
	TierDue
	TierOverdue
)

func (t Tier) String() string {
	switch t {
	case TierSafe:
		return "safe"
	case TierSoon:
		return "soon"
	case TierDue:
		return "due"
	case TierOverdue:
		return "overdue"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// TierFor maps a remaining percentage onto the status scale.
func TierFor(remaining float64) Tier {
	switch {
	case remaining <= 0:
		return TierOverdue
	case remaining < 40:
		return TierDue
	case remaining < 75:
		return TierSoon
	default:
		return TierSafe
	}
}

// Remaining returns how much of interval is left after elapsed days, as a
// percentage clamped to [0, 100]. A non-positive interval has nothing left.
func Remaining(elapsed, interval int) float64 {
	if interval <= 0 {
		return 0
	}
	p := 100 - float64(elapsed)/float64(interval)*100
	return math.Max(0, math.Min(100, p))
}

// DayCount formats n days the way the cards do.
func DayCount(n int) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d day", n)
	}
	return fmt.Sprintf("%d days", n)
}
