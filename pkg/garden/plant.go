package garden

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Plant is one plant as listed by the backend. Only the raw fields are kept;
// everything time dependent is derived on demand so a cached value can never
// go stale.
type Plant struct {
	ID                ID     `json:"id"`
	Name              string `json:"name"`
	TypeID            ID     `json:"type_id,omitempty"`
	TypeName          string `json:"type_name,omitempty"`
	LastWatered       Date   `json:"last_watered_date"`
	DaysSinceWatered  *int   `json:"days_since_watered,omitempty"`
	WateringFrequency int    `json:"watering_frequency,omitempty"`
	DaysUntilWatering *int   `json:"days_until_watering,omitempty"`
}

// Interval is the effective watering interval in days, 0 when neither the
// backend nor the plant's type supplied one. See ResolveIntervals.
func (p Plant) Interval() int {
	return p.WateringFrequency
}

// WithTypeInterval fills a missing interval from the plant's type for the
// season of now. Plants that already carry an interval are returned as is.
func (p Plant) WithTypeInterval(types []PlantType, now time.Time) Plant {
	if p.WateringFrequency > 0 {
		return p
	}
	if t, ok := typeFor(p, types); ok {
		p.WateringFrequency = t.Interval(now)
	}
	return p
}

// ResolveIntervals returns a copy of plants with missing intervals taken from
// their types.
func ResolveIntervals(plants []Plant, types []PlantType, now time.Time) []Plant {
	out := make([]Plant, len(plants))
	for i, p := range plants {
		out[i] = p.WithTypeInterval(types, now)
	}
	return out
}

// typeFor matches by type id first, then by name. Legacy backends put the
// type name where the id belongs.
func typeFor(p Plant, types []PlantType) (PlantType, bool) {
	if p.TypeID != "" {
		for _, t := range types {
			if t.ID == p.TypeID {
				return t, true
			}
		}
	}
	for _, name := range []string{p.TypeName, p.TypeID.String()} {
		if name == "" {
			continue
		}
		for _, t := range types {
			if strings.EqualFold(t.Name, name) {
				return t, true
			}
		}
	}
	return PlantType{}, false
}

// Elapsed is the number of days since the last watering. The last-watered date
// wins over server hints whenever it is present.
func (p Plant) Elapsed(now time.Time) int {
	switch {
	case !p.LastWatered.IsZero():
		return DaysBetween(p.LastWatered.Time, now)
	case p.DaysSinceWatered != nil:
		return *p.DaysSinceWatered
	case p.DaysUntilWatering != nil:
		return p.Interval() - *p.DaysUntilWatering
	default:
		return 0
	}
}

// DaysUntil is the number of days left before the plant needs water.
func (p Plant) DaysUntil(now time.Time) int {
	return p.Interval() - p.Elapsed(now)
}

// IsDue reports whether the plant needs water today or is late.
func (p Plant) IsDue(now time.Time) bool {
	return p.DaysUntil(now) <= 0
}

// Remaining is the fraction of the interval left, in percent. Without a known
// interval it only tells due (0) from not due (100), so the tier never
// contradicts IsDue.
func (p Plant) Remaining(now time.Time) float64 {
	if p.Interval() <= 0 {
		if p.IsDue(now) {
			return 0
		}
		return 100
	}
	return Remaining(p.Elapsed(now), p.Interval())
}

func (p Plant) Tier(now time.Time) Tier {
	return TierFor(p.Remaining(now))
}

// Status is the human readable next-watering text.
func (p Plant) Status(now time.Time) string {
	until := p.DaysUntil(now)
	switch {
	case until < 0:
		return "Overdue by " + DayCount(-until)
	case until == 0:
		return "Water today"
	case until == 1:
		return "Tomorrow"
	default:
		return "In " + DayCount(until)
	}
}

// Label returns the type name, falling back to the type id.
func (p Plant) Label() string {
	if p.TypeName != "" {
		return p.TypeName
	}
	return p.TypeID.String()
}

// Filter returns a new slice holding the plants whose name or type contains
// query, ignoring case. The input slice is never modified or shared.
func Filter(plants []Plant, query string) []Plant {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]Plant(nil), plants...)
	}
	out := make([]Plant, 0, len(plants))
	for _, p := range plants {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Label()), q) {
			out = append(out, p)
		}
	}
	return out
}

// PlantType is a watering rule: how many weeks between waterings per season.
type PlantType struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	SummerWeeks int    `json:"summer_weeks,omitempty"`
	WinterWeeks int    `json:"winter_weeks,omitempty"`
}

// UnmarshalJSON also accepts the bare type name older backends list.
func (t *PlantType) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*t = PlantType{ID: ID(name), Name: name}
		return nil
	}
	type plain PlantType
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("garden: invalid plant type: %w", err)
	}
	*t = PlantType(p)
	return nil
}

// SortTypes returns a copy of types ordered by name, ignoring case.
func SortTypes(types []PlantType) []PlantType {
	out := append([]PlantType(nil), types...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Weeks returns the rule for season s.
func (t PlantType) Weeks(s Season) int {
	if s == Winter {
		return t.WinterWeeks
	}
	return t.SummerWeeks
}

// Interval is the effective interval in days on the given date.
func (t PlantType) Interval(now time.Time) int {
	return t.Weeks(SeasonFor(now.Month())) * 7
}

// Rule is one entry of the backend rule table.
type Rule struct {
	SummerWeeks int
	WinterWeeks int
}

// UnmarshalJSON decodes the [summer, winter] pair form.
func (r *Rule) UnmarshalJSON(b []byte) error {
	var pair []int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("garden: invalid rule %s: %w", b, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("garden: rule wants 2 values, got %d", len(pair))
	}
	r.SummerWeeks, r.WinterWeeks = pair[0], pair[1]
	return nil
}

func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal([]int{r.SummerWeeks, r.WinterWeeks})
}

// Rules maps normalized type names to their rule.
type Rules map[string]Rule

// RuleKey normalizes a type name into its rule table key.
func RuleKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Lookup finds the rule for a user typed name.
func (r Rules) Lookup(name string) (Rule, bool) {
	key := RuleKey(name)
	if key == "" {
		return Rule{}, false
	}
	rule, ok := r[key]
	return rule, ok
}
