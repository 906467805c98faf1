// Package garden models the plants, watering rules and recurring tasks served
// by the backend, plus the status arithmetic derived from them.
package garden

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is an opaque backend identifier. Depending on the backend version it is
// serialized as a JSON number or a string.
type ID string

// UnmarshalJSON accepts numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("garden: invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers so they round-trip to backends
// that use numeric keys.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	// Only canonical integers go out bare; "007" or "+5" stay strings so the
	// backend sees exactly the id it sent.
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

const layoutISO = "2006-01-02"

var dateLayouts = []string{
	layoutISO,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC1123,
}

// Date is a calendar day as exchanged with the backend (YYYY-MM-DD).
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the date layouts the backend has been seen to emit.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("garden: unrecognized date %q", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("garden: invalid date %s: %w", b, err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(layoutISO))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(layoutISO)
}

// DaysBetween counts whole calendar days from `from` to `to`.
func DaysBetween(from, to time.Time) int {
	f := NewDate(from).Time
	t := NewDate(to).Time
	return int(t.Sub(f).Hours() / 24)
}

// Season selects which watering interval of a type applies.
type Season string

const (
	Summer Season = "summer"
	Winter Season = "winter"
)

// SeasonFor returns Winter for November through April and Summer otherwise.
func SeasonFor(month time.Month) Season {
	switch month {
	case time.November, time.December, time.January, time.February, time.March, time.April:
		return Winter
	default:
		return Summer
	}
}
