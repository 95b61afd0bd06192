// Package date provides a calendar date with day granularity, used everywhere a
// trading day is meant rather than an instant.
package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ISOFormat is the canonical string form of a Date.
const ISOFormat = "2006-01-02"

// USFormat is the mm/dd/yyyy form accepted from users.
const USFormat = "01/02/2006"

const usReadFormat = "1/2/2006" // permissive, allows single-digit month/day

// Date represents a civil date with no time of day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

// FromTime returns the calendar date of t in t's location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Today returns the current date in loc.
func Today(loc *time.Location) Date { return FromTime(time.Now().In(loc)) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// time returns midnight UTC of that day.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// In returns the instant of midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, loc) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// DaysUntil returns the number of days from d to x, negative if x is before d.
func (d Date) DaysUntil(x Date) int { return int(x.time().Sub(d.time()) / (24 * time.Hour)) }

// String formats the date as yyyy-mm-dd.
func (d Date) String() string { return d.time().Format(ISOFormat) }

// US formats the date as mm/dd/yyyy.
func (d Date) US() string { return d.time().Format(USFormat) }

// Parse parses a date in either mm/dd/yyyy or yyyy-mm-dd form.
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)
	if strings.Contains(str, "/") {
		return ParseUS(str)
	}
	on, err := time.Parse("2006-1-2", str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q or %q", str, USFormat, ISOFormat)
	}
	return FromTime(on), nil
}

// ParseUS parses a date in mm/dd/yyyy form.
func ParseUS(str string) (Date, error) {
	on, err := time.Parse(usReadFormat, strings.TrimSpace(str))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format mm/dd/yyyy", str)
	}
	return FromTime(on), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(str))
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
