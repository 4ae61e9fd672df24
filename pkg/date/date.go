// Package date provides a calendar day value with no time-of-day component.
//
// A Date is always interpreted in a caller-chosen location: Of converts an
// instant into the day it falls on in that location, so two instants compare
// equal exactly when they share a calendar day there.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// readFormat is permissive and accepts single-digit month and day.
const readFormat = "2006-1-2"

// Format is the ISO-8601 layout used when writing dates.
const Format = "2006-01-02"

// Date is a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the day on which t falls when observed in loc.
// A nil loc means UTC.
func Of(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return New(t.In(loc).Date())
}

// Today returns the current day in loc.
func Today(loc *time.Location) Date { return Of(time.Now(), loc) }

// time returns midnight UTC of d; used only for arithmetic and formatting.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Equal(x Date) bool  { return d == x }
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

// Add returns d shifted by i days.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Start returns the first instant of d in loc.
func (d Date) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, loc)
}

// Contains reports whether t falls on d when observed in loc.
func (d Date) Contains(t time.Time, loc *time.Location) bool {
	return Of(t, loc) == d
}

func (d Date) String() string { return d.time().Format(Format) }

// Parse parses a Date such as "2025-07-01" or "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, Format, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
