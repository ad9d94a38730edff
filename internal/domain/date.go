package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. Lexical order equals
// calendar order, so Dates compare directly with < and >.
type Date string

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("ParseDate: %w", ErrInvalidDate)
	}
	return Date(t.Format(dateLayout)), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func (d Date) String() string { return string(d) }

func (d Date) IsZero() bool { return d == "" }

// Valid reports whether d is a well-formed calendar day. Dates built
// with ParseDate or DateOf are always valid; only values converted
// straight from raw strings can fail.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

// Time returns midnight UTC of the date, for handing to DATE columns.
// d must be Valid; a malformed value yields the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysInclusive counts the calendar days spanned by [from, to],
// so DaysInclusive(d, d) == 1.
func DaysInclusive(from, to Date) int {
	return int(to.Time().Sub(from.Time())/(24*time.Hour)) + 1
}
