// Package format holds small text and date helpers shared by the list views.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultTruncate is the length Truncate uses when max is not positive.
const DefaultTruncate = 45

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Truncate shortens s to max runes followed by an ellipsis.
func Truncate(s string, max int) string {
	if s == "" {
		return ""
	}
	if max <= 0 {
		max = DefaultTruncate
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + Ellipsis
}

// Fold normalizes s for case-insensitive comparison.
// cases.Caser is stateful, so a fresh one is built per call.
func Fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// ContainsFold reports whether sub occurs in s ignoring case.
func ContainsFold(s, sub string) bool {
	return strings.Contains(Fold(s), Fold(sub))
}

// Lower is the plain lower-case used for sort keys.
func Lower(s string) string {
	return strings.ToLower(s)
}

// Stringify renders v as form text: nil is empty, Stringers use String.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

const (
	ymdLayout     = "2006-01-02"
	displayLayout = "Monday, Jan 2, 2006, 03:04 PM"
)

// DisplayDate renders t as "Wednesday, May 1, 2024, 11:59 PM". The zero
// time renders as "".
func DisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayLayout)
}

// DisplayDateString parses an RFC 3339 timestamp and renders it with
// DisplayDate. Unparseable input is returned unchanged.
func DisplayDateString(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return DisplayDate(t.Local())
}

// YMD renders t as YYYY-MM-DD.
func YMD(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ymdLayout)
}

// ParseYMD parses YYYY-MM-DD in loc (time.Local when nil).
func ParseYMD(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(ymdLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// StartOfDay returns 00:00:00 of the day s names in loc.
func StartOfDay(s string, loc *time.Location) (time.Time, error) {
	return ParseYMD(s, loc)
}

// EndOfDay returns 23:59:59 of the day s names in loc.
func EndOfDay(s string, loc *time.Location) (time.Time, error) {
	t, err := ParseYMD(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location()), nil
}
