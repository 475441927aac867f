// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datefmt converts calendar dates between two textual patterns written
// in the letter convention used by the export configuration ("yyyy-MM-dd",
// "ddMMyyyy", "d MMMM yyyy").
//
// Patterns are compiled into fields and rendered directly. They never pass
// through a Go reference layout, so literal text such as "_" or "Mon" next to a
// field is always copied verbatim.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

// field is one compiled pattern element. A zero letter marks literal text.
type field struct {
	letter byte
	count  int
	text   string
}

// Pattern is a compiled date pattern.
type Pattern struct {
	source string
	fields []field
}

// Compile parses a letter pattern.
//
// Supported letters: y and u (year; "yy" is two digits, any other count is four),
// M (1 and 2 numeric, 3 short month name, 4+ full name), d (1 or 2), D (day of
// year, 1 to 3), E (1-3 short weekday, 4+ full). Quoted text is literal and "''"
// is a single quote. Any other non-letter is literal.
func Compile(pattern string) (*Pattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty date pattern")
	}
	p := &Pattern{source: pattern}
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				p.literal("'")
				i += 2
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("date pattern %q: unterminated quote", pattern)
			}
			p.literal(pattern[i+1 : i+1+end])
			i += end + 2
		case isLetter(c):
			n := 1
			for i+n < len(pattern) && pattern[i+n] == c {
				n++
			}
			if !supported(c, n) {
				return nil, fmt.Errorf("date pattern %q: unsupported field %q", pattern, strings.Repeat(string(c), n))
			}
			p.fields = append(p.fields, field{letter: c, count: n})
			i += n
		default:
			p.literal(string(c))
			i++
		}
	}
	return p, nil
}

func (p *Pattern) literal(s string) {
	if n := len(p.fields); n > 0 && p.fields[n-1].letter == 0 {
		p.fields[n-1].text += s
		return
	}
	p.fields = append(p.fields, field{text: s})
}

// String returns the pattern as written.
func (p *Pattern) String() string {
	return p.source
}

func supported(c byte, n int) bool {
	switch c {
	case 'y', 'u', 'M', 'E':
		return true
	case 'd':
		return n <= 2
	case 'D':
		return n <= 3
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Format renders the calendar date of t, in t's location.
func (p *Pattern) Format(t time.Time) string {
	var b strings.Builder
	for _, f := range p.fields {
		switch f.letter {
		case 0:
			b.WriteString(f.text)
		case 'y', 'u':
			if f.count == 2 {
				fmt.Fprintf(&b, "%02d", t.Year()%100)
			} else {
				fmt.Fprintf(&b, "%04d", t.Year())
			}
		case 'M':
			switch {
			case f.count <= 2:
				fmt.Fprintf(&b, "%0*d", f.count, int(t.Month()))
			case f.count == 3:
				b.WriteString(t.Month().String()[:3])
			default:
				b.WriteString(t.Month().String())
			}
		case 'd':
			fmt.Fprintf(&b, "%0*d", f.count, t.Day())
		case 'D':
			fmt.Fprintf(&b, "%0*d", f.count, t.YearDay())
		case 'E':
			if f.count <= 3 {
				b.WriteString(t.Weekday().String()[:3])
			} else {
				b.WriteString(t.Weekday().String())
			}
		}
	}
	return b.String()
}

// Parse reads s, which must match the pattern completely. The result is a UTC
// calendar date. Missing fields default to January 1st of year 0; a weekday is
// read but not checked against the date.
func (p *Pattern) Parse(s string) (time.Time, error) {
	year, month, day, yday := 0, -1, -1, -1
	rest := s
	for _, f := range p.fields {
		var err error
		switch f.letter {
		case 0:
			if !strings.HasPrefix(rest, f.text) {
				return time.Time{}, fmt.Errorf("expected %q at %q", f.text, rest)
			}
			rest = rest[len(f.text):]
		case 'y', 'u':
			if f.count == 2 {
				var yy int
				if yy, rest, err = number(rest, 2, 2); err == nil {
					year = 2000 + yy
					if yy >= 69 {
						year = 1900 + yy
					}
				}
			} else {
				year, rest, err = number(rest, 4, 4)
			}
		case 'M':
			if f.count >= 3 {
				month, rest, err = lookup(rest, monthNames(f.count == 3))
				month++
			} else {
				month, rest, err = number(rest, f.count, 2)
			}
		case 'd':
			day, rest, err = number(rest, f.count, 2)
		case 'D':
			yday, rest, err = number(rest, f.count, 3)
		case 'E':
			_, rest, err = lookup(rest, weekdayNames(f.count <= 3))
		}
		if err != nil {
			return time.Time{}, err
		}
	}
	if rest != "" {
		return time.Time{}, fmt.Errorf("unexpected trailing text %q", rest)
	}
	return calendarDate(year, month, day, yday)
}

func calendarDate(year, month, day, yday int) (time.Time, error) {
	if month < 0 && day < 0 && yday >= 0 {
		d := time.Date(year, time.January, yday, 0, 0, 0, 0, time.UTC)
		if yday < 1 || d.Year() != year {
			return time.Time{}, fmt.Errorf("day of year %d out of range", yday)
		}
		return d, nil
	}
	if month < 0 {
		month = 1
	}
	if day < 0 {
		day = 1
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || d.Day() != day {
		return time.Time{}, fmt.Errorf("day %d out of range", day)
	}
	if yday >= 0 && d.YearDay() != yday {
		return time.Time{}, fmt.Errorf("day of year %d does not match %s", yday, d.Format(time.DateOnly))
	}
	return d, nil
}

// number reads between lo and hi leading digits of s.
func number(s string, lo, hi int) (int, string, error) {
	n, v := 0, 0
	for n < len(s) && n < hi && s[n] >= '0' && s[n] <= '9' {
		v = v*10 + int(s[n]-'0')
		n++
	}
	if n < lo {
		return 0, s, fmt.Errorf("expected %d digits at %q", lo, s)
	}
	return v, s[n:], nil
}

// lookup matches the start of s against names, ignoring case, and returns the
// index of the match.
func lookup(s string, names []string) (int, string, error) {
	for i, name := range names {
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return i, s[len(name):], nil
		}
	}
	return -1, s, fmt.Errorf("expected one of %s at %q", strings.Join(names, ", "), s)
}

func monthNames(short bool) []string {
	names := make([]string, 12)
	for i := range names {
		names[i] = time.Month(i + 1).String()
		if short {
			names[i] = names[i][:3]
		}
	}
	return names
}

func weekdayNames(short bool) []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday(i).String()
		if short {
			names[i] = names[i][:3]
		}
	}
	return names
}

// Translator reads dates in one pattern and writes them in another.
type Translator struct {
	read  *Pattern
	write *Pattern
}

// NewTranslator compiles the read and write patterns.
func NewTranslator(readPattern, writePattern string) (*Translator, error) {
	read, err := Compile(readPattern)
	if err != nil {
		return nil, fmt.Errorf("read pattern: %w", err)
	}
	write, err := Compile(writePattern)
	if err != nil {
		return nil, fmt.Errorf("write pattern: %w", err)
	}
	return &Translator{read: read, write: write}, nil
}

// Parse reads s under the read pattern. The result is a UTC calendar date.
func (t *Translator) Parse(s string) (time.Time, error) {
	d, err := t.read.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q with pattern %q: %w", s, t.read, err)
	}
	return d, nil
}

// Format renders the calendar date of d under the write pattern.
func (t *Translator) Format(d time.Time) string {
	return t.write.Format(d)
}

// Translate parses s under the read pattern and renders it under the write pattern.
func (t *Translator) Translate(s string) (string, error) {
	d, err := t.Parse(s)
	if err != nil {
		return "", err
	}
	return t.Format(d), nil
}
