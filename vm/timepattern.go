package vm

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// TimePattern matches wall-clock minutes. Each alternative has the form
// "HH:MM" where any digit may be '*'; the pattern matches a minute if any
// alternative does.
type TimePattern struct {
	alts []string
}

func (TimePattern) isValue()     {}
func (TimePattern) AsBool() bool { return true }
func (t TimePattern) String() string {
	return strings.Join(t.alts, "|")
}

// ParseTimePattern accepts one or more "|"-separated alternatives. A single
// hour digit is padded, so "7:30" reads as "07:30".
func ParseTimePattern(s string) (TimePattern, error) {
	var out TimePattern
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if len(part) == 4 && part[1] == ':' {
			part = "0" + part
		}
		if err := validateAlternative(part); err != nil {
			return TimePattern{}, err
		}
		if !slices.Contains(out.alts, part) {
			out.alts = append(out.alts, part)
		}
	}
	return out, nil
}

func validateAlternative(p string) error {
	if len(p) != 5 || p[2] != ':' {
		return fmt.Errorf("Invalid time pattern %q: expected HH:MM", p)
	}
	limits := map[int]byte{0: '2', 1: '9', 3: '5', 4: '9'}
	for i, max := range limits {
		c := p[i]
		if c == '*' {
			continue
		}
		if c < '0' || c > max {
			return fmt.Errorf("Invalid time pattern %q: bad digit %q", p, c)
		}
	}
	if p[0] != '*' && p[1] != '*' {
		if h := int(p[0]-'0')*10 + int(p[1]-'0'); h > 23 {
			return fmt.Errorf("Invalid time pattern %q: hour out of range", p)
		}
	}
	return nil
}

// Union returns a pattern matching whatever either t or o matches.
func (t TimePattern) Union(o TimePattern) TimePattern {
	out := TimePattern{alts: slices.Clone(t.alts)}
	for _, a := range o.alts {
		if !slices.Contains(out.alts, a) {
			out.alts = append(out.alts, a)
		}
	}
	return out
}

// Match reports whether hour:minute satisfies the pattern.
func (t TimePattern) Match(hour, minute int) bool {
	clock := fmt.Sprintf("%02d:%02d", hour, minute)
	for _, alt := range t.alts {
		ok := true
		for i := 0; i < 5; i++ {
			if alt[i] != '*' && alt[i] != clock[i] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Next returns the start of the first matching minute strictly after
// from. It searches one day ahead and reports false if nothing matches.
func (t TimePattern) Next(from time.Time) (time.Time, bool) {
	at := from.Truncate(time.Minute).Add(time.Minute)
	for i := 0; i < 24*60; i++ {
		if t.Match(at.Hour(), at.Minute()) {
			return at, true
		}
		at = at.Add(time.Minute)
	}
	return time.Time{}, false
}
