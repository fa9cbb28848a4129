// Package scanner splits an address list into top-level groups with an
// explicit finite-state machine over the input bytes.
package scanner

import (
	"strings"
)

type State int

const (
	Normal State = iota
	InQuotes
	InComment
)

func (s State) String() string {
	switch s {
	case Normal:
		return "Normal"
	case InQuotes:
		return "InQuotes"
	case InComment:
		return "InComment"
	}
	return "Unknown"
}

// Group is the text between two top-level commas.
type Group struct {
	Raw   string // untrimmed source text
	Start int
	End   int // offset of the terminating comma, or the length of the input

	// Name is the trimmed text before the first top-level '<'. It is empty
	// when Angle is false.
	Name string
	// Addr is the trimmed content of the angle address, or the whole
	// trimmed group when Angle is false.
	Addr  string
	Angle bool

	// State is the scanner state at End. Anything but Normal means the
	// input ended inside a quoted string or a comment.
	State State
}

type Scanner struct {
	s     string
	i     int
	state State
	depth int
}

func New(s string) *Scanner {
	return &Scanner{s: s}
}

// feed consumes one byte, plus the escaped byte following a backslash
// inside quotes or comments. normal reports whether c was read in the
// Normal state and left the machine there.
func (sc *Scanner) feed() (c byte, normal bool) {
	c = sc.s[sc.i]
	sc.i++
	switch sc.state {
	case Normal:
		switch c {
		case '"':
			sc.state = InQuotes
			return c, false
		case '(':
			sc.state = InComment
			sc.depth = 1
			return c, false
		}
		return c, true
	case InQuotes:
		switch c {
		case '\\':
			if sc.i < len(sc.s) {
				sc.i++
			}
		case '"':
			sc.state = Normal
		}
	case InComment:
		switch c {
		case '\\':
			if sc.i < len(sc.s) {
				sc.i++
			}
		case '(':
			sc.depth++
		case ')':
			sc.depth--
			if sc.depth == 0 {
				sc.state = Normal
			}
		}
	}
	return c, false
}

// Next returns the next group that is not blank.
func (sc *Scanner) Next() (Group, bool) {
	for sc.i < len(sc.s) {
		if g, ok := sc.scanGroup(); ok {
			return g, true
		}
	}
	return Group{}, false
}

func (sc *Scanner) scanGroup() (Group, bool) {
	start := sc.i
	end := len(sc.s)
	lt, gt := -1, -1
loop:
	for sc.i < len(sc.s) {
		pos := sc.i
		c, normal := sc.feed()
		if !normal {
			continue
		}
		switch c {
		case ',':
			end = pos
			break loop
		case '<':
			if lt < 0 {
				lt = pos
			}
		case '>':
			if lt >= 0 && gt < 0 {
				gt = pos
			}
		}
	}

	raw := sc.s[start:end]
	if strings.TrimSpace(raw) == "" {
		return Group{}, false
	}
	g := Group{
		Raw:   raw,
		Start: start,
		End:   end,
		State: sc.state,
	}
	switch {
	case lt < 0:
		g.Addr = strings.TrimSpace(raw)
	case gt < 0:
		g.Angle = true
		g.Name = strings.TrimSpace(sc.s[start:lt])
		g.Addr = strings.TrimSpace(sc.s[lt+1 : end])
	default:
		g.Angle = true
		g.Name = strings.TrimSpace(sc.s[start:lt])
		g.Addr = strings.TrimSpace(sc.s[lt+1 : gt])
	}
	return g, true
}

// Split returns every non-blank group of s.
func Split(s string) []Group {
	var groups []Group
	sc := New(s)
	for {
		g, ok := sc.Next()
		if !ok {
			return groups
		}
		groups = append(groups, g)
	}
}

// SkipGroup returns the offset just past the first top-level comma at or
// after i, or len(s) if there is none. i must be at a top-level position.
func SkipGroup(s string, i int) int {
	sc := &Scanner{s: s, i: i}
	for sc.i < len(sc.s) {
		if c, normal := sc.feed(); normal && c == ',' {
			return sc.i
		}
	}
	return len(s)
}

// SkipGroupList is SkipGroup for an address group ("name: a, b;"). It
// looks for the comma following the first top-level ';' at or after i, so
// commas between the group members do not count. It returns len(s) when
// the group is not closed.
func SkipGroupList(s string, i int) int {
	sc := &Scanner{s: s, i: i}
	for sc.i < len(sc.s) {
		if c, normal := sc.feed(); normal && c == ';' {
			return SkipGroup(s, sc.i)
		}
	}
	return len(s)
}
