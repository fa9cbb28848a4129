// Package splitter holds the strategies that turn a header value into
// address candidates.
package splitter

import (
	"fmt"
	"strings"

	"github.com/moriyoshi/addrsplit/internal/rfc5322/address"
	"github.com/moriyoshi/addrsplit/internal/scanner"
	"github.com/moriyoshi/addrsplit/types"
)

// Native splits on top-level commas and takes the text inside the first
// angle brackets as the address. Display names are kept mostly as written.
type Native struct {
	Validator address.Validator
}

var _ types.Strategy = (*Native)(nil)

func (n *Native) candidate(g scanner.Group) types.Candidate {
	c := types.Candidate{
		Entry: types.Entry{Address: g.Addr},
		Raw:   strings.TrimSpace(g.Raw),
	}
	if g.Angle {
		c.Name = unframeName(g.Name)
	}
	c.Err = n.Validator.Validate(g.Addr)
	return c
}

func (n *Native) Split(input string) []types.Candidate {
	var cands []types.Candidate
	sc := scanner.New(input)
	for {
		g, ok := sc.Next()
		if !ok {
			break
		}
		cands = append(cands, n.candidate(g))
	}
	return cands
}

func (n *Native) ParseOne(input string) types.Candidate {
	groups := scanner.Split(input)
	switch len(groups) {
	case 0:
		return types.Candidate{Raw: strings.TrimSpace(input), Err: fmt.Errorf("%w: empty address", address.ErrInvalidMailbox)}
	case 1:
		return n.candidate(groups[0])
	}
	return types.Candidate{Raw: strings.TrimSpace(input), Err: fmt.Errorf("%w: expected single address", address.ErrInvalidMailbox)}
}

// unframeName strips one pair of matching quotes around the whole name and
// turns escaped double quotes into plain ones. Other quotes are left alone.
func unframeName(name string) string {
	if len(name) >= 2 {
		if q := name[0]; (q == '"' || q == '\'') && name[len(name)-1] == q && !escaped(name, len(name)-1) {
			name = strings.TrimSpace(name[1 : len(name)-1])
		}
	}
	return strings.ReplaceAll(name, `\"`, `"`)
}

// escaped reports whether s[i] is preceded by an odd number of backslashes.
func escaped(s string, i int) bool {
	n := 0
	for i--; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
