package splitter

import (
	"fmt"
	"strings"

	"github.com/moriyoshi/addrsplit/internal/rfc5322/address"
	"github.com/moriyoshi/addrsplit/types"
)

// StrictLiteral tokenizes the input with the RFC 5322 grammar. Display
// names are rebuilt from phrase words, so quotes and comments never make
// it into a name. Group members are returned in place of their group.
type StrictLiteral struct {
	Parser    address.AddressParser
	Validator address.Validator
}

var _ types.Strategy = (*StrictLiteral)(nil)

func (s *StrictLiteral) candidate(raw string, mbox *address.Mailbox, err error) types.Candidate {
	c := types.Candidate{Raw: raw}
	if err != nil {
		c.Err = fmt.Errorf("%w: %v", address.ErrInvalidMailbox, err)
		return c
	}
	c.Name = mbox.DisplayName()
	c.Address = mbox.AddrSpec()
	c.Err = s.Validator.Validate(c.Address)
	return c
}

func (s *StrictLiteral) Split(input string) []types.Candidate {
	parsed := s.Parser.ParseList(input)
	if len(parsed) == 0 {
		return nil
	}
	cands := make([]types.Candidate, 0, len(parsed))
	for _, p := range parsed {
		cands = append(cands, s.candidate(p.Raw, p.Mailbox, p.Err))
	}
	return cands
}

// ParseOne accepts a single mailbox, or a group holding exactly one.
func (s *StrictLiteral) ParseOne(input string) types.Candidate {
	mbox, err := s.Parser.Parse(input)
	return s.candidate(strings.TrimSpace(input), mbox, err)
}
