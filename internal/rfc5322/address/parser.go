// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package address implements an RFC 5322 address tokenizer.

For the most part, this package follows the syntax as specified by RFC 5322 and
extended by RFC 6532.
Notable divergences:
  - Obsolete address formats are not parsed, including addresses with
    embedded route information.
  - Header values are expected to be unfolded already; a CRLF is accepted only
    when it is followed by white space.
  - No unicode normalization is performed.
  - Lists are parsed with recovery: an address that fails to parse is
    reported and skipped, and parsing resumes after the next top-level comma.
*/
package address

import (
	"errors"
)

// An AddressParser is an RFC 5322 address parser.
type AddressParser struct {
	// PermissiveLocalPart allows leading, trailing and double dots in
	// unquoted local parts.
	PermissiveLocalPart bool
}

// Parsed is one entry of a parsed address list. Exactly one of Mailbox and
// Err is set.
type Parsed struct {
	Mailbox *Mailbox
	Raw     string // source text of the address, trimmed
	Err     error
}

// Parse parses a single RFC 5322 address of the
// form "Gogh Fir <gf@example.com>" or "foo@example.com".
func (p *AddressParser) Parse(address string) (*Mailbox, error) {
	ap := &addrParser{s: address, permissiveLocalPart: p.PermissiveLocalPart}
	mboxes, err := ap.parseAddress(true, false)
	if err != nil {
		return nil, err
	}
	if ap.i < len(ap.s) {
		return nil, errors.New("expected single address")
	}
	switch len(mboxes) {
	case 0:
		return nil, errors.New("empty address")
	case 1:
		return mboxes[0], nil
	}
	return nil, errors.New("group with multiple addresses")
}

// ParseList parses the given string as a list of comma-separated addresses
// of the form "Gogh Fir <gf@example.com>" or "foo@example.com". Group
// members are returned in place of the group. Addresses that fail to parse
// are returned with Err set; the rest of the list is still parsed.
func (p *AddressParser) ParseList(list string) []Parsed {
	return (&addrParser{s: list, permissiveLocalPart: p.PermissiveLocalPart}).parseAddressList()
}
