package address

import (
	"errors"
	"strings"

	"github.com/moriyoshi/addrsplit/internal/scanner"
)

type addrParser struct {
	s                   string
	i                   int
	permissiveLocalPart bool
	t                   []Token
	// group is set once the ':' opening a group has been consumed.
	group bool
}

// parseAddressList parses every address of the list. An address that fails
// to parse does not abort the list: the parser resumes after the next
// top-level comma and reports the failure in place. A group failing in
// any of its members is reported as a whole.
func (p *addrParser) parseAddressList() []Parsed {
	var list []Parsed
	for p.i < len(p.s) {
		start := p.i
		p.group = false
		mboxes, err := p.parseAddress(true, false)
		if err != nil {
			if p.group {
				p.i = scanner.SkipGroupList(p.s, start)
			} else {
				p.i = scanner.SkipGroup(p.s, start)
			}
			p.t = nil
			list = append(list, Parsed{Raw: trimGroup(p.s[start:p.i]), Err: err})
			continue
		}
		raw := trimGroup(p.s[start:p.i])
		for _, mbox := range mboxes {
			list = append(list, Parsed{Mailbox: mbox, Raw: raw})
		}
	}
	return list
}

func trimGroup(s string) string {
	return strings.Trim(s, ", \t\r\n")
}

// skipSeparators skips CFWS and stray commas.
func (p *addrParser) skipSeparators() error {
	for {
		ok, err := p.skipCFWS()
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if p.i < len(p.s) && p.s[p.i] == ',' {
			p.i++
			continue
		}
		return nil
	}
}

// expectDelimiter consumes the comma ending an address. Inside a group the
// closing semicolon also ends it, but is left for consumeGroupList.
func (p *addrParser) expectDelimiter(inGroup bool) error {
	if p.i >= len(p.s) {
		return nil
	}
	switch p.s[p.i] {
	case ',':
		p.i++
		return nil
	case ';':
		if inGroup {
			return nil
		}
	}
	return errors.New("expected comma after address")
}

func (p *addrParser) consumeSpecials(c byte) bool {
	i := p.i
	for ; i < len(p.s); i++ {
		if p.s[i] != c {
			break
		}
	}
	if i > p.i {
		p.t = append(p.t, Token{Type: Opaque, Data: p.s[p.i:i]})
		p.i = i
		return true
	}
	return false
}

// parseAddress parses a single RFC 5322 address at the current position.
// A group yields its members. Nothing but separators left yields nil.
func (p *addrParser) parseAddress(handleGroup bool, inGroup bool) ([]*Mailbox, error) {
	// address = mailbox / group
	// mailbox = name-addr / addr-spec
	// group = display-name ":" [group-list] ";" [CFWS]
	p.t = nil
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	if p.i >= len(p.s) || (inGroup && p.s[p.i] == ';') {
		return nil, nil
	}
	// separators are not part of the phrase
	p.t = nil

	// addr-spec has a more restricted grammar than name-addr,
	// so try parsing it first, and fallback to name-addr.
	if mbox, err := p.tryConsumingAddrSpec(); mbox != nil && err == nil {
		if _, err := p.skipCFWS(); err != nil {
			return nil, err
		}
		p.t = nil
		if err := p.expectDelimiter(inGroup); err != nil {
			return nil, err
		}
		return []*Mailbox{mbox}, nil
	}

	// display-name
	if _, err := p.tryConsumingPhrase(); err != nil {
		return nil, err
	}
	p.tryConsumingSpaces()

	if p.i < len(p.s) {
		switch p.s[p.i] {
		case '<':
			phrase := p.t
			p.t = nil
			p.i++
			// angle-addr
			mbox, err := p.tryConsumingAddrSpec()
			if err != nil {
				return nil, err
			}
			if _, err := p.skipCFWS(); err != nil {
				return nil, err
			}
			if p.i >= len(p.s) || p.s[p.i] != '>' {
				return nil, errors.New("unclosed angle-addr")
			}
			p.i++
			if _, err := p.skipCFWS(); err != nil {
				return nil, err
			}
			p.t = nil
			if err := p.expectDelimiter(inGroup); err != nil {
				return nil, err
			}
			mbox.Phrase = phrase
			return []*Mailbox{mbox}, nil
		case ':':
			if handleGroup {
				p.i++
				p.t = nil
				p.group = true
				return p.consumeGroupList()
			}
			return nil, errors.New("embedded group")
		}
	}
	return nil, p.diagnoseMissingAddrSpec()
}

// diagnoseMissingAddrSpec tells a lone dotted atom, which looks like an
// addr-spec missing its domain, from a display name missing its angle-addr.
func (p *addrParser) diagnoseMissingAddrSpec() error {
	if _, err := p.skipCFWS(); err != nil {
		return err
	}
	cn := 0
	for i := 0; i < len(p.t); i++ {
		token := p.t[i]
		if token.Type == Atom {
			cn++
			i++
		outer:
			for ; i < len(p.t); i++ {
				token = p.t[i]
				if token.Type == Opaque {
					if strings.Trim(token.Data, ".") != "" {
						break outer
					}
				} else if token.Type != Atom {
					break
				}
			}
		}
	}
	if cn == 1 {
		// The input is like "foo.bar"; it's possible the input
		// meant to be "foo.bar@domain", or "foo.bar <...>".
		return errors.New("missing '@' or angle-addr")
	}
	// The input is like "Full Name", which couldn't possibly be a
	// valid email address if followed by "@domain"; the input
	// likely meant to be "Full Name <...>".
	return errors.New("no angle-addr")
}

func (p *addrParser) consumeGroupList() ([]*Mailbox, error) {
	var group []*Mailbox
	for {
		// embedded groups not allowed.
		members, err := p.parseAddress(false, true)
		if err != nil {
			return nil, err
		}
		group = append(group, members...)
		if p.i >= len(p.s) {
			return nil, errors.New("missing ; in group")
		}
		if p.s[p.i] == ';' {
			p.i++
			break
		}
	}
	if _, err := p.skipCFWS(); err != nil {
		return nil, err
	}
	p.t = nil
	if err := p.expectDelimiter(false); err != nil {
		return nil, err
	}
	return group, nil
}

// tryConsumingAddrSpec parses a single RFC 5322 addr-spec at the current
// position. The parser state is left untouched when it fails.
func (p *addrParser) tryConsumingAddrSpec() (*Mailbox, error) {
	// local-part = dot-atom / quoted-string
	if p.i >= len(p.s) {
		return nil, errors.New("no addr-spec")
	}
	orig := *p
	fail := func(err error) (*Mailbox, error) {
		*p = orig
		return nil, err
	}

	if _, err := p.skipCFWS(); err != nil {
		return fail(err)
	}

	ok, err := p.tryConsumingQuotedString()
	if ok {
		if len(p.t[len(p.t)-1].Data) == 2 {
			return fail(errors.New("empty quoted string in addr-spec"))
		}
	} else {
		if err != nil {
			return fail(err)
		}
		// dot-atom
		ok, err = p.consumeAtom(true, p.permissiveLocalPart)
		if err != nil {
			return fail(err)
		}
		if !ok {
			return fail(errors.New("invalid string"))
		}
	}

	if _, err := p.skipCFWS(); err != nil {
		return fail(err)
	}

	localPart := p.t[len(orig.t):]
	p.t = nil

	if p.i >= len(p.s) || p.s[p.i] != '@' {
		return fail(errors.New("missing @ in addr-spec"))
	}
	p.i++

	// domain = dot-atom / domain-literal
	if _, err := p.skipCFWS(); err != nil {
		return fail(err)
	}
	if p.i >= len(p.s) {
		return fail(errors.New("no domain in addr-spec"))
	}

	ok, err = p.tryConsumingDomainLiteral()
	if err != nil {
		return fail(err)
	}
	if !ok {
		// dot-atom
		ok, err = p.consumeAtom(true, false)
		if err != nil {
			return fail(err)
		}
		if !ok {
			return fail(errors.New("no domain in addr-spec"))
		}
	}

	domain := p.t
	p.t = orig.t

	return &Mailbox{
		LocalPart: localPart,
		Domain:    domain,
	}, nil
}

// consumeWord parses an RFC 5322 word at the current position.
func (p *addrParser) consumeWord() (consumed bool, err error) {
	ok, err := p.skipCFWS()
	consumed = consumed || ok
	if err != nil {
		return
	}
	if ok, err = p.tryConsumingQuotedString(); ok {
		consumed = true
	} else {
		if err != nil {
			return
		}
		ok, err = p.consumeAtom(false, false)
		if err != nil {
			return
		}
		if !ok {
			return
		}
		consumed = true
	}
	_, err = p.skipCFWS()
	return
}

// tryConsumingPhrase parses the RFC 5322 phrase at the current position.
func (p *addrParser) tryConsumingPhrase() (bool, error) {
	// phrase = 1*word
	// obs-phrase = word *(word / "." / CFWS)
	ok, err := p.consumeWord()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	for p.i < len(p.s) {
		// obs-phrase allows CFWS after one word
		ok, err := p.skipCFWS()
		if ok {
			continue
		}
		if err != nil {
			return true, err
		}
		if p.consumeSpecials('.') {
			continue
		}
		ok, err = p.consumeWord()
		if err != nil {
			return true, err
		}
		if !ok {
			break
		}
	}
	return true, nil
}

// tryConsumingQuotedString parses the quoted string at the current position.
func (p *addrParser) tryConsumingQuotedString() (bool, error) {
	if p.i >= len(p.s) || p.s[p.i] != '"' {
		return false, nil
	}

	i := p.i + 1
	for i < len(p.s) {
		c := p.s[i]
		i++
		switch c {
		case '"':
			p.t = append(p.t, Token{Type: QuotedString, Data: p.s[p.i:i]})
			p.i = i
			return true, nil
		case '\\':
			if i >= len(p.s) {
				break
			}
			c := p.s[i]
			i++
			if !isVchar(c) && !isWSP(c) {
				return false, errors.New("bad character in quoted-string")
			}
		default:
			if !isQtext(c) && !isWSP(c) {
				return false, errors.New("bad character in quoted-string")
			}
		}
	}
	p.t = append(p.t, Token{Type: Opaque, Data: p.s[p.i:]})
	p.i = len(p.s)
	return false, errors.New("unclosed quoted-string")
}

// consumeAtom parses an RFC 5322 atom at the current position.
// If dot is true, consumeAtom parses an RFC 5322 dot-atom instead.
// If permissive is true, consumeAtom will not fail on:
// - leading/trailing/double dots in the atom (see golang.org/issue/4938)
func (p *addrParser) consumeAtom(dot bool, permissive bool) (bool, error) {
	i := p.i
	for ; i < len(p.s); i++ {
		if !isAtext(p.s[i], dot) {
			break
		}
	}
	if i == p.i {
		return false, nil
	}

	atom := p.s[p.i:i]
	p.i = i

	if !permissive {
		switch {
		case atom[0] == '.':
			return true, errors.New("leading dot in atom")
		case atom[len(atom)-1] == '.':
			return true, errors.New("trailing dot in atom")
		case strings.Contains(atom, ".."):
			return true, errors.New("double dot in atom")
		}
	}

	p.t = append(p.t, Token{Type: Atom, Data: atom})
	return true, nil
}

// tryConsumingDomainLiteral parses an RFC 5322 domain-literal at the current
// position.
func (p *addrParser) tryConsumingDomainLiteral() (bool, error) {
	if p.i >= len(p.s) || p.s[p.i] != '[' {
		return false, nil
	}
	bad := false
	i := p.i + 1
	for {
		if i >= len(p.s) {
			p.t = append(p.t, Token{Type: Opaque, Data: p.s[p.i:]})
			p.i = i
			return true, errors.New("unclosed domain-literal")
		}
		c := p.s[i]
		i++
		if c == ']' {
			break
		}
		if !isDtext(c) && !isWSP(c) {
			bad = true
		}
	}
	if bad {
		p.t = append(p.t, Token{Type: Opaque, Data: p.s[p.i:i]})
		p.i = i
		return true, errors.New("bad character in domain-literal")
	}
	p.t = append(p.t, Token{Type: DomainLiteral, Data: p.s[p.i:i]})
	p.i = i
	return true, nil
}

// tryConsumingSpaces skips the leading space and tab characters.
func (p *addrParser) tryConsumingSpaces() bool {
	s := p.i
	i := s
	for ; i < len(p.s); i++ {
		if !isWSP(p.s[i]) {
			break
		}
	}
	p.i = i
	if i > s {
		p.t = append(p.t, Token{Type: FWS, Data: p.s[s:i]})
		return true
	}
	return false
}

// tryConsumingFWS consumes white space. Header values reach the parser
// unfolded, but a stray CRLF followed by white space is still accepted as
// folding.
func (p *addrParser) tryConsumingFWS() (bool, error) {
	i := p.i
	for i < len(p.s) && isWSP(p.s[i]) {
		i++
	}
	if i+1 < len(p.s) && p.s[i] == '\r' && p.s[i+1] == '\n' {
		j := i + 2
		for j < len(p.s) && isWSP(p.s[j]) {
			j++
		}
		if j == i+2 {
			p.t = append(p.t, Token{Type: Opaque, Data: p.s[p.i:j]})
			p.i = j
			return true, errors.New("unexpected sequences")
		}
		i = j
	} else if i < len(p.s) && (p.s[i] == '\r' || p.s[i] == '\n') {
		p.t = append(p.t, Token{Type: Opaque, Data: p.s[p.i : i+1]})
		p.i = i + 1
		return true, errors.New("unexpected sequences")
	}
	if i == p.i {
		return false, nil
	}
	p.t = append(p.t, Token{Type: FWS, Data: p.s[p.i:i]})
	p.i = i
	return true, nil
}

// skipCFWS skips CFWS as defined in RFC5322.
func (p *addrParser) skipCFWS() (consumed bool, err error) {
	for p.i < len(p.s) {
		var ok bool
		ok, err = p.tryConsumingFWS()
		consumed = consumed || ok
		if err != nil {
			break
		}
		if ok {
			continue
		}
		ok, err = p.tryConsumingComment()
		consumed = consumed || ok
		if err != nil {
			break
		}
		if !ok {
			break
		}
	}
	return
}

func (p *addrParser) tryConsumingComment() (bool, error) {
	if p.i >= len(p.s) || p.s[p.i] != '(' {
		return false, nil
	}

	s := p.i
	i := s + 1
	depth := 1
	for i < len(p.s) {
		c := p.s[i]
		i++
		if c == '\\' && i < len(p.s) {
			i++
		} else if c == '(' {
			depth++
		} else if c == ')' {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	p.i = i
	if depth == 0 {
		p.t = append(p.t, Token{Type: Comment, Data: p.s[s:i]})
		return true, nil
	}
	p.t = append(p.t, Token{Type: Opaque, Data: p.s[s:i]})
	return false, errors.New("misformatted parenthetical comment")
}

// isAtext reports whether r is an RFC 5322 atext character.
// If dot is true, period is included.
func isAtext(r byte, dot bool) bool {
	switch r {
	case '.':
		return dot

	// RFC 5322 3.2.3. specials
	case '(', ')', '<', '>', '[', ']', ':', ';', '@', '\\', ',', '"':
		return false
	}
	return isVchar(r)
}

func isBackslashOrQuote(r byte) bool {
	return r == '\\' || r == '"'
}

// isQtext reports whether r is an RFC 5322 qtext character.
func isQtext(r byte) bool {
	// Printable US-ASCII, excluding backslash or quote.
	if isBackslashOrQuote(r) {
		return false
	}
	return isVchar(r)
}

// isVchar reports whether r is an RFC 5322 VCHAR character.
func isVchar(r byte) bool {
	// Visible (printing) characters, and UTF-8 octets per RFC 6532.
	return '!' <= r && r <= '~' || r >= 0x80
}

// isWSP reports whether r is a WSP (white space).
// WSP is a space or horizontal tab (RFC 5234 Appendix B).
func isWSP(r byte) bool {
	return r == ' ' || r == '\t'
}

// isDtext reports whether r is an RFC 5322 dtext character.
func isDtext(r byte) bool {
	// Printable US-ASCII, excluding "[", "]", or "\".
	if r == '[' || r == ']' || r == '\\' {
		return false
	}
	return isVchar(r)
}
