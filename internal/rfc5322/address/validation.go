package address

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidMailbox is wrapped by every error Validate returns.
var ErrInvalidMailbox = errors.New("invalid mailbox")

const (
	maxAddressLength = 320 // RFC 3696 errata 1690
	maxDomainLength  = 255
	maxLabelLength   = 63
)

// forbiddenLocalChars may not appear in an unquoted local part, although
// RFC 5322 counts them as atext.
const forbiddenLocalChars = "{}^"

// A Validator checks bare mailboxes (local@domain) for syntax. The zero
// value is ready to use.
type Validator struct {
	PermissiveLocalPart bool
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMailbox, fmt.Sprintf(format, args...))
}

// Validate returns nil if addr is a valid addr-spec without any
// surrounding white space, comments or angle brackets.
func (v Validator) Validate(addr string) error {
	if addr == "" {
		return invalid("empty address")
	}
	if len(addr) > maxAddressLength {
		return invalid("address longer than %d octets", maxAddressLength)
	}
	p := &addrParser{s: addr, permissiveLocalPart: v.PermissiveLocalPart}
	mbox, err := p.tryConsumingAddrSpec()
	if err != nil {
		return invalid("%v", err)
	}
	if p.i < len(p.s) {
		return invalid("unexpected %q after addr-spec", p.s[p.i:])
	}
	for _, tokens := range [][]Token{mbox.LocalPart, mbox.Domain} {
		for _, token := range tokens {
			if token.Type == FWS || token.Type == Comment {
				return invalid("white space or comment in addr-spec")
			}
		}
	}
	if _, local := firstMeaningfulToken(mbox.LocalPart); local.Type == Atom {
		if i := strings.IndexAny(local.Data, forbiddenLocalChars); i >= 0 {
			return invalid("forbidden character %q in local part", local.Data[i])
		}
	}
	if _, domain := firstMeaningfulToken(mbox.Domain); domain.Type == Atom {
		if err := validDomain(domain.Data); err != nil {
			return invalid("%v", err)
		}
	}
	return nil
}

// validDomain checks the A-label form of domain against the IDNA lookup
// rules and the DNS length limits.
func validDomain(domain string) error {
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return fmt.Errorf("bad domain %q: %w", domain, err)
	}
	if len(ascii) > maxDomainLength {
		return fmt.Errorf("domain longer than %d octets", maxDomainLength)
	}
	for _, label := range strings.Split(ascii, ".") {
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("domain label %q starts or ends with a hyphen", label)
		}
		if len(label) > maxLabelLength {
			return fmt.Errorf("domain label %q longer than %d octets", label, maxLabelLength)
		}
	}
	return nil
}
