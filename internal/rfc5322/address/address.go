// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package address

import (
	"strings"
)

type TokenType int

const (
	Atom TokenType = iota
	QuotedString
	DomainLiteral
	FWS
	Comment
	Opaque
)

type Token struct {
	Type TokenType
	Data string
}

// unescapeQuotedString unescapes the body of a quoted string.
func unescapeQuotedString(s string) string {
	i := strings.IndexByte(s, '\\')
	if i < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	sb.WriteString(s[:i])
	for ; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			i++
			if i >= len(s) {
				sb.WriteByte('\\')
				break
			}
			c = s[i]
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Value returns the semantic value of the token: quoted strings lose their
// quotes and escapes, everything else is returned verbatim.
func (t Token) Value() string {
	switch t.Type {
	case QuotedString:
		return unescapeQuotedString(t.Data[1 : len(t.Data)-1])
	default:
		return t.Data
	}
}

// Mailbox is a single mailbox recognized by the tokenizer, together with
// the tokens it was built from.
// "Barry Gibbs <bg@example.com>" yields a Mailbox whose DisplayName() is
// "Barry Gibbs" and whose AddrSpec() is "bg@example.com".
type Mailbox struct {
	Phrase    []Token // display name, including white space and comments
	LocalPart []Token
	Domain    []Token
}

func firstMeaningfulToken(tokens []Token) (found bool, token Token) {
	for _, token = range tokens {
		switch token.Type {
		case Atom, QuotedString, DomainLiteral:
			found = true
			return
		}
	}
	return
}

// DisplayName joins the words of the phrase with single spaces. Quoted
// strings contribute their unquoted contents; obsolete-phrase periods stick
// to the preceding word.
func (m *Mailbox) DisplayName() string {
	var words []string
	for _, token := range m.Phrase {
		switch token.Type {
		case Atom, QuotedString:
			words = append(words, token.Value())
		case Opaque:
			if len(words) > 0 {
				words[len(words)-1] += token.Data
			} else {
				words = append(words, token.Data)
			}
		}
	}
	return strings.Join(words, " ")
}

// AddrSpec returns local@domain in its source form, quotes kept, so the
// result is itself a valid addr-spec.
func (m *Mailbox) AddrSpec() string {
	var localPart, domain string
	if ok, token := firstMeaningfulToken(m.LocalPart); ok {
		localPart = token.Data
	}
	if ok, token := firstMeaningfulToken(m.Domain); ok {
		domain = token.Data
	}
	return localPart + "@" + domain
}
