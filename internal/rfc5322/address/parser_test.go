// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package address

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressParsingError(t *testing.T) {
	mustErrTestCases := [...]struct {
		text        string
		wantErrText string
	}{
		0:  {"a@gmail.com b@gmail.com", "expected comma after address"},
		1:  {"\"\x00\" <null@example.net>", "bad character in quoted-string"},
		2:  {"\"\\\x00\" <escaped-null@example.net>", "bad character in quoted-string"},
		3:  {"John Doe", "no angle-addr"},
		4:  {`<jdoe#machine.example>`, "missing @ in addr-spec"},
		5:  {`John <middle> Doe <jdoe@machine.example>`, "missing @ in addr-spec"},
		6:  {"cfws@example.com (", "misformatted parenthetical comment"},
		7:  {"empty group: ;", "empty address"},
		8:  {"root group: embed group: null@example.com;", "embedded group"},
		9:  {"group not closed: null@example.com", "missing ; in group"},
		10: {"group: first@example.com, second@example.com;", "group with multiple addresses"},
		11: {"john.doe", "missing '@' or angle-addr"},
		12: {"john.doe@", "missing '@' or angle-addr"},
		13: {"John Doe@foo.bar", "no angle-addr"},
		14: {" group: null@example.com; (asd", "misformatted parenthetical comment"},
		15: {"<jdoe@[[192.168.0.1]>", "bad character in domain-literal"},
		16: {"<jdoe@[192.168.0.1>", "unclosed domain-literal"},
		17: {"Jill User <doug@>", "no domain in addr-spec"},
		18: {"Joe User <joe@example.com.>", "trailing dot in atom"},
		19: {"Jill User <jill.@example.net>", "trailing dot in atom"},
		20: {`"Joe <joe@example.com>`, "unclosed quoted-string"},
		21: {"Joe <joe@example.com", "unclosed angle-addr"},
		22: {"", "empty address"},
	}

	addrParsers := [...]struct {
		name   string
		parser *AddressParser
	}{
		0: {
			name:   "default",
			parser: &AddressParser{},
		},
		1: {
			name:   "permissive",
			parser: &AddressParser{PermissiveLocalPart: true},
		},
	}

	for _, parser := range addrParsers {
		t.Run(parser.name, func(t *testing.T) {
			t.Parallel()
			for i, tc := range mustErrTestCases {
				if parser.parser.PermissiveLocalPart && i == 19 {
					continue
				}
				_, err := parser.parser.Parse(tc.text)
				if err == nil || !strings.Contains(err.Error(), tc.wantErrText) {
					t.Errorf(`(%s).Parse(%q) #%d want %q, got %v`, parser.name, tc.text, i, tc.wantErrText, err)
				}
			}
		})
	}
}

func TestAddressParser(t *testing.T) {
	tests := []struct {
		addrStr     string
		displayName string
		addrSpec    string
	}{
		// Bare address
		{`jdoe@machine.example`, "", "jdoe@machine.example"},
		// RFC 5322, Appendix A.1.1
		{`John Doe <jdoe@machine.example>`, "John Doe", "jdoe@machine.example"},
		// RFC 5322, Appendix A.1.2
		{`"Joe Q. Public" <john.q.public@example.com>`, "Joe Q. Public", "john.q.public@example.com"},
		// obs-phrase
		{`Joe Q. Public <john.q.public@example.com>`, "Joe Q. Public", "john.q.public@example.com"},
		// quoted words are separate atoms
		{`Tim "The Book" O'Reilly <foo@example.com>`, "Tim The Book O'Reilly", "foo@example.com"},
		// escaped quotes survive
		{`"Joe \"Jr\" Smith" <joe@example.com>`, `Joe "Jr" Smith`, "joe@example.com"},
		// comments are not part of the name
		{`Pete(A nice \) chap) <pete(his account)@silly.test(his host)>`, "Pete", "pete@silly.test"},
		// angle-addr without a name
		{`<me@example.com>`, "", "me@example.com"},
		// quoted local part keeps its quotes
		{`"dot.and space"@example.com`, "", `"dot.and space"@example.com`},
		// domain literal
		{`Bob <bob@[192.168.0.1]>`, "Bob", "bob@[192.168.0.1]"},
		// RFC 6532 UTF-8
		{`Jörg <jörg@example.com>`, "Jörg", "jörg@example.com"},
		// single-member group
		{`group: Ed Jones <c@a.test>;`, "Ed Jones", "c@a.test"},
		// folding white space
		{"John\r\n Doe <jdoe@machine.example>", "John Doe", "jdoe@machine.example"},
	}
	parser := &AddressParser{}
	for i, test := range tests {
		t.Run(fmt.Sprintf("#%d: %s", i, test.addrStr), func(t *testing.T) {
			t.Parallel()
			mbox, err := parser.Parse(test.addrStr)
			require.NoError(t, err)
			assert.Equal(t, test.displayName, mbox.DisplayName())
			assert.Equal(t, test.addrSpec, mbox.AddrSpec())
		})
	}
}

func TestMailboxParts(t *testing.T) {
	mbox, err := (&AddressParser{}).Parse(`"Abc\\@def"@[192.168.0.1]`)
	require.NoError(t, err)
	_, local := firstMeaningfulToken(mbox.LocalPart)
	assert.Equal(t, Token{Type: QuotedString, Data: `"Abc\\@def"`}, local)
	assert.Equal(t, `Abc\@def`, local.Value())
	_, domain := firstMeaningfulToken(mbox.Domain)
	assert.Equal(t, Token{Type: DomainLiteral, Data: "[192.168.0.1]"}, domain)
	assert.Equal(t, `"Abc\\@def"@[192.168.0.1]`, mbox.AddrSpec())
}

type parsed struct {
	name string
	addr string
	raw  string
	err  string
}

func TestParseList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected []parsed
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "separators only",
			input:    " , ,, ",
			expected: nil,
		},
		{
			name:  "RFC 5322, Appendix A.1.2",
			input: `Mary Smith <mary@x.test>, jdoe@example.org, Who? <one@y.test>`,
			expected: []parsed{
				{name: "Mary Smith", addr: "mary@x.test", raw: "Mary Smith <mary@x.test>"},
				{addr: "jdoe@example.org", raw: "jdoe@example.org"},
				{name: "Who?", addr: "one@y.test", raw: "Who? <one@y.test>"},
			},
		},
		{
			name:  "trailing comma",
			input: "Joe User <joe@example.com>,Jill User <jill@example.net>,frank@example.com,",
			expected: []parsed{
				{name: "Joe User", addr: "joe@example.com", raw: "Joe User <joe@example.com>"},
				{name: "Jill User", addr: "jill@example.net", raw: "Jill User <jill@example.net>"},
				{addr: "frank@example.com", raw: "frank@example.com"},
			},
		},
		{
			name:  "group members are flattened",
			input: `A Group:Ed Jones <c@a.test>,joe@where.test,John <jdoe@one.test>;, x@y.test`,
			expected: []parsed{
				{name: "Ed Jones", addr: "c@a.test", raw: "A Group:Ed Jones <c@a.test>,joe@where.test,John <jdoe@one.test>;"},
				{addr: "joe@where.test", raw: "A Group:Ed Jones <c@a.test>,joe@where.test,John <jdoe@one.test>;"},
				{name: "John", addr: "jdoe@one.test", raw: "A Group:Ed Jones <c@a.test>,joe@where.test,John <jdoe@one.test>;"},
				{addr: "x@y.test", raw: "x@y.test"},
			},
		},
		{
			name:     "empty group",
			input:    `undisclosed-recipients:;`,
			expected: nil,
		},
		{
			name:  "recovers after a broken address",
			input: `Joe User <joe@example.com>, Jill User <doug@>, "Doe, John" <john@example.com>`,
			expected: []parsed{
				{name: "Joe User", addr: "joe@example.com", raw: "Joe User <joe@example.com>"},
				{raw: "Jill User <doug@>", err: "no domain in addr-spec"},
				{name: "Doe, John", addr: "john@example.com", raw: `"Doe, John" <john@example.com>`},
			},
		},
		{
			name:  "unclosed comment swallows the rest",
			input: `a@example.com, (oops, b@example.com`,
			expected: []parsed{
				{addr: "a@example.com", raw: "a@example.com"},
				{raw: "(oops, b@example.com", err: "misformatted parenthetical comment"},
			},
		},
		{
			name:  "broken group member rejects the group",
			input: `G: bad, x@y.test, z@w.test;, a@example.com, H: x@y.test, bad;`,
			expected: []parsed{
				{raw: "G: bad, x@y.test, z@w.test;", err: "missing '@' or angle-addr"},
				{addr: "a@example.com", raw: "a@example.com"},
				{raw: "H: x@y.test, bad;", err: "missing '@' or angle-addr"},
			},
		},
		{
			name:  "garbage after group",
			input: `G: x@y.test; junk, a@example.com`,
			expected: []parsed{
				{raw: "G: x@y.test; junk", err: "expected comma after address"},
				{addr: "a@example.com", raw: "a@example.com"},
			},
		},
		{
			name:  "unclosed group swallows the rest",
			input: `a@example.com, G: x@y.test, z@w.test`,
			expected: []parsed{
				{addr: "a@example.com", raw: "a@example.com"},
				{raw: "G: x@y.test, z@w.test", err: "missing ; in group"},
			},
		},
		{
			name:  "garbage after address",
			input: `a@example.com junk, b@example.com`,
			expected: []parsed{
				{raw: "a@example.com junk", err: "expected comma after address"},
				{addr: "b@example.com", raw: "b@example.com"},
			},
		},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("#%d: %s", i, c.name), func(t *testing.T) {
			t.Parallel()
			var actual []parsed
			for _, a := range (&AddressParser{}).ParseList(c.input) {
				r := parsed{raw: a.Raw}
				if a.Err != nil {
					assert.Nil(t, a.Mailbox)
					r.err = a.Err.Error()
				} else {
					r.name = a.Mailbox.DisplayName()
					r.addr = a.Mailbox.AddrSpec()
				}
				actual = append(actual, r)
			}
			assert.Equal(t, c.expected, actual)
		})
	}
}
