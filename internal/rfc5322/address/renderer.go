package address

import (
	"mime"
	"strings"
	"unicode/utf8"
)

// Render formats name and addr as an RFC 5322 mailbox, "name <addr>".
// The name is used as is when it is a sequence of atoms, quoted otherwise,
// and RFC 2047 encoded when it holds anything but ASCII.
// addr is expected to be a valid addr-spec already.
func Render(name, addr string) string {
	b := make([]byte, 0, len(name)+len(addr)+8)
	if name != "" {
		b = appendPhrase(b, name)
		b = append(b, ' ')
	}
	b = append(b, '<')
	b = append(b, addr...)
	b = append(b, '>')
	return string(b)
}

func appendPhrase(b []byte, name string) []byte {
	if !isASCII(name) {
		return append(b, mime.QEncoding.Encode("utf-8", name)...)
	}
	// keep single quotes framing the whole name
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		return appendQuotedString(b, name)
	}
	words := strings.Split(name, " ")
	for _, w := range words {
		if !isAtom(w) {
			return appendQuotedString(b, name)
		}
	}
	return append(b, name...)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isAtom(v string) bool {
	if len(v) == 0 {
		return false
	}
	for i := 0; i < len(v); i++ {
		if !isAtext(v[i], false) {
			return false
		}
	}
	return true
}

// appendQuotedString renders a string as an RFC 5322 quoted-string.
func appendQuotedString(b []byte, v string) []byte {
	b = append(b, '"')
	s := 0
	for i := 0; i < len(v); i++ {
		if c := v[i]; isBackslashOrQuote(c) {
			b = append(b, v[s:i]...)
			b = append(b, '\\', c)
			s = i + 1
		}
	}
	b = append(b, v[s:]...)
	b = append(b, '"')
	return b
}
