package address

import (
	"mime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		addr string
		exp  string
	}{
		{"", "joe@example.com", "<joe@example.com>"},
		{"Joe User", "joe@example.com", "Joe User <joe@example.com>"},
		{"Who?", "one@y.test", "Who? <one@y.test>"},
		{"Joe Q. Public", "john.q.public@example.com", `"Joe Q. Public" <john.q.public@example.com>`},
		{"Doe, John", "john@example.com", `"Doe, John" <john@example.com>`},
		{`Tim "The Book" O'Reilly`, "foo@example.com", `"Tim \"The Book\" O'Reilly" <foo@example.com>`},
		{`back\slash`, "bs@example.com", `"back\\slash" <bs@example.com>`},
		{"two  spaces", "ts@example.com", `"two  spaces" <ts@example.com>`},
		{"Bob", `"dot.and space"@example.com`, `Bob <"dot.and space"@example.com>`},
		{"'Joe'", "joe@example.com", `"'Joe'" <joe@example.com>`},
		{"'Joe", "joe@example.com", "'Joe <joe@example.com>"},
		{"O'Groats", "jog@example.com", "O'Groats <jog@example.com>"},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, Render(test.name, test.addr))
	}
}

func TestRenderEncodesNonASCII(t *testing.T) {
	s := Render("Название теста", "encoded@example.org")
	require.True(t, strings.HasPrefix(s, "=?utf-8?q?"), s)
	require.True(t, strings.HasSuffix(s, "?= <encoded@example.org>"), s)

	name := strings.TrimSuffix(s, " <encoded@example.org>")
	decoded, err := new(mime.WordDecoder).DecodeHeader(name)
	require.NoError(t, err)
	assert.Equal(t, "Название теста", decoded)
}

func TestRenderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"Joe User", "joe@example.com"},
		{"Joe Q. Public", "john.q.public@example.com"},
		{`Joe "Jr" Smith`, "joe@example.com"},
		{"", "me@example.com"},
		{"Bob", "bob@[192.168.0.1]"},
		{"'Joe'", "joe@example.com"},
	}
	parser := &AddressParser{}
	for _, test := range tests {
		mbox, err := parser.Parse(Render(test.name, test.addr))
		if assert.NoError(t, err, test.name) {
			assert.Equal(t, test.name, mbox.DisplayName())
			assert.Equal(t, test.addr, mbox.AddrSpec())
		}
	}
}
