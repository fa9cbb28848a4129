// Package encword decodes RFC 2047 encoded-words found in display names.
package encword

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"regexp"
	"strings"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/moriyoshi/addrsplit/internal/logging"
)

var encodedName = regexp.MustCompile(`(?s)^=\?.*\?=$`)

// CharsetReader returns a reader converting r from the given charset to
// UTF-8. Labels unknown to the IANA index are looked up in the go-message
// registry, which carries the usual aliases found in the wild.
func CharsetReader(label string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "", "us-ascii", "utf-8":
		return r, nil
	}
	enc, _ := ianaindex.MIME.Encoding(label)
	if enc == nil {
		enc, _ = ianaindex.IANA.Encoding(label)
	}
	if enc != nil {
		return enc.NewDecoder().Reader(r), nil
	}
	cr, err := charset.Reader(label, r)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return cr, nil
}

type Decoder struct {
	logger *slog.Logger
	dec    mime.WordDecoder
}

func NewDecoder(logger *slog.Logger) *Decoder {
	return &Decoder{
		logger: logging.OrBlackhole(logger),
		dec:    mime.WordDecoder{CharsetReader: CharsetReader},
	}
}

// Decode decodes name when it consists of encoded-words only. Anything
// else, including names that fail to decode, is returned as is.
func (d *Decoder) Decode(name string) string {
	if !encodedName.MatchString(name) {
		return name
	}
	decoded, err := d.dec.DecodeHeader(name)
	if err != nil {
		d.logger.Debug("failed to decode display name", slog.String("name", name), slog.Any("error", err))
		return name
	}
	return decoded
}
