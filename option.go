package addrsplit

import (
	"fmt"
	"log/slog"

	"github.com/moriyoshi/addrsplit/types"
)

type OptionFunc func(p *Parser) error

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(p *Parser) error {
		p.logger = logger
		return nil
	}
}

// WithDecoder replaces the encoded-word decoder applied to display names.
// A nil decoder turns decoding off, leaving names as found in the input.
func WithDecoder(decoder types.NameDecoder) OptionFunc {
	return func(p *Parser) error {
		p.decoder = decoder
		p.decoderSet = true
		return nil
	}
}

// WithStrictLiteral controls whether the RFC 5322 literal strategy is
// available. It is on by default.
func WithStrictLiteral(enabled bool) OptionFunc {
	return func(p *Parser) error {
		p.strictLiteral = enabled
		return nil
	}
}

// WithPermissiveLocalPart accepts leading, trailing and consecutive dots in
// unquoted local parts, as some providers hand out such addresses.
func WithPermissiveLocalPart(enabled bool) OptionFunc {
	return func(p *Parser) error {
		p.permissiveLocalPart = enabled
		return nil
	}
}

// WithConcurrency bounds the number of values ParseAll works on at once.
func WithConcurrency(n int) OptionFunc {
	return func(p *Parser) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		p.concurrency = n
		return nil
	}
}
