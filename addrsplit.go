// Package addrsplit parses address-list header values into
// (display name, mailbox) pairs.
//
// Two strategies are available. The native one splits on top-level commas
// and keeps display names close to how they were written. The strict one
// tokenizes the value with the RFC 5322 grammar and rebuilds display names
// from phrase words. Both drop addresses that fail mailbox validation.
package addrsplit

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/moriyoshi/addrsplit/internal/encword"
	"github.com/moriyoshi/addrsplit/internal/logging"
	"github.com/moriyoshi/addrsplit/internal/rfc5322/address"
	"github.com/moriyoshi/addrsplit/splitter"
	"github.com/moriyoshi/addrsplit/types"
)

const defaultConcurrency = 4

var ErrStrictLiteralUnavailable = errors.New("strict literal strategy is not available")

// ErrInvalidMailbox is wrapped by the Err of every invalid candidate.
var ErrInvalidMailbox = address.ErrInvalidMailbox

// A Parser is immutable once built and may be shared between goroutines.
type Parser struct {
	logger              *slog.Logger
	decoder             types.NameDecoder
	decoderSet          bool
	strictLiteral       bool
	permissiveLocalPart bool
	concurrency         int
	native              types.Strategy
	strict              types.Strategy
}

func NewParser(options ...OptionFunc) (*Parser, error) {
	p := &Parser{
		logger:        slog.New(logging.BlackholeHandler{}),
		strictLiteral: true,
		concurrency:   defaultConcurrency,
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	p.logger = logging.OrBlackhole(p.logger)
	if !p.decoderSet {
		p.decoder = encword.NewDecoder(p.logger)
	}
	validator := address.Validator{PermissiveLocalPart: p.permissiveLocalPart}
	p.native = &splitter.Native{Validator: validator}
	if p.strictLiteral {
		p.strict = &splitter.StrictLiteral{
			Parser:    address.AddressParser{PermissiveLocalPart: p.permissiveLocalPart},
			Validator: validator,
		}
	}
	p.logger.Info(
		"parser created",
		slog.Bool("strict_literal", p.StrictLiteralAvailable()),
		slog.Bool("decoding", p.DecodingAvailable()),
		slog.Bool("permissive_local_part", p.permissiveLocalPart),
		slog.Int("concurrency", p.concurrency),
	)
	return p, nil
}

// DecodingAvailable reports whether display names go through an
// encoded-word decoder.
func (p *Parser) DecodingAvailable() bool {
	return p.decoder != nil
}

func (p *Parser) StrictLiteralAvailable() bool {
	return p.strict != nil
}

func (p *Parser) strategy(useStrictLiteral bool) (types.Strategy, error) {
	if !useStrictLiteral {
		return p.native, nil
	}
	if p.strict == nil {
		return nil, ErrStrictLiteralUnavailable
	}
	return p.strict, nil
}

// ParseDetailed returns every non-blank group of input as a candidate, in
// input order, along with the reason it was rejected if it was.
func (p *Parser) ParseDetailed(input string, useStrictLiteral bool) ([]types.Candidate, error) {
	s, err := p.strategy(useStrictLiteral)
	if err != nil {
		return nil, err
	}
	cands := s.Split(input)
	for i := range cands {
		p.decode(&cands[i])
	}
	return cands, nil
}

func (p *Parser) decode(c *types.Candidate) {
	if p.decoder != nil && c.Name != "" {
		c.Name = p.decoder.Decode(c.Name)
	}
}

// ParseEntry parses a value expected to hold exactly one address, such as
// a From or Sender header. Unlike Parse, it reports why the value was
// rejected; such errors wrap ErrInvalidMailbox.
func (p *Parser) ParseEntry(input string, useStrictLiteral bool) (types.Entry, error) {
	s, err := p.strategy(useStrictLiteral)
	if err != nil {
		return types.Entry{}, err
	}
	c := s.ParseOne(input)
	if c.Err != nil {
		return types.Entry{}, c.Err
	}
	p.decode(&c)
	return c.Entry, nil
}

// Parse returns the valid addresses of input in order of appearance.
// Invalid addresses are left out. The result is never nil.
func (p *Parser) Parse(input string, useStrictLiteral bool) (types.Result, error) {
	cands, err := p.ParseDetailed(input, useStrictLiteral)
	if err != nil {
		return nil, err
	}
	result := make(types.Result, 0, len(cands))
	for _, c := range cands {
		if c.Valid() {
			result = append(result, c.Entry)
		}
	}
	return result, nil
}

// ParseAll parses independent header values concurrently. The i-th result
// belongs to the i-th input.
func (p *Parser) ParseAll(ctx context.Context, inputs []string, useStrictLiteral bool) ([]types.Result, error) {
	if _, err := p.strategy(useStrictLiteral); err != nil {
		return nil, err
	}
	results := make([]types.Result, len(inputs))
	eg, innerCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.concurrency)
	for i, input := range inputs {
		if innerCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := innerCtx.Err(); err != nil {
				return err
			}
			r, err := p.Parse(input, useStrictLiteral)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

var defaultParser = sync.OnceValue(func() *Parser {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	return p
})

// ParseAddresses parses input with a parser that has both strategies and
// decoding enabled.
func ParseAddresses(input string, useStrictLiteral bool) types.Result {
	r, err := defaultParser().Parse(input, useStrictLiteral)
	if err != nil {
		panic(err)
	}
	return r
}
