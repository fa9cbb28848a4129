package types

// Splitter turns a header value into candidates, in input order. Every
// candidate is validated; the ones failing validation carry the error.
type Splitter interface {
	Split(input string) []Candidate
}

// NameDecoder decodes a display name, typically RFC 2047 encoded-words.
// It returns the name unchanged when there is nothing it can decode.
type NameDecoder interface {
	Decode(name string) string
}

type NameDecoderFunc func(string) string

func (f NameDecoderFunc) Decode(name string) string {
	return f(name)
}

// MailboxParser parses a value holding exactly one address. The returned
// candidate carries an error when the value holds none or several.
type MailboxParser interface {
	ParseOne(input string) Candidate
}

// Strategy is what a parser needs from a splitting strategy.
type Strategy interface {
	Splitter
	MailboxParser
}
