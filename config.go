package addrsplit

import (
	"fmt"
	"log/slog"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/moriyoshi/addrsplit/internal/expand"
)

// Config is the document form of the parser options. Scalars may refer to
// environment variables as ${env.NAME}.
type Config struct {
	StrictLiteral       bool `yaml:"strict_literal"`
	DecodeEncodedWords  bool `yaml:"decode_encoded_words"`
	PermissiveLocalPart bool `yaml:"permissive_local_part"`
	Concurrency         int  `yaml:"concurrency"`
}

func DefaultConfig() Config {
	return Config{
		StrictLiteral:      true,
		DecodeEncodedWords: true,
		Concurrency:        defaultConcurrency,
	}
}

var configKeys = map[string]struct{}{
	"strict_literal":        {},
	"decode_encoded_words":  {},
	"permissive_local_part": {},
	"concurrency":           {},
}

func expandNode(n *yaml.Node) {
	switch n.Kind {
	case yaml.ScalarNode:
		v := expand.Expand(n.Value, expand.Env)
		if v != n.Value {
			n.Value = v
			if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0 {
				// let the expanded text pick its own type
				n.Tag = ""
			}
		}
	default:
		for _, c := range n.Content {
			expandNode(c)
		}
	}
}

func (c *Config) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: configuration must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if _, ok := configKeys[k.Value]; !ok {
			return fmt.Errorf("line %d: unknown key %q", k.Line, k.Value)
		}
	}
	expandNode(n)
	type plain Config
	return n.Decode((*plain)(c))
}

// Options translates the configuration into parser options.
func (c Config) Options() []OptionFunc {
	options := []OptionFunc{
		WithStrictLiteral(c.StrictLiteral),
		WithPermissiveLocalPart(c.PermissiveLocalPart),
	}
	if c.Concurrency != 0 {
		options = append(options, WithConcurrency(c.Concurrency))
	}
	if !c.DecodeEncodedWords {
		options = append(options, WithDecoder(nil))
	}
	return options
}

func LoadConfig(b []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// NewParserFromYAML builds a parser from a YAML document. options are
// applied after the document, so they take precedence.
func NewParserFromYAML(b []byte, options ...OptionFunc) (*Parser, error) {
	c, err := LoadConfig(b)
	if err != nil {
		return nil, err
	}
	return NewParser(append(c.Options(), options...)...)
}

func NewParserFromYAMLFile(path string, options ...OptionFunc) (*Parser, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := NewParserFromYAML(b, options...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.logger.Info("configuration loaded", slog.String("path", path))
	return p, nil
}
