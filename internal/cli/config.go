package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdfgraph/rdf"
)

// Config is the optional rdfq configuration file.
//
//	prefixes:
//	  ex: http://example.org/
//	max_line_bytes: 65536
//	max_triples: 1000000
//	shared_blank_nodes: false
type Config struct {
	// Prefixes used when writing Turtle, prefix -> namespace IRI.
	Prefixes map[string]string `yaml:"prefixes"`

	// MaxLineBytes bounds one N-Triples/N-Quads line. Zero or negative
	// disables the limit.
	MaxLineBytes int `yaml:"max_line_bytes"`

	// MaxTriples bounds the statements read from one input. Zero disables.
	MaxTriples int64 `yaml:"max_triples"`

	// SharedBlankNodes keeps blank node labels across input files. A single
	// input always keeps its labels.
	SharedBlankNodes bool `yaml:"shared_blank_nodes"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{MaxLineBytes: rdf.DefaultMaxLineBytes}
}

// LoadConfig reads a YAML config file. Keys absent from the file keep
// their defaults; unknown keys are rejected. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for prefix, ns := range c.Prefixes {
		if err := rdf.ValidateIRI(ns); err != nil {
			return fmt.Errorf("prefix %q: %w", prefix, err)
		}
	}
	return nil
}

// decodeOptions returns the decoder options for one input.
func (c *Config) decodeOptions(ctx context.Context, in *rdf.Interner) []rdf.Option {
	return []rdf.Option{
		rdf.OptContext(ctx),
		rdf.OptInterner(in),
		rdf.OptMaxLineBytes(c.MaxLineBytes),
		rdf.OptMaxTriples(c.MaxTriples),
	}
}

// encodeOptions returns the encoder options for output.
func (c *Config) encodeOptions(ctx context.Context) []rdf.Option {
	return []rdf.Option{
		rdf.OptContext(ctx),
		rdf.OptPrefixes(c.Prefixes),
	}
}

// loadOptions returns the options for loading one file of a command with
// the given number of inputs. A lone input keeps its blank node labels so they can be matched
// and printed as written.
func (c *Config) loadOptions(ctx context.Context, logger *slog.Logger, inputs int) []rdf.LoadOption {
	opts := []rdf.LoadOption{rdf.WithLoadContext(ctx), rdf.WithLogger(logger)}
	if c.SharedBlankNodes || inputs == 1 {
		opts = append(opts, rdf.WithSharedBlankNodes())
	}
	return opts
}
