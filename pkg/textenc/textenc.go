// Package textenc decodes raw file bytes into text by trying an ordered list
// of character encodings.
//
// The first decoder in a Chain is always strict UTF-8. Legacy fallbacks are
// looked up by name so the chain can grow without touching call sites:
//
//	chain, err := textenc.NewChain("gbk")
//	text, used, err := chain.Decode(data)
package textenc

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ErrUndecodable is returned when no decoder in the chain accepts the input.
var ErrUndecodable = errors.New("content is not valid in any configured encoding")

// Decoder converts raw bytes to a string or reports that it cannot.
type Decoder interface {
	Name() string
	Decode(data []byte) (string, error)
}

// UTF8 is the strict UTF-8 decoder. Invalid sequences are an error, never
// silently replaced.
var UTF8 Decoder = utf8Decoder{}

type utf8Decoder struct{}

func (utf8Decoder) Name() string { return "utf-8" }

func (utf8Decoder) Decode(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid utf-8 sequence")
	}
	return string(data), nil
}

// legacyDecoder wraps an x/text encoding. x/text substitutes U+FFFD for bytes
// it cannot map; any substitution counts as failure.
type legacyDecoder struct {
	name string
	enc  encoding.Encoding
}

func (d legacyDecoder) Name() string { return d.name }

func (d legacyDecoder) Decode(data []byte) (string, error) {
	out, err := d.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) || strings.ContainsRune(string(out), utf8.RuneError) {
		return "", fmt.Errorf("invalid %s sequence", d.name)
	}
	return string(out), nil
}

// fallbacks holds the known legacy encodings keyed by lowercase name.
var fallbacks = map[string]Decoder{
	"gbk":     legacyDecoder{name: "gbk", enc: simplifiedchinese.GBK},
	"gb18030": legacyDecoder{name: "gb18030", enc: simplifiedchinese.GB18030},
	"latin1":  legacyDecoder{name: "latin1", enc: charmap.ISO8859_1},
}

// Lookup returns the fallback decoder registered under name.
func Lookup(name string) (Decoder, bool) {
	d, ok := fallbacks[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Known returns the names of all registered fallback decoders, sorted.
func Known() []string {
	names := make([]string, 0, len(fallbacks))
	for name := range fallbacks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Chain tries each decoder in order and returns the first success.
type Chain struct {
	decoders []Decoder
}

// NewChain builds a chain of UTF-8 followed by the named fallbacks.
func NewChain(fallbackNames ...string) (*Chain, error) {
	c := &Chain{decoders: []Decoder{UTF8}}
	for _, name := range fallbackNames {
		d, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown encoding %q (known: %s)", name, strings.Join(Known(), ", "))
		}
		c.decoders = append(c.decoders, d)
	}
	return c, nil
}

// NewChainOf builds a chain from explicit decoders, in order.
func NewChainOf(decoders ...Decoder) *Chain {
	return &Chain{decoders: slices.Clone(decoders)}
}

// Names returns the decoder names in trial order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.decoders))
	for i, d := range c.decoders {
		names[i] = d.Name()
	}
	return names
}

// Decode returns the text, the name of the decoder that produced it, or
// ErrUndecodable when every decoder rejected the input.
func (c *Chain) Decode(data []byte) (string, string, error) {
	for _, d := range c.decoders {
		text, err := d.Decode(data)
		if err == nil {
			return text, d.Name(), nil
		}
	}
	return "", "", fmt.Errorf("%w (tried %s)", ErrUndecodable, strings.Join(c.Names(), ", "))
}
