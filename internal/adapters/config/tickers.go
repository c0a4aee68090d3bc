package config

import (
	_ "embed"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"hypeindex/pkg/errors"
)

//go:embed tickers.yaml
var defaultTickers []byte

// Ticker is one entry of the curated selector list
type Ticker struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Name   string `yaml:"name" json:"name"`
}

// Label renders "SYMBOL - Name"
func (t Ticker) Label() string {
	if t.Name == "" {
		return t.Symbol
	}
	return t.Symbol + " - " + t.Name
}

type tickerFile struct {
	Tickers []Ticker `yaml:"tickers"`
}

// LoadTickers reads the curated list from path, or the embedded default when path is empty
func LoadTickers(path string) ([]Ticker, error) {
	data := defaultTickers
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read ticker list %s", path)
		}
		data = b
	}
	return ParseTickers(data)
}

// ParseTickers decodes a YAML ticker list, normalizing symbols and dropping
// blanks and duplicates
func ParseTickers(data []byte) ([]Ticker, error) {
	var f tickerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse ticker list")
	}

	seen := make(map[string]bool, len(f.Tickers))
	out := make([]Ticker, 0, len(f.Tickers))
	for _, t := range f.Tickers {
		t.Symbol = NormalizeTicker(t.Symbol)
		if t.Symbol == "" || seen[t.Symbol] {
			continue
		}
		seen[t.Symbol] = true
		t.Name = strings.TrimSpace(t.Name)
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "ticker list is empty")
	}
	return out, nil
}

// NormalizeTicker upper-cases s and strips all whitespace
func NormalizeTicker(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, s)
}
