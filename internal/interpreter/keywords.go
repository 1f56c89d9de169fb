package interpreter

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// CategoryTable maps a canonical category name to its keyword aliases.
// Declaration order in the file is lookup order.
type CategoryTable struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CurrencyTable maps a currency code to its recognized aliases.
type CurrencyTable struct {
	Code    string   `yaml:"code"`
	Aliases []string `yaml:"aliases"`
}

// Keywords holds the full bilingual keyword configuration.
type Keywords struct {
	Currencies []CurrencyTable `yaml:"currencies"`
	Categories []CategoryTable `yaml:"categories"`
	Stopwords  []string        `yaml:"stopwords"`
	Yesterday  []string        `yaml:"yesterday"`
}

// DefaultKeywords parses the keyword tables embedded in the binary.
func DefaultKeywords() (*Keywords, error) {
	return parseKeywords(defaultKeywords)
}

// LoadKeywords reads keyword tables from an external file, allowing the
// tables to be changed without rebuilding.
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}
	return parseKeywords(data)
}

func parseKeywords(data []byte) (*Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("failed to parse keywords: %w", err)
	}
	if len(kw.Currencies) == 0 {
		return nil, fmt.Errorf("keywords config defines no currencies")
	}
	for i := range kw.Currencies {
		kw.Currencies[i].Code = strings.ToUpper(kw.Currencies[i].Code)
	}
	return &kw, nil
}
