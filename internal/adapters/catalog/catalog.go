// Package catalog loads the genres, types and themes the filters screen offers.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"riconnect/internal/domain"
)

//go:embed filters.yaml
var defaultCatalog []byte

// Default returns the built-in catalog.
func Default() domain.FilterCatalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded filters.yaml: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (domain.FilterCatalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.FilterCatalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Unknown keys are rejected; entries are trimmed
// and de-duplicated case-insensitively, keeping the first spelling.
func Parse(data []byte) (domain.FilterCatalog, error) {
	var c domain.FilterCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return domain.FilterCatalog{}, fmt.Errorf("catalog: decode: %w", err)
	}

	var err error
	if c.Genres, err = clean("genres", c.Genres); err != nil {
		return domain.FilterCatalog{}, err
	}
	if c.Types, err = clean("types", c.Types); err != nil {
		return domain.FilterCatalog{}, err
	}
	if c.Themes, err = clean("themes", c.Themes); err != nil {
		return domain.FilterCatalog{}, err
	}
	return c, nil
}

func clean(facet string, tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return nil, fmt.Errorf("catalog: empty entry in %s: %w", facet, domain.ErrInvalidInput)
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}
