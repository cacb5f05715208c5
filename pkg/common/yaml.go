package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a YAML file parses to nothing.
var ErrEmptyDocument = errors.New("yaml file is empty")

// Document is a parsed YAML mapping. yaml.v3 decodes nested mappings into the
// root's map type, so nested sections are Documents too.
type Document map[string]any

// Keys returns the top-level keys in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Section returns the nested mapping stored under key.
func (d Document) Section(key string) (map[string]any, bool) {
	raw, ok := d[key]
	if !ok {
		return nil, false
	}
	switch section := raw.(type) {
	case Document:
		return section, true
	case map[string]any:
		return section, true
	}
	return nil, false
}

// ReadYAML reads the YAML mapping at path.
// It fails if the file is missing, unparseable, empty, or its root is not a mapping.
func ReadYAML(logger *slog.Logger, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read yaml file %s: %w", path, err)
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
		}
		return nil, fmt.Errorf("failed to parse yaml file %s: %w", path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	if logger != nil {
		logger.Info(fmt.Sprintf("Yaml file: %s loaded successfully", path))
	}
	return doc, nil
}
