package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// exercisesYAML is the curated catalog. It is authored as UTF-8 so names need no repair at runtime.
//
//go:embed exercises.yaml
var exercisesYAML []byte

type catalogDocument struct {
	Exercises []Exercise `yaml:"exercises"`
}

// Default returns the built-in curated catalog.
func Default() (*Catalog, error) {
	c, err := Load(bytes.NewReader(exercisesYAML))
	if err != nil {
		return nil, fmt.Errorf("load embedded catalog: %w", err)
	}
	return c, nil
}

// Load decodes a YAML catalog document. Unknown keys and non UTF-8 text are rejected.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: catalog is not valid UTF-8", ErrInvalidRecord)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc catalogDocument
	if err = dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c, err := New(doc.Exercises)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return c, nil
}
