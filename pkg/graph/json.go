package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/btg/pkg/errors"
)

// Marshal encodes a Description as indented JSON.
// The output is stable for a given description and is used as cache key input.
func Marshal(d Description) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes a Description as indented JSON to w.
func WriteJSON(d Description, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a Description to a JSON file at path.
func WriteFile(d Description, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ReadJSON decodes and validates a Description from r.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Description, error) {
	var d Description
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Description{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode")
	}
	if err := d.Validate(); err != nil {
		return Description{}, err
	}
	return d, nil
}

// ReadFile reads and validates a Description from a JSON file.
func ReadFile(path string) (Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return Description{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
