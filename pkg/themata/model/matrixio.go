package model

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// WriteMatrixFile serializes m to path in gonum's binary encoding. Concrete
// model kinds use it for the matrix files their records point at.
func WriteMatrixFile(path string, m *mat.Dense) error {
	raw, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadMatrixFile reads a matrix written by WriteMatrixFile.
func ReadMatrixFile(path string) (*mat.Dense, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var m mat.Dense
	if err := m.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}
