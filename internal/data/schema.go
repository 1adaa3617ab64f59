// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumns is returned when a frame lacks columns a schema requires.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrUnsupportedSource is returned when no connector handles a URI.
	ErrUnsupportedSource = errors.New("unsupported data source")

	// ErrNotFitted is returned when a transform is applied before Fit.
	ErrNotFitted = errors.New("transform not fitted")
)

// MissingColumnsError lists the columns absent from a frame.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

// Unwrap allows errors.Is(err, ErrMissingColumns).
func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// Schema names the interaction columns of a dataset. Timestamp is optional.
type Schema struct {
	User      string `koanf:"user_col" validate:"required"`
	Item      string `koanf:"item_col" validate:"required"`
	Rating    string `koanf:"rating_col"`
	Timestamp string `koanf:"timestamp_col"`
}

// DefaultSchema returns the conventional user_id/item_id/rating/timestamp layout.
func DefaultSchema() Schema {
	return Schema{
		User:      "user_id",
		Item:      "item_id",
		Rating:    "rating",
		Timestamp: "timestamp",
	}
}

// RequiredColumns returns the non-empty user, item and rating column names.
func (s Schema) RequiredColumns() []string {
	cols := make([]string, 0, 3)
	for _, c := range []string{s.User, s.Item, s.Rating} {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// addColumns adds the schema's columns that f lacks. f must be empty.
func (s Schema) addColumns(f *Frame) {
	cols := s.RequiredColumns()
	if s.Timestamp != "" {
		cols = append(cols, s.Timestamp)
	}
	for _, c := range cols {
		if !f.Has(c) {
			_ = f.SetColumn(c, []any{}) //nolint:errcheck // f has zero rows
		}
	}
}

// Validate checks that every required column exists in f.
func (s Schema) Validate(f *Frame) error {
	var missing []string
	for _, c := range s.RequiredColumns() {
		if !f.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}
