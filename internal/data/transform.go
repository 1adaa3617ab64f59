// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"fmt"
)

// Transformer is a fit-then-apply frame transformation.
type Transformer interface {
	Fit(f *Frame) error
	Transform(f *Frame) (*Frame, error)
}

// FitTransform fits t on f and applies it.
func FitTransform(t Transformer, f *Frame) (*Frame, error) {
	if err := t.Fit(f); err != nil {
		return nil, err
	}
	return t.Transform(f)
}

// minMaxEpsilon keeps constant columns from dividing by zero.
const minMaxEpsilon = 1e-8

// MinMaxScaler rescales numeric columns to roughly [0, 1] using
// (x - min) / (max - min + 1e-8). Nil cells pass through unchanged.
type MinMaxScaler struct {
	Columns []string

	mins map[string]float64
	maxs map[string]float64
}

// Fit records each column's minimum and maximum.
func (s *MinMaxScaler) Fit(f *Frame) error {
	mins := make(map[string]float64, len(s.Columns))
	maxs := make(map[string]float64, len(s.Columns))
	for _, name := range s.Columns {
		col, ok := f.Column(name)
		if !ok {
			return &MissingColumnsError{Columns: []string{name}}
		}
		first := true
		for i, v := range col {
			if v == nil {
				continue
			}
			x, ok := ToFloat(v)
			if !ok {
				return fmt.Errorf("minmax %q row %d: %v is not numeric", name, i, v)
			}
			if first || x < mins[name] {
				mins[name] = x
			}
			if first || x > maxs[name] {
				maxs[name] = x
			}
			first = false
		}
	}
	s.mins, s.maxs = mins, maxs
	return nil
}

// Transform returns a copy of f with the fitted columns rescaled.
func (s *MinMaxScaler) Transform(f *Frame) (*Frame, error) {
	if s.mins == nil {
		return nil, ErrNotFitted
	}
	out := f.Clone()
	for _, name := range s.Columns {
		col, ok := f.Column(name)
		if !ok {
			return nil, &MissingColumnsError{Columns: []string{name}}
		}
		lo, hi := s.mins[name], s.maxs[name]
		scaled := make([]any, len(col))
		for i, v := range col {
			if v == nil {
				continue
			}
			x, ok := ToFloat(v)
			if !ok {
				return nil, fmt.Errorf("minmax %q row %d: %v is not numeric", name, i, v)
			}
			scaled[i] = (x - lo) / (hi - lo + minMaxEpsilon)
		}
		if err := out.SetColumn(name, scaled); err != nil {
			return nil, err
		}
	}
	return out, nil
}
