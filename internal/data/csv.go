// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVConnector reads a comma-separated file with a header row.
// Cell types are inferred per value with ParseValue.
type CSVConnector struct {
	Path string
}

// Load reads the file at Path.
func (c *CSVConnector) Load(ctx context.Context) (*Frame, error) {
	f, err := os.Open(c.Path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	return ReadCSV(ctx, f)
}

// ReadCSV parses CSV with a header row from r.
func ReadCSV(ctx context.Context, r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return NewFrame(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	frame := NewFrame(header...)
	if len(frame.columns) != len(header) {
		return nil, fmt.Errorf("read csv header: duplicate column names")
	}

	row := make([]any, len(header))
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		for i, v := range rec {
			row[i] = ParseValue(v)
		}
		if err := frame.Append(row...); err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
	}
	return frame, nil
}
