// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// JSONConnector reads either a JSON array of objects or JSON lines.
type JSONConnector struct {
	Path string
}

// Load reads the file at Path.
func (c *JSONConnector) Load(ctx context.Context) (*Frame, error) {
	f, err := os.Open(c.Path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	return ReadJSON(ctx, f)
}

// ReadJSON decodes records from r. A leading '[' selects array mode;
// anything else is treated as a stream of objects.
func ReadJSON(ctx context.Context, r io.Reader) (*Frame, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return NewFrame(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	if first == '[' {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read json array: %w", err)
		}
	}

	frame := NewFrame()
	for n := 0; dec.More(); n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("decode json record %d: %w", n, err)
		}
		for k, v := range obj {
			if num, ok := v.(json.Number); ok {
				obj[k] = fromJSONNumber(num)
			}
		}
		frame.AppendMap(obj)
	}
	return frame, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
