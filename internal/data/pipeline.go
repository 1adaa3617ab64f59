// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/recsys/internal/logging"
)

// Pipeline loads a dataset, optionally validates it against a schema, and
// runs it through an ordered list of transforms.
type Pipeline struct {
	Connector  Connector
	Schema     *Schema
	Transforms []Transformer
}

// Run executes the pipeline. When fit is true each transform is fitted on
// the frame it receives before being applied; otherwise previously fitted
// transforms are reused.
func (p *Pipeline) Run(ctx context.Context, validate, fit bool) (*Frame, error) {
	if p.Connector == nil {
		return nil, errors.New("pipeline: no connector configured")
	}
	start := time.Now()

	frame, err := p.Connector.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}

	// An empty source (e.g. a JSON file holding []) carries no column names.
	if frame.Len() == 0 && p.Schema != nil {
		p.Schema.addColumns(frame)
	}

	if validate && p.Schema != nil {
		if err := p.Schema.Validate(frame); err != nil {
			return nil, err
		}
	}

	for i, t := range p.Transforms {
		if fit {
			frame, err = FitTransform(t, frame)
		} else {
			frame, err = t.Transform(frame)
		}
		if err != nil {
			return nil, fmt.Errorf("transform %d (%T): %w", i, t, err)
		}
	}

	logging.Ctx(ctx).Debug().
		Str("component", "pipeline").
		Int("rows", frame.Len()).
		Int("transforms", len(p.Transforms)).
		Dur("duration", time.Since(start)).
		Msg("pipeline finished")

	return frame, nil
}
