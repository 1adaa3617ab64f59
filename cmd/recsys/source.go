// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/recommend"
	"github.com/tomtom215/recsys/internal/recommend/storage"
)

// modelSource locates a persisted model: a flat file, or a version in a store.
type modelSource struct {
	Model     string
	ModelPath string
	BaseDir   string
	Name      string
	Version   int
}

func bindSourceFlags(cmd *cobra.Command, src *modelSource) {
	f := cmd.Flags()
	f.StringVar(&src.Model, "model", "", "expected model variant; loading fails if the saved model differs")
	f.StringVar(&src.ModelPath, "model-path", "", "flat model file (overrides the versioned store)")
	f.StringVar(&src.BaseDir, "base-dir", "", "versioned store directory (default: storage.base_dir)")
	f.StringVar(&src.Name, "name", "", "versioned model name (default: storage.model_name)")
	f.IntVar(&src.Version, "version", 0, "version to load (0 = latest)")
}

// columnFlags override the configured column names.
type columnFlags struct {
	User   string
	Item   string
	Rating string
}

func bindColumnFlags(cmd *cobra.Command, cols *columnFlags) {
	f := cmd.Flags()
	f.StringVar(&cols.User, "user-col", "", "user ID column (default: data.user_col)")
	f.StringVar(&cols.Item, "item-col", "", "item ID column (default: data.item_col)")
	f.StringVar(&cols.Rating, "rating-col", "", "rating column (default: data.rating_col)")
}

func (a *app) applyColumns(cols columnFlags) {
	if cols.User != "" {
		a.cfg.Data.UserCol = cols.User
	}
	if cols.Item != "" {
		a.cfg.Data.ItemCol = cols.Item
	}
	if cols.Rating != "" {
		a.cfg.Data.RatingCol = cols.Rating
	}
}

func (a *app) storeFor(baseDir string) (*storage.Store, error) {
	if baseDir == "" {
		baseDir = a.cfg.Storage.BaseDir
	}
	return storage.NewStore(baseDir)
}

func (a *app) modelName(name string) (string, error) {
	if name == "" {
		name = a.cfg.Storage.ModelName
	}
	if name == "" {
		return "", errors.New("--name is required when storage.model_name is not configured")
	}
	return name, nil
}

// loadModel restores the model described by src.
func (a *app) loadModel(ctx context.Context, src modelSource) (recommend.Model, error) {
	var expected recommend.Model
	if src.Model != "" {
		m, err := a.registry.Instantiate(src.Model, nil)
		if err != nil {
			return nil, err
		}
		expected = m
	}

	if src.ModelPath != "" {
		if expected != nil {
			return expected, storage.LoadFile(src.ModelPath, expected)
		}
		return storage.OpenFile(src.ModelPath, a.registry)
	}

	store, err := a.storeFor(src.BaseDir)
	if err != nil {
		return nil, err
	}
	name, err := a.modelName(src.Name)
	if err != nil {
		return nil, err
	}
	if expected != nil {
		return expected, store.Load(ctx, name, src.Version, expected)
	}
	return store.Open(ctx, name, src.Version, a.registry)
}

// loadFrame runs the configured data pipeline, reading input if set.
func (a *app) loadFrame(ctx context.Context, input string) (*data.Frame, error) {
	d := a.cfg.Data
	if input != "" {
		d.URI = input
	}
	if d.URI == "" {
		return nil, errors.New("--input is required when data.uri is not configured")
	}

	p, err := d.Pipeline(a.cfg.Storage.S3)
	if err != nil {
		return nil, err
	}
	if c, ok := p.Connector.(io.Closer); ok {
		defer c.Close()
	}
	// Column checks are left to the model, which knows which columns it reads.
	f, err := p.Run(ctx, false, true)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", d.URI, err)
	}
	return f, nil
}

// formatIDs renders item IDs as [a, b, c].
func formatIDs(ids []any) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
