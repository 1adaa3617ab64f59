// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"errors"
	"testing"

	"github.com/tomtom215/recsys/internal/recommend"
	"github.com/tomtom215/recsys/internal/recommend/algorithms"
)

func TestLoadModelSpec(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reg := algorithms.NewRegistry()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		check   func(t *testing.T, spec recommend.ModelSpec)
	}{
		{
			name:    "yaml",
			file:    "mf.yaml",
			content: "model: mf\nparams:\n  factors: 8\n  lr: 0.02\n  shuffle: true\n",
			check: func(t *testing.T, spec recommend.ModelSpec) {
				m, err := reg.FromSpec(spec)
				if err != nil {
					t.Fatalf("FromSpec() error = %v", err)
				}
				cfg := m.(*algorithms.MatrixFactorization).Config()
				if cfg.NumFactors != 8 || cfg.LearningRate != 0.02 || !cfg.Shuffle {
					t.Errorf("config = %+v", cfg)
				}
			},
		},
		{
			name:    "json",
			file:    "mf.json",
			content: `{"model": "mf", "params": {"factors": 4, "epochs": 2}}`,
			check: func(t *testing.T, spec recommend.ModelSpec) {
				m, err := reg.FromSpec(spec)
				if err != nil {
					t.Fatalf("FromSpec() error = %v", err)
				}
				cfg := m.(*algorithms.MatrixFactorization).Config()
				if cfg.NumFactors != 4 || cfg.Epochs != 2 {
					t.Errorf("config = %+v", cfg)
				}
			},
		},
		{
			name:    "no params",
			file:    "pop.yml",
			content: "model: top_popular\n",
			check: func(t *testing.T, spec recommend.ModelSpec) {
				if _, err := reg.FromSpec(spec); err != nil {
					t.Errorf("FromSpec() error = %v", err)
				}
			},
		},
		{
			name:    "missing model key",
			file:    "empty.yaml",
			content: "params:\n  factors: 3\n",
			wantErr: ErrMissingModelKey,
		},
		{
			name:    "missing model key json",
			file:    "empty.json",
			content: `{"params": {}}`,
			wantErr: ErrMissingModelKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, dir, tt.file, tt.content)
			spec, err := LoadModelSpec(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadModelSpec() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadModelSpec() error = %v", err)
			}
			tt.check(t, spec)
		})
	}
}

func TestLoadModelSpec_Unreadable(t *testing.T) {
	t.Parallel()

	if _, err := LoadModelSpec("does-not-exist.yaml"); err == nil {
		t.Error("LoadModelSpec() on a missing file should fail")
	}
	path := writeConfig(t, t.TempDir(), "broken.json", `{"model": `)
	if _, err := LoadModelSpec(path); err == nil {
		t.Error("LoadModelSpec() on malformed JSON should fail")
	}
}
