// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/recsys/internal/recommend"
)

// ErrMissingModelKey is returned when a model spec has no "model" key.
var ErrMissingModelKey = errors.New(`model spec: missing "model" key`)

// LoadModelSpec reads a {model, params} document. Files ending in .json are
// decoded as JSON; anything else is parsed as YAML.
func LoadModelSpec(path string) (recommend.ModelSpec, error) {
	var (
		spec recommend.ModelSpec
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		spec, err = readJSONSpec(path)
	} else {
		spec, err = readYAMLSpec(path)
	}
	if err != nil {
		return recommend.ModelSpec{}, err
	}
	if spec.Model == "" {
		return recommend.ModelSpec{}, fmt.Errorf("%s: %w", path, ErrMissingModelKey)
	}
	return spec, nil
}

func readJSONSpec(path string) (recommend.ModelSpec, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return recommend.ModelSpec{}, fmt.Errorf("read model spec: %w", err)
	}

	var spec recommend.ModelSpec
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&spec); err != nil {
		return recommend.ModelSpec{}, fmt.Errorf("parse model spec %s: %w", path, err)
	}
	return spec, nil
}

func readYAMLSpec(path string) (recommend.ModelSpec, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return recommend.ModelSpec{}, fmt.Errorf("parse model spec %s: %w", path, err)
	}

	var spec recommend.ModelSpec
	if err := k.Unmarshal("", &spec); err != nil {
		return recommend.ModelSpec{}, fmt.Errorf("decode model spec %s: %w", path, err)
	}
	return spec, nil
}
