// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/logging"
	"github.com/tomtom215/recsys/internal/recommend"
	"github.com/tomtom215/recsys/internal/validation"
)

// Config is the complete toolkit configuration.
type Config struct {
	Logging    logging.Config   `koanf:"logging"`
	Model      ModelConfig      `koanf:"model"`
	Data       DataConfig       `koanf:"data"`
	Storage    StorageConfig    `koanf:"storage"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
}

// ModelConfig selects a registered model variant and its options.
type ModelConfig struct {
	// Name is the registry name (e.g. "mf", "top_popular").
	Name string `koanf:"name" validate:"required"`

	// Params are passed to the variant's constructor after schema checks.
	Params map[string]any `koanf:"params,omitempty"`
}

// Spec returns the model selection as a registry spec.
func (m ModelConfig) Spec() recommend.ModelSpec {
	return recommend.ModelSpec{Model: m.Name, Params: recommend.Params(m.Params)}
}

// DataConfig describes where interactions come from and how they are laid out.
type DataConfig struct {
	// URI is a file path or connector URI (csv://, json://, parquet://,
	// sqlite://, postgres://, s3://).
	URI string `koanf:"uri"`

	UserCol      string `koanf:"user_col" validate:"required"`
	ItemCol      string `koanf:"item_col" validate:"required"`
	RatingCol    string `koanf:"rating_col" validate:"required"`
	TimestampCol string `koanf:"timestamp_col"`

	// Query is the SQL statement for database URIs.
	Query string `koanf:"query"`

	// Table is read in full from SQLite sources when Query is empty.
	Table string `koanf:"table"`

	// Filter is an optional CEL expression; only rows for which it is true are kept.
	Filter string `koanf:"filter"`

	// Normalize lists numeric columns to min-max scale before training.
	Normalize []string `koanf:"normalize"`
}

// Schema returns the column layout as a data.Schema.
func (d DataConfig) Schema() data.Schema {
	return data.Schema{
		User:      d.UserCol,
		Item:      d.ItemCol,
		Rating:    d.RatingCol,
		Timestamp: d.TimestampCol,
	}
}

// Pipeline builds the load pipeline described by d, using s3 for s3:// URIs.
// The connector is cached: repeated runs reuse the first load until the
// *data.Cached connector is refreshed.
func (d DataConfig) Pipeline(s3 data.S3Options) (*data.Pipeline, error) {
	conn, err := data.Open(d.URI, data.Options{Query: d.Query, Table: d.Table, S3: s3})
	if err != nil {
		return nil, err
	}

	schema := d.Schema()
	p := &data.Pipeline{Connector: data.NewCached(conn), Schema: &schema}
	if d.Filter != "" {
		p.Transforms = append(p.Transforms, &data.Filter{Expr: d.Filter})
	}
	if len(d.Normalize) > 0 {
		p.Transforms = append(p.Transforms, &data.MinMaxScaler{Columns: d.Normalize})
	}
	return p, nil
}

// StorageConfig locates persisted models.
type StorageConfig struct {
	// BaseDir is the root of the versioned model store.
	BaseDir string `koanf:"base_dir" validate:"required"`

	// ModelName is the default versioned-store name.
	ModelName string `koanf:"model_name" validate:"omitempty,modelname"`

	// S3 holds object storage credentials used by s3:// data URIs.
	S3 data.S3Options `koanf:"s3"`
}

// EvaluationConfig sets offline evaluation defaults.
type EvaluationConfig struct {
	K      int    `koanf:"k" validate:"min=1"`
	Metric string `koanf:"metric" validate:"oneof=hit_rate precision recall map ndcg"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and the environment.
func defaultConfig() *Config {
	return &Config{
		Logging: logging.Config{
			Level:     "info",
			Format:    "console",
			Timestamp: true,
		},
		Model: ModelConfig{
			Name: "mf",
		},
		Data: DataConfig{
			UserCol:      "user_id",
			ItemCol:      "item_id",
			RatingCol:    "rating",
			TimestampCol: "timestamp",
		},
		Storage: StorageConfig{
			BaseDir:   "models",
			ModelName: "default",
			S3: data.S3Options{
				Endpoint: "s3.amazonaws.com",
				UseSSL:   true,
			},
		},
		Evaluation: EvaluationConfig{
			K:      10,
			Metric: "hit_rate",
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Validate checks struct-tag constraints.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
