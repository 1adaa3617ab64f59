// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package config loads toolkit configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. A YAML file: the path given to Load, else $RECSYS_CONFIG, else the
//     first of recsys.yaml, recsys.yml, config.yaml, config.yml found
//  3. RECSYS_* environment variables
//
// Environment names map to keys by stripping the prefix, lowercasing, and
// turning "__" into a nesting level:
//
//	RECSYS_LOGGING__LEVEL=debug             -> logging.level
//	RECSYS_DATA__URI=s3://bucket/ratings.csv -> data.uri
//	RECSYS_DATA__NORMALIZE=rating,weight     -> data.normalize (comma list)
//	RECSYS_MODEL__PARAMS__FACTORS=32         -> model.params.factors
//
// Example file:
//
//	model:
//	  name: mf
//	  params:
//	    factors: 32
//	    epochs: 20
//	    lr: 0.005
//	data:
//	  uri: postgres://recsys@db/ratings
//	  query: SELECT user_id, item_id, rating FROM ratings
//	  filter: rating >= 1
//	storage:
//	  base_dir: /var/lib/recsys/models
//	  model_name: ratings
//	evaluation:
//	  k: 10
//	  metric: ndcg
//
// The result is validated with struct tags through internal/validation.
//
// LoadModelSpec reads a standalone {model, params} document in YAML or JSON.
package config
