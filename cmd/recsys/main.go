// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package main is the entry point for the recsys command-line tool.
//
// recsys trains latent-factor and popularity recommenders on tabular
// interaction data, persists them as flat files or numbered versions, and
// serves or evaluates top-k recommendations.
//
// # Commands
//
//	recsys train     fit a model and save it
//	recsys predict   print top-k recommendations for one user
//	recsys evaluate  score a saved model against held-out interactions
//	recsys versions  list (and optionally prune) saved versions
//
// # Configuration
//
// Settings are layered (highest priority wins):
//   - Command-line flags
//   - RECSYS_* environment variables (RECSYS_STORAGE__BASE_DIR=...)
//   - Config file (--config, $RECSYS_CONFIG, or ./recsys.yaml)
//   - Built-in defaults
//
// # Example Usage
//
// Flat mode:
//
//	recsys train --model mf --input ratings.csv --save-path mf.gob.gz --factors 16
//	recsys predict --model-path mf.gob.gz --user-id 1 --top-k 5
//
// Versioned mode:
//
//	recsys train --model mf --input ratings.csv --base-dir models --name ratings
//	recsys predict --base-dir models --name ratings --user-id 1
//	recsys evaluate --base-dir models --name ratings --input test.csv --metric ndcg --k 10
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the running command; training stops at the next
// epoch boundary without saving.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
