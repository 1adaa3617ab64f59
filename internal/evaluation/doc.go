// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package evaluation scores recommenders offline against held-out
// interactions.
//
// Per-user metrics (HitRateAtK, PrecisionAtK, RecallAtK,
// AveragePrecisionAtK, NDCGAtK) compare a ranked list with the set of items
// the user interacted with in the test frame. EvaluateBatch averages a metric
// over users; Stratified does the same per stratum, for example per country
// column or per calendar month:
//
//	scores, err := evaluation.Stratified(ctx, test, model, evaluation.StratifiedOptions{
//	    K:      10,
//	    Metric: evaluation.NDCGAtK,
//	    Cols:   evaluation.Columns{User: "user_id", Item: "item_id"},
//	    Group:  evaluation.GroupByMonth("timestamp"),
//	})
package evaluation
