// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus instrumentation for model training,
serving, and persistence.

# Available Metrics

Training:
  - recsys_fit_duration_seconds: Fit wall time (histogram)
    Labels: model
  - recsys_fit_total: Fits by outcome (counter)
    Labels: model, status (success, error, canceled)
  - recsys_fit_interactions: Interactions seen by the last fit (gauge)
    Labels: model

Serving:
  - recsys_recommend_requests_total: Recommendation calls (counter)
    Labels: model, result (hit, cold)

Persistence:
  - recsys_model_saves_total: Snapshot writes (counter)
    Labels: mode (flat, versioned)
  - recsys_model_loads_total: Snapshot loads (counter)
    Labels: mode, status
  - recsys_model_snapshot_bytes: Compressed snapshot size (histogram)

Evaluation:
  - recsys_evaluation_score: Last offline score (gauge)
    Labels: model, metric

All collectors register with the default Prometheus registry via promauto.
The CLI can dump them in text format with --metrics-out.
*/
package metrics
