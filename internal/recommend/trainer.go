// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/logging"
	"github.com/tomtom215/recsys/internal/metrics"
)

// indexed is implemented by models that map user and item IDs during Fit.
type indexed interface {
	NumUsers() int
	NumItems() int
}

// Train fits m on f, tagging the run with a run ID and recording
// duration and outcome metrics.
func Train(ctx context.Context, m Model, f *data.Frame) (TrainingStatus, error) {
	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.GenerateRunID()
		ctx = logging.ContextWithRunID(ctx, runID)
	}
	logger := logging.Ctx(ctx).With().
		Str("component", "trainer").
		Str("model", m.Name()).
		Logger()

	status := TrainingStatus{
		Model:            m.Name(),
		RunID:            runID,
		InteractionCount: f.Len(),
	}

	epochs := m.Params().GetInt("epochs", 0)
	status.Epochs = epochs

	event := logger.Info().Int("interactions", f.Len())
	if epochs > 0 {
		event = event.Int("epochs", epochs)
	}
	event.Msg("training started")
	start := time.Now()

	err := m.Fit(ctx, f)

	status.Duration = time.Since(start)
	metrics.RecordFit(m.Name(), f.Len(), status.Duration, err)

	if err != nil {
		status.Error = err.Error()
		logger.Error().Err(err).Dur("duration", status.Duration).Msg("training failed")
		return status, err
	}

	event = logger.Info().Dur("duration", status.Duration)
	if x, ok := m.(indexed); ok {
		status.Users, status.Items = x.NumUsers(), x.NumItems()
		event = event.Int("users", status.Users).Int("items", status.Items)
	}
	event.Msg("training finished")
	return status, nil
}

// Recommend serves a recommendation and records whether it was a cold miss.
func Recommend(m Model, userID any, k int) []any {
	recs := m.Recommend(userID, k)
	metrics.RecordRecommend(m.Name(), len(recs))
	return recs
}
