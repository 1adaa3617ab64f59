// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tomtom215/recsys/internal/evaluation"
	"github.com/tomtom215/recsys/internal/logging"
	"github.com/tomtom215/recsys/internal/metrics"
)

type evaluateOptions struct {
	Source       modelSource
	Input        string
	Columns      columnFlags
	K            int
	Metric       string
	GroupBy      string
	GroupByMonth string
	Parallel     int
}

func newEvaluateCommand(a *app) *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a saved model against held-out interactions",
		Long: `Score a saved model against held-out interactions.

Every user in the input is a query; the items they interacted with are the
relevant set. Scores are averaged over users. With --group-by or
--group-by-month the input is also split into strata and each is scored
separately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runEvaluate(cmd, opts)
		},
	}

	bindSourceFlags(cmd, &opts.Source)
	bindColumnFlags(cmd, &opts.Columns)
	f := cmd.Flags()
	f.StringVar(&opts.Input, "input", "", "test interactions path or URI (default: data.uri)")
	f.IntVar(&opts.K, "k", 0, "cutoff (default: evaluation.k)")
	f.StringVar(&opts.Metric, "metric", "", "hit_rate, precision, recall, map or ndcg (default: evaluation.metric)")
	f.StringVar(&opts.GroupBy, "group-by", "", "also report scores per value of this column")
	f.StringVar(&opts.GroupByMonth, "group-by-month", "", "also report scores per calendar month of this timestamp column")
	f.IntVar(&opts.Parallel, "parallel", 4, "strata evaluated concurrently")
	cmd.MarkFlagsMutuallyExclusive("group-by", "group-by-month")
	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	ctx := cmd.Context()
	a.applyColumns(opts.Columns)

	k := a.cfg.Evaluation.K
	if opts.K != 0 {
		k = opts.K
	}
	if k < 1 {
		return fmt.Errorf("--k must be at least 1, got %d", k)
	}
	metricName := a.cfg.Evaluation.Metric
	if opts.Metric != "" {
		metricName = opts.Metric
	}
	metric, err := evaluation.MetricByName(metricName)
	if err != nil {
		return err
	}

	m, err := a.loadModel(ctx, opts.Source)
	if err != nil {
		return err
	}
	if !m.IsTrained() {
		return errors.New("model is not trained")
	}
	frame, err := a.loadFrame(ctx, opts.Input)
	if err != nil {
		return err
	}

	cols := evaluation.Columns{User: a.cfg.Data.UserCol, Item: a.cfg.Data.ItemCol}
	score, err := evaluation.EvaluateBatch(frame, m, k, metric, cols)
	if err != nil {
		return err
	}
	metrics.RecordEvaluation(m.Name(), metricName, score)
	logging.Ctx(ctx).Info().
		Str("model", m.Name()).
		Str("metric", metricName).
		Int("k", k).
		Float64("score", score).
		Msg("evaluation finished")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s@%d: %.4f\n", metricName, k, score)

	var group evaluation.GroupFunc
	switch {
	case opts.GroupBy != "":
		group = evaluation.GroupByColumn(opts.GroupBy)
	case opts.GroupByMonth != "":
		group = evaluation.GroupByMonth(opts.GroupByMonth)
	default:
		return nil
	}

	strata, err := evaluation.Stratified(ctx, frame, m, evaluation.StratifiedOptions{
		K:             k,
		Metric:        metric,
		Cols:          cols,
		Group:         group,
		MaxConcurrent: opts.Parallel,
	})
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(strata))
	byKey := make(map[string]float64, len(strata))
	for key, s := range strata {
		label := fmt.Sprint(key)
		keys = append(keys, label)
		byKey[label] = s
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "  %s: %.4f\n", key, byKey[key])
	}
	return nil
}
