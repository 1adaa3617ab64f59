// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package evaluation

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/logging"
)

// Recommender is anything that produces ranked item IDs for a user.
type Recommender interface {
	Recommend(userID any, k int) []any
}

// Columns names the user and item columns of a test frame.
type Columns struct {
	User string
	Item string
}

// groundTruth returns users in first-appearance order and each user's
// relevant item set.
func groundTruth(f *data.Frame, cols Columns) ([]any, map[any]Set, error) {
	users, ok := f.Column(cols.User)
	if !ok {
		return nil, nil, &data.MissingColumnsError{Columns: []string{cols.User}}
	}
	items, ok := f.Column(cols.Item)
	if !ok {
		return nil, nil, &data.MissingColumnsError{Columns: []string{cols.Item}}
	}

	var order []any
	relevant := make(map[any]Set)
	for i, u := range users {
		if u == nil {
			continue
		}
		set, seen := relevant[u]
		if !seen {
			set = make(Set)
			relevant[u] = set
			order = append(order, u)
		}
		set[items[i]] = struct{}{}
	}
	return order, relevant, nil
}

// HitRate is the share of users for which at least one of the top k
// recommendations appears among that user's test items. A frame with no
// users scores 0.
func HitRate(m Recommender, f *data.Frame, cols Columns, k int) (float64, error) {
	return EvaluateBatch(f, m, k, HitRateAtK, cols)
}

// EvaluateBatch averages metric over every user in f. A frame with no users
// scores 0.
func EvaluateBatch(f *data.Frame, m Recommender, k int, metric Metric, cols Columns) (float64, error) {
	users, relevant, err := groundTruth(f, cols)
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, nil
	}

	var sum float64
	for _, u := range users {
		sum += metric(m.Recommend(u, k), relevant[u], k)
	}
	return sum / float64(len(users)), nil
}

// GroupFunc assigns a row to a stratum. Rows for which ok is false are
// left out of every stratum.
type GroupFunc func(f *data.Frame, row int) (key any, ok bool)

// GroupByColumn strata by the raw value of column.
func GroupByColumn(column string) GroupFunc {
	return func(f *data.Frame, row int) (any, bool) {
		v := f.Value(row, column)
		return v, v != nil
	}
}

// GroupByMonth strata by the calendar month ("2006-01", UTC) of a timestamp
// column. Accepted cell values are time.Time, RFC 3339 or date strings, and
// Unix seconds.
func GroupByMonth(column string) GroupFunc {
	return func(f *data.Frame, row int) (any, bool) {
		ts, ok := toTime(f.Value(row, column))
		if !ok {
			return nil, false
		}
		return ts.UTC().Format("2006-01"), true
	}
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case int64:
		return time.Unix(x, 0), true
	case float64:
		return time.Unix(int64(x), 0), true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
		if secs, err := strconv.ParseInt(x, 10, 64); err == nil {
			return time.Unix(secs, 0), true
		}
	}
	return time.Time{}, false
}

// StratifiedOptions controls Stratified.
type StratifiedOptions struct {
	K      int
	Metric Metric
	Cols   Columns
	Group  GroupFunc

	// MaxConcurrent bounds the number of strata evaluated at once.
	// Zero or less means unbounded.
	MaxConcurrent int
}

// Stratified partitions f with opts.Group and scores each stratum with
// EvaluateBatch. Strata are evaluated concurrently; m must be safe for
// concurrent Recommend calls.
func Stratified(ctx context.Context, f *data.Frame, m Recommender, opts StratifiedOptions) (map[any]float64, error) {
	if opts.Group == nil {
		return nil, fmt.Errorf("stratified evaluation: group function is required")
	}
	if opts.Metric == nil {
		opts.Metric = HitRateAtK
	}

	var keys []any
	rows := make(map[any][]int)
	for i := 0; i < f.Len(); i++ {
		key, ok := opts.Group(f, i)
		if !ok {
			continue
		}
		if _, seen := rows[key]; !seen {
			keys = append(keys, key)
		}
		rows[key] = append(rows[key], i)
	}

	logging.Ctx(ctx).Debug().
		Str("component", "evaluation").
		Int("strata", len(keys)).
		Msg("stratified evaluation started")

	var (
		mu      sync.Mutex
		results = make(map[any]float64, len(keys))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	if opts.MaxConcurrent > 0 {
		eg.SetLimit(opts.MaxConcurrent)
	}

	for _, key := range keys {
		members := rows[key]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			next := 0
			subset := f.Filter(func(i int) bool {
				if next < len(members) && members[next] == i {
					next++
					return true
				}
				return false
			})

			score, err := EvaluateBatch(subset, m, opts.K, opts.Metric, opts.Cols)
			if err != nil {
				return fmt.Errorf("stratum %v: %w", key, err)
			}

			mu.Lock()
			results[key] = score
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
