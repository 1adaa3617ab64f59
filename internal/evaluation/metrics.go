// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package evaluation

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Set is a set of relevant item IDs.
type Set map[any]struct{}

// NewSet builds a Set from ids.
func NewSet(ids ...any) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id any) bool {
	_, ok := s[id]
	return ok
}

// Metric scores one user's ranked recommendations against the items that
// user actually interacted with. Only the first k recommendations count.
type Metric func(recs []any, relevant Set, k int) float64

// cutoff returns the first k recommendations.
func cutoff(recs []any, k int) []any {
	if k < 0 {
		k = 0
	}
	if len(recs) > k {
		return recs[:k]
	}
	return recs
}

// HitRateAtK is 1 when any of the top k recommendations is relevant.
func HitRateAtK(recs []any, relevant Set, k int) float64 {
	for _, id := range cutoff(recs, k) {
		if relevant.Has(id) {
			return 1
		}
	}
	return 0
}

// PrecisionAtK is the share of the k slots filled with relevant items.
func PrecisionAtK(recs []any, relevant Set, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hits(cutoff(recs, k), relevant)) / float64(k)
}

// RecallAtK is the share of relevant items found in the top k.
func RecallAtK(recs []any, relevant Set, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(hits(cutoff(recs, k), relevant)) / float64(len(relevant))
}

// AveragePrecisionAtK averages precision at each relevant rank, normalized
// by min(|relevant|, k).
func AveragePrecisionAtK(recs []any, relevant Set, k int) float64 {
	top := cutoff(recs, k)
	denom := min(len(relevant), k)
	if denom == 0 {
		return 0
	}

	var sum float64
	found := 0
	for rank, id := range top {
		if relevant.Has(id) {
			found++
			sum += float64(found) / float64(rank+1)
		}
	}
	return sum / float64(denom)
}

// NDCGAtK is binary-gain discounted cumulative gain over the top k,
// normalized by the ideal ordering.
func NDCGAtK(recs []any, relevant Set, k int) float64 {
	top := cutoff(recs, k)

	var dcg float64
	for rank, id := range top {
		if relevant.Has(id) {
			dcg += 1 / math.Log2(float64(rank)+2)
		}
	}

	var idcg float64
	for rank := 0; rank < min(len(relevant), k); rank++ {
		idcg += 1 / math.Log2(float64(rank)+2)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func hits(recs []any, relevant Set) int {
	n := 0
	for _, id := range recs {
		if relevant.Has(id) {
			n++
		}
	}
	return n
}

var metricsByName = map[string]Metric{
	"hit_rate":  HitRateAtK,
	"precision": PrecisionAtK,
	"recall":    RecallAtK,
	"map":       AveragePrecisionAtK,
	"ndcg":      NDCGAtK,
}

// MetricByName resolves a metric by its configuration name.
func MetricByName(name string) (Metric, error) {
	m, ok := metricsByName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q (available: %s)", name, strings.Join(MetricNames(), ", "))
	}
	return m, nil
}

// MetricNames lists the names MetricByName accepts.
func MetricNames() []string {
	names := make([]string, 0, len(metricsByName))
	for name := range metricsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
