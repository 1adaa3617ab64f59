// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/recommend"
)

// TopPopularParams is the declared parameter schema of the "top_popular" variant.
var TopPopularParams = recommend.ParamSchema{
	{Name: "item_col", Kind: recommend.KindString, Default: "item_id", Help: "item identifier column"},
}

// TopPopular ranks items by interaction count and recommends the same list
// to every user. It is the non-personalized baseline:
//
//	score(item) = number of rows mentioning item
//
// Ties keep the order in which items first appear in the training data.
type TopPopular struct {
	BaseAlgorithm
	itemCol string

	// sortedItems holds item IDs by descending count.
	sortedItems []any
	counts      []int
}

// NewTopPopular creates an untrained popularity model reading itemCol.
func NewTopPopular(itemCol string) (*TopPopular, error) {
	if itemCol == "" {
		return nil, fmt.Errorf("%w: item_col must be non-empty", recommend.ErrInvalidParameter)
	}
	return &TopPopular{
		BaseAlgorithm: NewBaseAlgorithm("top_popular"),
		itemCol:       itemCol,
	}, nil
}

// Params returns the configuration as registry parameters.
func (p *TopPopular) Params() recommend.Params {
	return recommend.Params{"item_col": p.itemCol}
}

// Fit counts interactions per item.
func (p *TopPopular) Fit(ctx context.Context, f *data.Frame) error {
	p.acquireTrainLock()
	defer p.releaseTrainLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	items, ok := f.Column(p.itemCol)
	if !ok {
		return fmt.Errorf("top_popular fit: %w", &data.MissingColumnsError{Columns: []string{p.itemCol}})
	}

	index := NewIDIndex()
	var counts []float64
	for _, id := range items {
		row := index.AddItem(id)
		if row == len(counts) {
			counts = append(counts, 0)
		}
		counts[row]++
	}

	rows := topK(counts, len(counts))
	p.sortedItems = make([]any, len(rows))
	p.counts = make([]int, len(rows))
	for n, row := range rows {
		p.sortedItems[n] = index.ItemAt(row)
		p.counts[n] = int(counts[row])
	}

	p.markTrained()
	return nil
}

// Recommend returns the k most popular items. The user is ignored.
func (p *TopPopular) Recommend(_ any, k int) []any {
	p.acquirePredictLock()
	defer p.releasePredictLock()

	if !p.trained || k <= 0 || len(p.sortedItems) == 0 {
		return []any{}
	}
	if k > len(p.sortedItems) {
		k = len(p.sortedItems)
	}
	out := make([]any, k)
	copy(out, p.sortedItems[:k])
	return out
}

// popularityState is the serializable state of a TopPopular model.
type popularityState struct {
	Base    baseState
	ItemCol string
	Items   []any
	Counts  []int
}

// MarshalState encodes the ranked item list.
func (p *TopPopular) MarshalState() ([]byte, error) {
	p.acquirePredictLock()
	defer p.releasePredictLock()

	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(popularityState{
		Base:    p.snapshotBase(),
		ItemCol: p.itemCol,
		Items:   p.sortedItems,
		Counts:  p.counts,
	})
	if err != nil {
		return nil, fmt.Errorf("encode top_popular state: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalState replaces the model wholesale with a decoded snapshot.
func (p *TopPopular) UnmarshalState(b []byte) error {
	var s popularityState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&s); err != nil {
		return fmt.Errorf("decode top_popular state: %w", err)
	}
	if len(s.Items) != len(s.Counts) {
		return fmt.Errorf("decode top_popular state: %d items but %d counts", len(s.Items), len(s.Counts))
	}

	p.acquireTrainLock()
	defer p.releaseTrainLock()

	p.itemCol = s.ItemCol
	p.sortedItems = s.Items
	p.counts = s.Counts
	p.restoreTrained(s.Base)
	return nil
}
