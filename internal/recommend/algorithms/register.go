// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"github.com/tomtom215/recsys/internal/recommend"
)

// RegisterBuiltins adds every built-in variant to r.
func RegisterBuiltins(r *recommend.Registry) {
	r.Register("mf", recommend.Entry{
		New: func(p recommend.Params) (recommend.Model, error) {
			return NewMatrixFactorization(MFConfigFromParams(p))
		},
		Params:      MFParams,
		Description: "matrix factorization trained with SGD on explicit ratings",
	})
	r.Register("top_popular", recommend.Entry{
		New: func(p recommend.Params) (recommend.Model, error) {
			return NewTopPopular(p.GetString("item_col", "item_id"))
		},
		Params:      TopPopularParams,
		Description: "non-personalized ranking by interaction count",
	})
}

// NewRegistry returns a registry with the built-in variants registered.
func NewRegistry() *recommend.Registry {
	r := recommend.NewRegistry()
	RegisterBuiltins(r)
	return r
}
