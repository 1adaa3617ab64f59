// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package algorithms implements the recommender variants.
//
// # Variants
//
//   - mf: latent-factor matrix factorization trained with plain SGD
//   - top_popular: non-personalized ranking by interaction count
//
// Both implement recommend.Model and are registered by RegisterBuiltins.
//
// # Matrix Factorization
//
// Users and items are mapped to dense rows by IDIndex in first-seen order.
// Factors are gonum dense matrices initialized from N(0, 0.1^2) with a
// seeded source, so a fixed seed and table order give reproducible models.
// Recommend scores every item with one matrix-vector product and selects
// the top k with a bounded heap.
//
// # Thread Safety
//
// Training acquires an exclusive lock while prediction uses a shared lock.
package algorithms
