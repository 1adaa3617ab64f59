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
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/recommend"
)

// UpdateRule selects how a training step applies the user and item deltas.
type UpdateRule string

const (
	// UpdateSymmetric computes both deltas from the pre-step factor rows.
	UpdateSymmetric UpdateRule = "symmetric"

	// UpdateSequential updates the user row first and computes the item
	// delta from the already-updated user row.
	UpdateSequential UpdateRule = "sequential"
)

// TrainState is the lifecycle stage of a MatrixFactorization.
type TrainState int

const (
	StateUninitialized TrainState = iota
	StateIndexBuilt
	StateFactorsInitialized
	StateTraining
	StateFitted
)

// String returns the string representation of the state.
func (s TrainState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIndexBuilt:
		return "index_built"
	case StateFactorsInitialized:
		return "factors_initialized"
	case StateTraining:
		return "training"
	case StateFitted:
		return "fitted"
	default:
		return "unknown"
	}
}

// MFConfig contains configuration for matrix factorization.
type MFConfig struct {
	// Column names read from the training frame.
	UserCol   string
	ItemCol   string
	RatingCol string

	// NumFactors is the latent dimension d.
	// Default: 10.
	NumFactors int

	// LearningRate is the SGD step size.
	// Default: 0.01.
	LearningRate float64

	// Epochs is the exact number of passes over the data. No early stopping.
	// Default: 10.
	Epochs int

	// Seed drives factor initialization and optional shuffling.
	// Default: 42.
	Seed int64

	// Shuffle visits records in a seeded random order each epoch instead
	// of table order.
	Shuffle bool

	// UpdateRule selects symmetric or sequential row updates.
	// Default: symmetric.
	UpdateRule UpdateRule
}

// DefaultMFConfig returns default matrix factorization configuration.
func DefaultMFConfig() MFConfig {
	return MFConfig{
		UserCol:      "user_id",
		ItemCol:      "item_id",
		RatingCol:    "rating",
		NumFactors:   10,
		LearningRate: 0.01,
		Epochs:       10,
		Seed:         42,
		UpdateRule:   UpdateSymmetric,
	}
}

func (c MFConfig) validate() error {
	if c.NumFactors <= 0 {
		return fmt.Errorf("%w: factors must be positive, got %d", recommend.ErrInvalidParameter, c.NumFactors)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive, got %d", recommend.ErrInvalidParameter, c.Epochs)
	}
	// Written as !(lr > 0) so NaN is rejected too.
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return fmt.Errorf("%w: lr must be positive, got %v", recommend.ErrInvalidParameter, c.LearningRate)
	}
	switch c.UpdateRule {
	case UpdateSymmetric, UpdateSequential:
	default:
		return fmt.Errorf("%w: update_rule must be %q or %q, got %q",
			recommend.ErrInvalidParameter, UpdateSymmetric, UpdateSequential, c.UpdateRule)
	}
	if c.UserCol == "" || c.ItemCol == "" || c.RatingCol == "" {
		return fmt.Errorf("%w: column names must be non-empty", recommend.ErrInvalidParameter)
	}
	return nil
}

// MFParams is the declared parameter schema of the "mf" variant.
var MFParams = recommend.ParamSchema{
	{Name: "user_col", Kind: recommend.KindString, Default: "user_id", Help: "user identifier column"},
	{Name: "item_col", Kind: recommend.KindString, Default: "item_id", Help: "item identifier column"},
	{Name: "rating_col", Kind: recommend.KindString, Default: "rating", Help: "rating column"},
	{Name: "factors", Kind: recommend.KindInt, Default: 10, Help: "latent dimension"},
	{Name: "lr", Kind: recommend.KindFloat, Default: 0.01, Help: "SGD learning rate"},
	{Name: "epochs", Kind: recommend.KindInt, Default: 10, Help: "passes over the data"},
	{Name: "seed", Kind: recommend.KindInt, Default: 42, Help: "random seed"},
	{Name: "shuffle", Kind: recommend.KindBool, Default: false, Help: "shuffle records each epoch"},
	{Name: "update_rule", Kind: recommend.KindString, Default: string(UpdateSymmetric), Help: "symmetric or sequential"},
}

// MFConfigFromParams maps resolved parameters onto an MFConfig.
func MFConfigFromParams(p recommend.Params) MFConfig {
	def := DefaultMFConfig()
	return MFConfig{
		UserCol:      p.GetString("user_col", def.UserCol),
		ItemCol:      p.GetString("item_col", def.ItemCol),
		RatingCol:    p.GetString("rating_col", def.RatingCol),
		NumFactors:   p.GetInt("factors", def.NumFactors),
		LearningRate: p.GetFloat("lr", def.LearningRate),
		Epochs:       p.GetInt("epochs", def.Epochs),
		Seed:         int64(p.GetInt("seed", int(def.Seed))),
		Shuffle:      p.GetBool("shuffle", def.Shuffle),
		UpdateRule:   UpdateRule(p.GetString("update_rule", string(def.UpdateRule))),
	}
}

// MatrixFactorization learns user and item latent factors with plain SGD
// on squared rating error, and recommends by dot-product score.
//
// For each record (u, i, r) in an epoch:
//
//	err = r - P[u]·Q[i]
//	P[u] += lr * err * Q[i]
//	Q[i] += lr * err * P[u]
//
// With UpdateSymmetric both right-hand sides use the rows as they were
// before the step. There is no regularization and no convergence check.
type MatrixFactorization struct {
	BaseAlgorithm
	config MFConfig

	index   *IDIndex
	factors *Factors
	state   TrainState
}

// NewMatrixFactorization creates an untrained model.
func NewMatrixFactorization(cfg MFConfig) (*MatrixFactorization, error) {
	if cfg.UpdateRule == "" {
		cfg.UpdateRule = UpdateSymmetric
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &MatrixFactorization{
		BaseAlgorithm: NewBaseAlgorithm("mf"),
		config:        cfg,
	}, nil
}

// Config returns the model configuration.
func (m *MatrixFactorization) Config() MFConfig {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	return m.config
}

// State returns the current lifecycle stage.
func (m *MatrixFactorization) State() TrainState {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	return m.state
}

// Params returns the configuration as registry parameters.
func (m *MatrixFactorization) Params() recommend.Params {
	c := m.Config()
	return recommend.Params{
		"user_col":    c.UserCol,
		"item_col":    c.ItemCol,
		"rating_col":  c.RatingCol,
		"factors":     c.NumFactors,
		"lr":          c.LearningRate,
		"epochs":      c.Epochs,
		"seed":        int(c.Seed),
		"shuffle":     c.Shuffle,
		"update_rule": string(c.UpdateRule),
	}
}

// trainSample is one record resolved to matrix rows.
type trainSample struct {
	user   int
	item   int
	rating float64
}

// Fit trains the model from scratch. The index and factors are rebuilt on
// every call. If ctx is canceled between epochs, Fit returns ctx.Err() and
// the previously fitted state, if any, is left in place.
func (m *MatrixFactorization) Fit(ctx context.Context, f *data.Frame) error {
	m.acquireTrainLock()
	defer m.releaseTrainLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	cfg := m.config
	prev := m.state
	interactions, err := recommend.Interactions(f, recommend.Columns{
		User:   cfg.UserCol,
		Item:   cfg.ItemCol,
		Rating: cfg.RatingCol,
	})
	if err != nil {
		return fmt.Errorf("mf fit: %w", err)
	}

	// Build user and item indices
	index := NewIDIndex()
	samples := make([]trainSample, len(interactions))
	for n, inter := range interactions {
		samples[n] = trainSample{
			user:   index.AddUser(inter.UserID),
			item:   index.AddItem(inter.ItemID),
			rating: inter.Rating,
		}
	}

	m.state = StateIndexBuilt

	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(cfg.Seed))
	factors := newFactors(index.NumUsers(), index.NumItems(), cfg.NumFactors, rng)
	m.state = StateFactorsInitialized

	step := m.sequentialStep
	if cfg.UpdateRule == UpdateSymmetric {
		step = m.symmetricStep
	}
	scratch := make([]float64, cfg.NumFactors)

	m.state = StateTraining
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if ContextCancelled(ctx) {
			m.state = prev
			return ctx.Err()
		}

		if cfg.Shuffle {
			rng.Shuffle(len(samples), func(i, j int) {
				samples[i], samples[j] = samples[j], samples[i]
			})
		}

		for _, s := range samples {
			step(factors.UserRow(s.user), factors.ItemRow(s.item), s.rating, cfg.LearningRate, scratch)
		}
	}

	m.index = index
	m.factors = factors
	m.state = StateFitted
	m.markTrained()
	return nil
}

// symmetricStep applies one SGD update using the pre-step rows for both deltas.
func (m *MatrixFactorization) symmetricStep(p, q []float64, r, lr float64, scratch []float64) {
	e := r - floats.Dot(p, q)
	copy(scratch, p)
	floats.AddScaled(p, lr*e, q)
	floats.AddScaled(q, lr*e, scratch)
}

// sequentialStep updates p first, then q from the updated p.
func (m *MatrixFactorization) sequentialStep(p, q []float64, r, lr float64, _ []float64) {
	e := r - floats.Dot(p, q)
	floats.AddScaled(p, lr*e, q)
	floats.AddScaled(q, lr*e, p)
}

// Recommend returns up to k item IDs for userID ordered by descending
// predicted score, ties broken by first appearance in the training data.
func (m *MatrixFactorization) Recommend(userID any, k int) []any {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	if !m.trained || k <= 0 || m.factors == nil {
		return []any{}
	}
	u, ok := m.index.User(userID)
	if !ok {
		return []any{}
	}

	rows := topK(m.factors.Scores(u), k)
	out := make([]any, len(rows))
	for n, row := range rows {
		out[n] = m.index.ItemAt(row)
	}
	return out
}

// Predict returns the model's score for a single user-item pair.
func (m *MatrixFactorization) Predict(userID, itemID any) (float64, bool) {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	if !m.trained || m.factors == nil {
		return 0, false
	}
	u, ok := m.index.User(userID)
	if !ok {
		return 0, false
	}
	i, ok := m.index.Item(itemID)
	if !ok {
		return 0, false
	}
	return floats.Dot(m.factors.UserRow(u), m.factors.ItemRow(i)), true
}

// NumUsers returns the number of users seen by the last fit.
func (m *MatrixFactorization) NumUsers() int {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	return m.index.NumUsers()
}

// NumItems returns the number of items seen by the last fit.
func (m *MatrixFactorization) NumItems() int {
	m.acquirePredictLock()
	defer m.releasePredictLock()
	return m.index.NumItems()
}

// mfState is the serializable state of a MatrixFactorization model.
type mfState struct {
	Base    baseState
	Config  MFConfig
	Index   indexState
	Factors factorState
}

// MarshalState encodes configuration, index and factors.
func (m *MatrixFactorization) MarshalState() ([]byte, error) {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	s := mfState{Base: m.snapshotBase(), Config: m.config}
	if m.index != nil {
		s.Index = m.index.state()
	}
	if m.factors != nil {
		s.Factors = m.factors.state()
	} else {
		s.Factors = factorState{Dim: m.config.NumFactors}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encode mf state: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalState replaces the model wholesale with a decoded snapshot.
func (m *MatrixFactorization) UnmarshalState(b []byte) error {
	var s mfState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&s); err != nil {
		return fmt.Errorf("decode mf state: %w", err)
	}
	if err := s.Config.validate(); err != nil {
		return fmt.Errorf("decode mf state: %w", err)
	}
	factors, err := factorsFromState(s.Factors)
	if err != nil {
		return err
	}
	index := indexFromState(s.Index)
	if index.NumUsers() != factors.NumUsers() || index.NumItems() != factors.NumItems() {
		return fmt.Errorf("decode mf state: index has %d users/%d items, factors have %d/%d",
			index.NumUsers(), index.NumItems(), factors.NumUsers(), factors.NumItems())
	}

	m.acquireTrainLock()
	defer m.releaseTrainLock()

	m.config = s.Config
	m.index = index
	m.factors = factors
	m.restoreTrained(s.Base)
	m.state = StateUninitialized
	if s.Base.Trained {
		m.state = StateFitted
	}
	return nil
}
