// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"context"
	"encoding/gob"
	"sync"
	"time"

	"github.com/tomtom215/recsys/internal/recommend"
)

// BaseAlgorithm provides common functionality for all algorithms.
type BaseAlgorithm struct {
	name          string
	trained       bool
	version       int
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{
		name: name,
	}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained returns whether the model has been trained or restored.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the number of completed fits, carried across restores.
func (b *BaseAlgorithm) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the model was last trained.
func (b *BaseAlgorithm) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained must be called while holding the training lock.
func (b *BaseAlgorithm) markTrained() {
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

// restoreTrained must be called while holding the training lock.
func (b *BaseAlgorithm) restoreTrained(s baseState) {
	b.trained = s.Trained
	b.version = s.Version
	b.lastTrainedAt = s.LastTrainedAt
}

func (b *BaseAlgorithm) snapshotBase() baseState {
	return baseState{Trained: b.trained, Version: b.version, LastTrainedAt: b.lastTrainedAt}
}

func (b *BaseAlgorithm) acquireTrainLock()   { b.mu.Lock() }
func (b *BaseAlgorithm) releaseTrainLock()   { b.mu.Unlock() }
func (b *BaseAlgorithm) acquirePredictLock() { b.mu.RLock() }
func (b *BaseAlgorithm) releasePredictLock() { b.mu.RUnlock() }

// baseState is the persisted part of BaseAlgorithm.
type baseState struct {
	Trained       bool
	Version       int
	LastTrainedAt time.Time
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure all algorithms implement the interface.
var (
	_ recommend.Model = (*MatrixFactorization)(nil)
	_ recommend.Model = (*TopPopular)(nil)
)

// Identifiers are stored as interface values inside model state.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(time.Time{})
}
