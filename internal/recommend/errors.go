// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import "errors"

var (
	// ErrUnknownModel is returned when a registry lookup names an unregistered model.
	ErrUnknownModel = errors.New("unknown model")

	// ErrInvalidParameter is returned when construction options do not match
	// a model's declared parameters.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrModelNotFound is returned when a persisted model or version does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrModelMismatch is returned when a snapshot is restored into a model of
	// a different variant.
	ErrModelMismatch = errors.New("snapshot does not match model")
)
