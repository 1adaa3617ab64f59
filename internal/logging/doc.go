// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package logging provides centralized zerolog-based logging for recsys.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("model", "mf").Msg("training started")
//	logging.Err(err).Msg("load failed")
//
// Components derive child loggers tagged with a component field:
//
//	log := logging.WithComponent("trainer")
//
// Training and evaluation runs carry a run ID through the context so every
// line of a run can be correlated:
//
//	ctx = logging.ContextWithNewRunID(ctx)
//	logging.Ctx(ctx).Info().Msg("epoch loop finished")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never emitted.
package logging
