// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package recommend defines the recommender model contract, the model
// registry, and training helpers.
//
// # Architecture
//
//	data.Frame ──► Model.Fit ──► storage (flat file or versioned directory)
//	                  │                         │
//	                  ▼                         ▼
//	            Model.Recommend ◄── Registry.Instantiate + restore
//
// Concrete variants live in the algorithms subpackage and are added to a
// Registry by algorithms.RegisterBuiltins. Registration happens once at
// startup; the registry is read-only afterwards.
//
// # Parameters
//
// Each variant declares a static ParamSchema. Registry.Instantiate rejects
// undeclared names and values of the wrong kind with ErrInvalidParameter,
// and fills declared defaults.
//
//	reg := algorithms.NewRegistry()
//	m, err := reg.Instantiate("mf", recommend.Params{"factors": 4, "epochs": 5})
//	if err != nil {
//	    return err
//	}
//	if _, err := recommend.Train(ctx, m, frame); err != nil {
//	    return err
//	}
//	items := m.Recommend(int64(1), 10)
//
// # Thread Safety
//
// Models guard their state with a read-write lock: Fit is exclusive,
// Recommend calls may run concurrently.
package recommend
