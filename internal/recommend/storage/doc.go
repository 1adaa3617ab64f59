// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package storage persists fitted recommendation models.
//
// A model is captured as a Snapshot (variant name, resolved parameters and
// the variant's encoded state), gob-encoded, checksummed with SHA-256 and
// gzip-compressed. Both persistence modes share that format.
//
// # Flat Mode
//
// A single file at a caller-chosen path:
//
//	if err := storage.SaveFile(model, "models/mf.gob.gz"); err != nil {
//	    return err
//	}
//
//	// Restore into an existing instance of the same variant...
//	err = storage.LoadFile("models/mf.gob.gz", model)
//
//	// ...or let the registry build the right variant.
//	model, err = storage.OpenFile("models/mf.gob.gz", registry)
//
// # Versioned Mode
//
// Numbered versions under a base directory:
//
//	/data/models/
//	  ratings/
//	    v1/model.gob.gz
//	    v1/metadata.json
//	    v2/model.gob.gz
//	    v2/metadata.json   <- latest
//
// Versions start at 1 and increase by one per Save. A version directory is
// created exclusively, so an existing version is never overwritten. Load and
// Open treat version 0 as the latest. Directories that are not named
// v<digits> are ignored.
//
//	store, err := storage.NewStore("/data/models")
//	version, err := store.Save(ctx, model, "ratings", nil)
//	model, err := store.Open(ctx, "ratings", 0, registry)
//
// # Data Integrity
//
// A checksum, gzip, or gob failure on load returns ErrCorrupt. A missing
// file, model name, or version returns recommend.ErrModelNotFound.
package storage
