// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and reports field paths using koanf tag names, so a failure on
// Config.Storage.BaseDir reads as "storage.base_dir".
//
// Custom tags:
//
//   - modelname: a single path component of letters, digits, '.', '_' and '-'
//
// Example:
//
//	type StorageConfig struct {
//	    BaseDir   string `koanf:"base_dir" validate:"required"`
//	    ModelName string `koanf:"model_name" validate:"omitempty,modelname"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    var fe *validation.FieldErrors
//	    if errors.As(err, &fe) {
//	        fmt.Println(fe.Fields())
//	    }
//	}
package validation
