// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomtom215/recsys/internal/logging"
	"github.com/tomtom215/recsys/internal/metrics"
	"github.com/tomtom215/recsys/internal/recommend"
)

const (
	modeFlat      = "flat"
	modeVersioned = "versioned"
)

// SaveFile writes a snapshot of m to path, creating parent directories.
func SaveFile(m recommend.Model, path string) error {
	snap, err := capture(m)
	if err != nil {
		return err
	}
	blob, err := encode(snap)
	if err != nil {
		return err
	}
	if err := writeFile(path, blob); err != nil {
		return err
	}

	metrics.RecordSave(modeFlat, len(blob))
	logging.Debug().
		Str("component", "storage").
		Str("model", m.Name()).
		Str("path", path).
		Int("size_bytes", len(blob)).
		Msg("model saved")
	return nil
}

// LoadFile replaces m's state with the snapshot at path. The snapshot must
// have been taken from the same variant.
func LoadFile(path string, m recommend.Model) (err error) {
	defer func() { metrics.RecordLoad(modeFlat, err) }()

	snap, err := readFile(path)
	if err != nil {
		return err
	}
	return restore(m, snap)
}

// OpenFile instantiates the variant recorded at path from reg and restores it.
func OpenFile(path string, reg *recommend.Registry) (m recommend.Model, err error) {
	defer func() { metrics.RecordLoad(modeFlat, err) }()

	snap, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return instantiate(snap, reg)
}

func instantiate(snap Snapshot, reg *recommend.Registry) (recommend.Model, error) {
	m, err := reg.Instantiate(snap.Model, snap.Params)
	if err != nil {
		return nil, err
	}
	if err := restore(m, snap); err != nil {
		return nil, err
	}
	return m, nil
}

func readFile(path string) (Snapshot, error) {
	blob, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, fmt.Errorf("%w: %s", recommend.ErrModelNotFound, path)
		}
		return Snapshot{}, fmt.Errorf("read model file: %w", err)
	}
	return decode(bytes.NewReader(blob))
}

// writeFile writes blob via a temporary file in the same directory so a
// crash never leaves a truncated snapshot at path.
func writeFile(path string, blob []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}
