// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/recsys/internal/recommend"
)

// ErrCorrupt is returned when a snapshot blob fails decompression,
// decoding, or checksum verification.
var ErrCorrupt = errors.New("corrupt model snapshot")

// Snapshot is the persisted form of a fitted model.
type Snapshot struct {
	// Model is the registry name of the variant.
	Model string

	// Params are the resolved construction parameters.
	Params recommend.Params

	// State is the variant's own encoding of its learned state.
	State []byte
}

// storedFile is the on-disk envelope. The checksum covers the
// uncompressed snapshot encoding.
type storedFile struct {
	Checksum       string
	CompressedData []byte
}

// capture builds a snapshot from m.
func capture(m recommend.Model) (Snapshot, error) {
	state, err := m.MarshalState()
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal %s state: %w", m.Name(), err)
	}
	return Snapshot{Model: m.Name(), Params: m.Params(), State: state}, nil
}

// restore replaces m's state with the snapshot's.
func restore(m recommend.Model, snap Snapshot) error {
	if snap.Model != m.Name() {
		return fmt.Errorf("%w: snapshot is %q, model is %q", recommend.ErrModelMismatch, snap.Model, m.Name())
	}
	if err := m.UnmarshalState(snap.State); err != nil {
		return fmt.Errorf("restore %s state: %w", m.Name(), err)
	}
	return nil
}

// encode serializes, checksums and compresses a snapshot.
func encode(snap Snapshot) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	var out bytes.Buffer
	sf := storedFile{
		Checksum:       hex.EncodeToString(hash[:]),
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(&out).Encode(sf); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), nil
}

// decode reverses encode, verifying the checksum.
func decode(r io.Reader) (Snapshot, error) {
	var sf storedFile
	if err := gob.NewDecoder(r).Decode(&sf); err != nil {
		return Snapshot{}, fmt.Errorf("%w: read envelope: %v", ErrCorrupt, err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != sf.Checksum {
		return Snapshot{}, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrCorrupt, sf.Checksum, got)
	}

	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode snapshot: %v", ErrCorrupt, err)
	}
	return snap, nil
}
