// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/recsys/internal/logging"
	"github.com/tomtom215/recsys/internal/metrics"
	"github.com/tomtom215/recsys/internal/recommend"
)

const (
	modelFile    = "model.gob.gz"
	metadataFile = "metadata.json"
)

// Metadata describes one saved version.
type Metadata struct {
	// ModelName is the name the version was saved under.
	ModelName string `json:"model_name"`

	// Version is the 1-based version number.
	Version int `json:"version"`

	// Timestamp is when the version was written (RFC 3339).
	Timestamp time.Time `json:"timestamp"`

	// Config is the caller-supplied configuration recorded with the version.
	Config map[string]any `json:"config"`

	// Algorithm is the registry name of the saved variant.
	Algorithm string `json:"algorithm"`

	// RunID ties the version to the run that produced it.
	RunID string `json:"run_id"`

	// SizeBytes is the size of the model blob.
	SizeBytes int64 `json:"size_bytes"`
}

// Store manages numbered model versions under a base directory:
//
//	base/<name>/v<N>/model.gob.gz
//	base/<name>/v<N>/metadata.json
//
// A Store assumes a single writer per model name.
type Store struct {
	baseDir string
	mu      sync.Mutex
	logger  zerolog.Logger
}

// NewStore creates a store rooted at baseDir, creating the directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{
		baseDir: baseDir,
		logger:  logging.WithComponent("storage"),
	}, nil
}

// BaseDir returns the store root.
func (s *Store) BaseDir() string { return s.baseDir }

// Save writes m as the next version of name and returns the version number.
// config is recorded in the metadata; when nil the model's parameters are used.
func (s *Store) Save(ctx context.Context, m recommend.Model, name string, config map[string]any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := validName(name); err != nil {
		return 0, err
	}

	snap, err := capture(m)
	if err != nil {
		return 0, err
	}
	blob, err := encode(snap)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.Versions(name)
	if err != nil {
		return 0, err
	}
	version := 1
	if n := len(versions); n > 0 {
		version = versions[n-1] + 1
	}

	if config == nil {
		config = m.Params()
	}
	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.GenerateRunID()
	}
	meta := Metadata{
		ModelName: name,
		Version:   version,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Config:    config,
		Algorithm: m.Name(),
		RunID:     runID,
		SizeBytes: int64(len(blob)),
	}
	// Encoded before the version directory exists so a bad config leaves no trace.
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode metadata: %w", err)
	}

	if err := os.MkdirAll(s.modelDir(name), 0o750); err != nil {
		return 0, fmt.Errorf("create model directory: %w", err)
	}
	dir := s.versionDir(name, version)
	// Mkdir fails if the version exists; a version is never overwritten.
	if err := os.Mkdir(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create version %d of %s: %w", version, name, err)
	}
	if err := writeVersion(dir, blob, raw); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("dir", dir).Msg("failed to remove partial version")
		}
		return 0, err
	}

	metrics.RecordSave(modeVersioned, len(blob))
	s.logger.Info().
		Str("model", name).
		Str("algorithm", m.Name()).
		Int("version", version).
		Str("run_id", runID).
		Msg("model version saved")

	return version, nil
}

// Load replaces m's state with the given version of name. Version 0 loads
// the latest version.
func (s *Store) Load(ctx context.Context, name string, version int, m recommend.Model) (err error) {
	defer func() { metrics.RecordLoad(modeVersioned, err) }()

	snap, err := s.read(ctx, name, version)
	if err != nil {
		return err
	}
	return restore(m, snap)
}

// Open instantiates the variant stored as the given version of name from reg
// and restores it. Version 0 opens the latest version.
func (s *Store) Open(ctx context.Context, name string, version int, reg *recommend.Registry) (m recommend.Model, err error) {
	defer func() { metrics.RecordLoad(modeVersioned, err) }()

	snap, err := s.read(ctx, name, version)
	if err != nil {
		return nil, err
	}
	return instantiate(snap, reg)
}

func (s *Store) read(ctx context.Context, name string, version int) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	version, err := s.resolve(name, version)
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := readFile(filepath.Join(s.versionDir(name, version), modelFile))
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s v%d: %w", name, version, err)
	}

	s.logger.Debug().Str("model", name).Int("version", version).Msg("model version loaded")
	return snap, nil
}

// resolve maps version 0 to the latest version and checks existence.
func (s *Store) resolve(name string, version int) (int, error) {
	if err := validName(name); err != nil {
		return 0, err
	}
	if version < 0 {
		return 0, fmt.Errorf("invalid version %d", version)
	}
	if version == 0 {
		versions, err := s.Versions(name)
		if err != nil {
			return 0, err
		}
		if len(versions) == 0 {
			return 0, fmt.Errorf("%w: %s", recommend.ErrModelNotFound, name)
		}
		return versions[len(versions)-1], nil
	}
	if _, err := os.Stat(s.versionDir(name, version)); err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s v%d", recommend.ErrModelNotFound, name, version)
		}
		return 0, fmt.Errorf("stat version: %w", err)
	}
	return version, nil
}

// Versions returns the saved version numbers of name in ascending order.
// Entries that are not v<digits> directories are ignored.
func (s *Store) Versions(name string) ([]int, error) {
	entries, err := os.ReadDir(s.modelDir(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read model directory: %w", err)
	}

	var versions []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if v, ok := parseVersionDir(entry.Name()); ok {
			versions = append(versions, v)
		}
	}
	sort.Ints(versions)
	return versions, nil
}

// Metadata reads the metadata of a version. Version 0 reads the latest.
func (s *Store) Metadata(name string, version int) (*Metadata, error) {
	version, err := s.resolve(name, version)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(s.versionDir(name, version), metadataFile)) //nolint:gosec // path is built from the store root
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta Metadata
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}

// Prune removes all but the newest keep versions of name. keep is at least 1.
func (s *Store) Prune(ctx context.Context, name string, keep int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.Versions(name)
	if err != nil {
		return nil, err
	}
	if len(versions) <= keep {
		return nil, nil
	}

	removed := versions[:len(versions)-keep]
	for _, v := range removed {
		if err := os.RemoveAll(s.versionDir(name, v)); err != nil {
			return nil, fmt.Errorf("remove %s v%d: %w", name, v, err)
		}
	}
	s.logger.Info().Str("model", name).Ints("removed", removed).Msg("pruned model versions")
	return removed, nil
}

// writeVersion fills a freshly created version directory. The model blob
// goes first; metadata.json is the last file written.
func writeVersion(dir string, blob, meta []byte) error {
	if err := writeFile(filepath.Join(dir, modelFile), blob); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, metadataFile), meta)
}

func (s *Store) modelDir(name string) string {
	return filepath.Join(s.baseDir, name)
}

func (s *Store) versionDir(name string, version int) string {
	return filepath.Join(s.baseDir, name, "v"+strconv.Itoa(version))
}

func parseVersionDir(name string) (int, bool) {
	// v05 would list as 5 but versionDir(5) is v5, so leading zeros are rejected.
	if len(name) < 2 || name[0] != 'v' || name[1] == '0' {
		return 0, false
	}
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(name[1:])
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("invalid model name %q", name)
	}
	return nil
}
