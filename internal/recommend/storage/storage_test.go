// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/recommend"
	"github.com/tomtom215/recsys/internal/recommend/algorithms"
)

func ratings(t *testing.T) *data.Frame {
	t.Helper()

	f := data.NewFrame("user_id", "item_id", "rating")
	rows := [][]any{
		{int64(1), "A", 5.0},
		{int64(1), "B", 3.0},
		{int64(2), "A", 4.0},
		{int64(2), "C", 2.0},
		{int64(3), "B", 5.0},
		{int64(3), "D", 1.0},
	}
	for _, r := range rows {
		if err := f.Append(r...); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func fittedMF(t *testing.T, epochs int) recommend.Model {
	t.Helper()

	m, err := algorithms.NewRegistry().Instantiate("mf", recommend.Params{"factors": 4, "epochs": epochs})
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}
	if err := m.Fit(context.Background(), ratings(t)); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return m
}

func TestFlat_RoundTrip(t *testing.T) {
	t.Parallel()

	src := fittedMF(t, 5)
	path := filepath.Join(t.TempDir(), "nested", "mf.gob.gz")

	if err := SaveFile(src, path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	// LoadFile overwrites an existing, differently configured instance.
	dst, err := algorithms.NewRegistry().Instantiate("mf", recommend.Params{"factors": 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(path, dst); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	opened, err := OpenFile(path, algorithms.NewRegistry())
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	for _, user := range []any{int64(1), int64(2), int64(3)} {
		want := src.Recommend(user, 3)
		if got := dst.Recommend(user, 3); !reflect.DeepEqual(got, want) {
			t.Errorf("LoadFile: Recommend(%v) = %v, want %v", user, got, want)
		}
		if got := opened.Recommend(user, 3); !reflect.DeepEqual(got, want) {
			t.Errorf("OpenFile: Recommend(%v) = %v, want %v", user, got, want)
		}
	}
	if !reflect.DeepEqual(dst.Params(), src.Params()) {
		t.Errorf("Params() = %v, want %v", dst.Params(), src.Params())
	}
}

func TestFlat_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reg := algorithms.NewRegistry()

	if _, err := OpenFile(filepath.Join(dir, "missing.gob.gz"), reg); !errors.Is(err, recommend.ErrModelNotFound) {
		t.Errorf("OpenFile(missing) error = %v", err)
	}

	garbage := filepath.Join(dir, "garbage.gob.gz")
	if err := os.WriteFile(garbage, []byte("not a model"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(garbage, reg); !errors.Is(err, ErrCorrupt) {
		t.Errorf("OpenFile(garbage) error = %v", err)
	}

	path := filepath.Join(dir, "mf.gob.gz")
	if err := SaveFile(fittedMF(t, 1), path); err != nil {
		t.Fatal(err)
	}
	pop, _ := algorithms.NewTopPopular("item_id")
	if err := LoadFile(path, pop); !errors.Is(err, recommend.ErrModelMismatch) {
		t.Errorf("LoadFile(into top_popular) error = %v", err)
	}
}

func TestEncode_DetectsTampering(t *testing.T) {
	t.Parallel()

	blob, err := encode(Snapshot{Model: "x", State: []byte("state")})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := decode(bytes.NewReader(blob))
	if err != nil || snap.Model != "x" || string(snap.State) != "state" {
		t.Fatalf("decode() = %+v, %v", snap, err)
	}

	// Flip a byte inside the compressed payload.
	tampered := append([]byte(nil), blob...)
	tampered[len(tampered)-8] ^= 0xff
	if _, err := decode(bytes.NewReader(tampered)); !errors.Is(err, ErrCorrupt) {
		t.Errorf("decode(tampered) error = %v, want ErrCorrupt", err)
	}
}

func TestStore_SaveFailureLeavesNoVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := t.TempDir()
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	m := fittedMF(t, 1)

	if _, err := store.Save(ctx, m, "mf", map[string]any{"bad": math.NaN()}); err == nil {
		t.Fatal("Save() with an unencodable config should fail")
	}
	if versions, err := store.Versions("mf"); err != nil || len(versions) != 0 {
		t.Fatalf("Versions() after failed save = %v, %v; want none", versions, err)
	}
	if _, err := os.Stat(filepath.Join(base, "mf", "v1")); !os.IsNotExist(err) {
		t.Errorf("v1 directory left behind: %v", err)
	}

	v, err := store.Save(ctx, m, "mf", nil)
	if err != nil || v != 1 {
		t.Fatalf("Save() after failure = %d, %v; want version 1", v, err)
	}
	if _, err := store.Metadata("mf", 1); err != nil {
		t.Errorf("Metadata(v1) error = %v", err)
	}
}

func TestParseVersionDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"v1", 1, true},
		{"v12", 12, true},
		{"v0", 0, false},
		{"v05", 0, false},
		{"v", 0, false},
		{"x1", 0, false},
		{"v1a", 0, false},
		{"v-1", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseVersionDir(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseVersionDir(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStore_Versions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := t.TempDir()
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := store.Open(ctx, "mf", 0, algorithms.NewRegistry()); !errors.Is(err, recommend.ErrModelNotFound) {
		t.Fatalf("Open() on empty store error = %v", err)
	}

	first := fittedMF(t, 1)
	second := fittedMF(t, 2)

	v1, err := store.Save(ctx, first, "mf", map[string]any{"epochs": 1})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	v2, err := store.Save(ctx, second, "mf", nil)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if v1 != 1 || v2 != 2 {
		t.Fatalf("versions = %d, %d; want 1, 2", v1, v2)
	}

	// Noise in the model directory is ignored.
	for _, name := range []string{"latest", "v", "vx1", "v0", "v05", "v007"} {
		if err := os.Mkdir(filepath.Join(base, "mf", name), 0o750); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(base, "mf", "v9"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	versions, err := store.Versions("mf")
	if err != nil || !reflect.DeepEqual(versions, []int{1, 2}) {
		t.Fatalf("Versions() = %v, %v", versions, err)
	}

	reg := algorithms.NewRegistry()
	latest, err := store.Open(ctx, "mf", 0, reg)
	if err != nil {
		t.Fatalf("Open(latest) error = %v", err)
	}
	if got := latest.Params()["epochs"]; got != 2 {
		t.Errorf("latest epochs = %v, want 2", got)
	}

	older, _ := reg.Instantiate("mf", nil)
	if err := store.Load(ctx, "mf", 1, older); err != nil {
		t.Fatalf("Load(v1) error = %v", err)
	}
	if got := older.Params()["epochs"]; got != 1 {
		t.Errorf("v1 epochs = %v, want 1", got)
	}
	if !reflect.DeepEqual(older.Recommend(int64(1), 4), first.Recommend(int64(1), 4)) {
		t.Error("v1 recommendations differ from the saved model")
	}

	if err := store.Load(ctx, "mf", 7, older); !errors.Is(err, recommend.ErrModelNotFound) {
		t.Errorf("Load(v7) error = %v", err)
	}

	meta, err := store.Metadata("mf", 0)
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.ModelName != "mf" || meta.Version != 2 || meta.Algorithm != "mf" || meta.RunID == "" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Timestamp.IsZero() || meta.Config["update_rule"] != "symmetric" {
		t.Errorf("metadata timestamp/config = %v, %v", meta.Timestamp, meta.Config)
	}
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m := fittedMF(t, 1)
	for i := 0; i < 4; i++ {
		if _, err := store.Save(ctx, m, "ratings", nil); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Prune(ctx, "ratings", 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if !reflect.DeepEqual(removed, []int{1, 2}) {
		t.Errorf("removed = %v, want [1 2]", removed)
	}
	if versions, _ := store.Versions("ratings"); !reflect.DeepEqual(versions, []int{3, 4}) {
		t.Errorf("Versions() after prune = %v", versions)
	}

	// Numbering continues past pruned versions.
	if v, _ := store.Save(ctx, m, "ratings", nil); v != 5 {
		t.Errorf("next version = %d, want 5", v)
	}
}

func TestStore_InvalidName(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "..", "a/b"} {
		if _, err := store.Save(context.Background(), fittedMF(t, 1), name, nil); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
	}
}
