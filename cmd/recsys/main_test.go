// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/recsys/internal/recommend"
)

const ratingsCSV = `user_id,item_id,rating,country
1,10,5,US
1,20,3,US
2,10,4,UK
2,30,1,UK
3,20,2,IN
3,40,5,IN
`

// setup moves into a fresh directory holding ratings.csv and isolates the
// config environment.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("RECSYS_CONFIG", "")
	if err := os.WriteFile(filepath.Join(dir, "ratings.csv"), []byte(ratingsCSV), 0o600); err != nil {
		t.Fatalf("write ratings: %v", err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("recsys %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestTrainPredict_Flat(t *testing.T) {
	setup(t)

	out := mustRun(t, "train", "--model", "mf", "--input", "ratings.csv",
		"--save-path", "mf.gob.gz", "--factors", "4", "--epochs", "5")
	if out != "Model saved to mf.gob.gz\n" {
		t.Errorf("train output = %q", out)
	}

	out = mustRun(t, "predict", "--model-path", "mf.gob.gz", "--user-id", "1", "--top-k", "2")
	prefix := "Top 2 recommendations for user 1: ["
	if !strings.HasPrefix(out, prefix) || strings.Count(out, ",") != 1 {
		t.Errorf("predict output = %q", out)
	}

	out = mustRun(t, "predict", "--model-path", "mf.gob.gz", "--user-id", "99")
	if out != "Top 5 recommendations for user 99: []\n" {
		t.Errorf("unknown user output = %q", out)
	}

	_, err := run(t, "predict", "--model-path", "mf.gob.gz", "--model", "top_popular", "--user-id", "1")
	if !errors.Is(err, recommend.ErrModelMismatch) {
		t.Errorf("mismatched --model error = %v, want ErrModelMismatch", err)
	}
}

func TestTrainVersions(t *testing.T) {
	setup(t)

	for want := 1; want <= 3; want++ {
		out := mustRun(t, "train", "--input", "ratings.csv", "--base-dir", "store",
			"--name", "ratings", "--epochs", "1")
		if out != fmt.Sprintf("Model ratings saved as version %d\n", want) {
			t.Errorf("train #%d output = %q", want, out)
		}
	}

	out := mustRun(t, "versions", "--base-dir", "store", "--name", "ratings")
	for _, v := range []string{"v1\t", "v2\t", "v3\t"} {
		if !strings.Contains(out, v) {
			t.Errorf("versions output missing %q:\n%s", v, out)
		}
	}
	if !strings.Contains(out, "\tmf\t") {
		t.Errorf("versions output missing algorithm:\n%s", out)
	}

	out = mustRun(t, "versions", "--base-dir", "store", "--name", "ratings", "--keep", "1")
	if !strings.HasPrefix(out, "Pruned versions: [1 2]\n") || strings.Contains(out, "v1\t") {
		t.Errorf("prune output = %q", out)
	}

	out = mustRun(t, "predict", "--base-dir", "store", "--name", "ratings", "--user-id", "2", "--top-k", "1")
	if !strings.HasPrefix(out, "Top 1 recommendations for user 2: [") {
		t.Errorf("predict output = %q", out)
	}

	out = mustRun(t, "versions", "--base-dir", "store", "--name", "empty")
	if !strings.HasPrefix(out, "No versions of empty in store") {
		t.Errorf("empty versions output = %q", out)
	}
}

func TestEvaluate(t *testing.T) {
	setup(t)

	mustRun(t, "train", "--model", "top_popular", "--input", "ratings.csv", "--save-path", "pop.gob.gz")

	out := mustRun(t, "evaluate", "--model-path", "pop.gob.gz", "--input", "ratings.csv",
		"--k", "10", "--metric", "hit_rate", "--group-by", "country")
	want := "hit_rate@10: 1.0000\n  IN: 1.0000\n  UK: 1.0000\n  US: 1.0000\n"
	if out != want {
		t.Errorf("evaluate output = %q, want %q", out, want)
	}

	if _, err := run(t, "evaluate", "--model-path", "pop.gob.gz", "--input", "ratings.csv", "--metric", "auc"); err == nil {
		t.Error("evaluate with an unknown metric should fail")
	}
}

func TestTrain_Errors(t *testing.T) {
	setup(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "unknown model",
			args:    []string{"train", "--model", "nope", "--input", "ratings.csv", "--save-path", "x"},
			wantErr: recommend.ErrUnknownModel,
		},
		{
			name:    "flag not declared by variant",
			args:    []string{"train", "--model", "top_popular", "--factors", "3", "--input", "ratings.csv", "--save-path", "x"},
			wantErr: recommend.ErrInvalidParameter,
		},
		{
			name:    "invalid hyperparameter",
			args:    []string{"train", "--factors", "0", "--input", "ratings.csv", "--save-path", "x"},
			wantErr: recommend.ErrInvalidParameter,
		},
		{
			name: "missing input",
			args: []string{"train", "--save-path", "x"},
		},
		{
			name: "predict without user",
			args: []string{"predict", "--model-path", "x"},
		},
		{
			name: "bad log format",
			args: []string{"--log-format", "xml", "versions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if _, err := os.Stat("x"); !os.IsNotExist(err) {
		t.Error("failed runs must not write a model file")
	}
}

func TestConfigFileAndMetricsOut(t *testing.T) {
	dir := setup(t)
	cfg := `data:
  uri: ratings.csv
storage:
  base_dir: cfgstore
  model_name: fromconfig
model:
  name: mf
  params:
    factors: 3
    epochs: 2
`
	if err := os.WriteFile(filepath.Join(dir, "recsys.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "--metrics-out", "metrics.prom", "train")
	if out != "Model fromconfig saved as version 1\n" {
		t.Errorf("train output = %q", out)
	}

	prom, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, name := range []string{"recsys_fit_total", "recsys_model_saves_total"} {
		if !strings.Contains(string(prom), name) {
			t.Errorf("metrics file missing %s", name)
		}
	}
}

func TestFormatIDs(t *testing.T) {
	tests := []struct {
		in   []any
		want string
	}{
		{[]any{}, "[]"},
		{[]any{int64(10)}, "[10]"},
		{[]any{"a", int64(2), 3.5}, "[a, 2, 3.5]"},
	}
	for _, tt := range tests {
		if got := formatIDs(tt.in); got != tt.want {
			t.Errorf("formatIDs(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
