// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/logging"
)

func TestTrain(t *testing.T) {
	t.Parallel()

	f := data.NewFrame("user_id", "item_id", "rating")
	_ = f.Append(int64(1), "A", 5.0)

	m := &stubModel{}
	ctx := logging.ContextWithRunID(context.Background(), "run-42")
	status, err := Train(ctx, m, f)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if m.fits != 1 {
		t.Errorf("fits = %d, want 1", m.fits)
	}
	if status.RunID != "run-42" || status.InteractionCount != 1 || status.Model != "stub" {
		t.Errorf("status = %+v", status)
	}

	failing := &stubModel{fitErr: errors.New("diverged")}
	status, err = Train(context.Background(), failing, f)
	if err == nil || status.Error != "diverged" {
		t.Errorf("Train() = %+v, %v; want failure recorded", status, err)
	}
	if status.RunID == "" {
		t.Error("Train() should generate a run ID when none is set")
	}
}

type indexedStub struct {
	stubModel
}

func (s *indexedStub) NumUsers() int { return 3 }
func (s *indexedStub) NumItems() int { return 4 }

func TestTrain_LogsDatasetShape(t *testing.T) {
	t.Parallel()

	f := data.NewFrame("user_id", "item_id", "rating")
	_ = f.Append(int64(1), "A", 5.0)

	var buf bytes.Buffer
	ctx := logging.ContextWithLogger(context.Background(), logging.NewTestLogger(&buf))
	m := &indexedStub{stubModel{params: Params{"epochs": 7}}}

	status, err := Train(ctx, m, f)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if status.Users != 3 || status.Items != 4 || status.Epochs != 7 {
		t.Errorf("status = %+v, want 3 users, 4 items, 7 epochs", status)
	}

	out := buf.String()
	for _, want := range []string{`"epochs":7`, `"users":3`, `"items":4`, `"interactions":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}

	// Models without an index or an epochs parameter log neither.
	buf.Reset()
	if _, err := Train(ctx, &stubModel{}, f); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if strings.Contains(buf.String(), `"users"`) || strings.Contains(buf.String(), `"epochs"`) {
		t.Errorf("unexpected fields for plain model:\n%s", buf.String())
	}
}

func TestRecommendHelper(t *testing.T) {
	t.Parallel()

	m := &stubModel{}
	if got := Recommend(m, "u", 1); len(got) != 1 {
		t.Errorf("Recommend() = %v", got)
	}
	if got := Recommend(m, "u", 0); len(got) != 0 {
		t.Errorf("Recommend(k=0) = %v", got)
	}
}

func TestInteractions(t *testing.T) {
	t.Parallel()

	f := data.NewFrame("u", "i", "r")
	_ = f.Append(int64(1), "A", int64(4))
	_ = f.Append("bob", int64(9), 2.5)

	got, err := Interactions(f, Columns{User: "u", Item: "i", Rating: "r"})
	if err != nil {
		t.Fatalf("Interactions() error = %v", err)
	}
	if len(got) != 2 || got[0].Rating != 4 || got[1].UserID != "bob" || got[1].Rating != 2.5 {
		t.Errorf("Interactions() = %+v", got)
	}

	if _, err := Interactions(f, Columns{User: "u", Item: "i", Rating: "rating"}); !errors.Is(err, data.ErrMissingColumns) {
		t.Errorf("missing column error = %v", err)
	}

	bad := data.NewFrame("u", "i", "r")
	_ = bad.Append(int64(1), "A", "five")
	if _, err := Interactions(bad, Columns{User: "u", Item: "i", Rating: "r"}); err == nil {
		t.Error("non-numeric rating should fail")
	}
}
