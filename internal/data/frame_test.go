// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"errors"
	"testing"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame("user_id", "item_id", "rating")
	rows := [][]any{
		{int64(1), "A", int64(5)},
		{int64(1), "B", int64(4)},
		{int64(2), "A", int64(3)},
		{int64(2), "C", int64(2)},
		{int64(3), "B", int64(4)},
		{int64(3), "D", int64(5)},
	}
	for _, r := range rows {
		if err := f.Append(r...); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return f
}

func TestFrame_AppendAndColumn(t *testing.T) {
	t.Parallel()

	f := sampleFrame(t)
	if f.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", f.Len())
	}

	items, ok := f.Column("item_id")
	if !ok {
		t.Fatal("Column(item_id) not found")
	}
	if items[5] != "D" {
		t.Errorf("items[5] = %v, want D", items[5])
	}
	if _, ok := f.Column("missing"); ok {
		t.Error("Column(missing) should not exist")
	}
	if err := f.Append(int64(1)); err == nil {
		t.Error("Append() with wrong arity should fail")
	}
}

func TestFrame_AppendMapBackfills(t *testing.T) {
	t.Parallel()

	f := NewFrame()
	f.AppendMap(map[string]any{"user_id": int64(1), "item_id": "A"})
	f.AppendMap(map[string]any{"user_id": int64(2), "rating": 3.5})

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	if got := f.Value(0, "rating"); got != nil {
		t.Errorf("backfilled rating = %v, want nil", got)
	}
	if got := f.Value(1, "item_id"); got != nil {
		t.Errorf("missing item_id = %v, want nil", got)
	}
	if got := f.Value(1, "rating"); got != 3.5 {
		t.Errorf("rating = %v, want 3.5", got)
	}
}

func TestFrame_FilterAndClone(t *testing.T) {
	t.Parallel()

	f := sampleFrame(t)
	users, _ := f.Column("user_id")
	only2 := f.Filter(func(i int) bool { return users[i] == int64(2) })
	if only2.Len() != 2 {
		t.Fatalf("Filter() rows = %d, want 2", only2.Len())
	}

	c := f.Clone()
	if err := c.SetColumn("rating", make([]any, c.Len())); err != nil {
		t.Fatalf("SetColumn() error = %v", err)
	}
	if f.Value(0, "rating") != int64(5) {
		t.Error("Clone() shares column storage with original")
	}
	if err := c.SetColumn("rating", nil); err == nil {
		t.Error("SetColumn() with wrong length should fail")
	}
}

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	f := NewFrame("user_id", "item_id")

	if err := (Schema{User: "user_id", Item: "item_id"}).Validate(f); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	err := DefaultSchema().Validate(f)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("Validate() error = %v, want ErrMissingColumns", err)
	}
	var mc *MissingColumnsError
	if !errors.As(err, &mc) || len(mc.Columns) != 1 || mc.Columns[0] != "rating" {
		t.Errorf("missing columns = %v, want [rating]", mc)
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want any
	}{
		{"42", int64(42)},
		{" 7 ", int64(7)},
		{"3.5", 3.5},
		{"true", true},
		{"abc", "abc"},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.in); got != tt.want {
			t.Errorf("ParseValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestToFloat(t *testing.T) {
	t.Parallel()

	for _, v := range []any{int(2), int64(2), float32(2), 2.0, "2"} {
		if got, ok := ToFloat(v); !ok || got != 2 {
			t.Errorf("ToFloat(%#v) = %v, %v", v, got, ok)
		}
	}
	if _, ok := ToFloat("x"); ok {
		t.Error("ToFloat(x) should fail")
	}
	if _, ok := ToFloat(nil); ok {
		t.Error("ToFloat(nil) should fail")
	}
}
