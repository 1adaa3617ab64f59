// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package validation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type testStorage struct {
	BaseDir   string `koanf:"base_dir" validate:"required"`
	ModelName string `koanf:"model_name" validate:"omitempty,modelname"`
}

type testConfig struct {
	Storage testStorage `koanf:"storage"`
	K       int         `koanf:"k" validate:"min=1,max=1000"`
	Metric  string      `koanf:"metric" validate:"oneof=hit_rate ndcg"`
	Label   string      `validate:"omitempty,max=3"`
}

func validConfig() testConfig {
	return testConfig{
		Storage: testStorage{BaseDir: "models", ModelName: "ratings-v2.1_a"},
		K:       10,
		Metric:  "ndcg",
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*testConfig)
		wantFields []string
		wantMsg    string
	}{
		{
			name:   "valid",
			mutate: func(*testConfig) {},
		},
		{
			name:       "required nested",
			mutate:     func(c *testConfig) { c.Storage.BaseDir = "" },
			wantFields: []string{"storage.base_dir"},
			wantMsg:    "storage.base_dir is required",
		},
		{
			name:       "bad model name",
			mutate:     func(c *testConfig) { c.Storage.ModelName = "../escape" },
			wantFields: []string{"storage.model_name"},
		},
		{
			name:       "min",
			mutate:     func(c *testConfig) { c.K = 0 },
			wantFields: []string{"k"},
			wantMsg:    "k must be at least 1",
		},
		{
			name:       "oneof",
			mutate:     func(c *testConfig) { c.Metric = "auc" },
			wantFields: []string{"metric"},
			wantMsg:    "metric must be one of: hit_rate ndcg",
		},
		{
			name:       "untagged field keeps Go name",
			mutate:     func(c *testConfig) { c.Label = "toolong" },
			wantFields: []string{"Label"},
			wantMsg:    "Label must be at most 3 characters",
		},
		{
			name: "multiple",
			mutate: func(c *testConfig) {
				c.Storage.BaseDir = ""
				c.K = 5000
			},
			wantFields: []string{"storage.base_dir", "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateStruct(&cfg)

			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}

			var fe *FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("ValidateStruct() error = %v, want *FieldErrors", err)
			}
			if got := fe.Fields(); !reflect.DeepEqual(got, tt.wantFields) {
				t.Errorf("Fields() = %v, want %v", got, tt.wantFields)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidationError_Accessors(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.K = 0
	var fe *FieldErrors
	if !errors.As(ValidateStruct(&cfg), &fe) || len(fe.Errors()) != 1 {
		t.Fatalf("expected one field error")
	}

	e := fe.Errors()[0]
	if e.Field() != "k" || e.Tag() != "min" || e.Param() != "1" || e.Value() != 0 {
		t.Errorf("accessors = %q %q %q %v", e.Field(), e.Tag(), e.Param(), e.Value())
	}
}

func TestFieldErrors_Empty(t *testing.T) {
	t.Parallel()

	if got := (&FieldErrors{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
