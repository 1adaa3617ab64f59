// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Params holds named construction options for a model.
type Params map[string]any

// Kind is the value type of a declared parameter.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Param declares one accepted construction option.
type Param struct {
	Name    string
	Kind    Kind
	Default any
	Help    string
}

// ParamSchema is the static list of options a variant accepts.
type ParamSchema []Param

// Lookup returns the declaration for name.
func (s ParamSchema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Resolve validates p against the schema, coerces values to their declared
// kinds, and fills defaults. Undeclared names and values of the wrong kind
// yield ErrInvalidParameter.
func (s ParamSchema) Resolve(p Params) (Params, error) {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Params, len(s))
	for _, name := range names {
		decl, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected parameter %q", ErrInvalidParameter, name)
		}
		v, err := coerce(decl.Kind, p[name])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
		}
		out[name] = v
	}
	for _, decl := range s {
		if _, ok := out[decl.Name]; !ok && decl.Default != nil {
			out[decl.Name] = decl.Default
		}
	}
	return out, nil
}

func coerce(kind Kind, v any) (any, error) {
	switch kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			if b, err := strconv.ParseBool(x); err == nil {
				return b, nil
			}
		}
	case KindInt:
		switch x := v.(type) {
		case int:
			return x, nil
		case int32:
			return int(x), nil
		case int64:
			return int(x), nil
		case uint64:
			return int(x), nil
		case float64:
			if x == math.Trunc(x) {
				return int(x), nil
			}
		case json.Number:
			if i, err := x.Int64(); err == nil {
				return int(i), nil
			}
		case string:
			if i, err := strconv.Atoi(x); err == nil {
				return i, nil
			}
		}
	case KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case json.Number:
			if f, err := x.Float64(); err == nil {
				return f, nil
			}
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, v)
}

// GetString returns a string parameter or def.
func (p Params) GetString(name, def string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return def
}

// GetInt returns an int parameter or def.
func (p Params) GetInt(name string, def int) int {
	if v, ok := p[name].(int); ok {
		return v
	}
	return def
}

// GetFloat returns a float parameter or def.
func (p Params) GetFloat(name string, def float64) float64 {
	if v, ok := p[name].(float64); ok {
		return v
	}
	return def
}

// GetBool returns a bool parameter or def.
func (p Params) GetBool(name string, def bool) bool {
	if v, ok := p[name].(bool); ok {
		return v
	}
	return def
}

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
