// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// initStdDev is the standard deviation of the normal initializer.
const initStdDev = 0.1

// Factors holds the user (numUsers x dim) and item (numItems x dim) latent
// factor matrices. A matrix with zero rows is nil.
type Factors struct {
	dim   int
	users *mat.Dense
	items *mat.Dense
}

// newFactors draws every entry from N(0, 0.1^2), users first then items.
func newFactors(numUsers, numItems, dim int, rng *rand.Rand) *Factors {
	return &Factors{
		dim:   dim,
		users: randomDense(numUsers, dim, rng),
		items: randomDense(numItems, dim, rng),
	}
}

func randomDense(rows, cols int, rng *rand.Rand) *mat.Dense {
	if rows == 0 || cols == 0 {
		return nil
	}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64() * initStdDev
	}
	return mat.NewDense(rows, cols, data)
}

// Dim returns the latent dimension.
func (f *Factors) Dim() int { return f.dim }

// NumUsers returns the number of user rows.
func (f *Factors) NumUsers() int { return rowsOf(f.users) }

// NumItems returns the number of item rows.
func (f *Factors) NumItems() int { return rowsOf(f.items) }

// UserRow returns a mutable view of user row u.
func (f *Factors) UserRow(u int) []float64 { return f.users.RawRowView(u) }

// ItemRow returns a mutable view of item row i.
func (f *Factors) ItemRow(i int) []float64 { return f.items.RawRowView(i) }

// Scores returns items · users[u], one score per item row.
func (f *Factors) Scores(u int) []float64 {
	n := f.NumItems()
	if n == 0 {
		return nil
	}
	out := mat.NewVecDense(n, nil)
	out.MulVec(f.items, mat.NewVecDense(f.dim, f.UserRow(u)))
	return out.RawVector().Data
}

func rowsOf(m *mat.Dense) int {
	if m == nil {
		return 0
	}
	r, _ := m.Dims()
	return r
}

// factorState is the persisted form of Factors, row-major.
type factorState struct {
	Dim      int
	NumUsers int
	NumItems int
	Users    []float64
	Items    []float64
}

func (f *Factors) state() factorState {
	return factorState{
		Dim:      f.dim,
		NumUsers: f.NumUsers(),
		NumItems: f.NumItems(),
		Users:    rawData(f.users),
		Items:    rawData(f.items),
	}
}

func rawData(m *mat.Dense) []float64 {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

func factorsFromState(s factorState) (*Factors, error) {
	if len(s.Users) != s.NumUsers*s.Dim || len(s.Items) != s.NumItems*s.Dim {
		return nil, fmt.Errorf("factor state: shape mismatch (users %d/%dx%d, items %d/%dx%d)",
			len(s.Users), s.NumUsers, s.Dim, len(s.Items), s.NumItems, s.Dim)
	}
	f := &Factors{dim: s.Dim}
	if s.NumUsers > 0 && s.Dim > 0 {
		f.users = mat.NewDense(s.NumUsers, s.Dim, s.Users)
	}
	if s.NumItems > 0 && s.Dim > 0 {
		f.items = mat.NewDense(s.NumItems, s.Dim, s.Items)
	}
	return f, nil
}
