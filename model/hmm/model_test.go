// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"errors"
	"testing"

	"github.com/akualab/sonnet"
)

func TestNewModel(t *testing.T) {

	m := makeHMM2(t)
	if m.NumStates() != 2 || m.NumSymbols() != 2 {
		t.Fatalf("wrong dims: L=%d, D=%d", m.NumStates(), m.NumSymbols())
	}
	sonnet.CompareSliceFloat(t, []float64{0.5, 0.5}, m.Start(), "start probs", 1e-12)
	if m.Name() != "hmm2" {
		t.Fatalf("wrong name: %s", m.Name())
	}

	// Tables are copies.
	a := m.Trans()
	a[0][0] = 0
	if m.Trans()[0][0] != 0.9 {
		t.Fatal("Trans() exposes model storage")
	}
}

func TestNewModelDimensions(t *testing.T) {

	cases := []struct {
		name string
		a, o [][]float64
	}{
		{"no states", [][]float64{}, [][]float64{}},
		{"non-square", [][]float64{{0.5, 0.5}, {1}}, [][]float64{{1}, {1}}},
		{"emission rows", [][]float64{{1}}, [][]float64{{1}, {1}}},
		{"no symbols", [][]float64{{1}}, [][]float64{{}}},
		{"ragged emission", [][]float64{{0.5, 0.5}, {0.5, 0.5}}, [][]float64{{0.5, 0.5}, {1}}},
	}
	for _, c := range cases {
		_, err := NewModel(c.a, c.o)
		if !errors.Is(err, ErrDimension) {
			t.Errorf("%s: expected ErrDimension, got %v", c.name, err)
		}
	}
}

func TestNewRandomModel(t *testing.T) {

	m := makeRandHMM(t, 4, 9, 7)
	checkStochastic(t, m.Trans(), "A")
	checkStochastic(t, m.Emit(), "O")

	if len(m.Emit()[0]) != 9 {
		t.Fatalf("wrong num symbols: %d", len(m.Emit()[0]))
	}
	if _, err := NewRandomModel(0, 3, nil); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
}

func TestUnsupervised(t *testing.T) {

	corpus := [][]int{{0, 1, 2}, {2, 1, 0, 0}, {1, 1, 2}}
	m, err := Unsupervised(corpus, 3, 5, Seed(11))
	fatalIf(t, err)
	if m.NumSymbols() != 3 {
		t.Fatalf("expected 3 symbols, got %d", m.NumSymbols())
	}
	checkStochastic(t, m.Trans(), "A")
	checkStochastic(t, m.Emit(), "O")

	// Same seed, same model.
	m2, err := Unsupervised(corpus, 3, 5, Seed(11))
	fatalIf(t, err)
	for i, row := range m.Trans() {
		sonnet.CompareSliceFloat(t, row, m2.Trans()[i], "same seed", 1e-12)
	}

	// Symbols must be contiguous.
	_, err = Unsupervised([][]int{{0, 5}}, 2, 1)
	if !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
}
