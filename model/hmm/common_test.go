// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"math/rand"
	"testing"

	"github.com/akualab/sonnet/model"
)

func fatalIf(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// makeHMM2 returns the symmetric two-state model used for hand-computed checks.
func makeHMM2(t *testing.T) *Model {
	a := [][]float64{{0.9, 0.1}, {0.1, 0.9}}
	o := [][]float64{{0.9, 0.1}, {0.1, 0.9}}
	m, err := NewModel(a, o, Name("hmm2"))
	fatalIf(t, err)
	return m
}

func makeRandHMM(t *testing.T, ns, nsym int, seed int64) *Model {
	r := rand.New(rand.NewSource(seed))
	m, err := NewRandomModel(ns, nsym, r, Name("rand"), Seed(seed))
	fatalIf(t, err)
	return m
}

// makeCorpus generates n sequences of length T.
func makeCorpus(t *testing.T, m *Model, n, T int, seed int64) [][]int {
	gen := NewGenerator(m, seed)
	corpus := make([][]int, n)
	for i := range corpus {
		x, _, err := gen.Emission(T)
		fatalIf(t, err)
		corpus[i] = x
	}
	return corpus
}

func checkStochastic(t *testing.T, table [][]float64, name string) {
	t.Helper()
	for i, row := range table {
		if !model.IsStochastic(row) {
			t.Errorf("%s row %d is not a distribution: %v", name, i, row)
		}
	}
}
