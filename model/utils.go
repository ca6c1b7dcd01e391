// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/akualab/sonnet/floatx"
	"gonum.org/v1/gonum/floats"
)

// RandIntFromDist draws an index from a discrete distribution using the
// inverse CDF: u ~ U(0,1] and the category probabilities are subtracted in
// index order until the remainder is not positive.
func RandIntFromDist(dist []float64, r *rand.Rand) (int, error) {
	N := len(dist)
	if N == 0 {
		return -1, fmt.Errorf("prob distribution has len 0")
	}
	u := 1.0 - r.Float64() // (0,1]
	last := -1
	for i := 0; i < N; i++ {
		if dist[i] > 0 {
			last = i
		}
		u -= dist[i]
		if u <= 0 && last == i {
			return i, nil
		}
	}
	if last < 0 {
		return -1, floatx.ErrZeroSum
	}

	// Round-off left a tiny remainder.
	return last, nil
}

// IsStochastic returns true when all values are in [0,1] and add up to one
// within Tolerance.
func IsStochastic(dist []float64) bool {
	for _, v := range dist {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return false
		}
	}
	return math.Abs(floats.Sum(dist)-1) < Tolerance
}

// RandStochastic returns a rows x cols matrix of uniform random values with
// each row normalized to sum to one.
func RandStochastic(rows, cols int, r *rand.Rand) [][]float64 {
	m := floatx.MakeFloat2D(rows, cols)
	for _, row := range m {
		for j := range row {
			// Avoid exact zeros so every row has a positive sum.
			row[j] = 1.0 - r.Float64()
		}
		floats.Scale(1/floats.Sum(row), row)
	}
	return m
}
