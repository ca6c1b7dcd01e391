// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package floatx provides helpers for dense float64 slices and matrices
// stored as [][]float64.
package floatx

import (
	"gonum.org/v1/gonum/floats"
)

type Error string

func (err Error) Error() string { return string(err) }

const (
	ErrZeroLength = Error("floatx: zero length in slice definition")
	ErrLength     = Error("floatx: length mismatch")
	ErrZeroSum    = Error("floatx: values sum to zero")
)

func SetValueFunc(f float64) ApplyFunc {
	return func(r int, v float64) float64 { return f }
}

func MakeFloat2D(n1, n2 int) [][]float64 {

	s := make([][]float64, n1)
	for i := 0; i < n1; i++ {
		s[i] = make([]float64, n2)
	}

	return s
}

// Check2D returns the dimensions of a rectangular matrix. Panics if the
// matrix is empty or ragged.
func Check2D(s [][]float64) (n1, n2 int) {

	n1 = len(s)
	if n1 == 0 {
		panic(ErrZeroLength)
	}

	n2 = len(s[0])
	if n2 == 0 {
		panic(ErrZeroLength)
	}
	for _, row := range s[1:] {
		if len(row) != n2 {
			panic(ErrLength)
		}
	}

	return n1, n2
}

type ApplyFunc func(n int, v float64) float64

// Apply function to 1D slice. If out slice is empty, the function is applied in place.
func Apply(fn ApplyFunc, in, out []float64) []float64 {

	n := len(in)
	if n == 0 {
		panic(ErrZeroLength)
	}
	if len(out) == 0 {
		out = in
	}
	for i := 0; i < n; i++ {
		out[i] = fn(i, in[i])
	}

	return out
}

// Copy2D returns a deep copy of s.
func Copy2D(s [][]float64) [][]float64 {

	out := make([][]float64, len(s))
	for i, row := range s {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Transpose2D returns a new matrix with rows and columns swapped.
func Transpose2D(s [][]float64) [][]float64 {

	n1, n2 := Check2D(s)
	out := MakeFloat2D(n2, n1)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			out[j][i] = s[i][j]
		}
	}
	return out
}

// Normalize scales s in place so it sums to one. Returns ErrZeroSum and
// leaves s untouched when the sum is not positive.
func Normalize(s []float64) error {

	sum := floats.Sum(s)
	if !(sum > 0) {
		return ErrZeroSum
	}
	floats.Scale(1/sum, s)
	return nil
}

// Set all values to zero.
func Clear(s []float64) {

	Apply(SetValueFunc(0), s, nil)
}

// Set all values to zero.
func Clear2D(s [][]float64) {

	for _, slice := range s {
		Clear(slice)
	}
}

// A simple []float64 slice pool object.
// Use it to avoid allocating unecessary resources in
// concurrent code.
type Pool struct {
	n   int
	buf chan []float64
}

func NewPool(n, size int) *Pool {

	return &Pool{n, make(chan []float64, size)}
}

func (pool *Pool) Get() []float64 {
	select {
	case b := <-pool.buf:
		return b
	default:
	}
	return make([]float64, pool.n)
}

// Size returns the number of buffers waiting in the pool.
func (pool *Pool) Size() int { return len(pool.buf) }

func (pool *Pool) Put(p []float64) {
	if len(p) != pool.n {
		return
	}
	select {
	case pool.buf <- p:
	default:
	}
}
