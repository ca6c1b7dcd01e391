// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package floatx

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestTranspose2D(t *testing.T) {

	s2d := [][]float64{{11, 22}, {33, 44}, {55, 66}}
	expected := [][]float64{{11, 33, 55}, {22, 44, 66}}

	tr := Transpose2D(s2d)
	if len(tr) != 2 {
		t.Fatalf("wrong num rows: %d", len(tr))
	}
	for i := range expected {
		if !floats.Equal(tr[i], expected[i]) {
			t.Fatalf("Transpose failed. expected %+v, got %+v", expected[i], tr[i])
		}
	}
}

func TestNormalize(t *testing.T) {

	s := []float64{1, 3}
	if err := Normalize(s); err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(s, []float64{0.25, 0.75}) {
		t.Fatalf("Normalize failed, got %+v", s)
	}

	z := []float64{0, 0}
	if err := Normalize(z); err != ErrZeroSum {
		t.Fatalf("expected ErrZeroSum, got %v", err)
	}
}

func TestCheck2DRagged(t *testing.T) {

	defer func() {
		if r := recover(); r != ErrLength {
			t.Fatalf("expected panic with ErrLength, got %v", r)
		}
	}()
	Check2D([][]float64{{1, 2}, {3}})
}

func TestCopy2D(t *testing.T) {

	s := [][]float64{{1, 2}, {3, 4}}
	c := Copy2D(s)
	c[0][0] = 9
	if s[0][0] != 1 {
		t.Fatal("Copy2D shares storage with input")
	}
	Clear2D(c)
	if floats.Sum(c[0])+floats.Sum(c[1]) != 0 {
		t.Fatalf("Clear2D failed, got %+v", c)
	}
}

func TestPool(t *testing.T) {

	pool := NewPool(3, 2)
	b := pool.Get()
	if len(b) != 3 {
		t.Fatalf("wrong buffer length: %d", len(b))
	}
	b[0] = 7
	pool.Put(b)
	if pool.Size() != 1 {
		t.Fatalf("expected one pooled buffer, got %d", pool.Size())
	}
	b2 := pool.Get()
	if b2[0] != 7 {
		t.Fatal("expected pooled buffer to be reused")
	}
	pool.Put(make([]float64, 5)) // wrong size is dropped
	if got := pool.Get(); len(got) != 3 {
		t.Fatalf("wrong buffer length: %d", len(got))
	}
}
