// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"errors"
	"sync"
	"testing"

	"github.com/akualab/sonnet"
)

// Words 0..4 are in the dictionary, word 5 is not.
var testDict = Dictionary{
	0: {Normal: []int{1}, End: []int{1}},
	1: {Normal: []int{2}, End: []int{2}},
	2: {Normal: []int{1, 2}, End: []int{1}},
	3: {Normal: []int{3}, End: []int{2}},
	4: {Normal: []int{1}},
}

// lineFits checks by enumeration that the words can add up to target using
// a normal count for every word except words[final], which may also use an
// end count.
func lineFits(words []int, final int, dict Dictionary, target int) bool {
	var walk func(k, sum int) bool
	walk = func(k, sum int) bool {
		if k == len(words) {
			return sum == target
		}
		syl := dict[words[k]]
		counts := syl.Normal
		if k == final {
			counts = append(append([]int{}, syl.Normal...), syl.End...)
		}
		for _, c := range counts {
			if walk(k+1, sum+c) {
				return true
			}
		}
		return false
	}
	return len(words) > 0 && walk(0, 0)
}

func TestEmission(t *testing.T) {

	m := makeRandHMM(t, 3, 7, 2)
	gen := NewGenerator(m, 5)
	x, s, err := gen.Emission(50)
	fatalIf(t, err)
	if len(x) != 50 || len(s) != 50 {
		t.Fatalf("wrong lengths: %d, %d", len(x), len(s))
	}
	for k := range x {
		if x[k] < 0 || x[k] >= 7 || s[k] < 0 || s[k] >= 3 {
			t.Fatalf("value out of range at %d: obs %d, state %d", k, x[k], s[k])
		}
	}

	// Same seed, same sequence.
	x2, s2, err := NewGenerator(m, 5).Emission(50)
	fatalIf(t, err)
	sonnet.CompareSliceInt(t, x, x2, "emission")
	sonnet.CompareSliceInt(t, s, s2, "states")

	if _, _, err := gen.Emission(-1); !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestEmissionFollowsModel(t *testing.T) {

	// State 0 only emits 0, state 1 only emits 1, and states never change.
	a := [][]float64{{1, 0}, {0, 1}}
	o := [][]float64{{1, 0}, {0, 1}}
	m, err := NewModel(a, o)
	fatalIf(t, err)

	gen := NewGenerator(m, 1)
	for n := 0; n < 20; n++ {
		x, s, err := gen.Emission(10)
		fatalIf(t, err)
		for k := range x {
			if x[k] != s[0] || s[k] != s[0] {
				t.Fatalf("unexpected emission %v for states %v", x, s)
			}
		}
	}
}

// Only one word can be emitted, it fills the line.
func TestLineSingleWord(t *testing.T) {

	a := [][]float64{{0.5, 0.5}, {0.3, 0.7}}
	o := [][]float64{{0.2, 0.5, 0.3}, {0.6, 0.2, 0.2}}
	m, err := NewModel(a, o)
	fatalIf(t, err)
	dict := Dictionary{0: {Normal: []int{10}, End: []int{10}}}

	for seed := int64(0); seed < 10; seed++ {
		x, s, err := NewGenerator(m, seed).Line(10, dict)
		fatalIf(t, err)
		sonnet.CompareSliceInt(t, []int{0}, x, "line")
		if len(s) != 1 {
			t.Fatalf("expected one state, got %v", s)
		}
	}
}

func TestLineSyllables(t *testing.T) {

	m := makeRandHMM(t, 4, 6, 17)
	for seed := int64(0); seed < 200; seed++ {
		gen := NewGenerator(m, seed)
		x, s, err := gen.Line(10, testDict)
		fatalIf(t, err)
		if len(x) != len(s) {
			t.Fatalf("emission %v and states %v have different lengths", x, s)
		}
		for _, w := range x {
			if _, ok := testDict[w]; !ok {
				t.Fatalf("word %d is not in the dictionary: %v", w, x)
			}
		}
		if !lineFits(x, len(x)-1, testDict, 10) {
			t.Fatalf("line %v does not have 10 syllables", x)
		}
		// Stops at the first word that completes the line.
		if len(x) > 1 && lineFits(x[:len(x)-1], len(x)-2, testDict, 10) {
			t.Fatalf("line %v is longer than needed", x)
		}
	}
}

func TestLineReverse(t *testing.T) {

	m := makeRandHMM(t, 4, 6, 23)
	for seed := int64(0); seed < 100; seed++ {
		gen := NewGenerator(m, seed)
		x, s, err := gen.Line(10, testDict, Reverse(), InitialWord(3))
		fatalIf(t, err)
		if x[len(x)-1] != 3 {
			t.Fatalf("line %v does not end with the initial word", x)
		}
		if len(x) != len(s) {
			t.Fatalf("emission %v and states %v have different lengths", x, s)
		}

		// The most recent word, which is the first one in the line, is the
		// one that may use its end count.
		if !lineFits(x, 0, testDict, 10) {
			t.Fatalf("line %v does not have 10 syllables", x)
		}
	}
}

func TestLineInitialForward(t *testing.T) {

	m := makeRandHMM(t, 3, 6, 29)
	x, _, err := NewGenerator(m, 3).Line(10, testDict, InitialWord(1))
	fatalIf(t, err)
	if x[0] != 1 {
		t.Fatalf("line %v does not start with the initial word", x)
	}
}

func TestLineErrors(t *testing.T) {

	m := makeRandHMM(t, 2, 6, 31)
	gen := NewGenerator(m, 1)

	if _, _, err := gen.Line(10, Dictionary{}); !errors.Is(err, ErrDegenerateDistribution) {
		t.Fatalf("expected ErrDegenerateDistribution, got %v", err)
	}
	if _, _, err := gen.Line(10, testDict, InitialWord(5)); !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput, got %v", err)
	}
	if _, _, err := gen.Line(10, testDict, InitialWord(6)); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}

	// Zero syllable words never complete the line.
	zero := Dictionary{0: {Normal: []int{0}, End: []int{0}}}
	if _, _, err := gen.Line(5, zero, MaxWords(20)); !errors.Is(err, ErrLineBudget) {
		t.Fatalf("expected ErrLineBudget, got %v", err)
	}

	// Three words are needed but the third one is over the ceiling.
	four := Dictionary{0: {Normal: []int{4}, End: []int{4}}}
	if _, _, err := gen.Line(12, four); !errors.Is(err, ErrDegenerateDistribution) {
		t.Fatalf("expected ErrDegenerateDistribution, got %v", err)
	}
	x, _, err := gen.Line(12, four, Ceiling(12))
	fatalIf(t, err)
	sonnet.CompareSliceInt(t, []int{0, 0, 0}, x, "line")
}

func TestReversedTransitions(t *testing.T) {

	m := makeHMM2(t)
	rev, err := m.reversed()
	fatalIf(t, err)
	checkStochastic(t, rev, "reversed A")

	a := [][]float64{{0.5, 0.5, 0}, {0.5, 0.5, 0}, {0.2, 0.3, 0.5}}
	o := [][]float64{{1}, {1}, {1}}
	m2, err := NewModel(a, o)
	fatalIf(t, err)
	rev, err = m2.reversed()
	fatalIf(t, err)
	// Column 0 of A is [0.5, 0.5, 0.2].
	sonnet.CompareSliceFloat(t, []float64{0.5 / 1.2, 0.5 / 1.2, 0.2 / 1.2}, rev[0], "reversed row 0", 1e-12)
}

func TestPosteriorCache(t *testing.T) {

	m := makeHMM2(t)
	m.mu.RLock()
	p, err := m.posterior(1)
	m.mu.RUnlock()
	fatalIf(t, err)
	sonnet.CompareSliceFloat(t, []float64{0.1, 0.9}, p, "posterior", 1e-12)
	if _, ok := m.posteriors.Get(1); !ok {
		t.Fatal("posterior was not cached")
	}

	// Training invalidates cached posteriors.
	fatalIf(t, m.Train([][]int{{0, 1, 1, 0}}, 1))
	if _, ok := m.posteriors.Get(1); ok {
		t.Fatal("posterior cache was not cleared")
	}
}

// Generators sharing a model can run concurrently.
func TestLineConcurrent(t *testing.T) {

	m := makeRandHMM(t, 4, 6, 37)
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			gen := NewGenerator(m, int64(w))
			for n := 0; n < 20; n++ {
				if _, _, err := gen.Line(10, testDict, Reverse(), InitialWord(w%4)); err != nil {
					errs[w] = err
					return
				}
			}
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		fatalIf(t, err)
	}
}

func TestSyllableSet(t *testing.T) {

	normal := newSyllableSet(0)
	normal, end := advance(normal, Syllables{Normal: []int{1, 2}, End: []int{1}})
	sonnet.CompareSliceInt(t, []int{1, 2}, normal.sorted(), "normal")
	sonnet.CompareSliceInt(t, []int{1, 2}, end.sorted(), "end")

	normal, end = advance(normal, Syllables{Normal: []int{3}, End: []int{2}})
	sonnet.CompareSliceInt(t, []int{4, 5}, normal.sorted(), "normal")
	sonnet.CompareSliceInt(t, []int{3, 4, 5}, end.sorted(), "end")
	if normal.min() != 4 {
		t.Fatalf("wrong min: %d", normal.min())
	}

	// Duplicates collapse.
	s := newSyllableSet(1, 2).plus([]int{1, 0})
	sonnet.CompareSliceInt(t, []int{1, 2, 3}, s.sorted(), "plus")
}
