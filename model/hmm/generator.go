// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"
	"math/rand"

	"github.com/akualab/sonnet/floatx"
	"github.com/akualab/sonnet/model"
	"github.com/golang/glog"
)

const (
	// Iambic pentameter.
	defaultCeiling  = 10
	defaultMaxWords = 100
)

// Generator generates random sequences using an hmm model. A Generator is
// not safe for concurrent use; use one generator per goroutine. Many
// generators may share the same model.
type Generator struct {
	hmm *Model
	r   *rand.Rand
}

// NewGenerator returns an hmm data generator.
func NewGenerator(m *Model, seed int64) *Generator {
	return &Generator{
		hmm: m,
		r:   rand.New(rand.NewSource(seed)),
	}
}

// draw samples an index from dist.
func (gen *Generator) draw(dist []float64) (int, error) {
	k, err := model.RandIntFromDist(dist, gen.r)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrDegenerateDistribution, err)
	}
	return k, nil
}

// Emission generates an emission of the given length starting from a state
// chosen uniformly at random. Returns the emission and the hidden states.
func (gen *Generator) Emission(length int) (emission, states []int, e error) {

	m := gen.hmm
	m.mu.RLock()
	defer m.mu.RUnlock()

	if length < 0 {
		return nil, nil, fmt.Errorf("%w: negative length %d", ErrDegenerateInput, length)
	}
	emission = make([]int, 0, length)
	states = make([]int, 0, length)
	state := gen.r.Intn(m.nstates)
	for t := 0; t < length; t++ {
		states = append(states, state)
		obs, err := gen.draw(m.o[state])
		if err != nil {
			return nil, nil, err
		}
		emission = append(emission, obs)
		if state, err = gen.draw(m.a[state]); err != nil {
			return nil, nil, err
		}
	}
	return
}

type lineOptions struct {
	reverse    bool
	initial    int
	hasInitial bool
	ceiling    int
	maxWords   int
}

// LineOption configures Line.
type LineOption func(*lineOptions)

// Reverse generates the line from its last word backwards using the
// transposed transition matrix with renormalized rows.
func Reverse() LineOption {
	return func(o *lineOptions) { o.reverse = true }
}

// InitialWord seeds the line with a word. In reverse mode the word ends the
// line, which is how rhymes are placed.
func InitialWord(word int) LineOption {
	return func(o *lineOptions) {
		o.initial = word
		o.hasInitial = true
	}
}

// Ceiling sets the syllable ceiling used to prune words that cannot fit in
// the line. Default is 10.
func Ceiling(n int) LineOption {
	return func(o *lineOptions) { o.ceiling = n }
}

// MaxWords sets the max number of generated words. Default is 100.
func MaxWords(n int) LineOption {
	return func(o *lineOptions) { o.maxWords = n }
}

// Line generates a line whose syllable count can be exactly target. A word
// is only emitted if it is in the dictionary and the shortest reachable
// total plus its shortest count does not exceed the ceiling. Generation
// stops as soon as target is a reachable end total.
func (gen *Generator) Line(target int, dict Dictionary, options ...LineOption) (emission, states []int, e error) {

	opts := &lineOptions{
		ceiling:  defaultCeiling,
		maxWords: defaultMaxWords,
	}
	for _, option := range options {
		option(opts)
	}

	m := gen.hmm
	m.mu.RLock()
	defer m.mu.RUnlock()

	trans := m.a
	if opts.reverse {
		if trans, e = m.reversed(); e != nil {
			return nil, nil, e
		}
	}

	// Prepend when generating backwards.
	push := func(s []int, v int) []int {
		if opts.reverse {
			return append([]int{v}, s...)
		}
		return append(s, v)
	}

	normal := newSyllableSet(0)
	end := newSyllableSet(0)
	var state int

	if opts.hasInitial {
		w := opts.initial
		if w < 0 || w >= m.nsymbols {
			return nil, nil, fmt.Errorf("%w: initial word %d is outside [0,%d)", ErrDimension, w, m.nsymbols)
		}
		syl, ok := dict[w]
		if !ok {
			return nil, nil, fmt.Errorf("%w: initial word %d is not in the dictionary", ErrDegenerateInput, w)
		}
		emission = append(emission, w)
		normal = newSyllableSet(syl.Normal...)
		end = normal.union(newSyllableSet(syl.End...))

		post, err := m.posterior(w)
		if err != nil {
			return nil, nil, err
		}
		s0, err := gen.draw(post)
		if err != nil {
			return nil, nil, err
		}
		states = append(states, s0)
		if state, err = gen.draw(trans[s0]); err != nil {
			return nil, nil, err
		}
	} else {
		state = gen.r.Intn(m.nstates)
	}

	// Smallest count per word, computed once per line.
	minSyl := make([]int, m.nsymbols)
	known := make([]bool, m.nsymbols)
	for k := range minSyl {
		if syl, ok := dict[k]; ok {
			minSyl[k], known[k] = syl.min()
		}
	}

	dist := make([]float64, m.nsymbols)
	for words := 0; !end.has(target); words++ {
		if words >= opts.maxWords {
			return nil, nil, fmt.Errorf("%w: no line with %d syllables after %d words", ErrLineBudget, target, words)
		}
		if len(normal) == 0 {
			return nil, nil, fmt.Errorf("%w: no reachable syllable totals", ErrDegenerateDistribution)
		}
		states = push(states, state)

		// Mask words that cannot fit.
		floor := normal.min()
		copy(dist, m.o[state])
		for k := range dist {
			if !known[k] || floor+minSyl[k] > opts.ceiling {
				dist[k] = 0
			}
		}
		if err := floatx.Normalize(dist); err != nil {
			return nil, nil, fmt.Errorf("%w: no feasible word for state %d", ErrDegenerateDistribution, state)
		}
		obs, err := gen.draw(dist)
		if err != nil {
			return nil, nil, err
		}
		emission = push(emission, obs)
		normal, end = advance(normal, dict[obs])

		if glog.V(4) {
			glog.Infof("state: %d | word: %d | normal: %v | end: %v", state, obs, normal.sorted(), end.sorted())
		}

		if state, err = gen.draw(trans[state]); err != nil {
			return nil, nil, err
		}
	}
	return
}

// reversed returns the transpose of the transition matrix with each row
// renormalized. The caller must hold m.mu.
func (m *Model) reversed() ([][]float64, error) {
	rev := floatx.Transpose2D(m.a)
	for i, row := range rev {
		if err := floatx.Normalize(row); err != nil {
			return nil, fmt.Errorf("%w: state %d is unreachable", ErrDegenerateDistribution, i)
		}
	}
	return rev, nil
}

// posterior returns P(state | word) assuming a uniform prior over states.
// The caller must hold m.mu.
func (m *Model) posterior(word int) ([]float64, error) {
	key := uint64(word)
	if p, ok := m.posteriors.Get(key); ok {
		return p, nil
	}
	p := make([]float64, m.nstates)
	for i := range p {
		p[i] = m.o[i][word]
	}
	if err := floatx.Normalize(p); err != nil {
		return nil, fmt.Errorf("%w: no state emits word %d", ErrDegenerateDistribution, word)
	}
	return m.posteriors.SetIfAbsent(key, p), nil
}
