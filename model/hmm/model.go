// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hmm provides a discrete hidden Markov model with Baum-Welch
training and constrained sequence generation.

Hidden states are labeled {0,...,L-1} and observation symbols are labeled
{0,...,D-1}. The model has a transition matrix A [L x L], an emission
matrix O [L x D] and a uniform start distribution that is fixed for the
lifetime of the model.
*/
package hmm

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/akualab/sonnet/cache"
	"github.com/akualab/sonnet/floatx"
	"github.com/akualab/sonnet/model"
	"github.com/golang/glog"
)

// Max number of per-word state posteriors kept by a model.
const posteriorCacheSize = 4096

// Model is a discrete hidden Markov model.
type Model struct {

	// Model name.
	ModelName string

	// Num hidden states (L) and num observation symbols (D).
	nstates  int
	nsymbols int

	// State-transition probability matrix. [nstates x nstates]
	// a(i,j) = P[q(t+1) = j | q(t) = i]
	a [][]float64

	// Emission probability matrix. [nstates x nsymbols]
	// o(i,k) = P[x(t) = k | q(t) = i]
	o [][]float64

	// Start distribution, uniform. [nstates]
	start []float64

	// Guards a and o. Training takes the write lock to commit an iteration.
	mu sync.RWMutex
	// Serializes calls to Train.
	trainMu sync.Mutex

	seed      int64
	workers   int
	threshold float64

	// P(state | word) with a uniform prior, keyed by word.
	posteriors *cache.Cache

	// Gamma buffers reused by training workers across iterations and calls.
	scratch *floatx.Pool
}

// Option type is used to pass options to NewModel().
type Option func(*Model)

// NewModel creates a new HMM using copies of the transition and emission
// matrices. Returns an error wrapping ErrDimension when the shapes are invalid.
func NewModel(a, o [][]float64, options ...Option) (*Model, error) {

	ns := len(a)
	if ns < 1 {
		return nil, fmt.Errorf("%w: num states must be at least 1", ErrDimension)
	}
	for i, row := range a {
		if len(row) != ns {
			return nil, fmt.Errorf("%w: transition matrix row %d has %d values, expected %d",
				ErrDimension, i, len(row), ns)
		}
	}
	if len(o) != ns {
		return nil, fmt.Errorf("%w: emission matrix has %d rows, expected %d", ErrDimension, len(o), ns)
	}
	nsym := len(o[0])
	if nsym < 1 {
		return nil, fmt.Errorf("%w: num symbols must be at least 1", ErrDimension)
	}
	for i, row := range o {
		if len(row) != nsym {
			return nil, fmt.Errorf("%w: emission matrix row %d has %d values, expected %d",
				ErrDimension, i, len(row), nsym)
		}
	}

	m := &Model{
		ModelName:  "HMM",
		nstates:    ns,
		nsymbols:   nsym,
		a:          floatx.Copy2D(a),
		o:          floatx.Copy2D(o),
		start:      make([]float64, ns),
		seed:       model.DefaultSeed,
		workers:    1,
		posteriors: cache.NewCache(posteriorCacheSize),
		scratch:    floatx.NewPool(ns, runtime.GOMAXPROCS(0)),
	}
	floatx.Apply(floatx.SetValueFunc(1/float64(ns)), m.start, nil)

	// Set options.
	for _, option := range options {
		option(m)
	}

	for i := 0; i < ns; i++ {
		if !model.IsStochastic(m.a[i]) {
			glog.Warningf("model %s: transition row %d is not a distribution", m.ModelName, i)
		}
		if !model.IsStochastic(m.o[i]) {
			glog.Warningf("model %s: emission row %d is not a distribution", m.ModelName, i)
		}
	}

	glog.Infof("New HMM %s. Num states = %d, num symbols = %d.", m.ModelName, ns, nsym)
	if glog.V(4) {
		glog.Infof("Trans. Probs:         %v.", m.a)
		glog.Infof("Emission Probs:       %v.", m.o)
	}
	return m, nil
}

// NewRandomModel creates an HMM with random row-stochastic matrices.
func NewRandomModel(numStates, numSymbols int, r *rand.Rand, options ...Option) (*Model, error) {

	if numStates < 1 || numSymbols < 1 {
		return nil, fmt.Errorf("%w: num states [%d] and num symbols [%d] must be at least 1",
			ErrDimension, numStates, numSymbols)
	}
	a := model.RandStochastic(numStates, numStates, r)
	o := model.RandStochastic(numStates, numSymbols, r)
	return NewModel(a, o, options...)
}

// Unsupervised creates a randomly initialized model with numStates hidden
// states and trains it on the corpus. The number of symbols is the number of
// distinct symbols in the corpus; symbols must be coded as 0,1,...,D-1.
func Unsupervised(corpus [][]int, numStates, iterations int, options ...Option) (*Model, error) {

	symbols := make(map[int]struct{})
	for _, seq := range corpus {
		for _, x := range seq {
			symbols[x] = struct{}{}
		}
	}
	nsym := len(symbols)
	for x := range symbols {
		if x < 0 || x >= nsym {
			return nil, fmt.Errorf("%w: symbol %d is outside [0,%d)", ErrDimension, x, nsym)
		}
	}

	// Options are applied twice, here only to read the seed.
	tmp := &Model{seed: model.DefaultSeed}
	for _, option := range options {
		option(tmp)
	}
	r := rand.New(rand.NewSource(tmp.seed))

	m, err := NewRandomModel(numStates, nsym, r, options...)
	if err != nil {
		return nil, err
	}
	if err := m.Train(corpus, iterations); err != nil {
		return nil, err
	}
	return m, nil
}

// NumStates returns the number of hidden states.
func (m *Model) NumStates() int { return m.nstates }

// NumSymbols returns the size of the observation vocabulary.
func (m *Model) NumSymbols() int { return m.nsymbols }

// Name returns the name of the model.
func (m *Model) Name() string { return m.ModelName }

// Trans returns a copy of the transition matrix.
func (m *Model) Trans() [][]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return floatx.Copy2D(m.a)
}

// Emit returns a copy of the emission matrix.
func (m *Model) Emit() [][]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return floatx.Copy2D(m.o)
}

// Start returns a copy of the start distribution.
func (m *Model) Start() []float64 {
	s := make([]float64, m.nstates)
	copy(s, m.start)
	return s
}

// checkSequence validates an observation sequence against the model.
func (m *Model) checkSequence(seq []int) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: empty sequence", ErrDegenerateInput)
	}
	for t, x := range seq {
		if x < 0 || x >= m.nsymbols {
			return fmt.Errorf("%w: symbol %d at position %d is outside [0,%d)", ErrDimension, x, t, m.nsymbols)
		}
	}
	return nil
}

// Name is an option to set the model name.
func Name(name string) Option {
	return func(m *Model) { m.ModelName = name }
}

// Seed sets a seed value for random functions.
// Uses default seed value if omitted.
func Seed(seed int64) Option {
	return func(m *Model) { m.seed = seed }
}

// Workers sets the number of goroutines used to compute the E-step during
// training. Default is 1.
func Workers(n int) Option {
	return func(m *Model) {
		if n < 1 {
			n = 1
		}
		m.workers = n
	}
}

// Threshold enables early stopping: training ends when the average corpus
// log probability improves less than t between iterations. Default is zero,
// which runs the requested number of iterations.
func Threshold(t float64) Option {
	return func(m *Model) { m.threshold = t }
}
