// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"
	"math"

	"github.com/akualab/sonnet/floatx"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// α β γ ζ

// Forward computes alphas for the observation sequence x of length M.
// Rows are indexed by time 1..M; row 0 is unused and left at zero.
//
//	α(1,j)   = π(j) o(j,x(0))
//	α(t+1,j) = sum_i α(t,i) a(i,j) o(j,x(t)); 1<=t<M
//
// When normalize is set, rows 2..M are scaled to sum to one as they are
// computed to avoid underflow on long sequences.
func (m *Model) Forward(x []int, normalize bool) ([][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkSequence(x); err != nil {
		return nil, err
	}
	α, _, err := m.alpha(x, normalize)
	return α, err
}

// Backward computes betas for the observation sequence x of length M.
//
//	β(M,i)   = 1
//	β(t-1,i) = sum_j β(t,j) a(i,j) o(j,x(t-1)); 1<t<=M
//
// Row 0 holds the boundary term where the start distribution replaces the
// transition row: β(0) = sum_j β(1,j) π(j) o(j,x(0)). Without normalization
// every entry of row 0 equals P(x).
func (m *Model) Backward(x []int, normalize bool) ([][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkSequence(x); err != nil {
		return nil, err
	}
	return m.beta(x, normalize)
}

// LogProb returns the log probability of the observation sequence.
func (m *Model) LogProb(x []int) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkSequence(x); err != nil {
		return 0, err
	}
	α, logScale, err := m.alpha(x, true)
	if err != nil {
		return 0, err
	}
	sum := floats.Sum(α[len(x)])
	if !(sum > 0) {
		return 0, fmt.Errorf("%w: sequence has zero probability", ErrDegenerateDistribution)
	}
	return logScale + math.Log(sum), nil
}

// alpha returns the alpha table and the sum of the log scale factors.
// The caller must hold m.mu.
func (m *Model) alpha(x []int, normalize bool) (α [][]float64, logScale float64, e error) {

	N := m.nstates
	M := len(x)

	// TODO: use a reusable data structure to minimize garbage.
	α = floatx.MakeFloat2D(M+1, N)

	// 1. Initialization.
	for j := 0; j < N; j++ {
		α[1][j] = m.start[j] * m.o[j][x[0]]
	}

	// 2. Induction.
	for t := 1; t < M; t++ {
		for j := 0; j < N; j++ {
			var sum float64
			for i := 0; i < N; i++ {
				sum += α[t][i] * m.a[i][j]
			}
			α[t+1][j] = sum * m.o[j][x[t]]
		}
		if !normalize {
			continue
		}
		norm := floats.Sum(α[t+1])
		if !(norm > 0) {
			return nil, 0, fmt.Errorf("%w: alpha at t=%d", ErrDegenerateDistribution, t+1)
		}
		floats.Scale(1/norm, α[t+1])
		logScale += math.Log(norm)
		if glog.V(5) {
			glog.Infof("t: %4d | alpha: %v | norm: %5e", t+1, α[t+1], norm)
		}
	}
	return
}

// step distinguishes the two cases of the backward recursion.
type step int

const (
	// interiorStep moves from t to t-1 for t > 1 using the transition matrix.
	interiorStep step = iota
	// boundaryStep moves from t=1 to the virtual start using the start distribution.
	boundaryStep
)

// beta returns the beta table. The caller must hold m.mu.
func (m *Model) beta(x []int, normalize bool) (β [][]float64, e error) {

	N := m.nstates
	M := len(x)

	// TODO: use a reusable data structure to minimize garbage.
	β = floatx.MakeFloat2D(M+1, N)

	// 1. Initialization.
	floatx.Apply(floatx.SetValueFunc(1), β[M], nil)

	// 2. Induction.
	for t := M; t >= 1; t-- {
		kind := interiorStep
		if t == 1 {
			kind = boundaryStep
		}
		obs := x[t-1]
		for i := 0; i < N; i++ {
			var sum float64
			for j := 0; j < N; j++ {
				var w float64
				switch kind {
				case interiorStep:
					w = m.a[i][j]
				case boundaryStep:
					w = m.start[j]
				}
				sum += β[t][j] * w * m.o[j][obs]
			}
			β[t-1][i] = sum
		}
		if !normalize {
			continue
		}
		if err := floatx.Normalize(β[t-1]); err != nil {
			return nil, fmt.Errorf("%w: beta at t=%d", ErrDegenerateDistribution, t-1)
		}
	}
	return
}

// Viterbi computes the most likely state sequence for x and its log
// probability. These are the equations in log scale:
//
//	delta(0,j) = log π(j) + log o(j,x(0))
//	delta(t,j) = max_k [ delta(t-1,k) + log a(k,j) ] + log o(j,x(t))
//	index(t,j) = argmax_k [ delta(t-1,k) + log a(k,j) ]
//
// The path is recovered by backtracking from argmax_j delta(M-1,j).
func (m *Model) Viterbi(x []int) (bt []int, logViterbiProb float64, e error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e = m.checkSequence(x); e != nil {
		return
	}

	N := m.nstates
	T := len(x)
	delta := floatx.MakeFloat2D(T, N)
	index := make([][]int, T)
	for t := range index {
		index[t] = make([]int, N)
	}
	bt = make([]int, T)

	for j := 0; j < N; j++ {
		delta[0][j] = math.Log(m.start[j]) + math.Log(m.o[j][x[0]])
	}

	for t := 1; t < T; t++ {
		for j := 0; j < N; j++ {
			max := delta[t-1][0] + math.Log(m.a[0][j])
			argmax := 0
			for k := 1; k < N; k++ {
				v := delta[t-1][k] + math.Log(m.a[k][j])
				if v > max {
					max = v
					argmax = k
				}
			}
			delta[t][j] = max + math.Log(m.o[j][x[t]])
			index[t][j] = argmax
		}
	}

	argmax := floats.MaxIdx(delta[T-1])
	logViterbiProb = delta[T-1][argmax]
	if math.IsInf(logViterbiProb, -1) {
		return nil, 0, fmt.Errorf("%w: sequence has zero probability", ErrDegenerateDistribution)
	}
	bt[T-1] = argmax
	for t := T - 2; t >= 0; t-- {
		bt[t] = index[t+1][bt[t+1]]
	}
	return
}
