// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"fmt"
	"math"
	"sync"

	"github.com/akualab/sonnet/floatx"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// Sufficient statistics for one iteration.
//
// Reestimation of state transition probabilities:
//
//	              sum_t ζ(t,i,j)         <== sumXi
//	a_hat(i,j) = ----------------
//	              sum_{t<M} γ(t,i)       <== sumGammaA
//
// Reestimation of emission probabilities:
//
//	              sum_{t: x(t)=k} γ(t,i)  <== sumGammaK
//	o_hat(i,k) = ----------------------
//	              sum_t γ(t,i)            <== sumGamma
type stats struct {
	sumXi     [][]float64
	sumGammaK [][]float64
	sumGammaA []float64
	sumGamma  []float64
	logProb   float64
	nseq      int

	// Scratch for ζ(t,i,j), not merged.
	xi [][]float64
}

func newStats(ns, nsym int) *stats {
	return &stats{
		sumXi:     floatx.MakeFloat2D(ns, ns),
		sumGammaK: floatx.MakeFloat2D(ns, nsym),
		sumGammaA: make([]float64, ns),
		sumGamma:  make([]float64, ns),
		xi:        floatx.MakeFloat2D(ns, ns),
	}
}

// reset zeroes the sums so the accumulators can be reused by the next
// iteration.
func (s *stats) reset() {
	floatx.Clear2D(s.sumXi)
	floatx.Clear2D(s.sumGammaK)
	floatx.Clear(s.sumGammaA)
	floatx.Clear(s.sumGamma)
	s.logProb = 0
	s.nseq = 0
}

// add merges the statistics in s2 into s.
func (s *stats) add(s2 *stats) {
	for i := range s.sumXi {
		floats.Add(s.sumXi[i], s2.sumXi[i])
		floats.Add(s.sumGammaK[i], s2.sumGammaK[i])
	}
	floats.Add(s.sumGammaA, s2.sumGammaA)
	floats.Add(s.sumGamma, s2.sumGamma)
	s.logProb += s2.logProb
	s.nseq += s2.nseq
}

// Train runs a fixed number of Baum-Welch iterations on the corpus and
// updates the transition and emission matrices in place. When the
// Threshold option is set, training may stop before the last iteration.
//
// All sequences are validated before the first iteration. If an iteration
// fails the model keeps the parameters of the previous iteration.
func (m *Model) Train(corpus [][]int, iterations int) error {

	m.trainMu.Lock()
	defer m.trainMu.Unlock()

	if len(corpus) == 0 {
		return fmt.Errorf("%w: empty corpus", ErrDegenerateInput)
	}
	for n, seq := range corpus {
		if err := m.checkSequence(seq); err != nil {
			return fmt.Errorf("sequence %d: %w", n, err)
		}
	}

	nw := m.workers
	if nw > len(corpus) {
		nw = len(corpus)
	}
	glog.Infof("training model %s: %d sequences, %d iterations, %d workers",
		m.ModelName, len(corpus), iterations, nw)

	// One accumulator per worker for all iterations.
	partial := make([]*stats, nw)
	for w := range partial {
		partial[w] = newStats(m.nstates, m.nsymbols)
	}

	prev := math.Inf(-1)
	for iter := 1; iter <= iterations; iter++ {

		m.mu.RLock()
		st, err := m.expectation(corpus, partial)
		m.mu.RUnlock()
		if err != nil {
			return fmt.Errorf("iteration %d: %w", iter, err)
		}

		a, o, err := m.maximization(st)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", iter, err)
		}

		// Commit.
		m.mu.Lock()
		m.a, m.o = a, o
		if glog.V(3) {
			size, capacity := m.posteriors.Stats()
			glog.Infof("dropping %d of %d cached posteriors, %d scratch buffers pooled",
				size, capacity, m.scratch.Size())
		}
		m.posteriors.Clear()
		m.mu.Unlock()

		avg := st.logProb / float64(st.nseq)
		if iter%10 == 0 {
			glog.Infof("Iteration: %d, avg log prob: %.6f", iter, avg)
		} else if glog.V(2) {
			glog.Infof("Iteration: %d, avg log prob: %.6f", iter, avg)
		}

		if m.threshold > 0 && avg-prev < m.threshold {
			glog.Infof("model %s converged after %d iterations, avg log prob: %.6f", m.ModelName, iter, avg)
			break
		}
		prev = avg
	}
	return nil
}

// expectation computes the sufficient statistics for the corpus using one
// worker per element of partial. Sequences are statically partitioned across
// workers and the partial statistics are merged in worker order, so results
// only depend on the number of workers. The merged statistics are stored in
// partial[0]. The caller must hold a read lock on m.mu.
func (m *Model) expectation(corpus [][]int, partial []*stats) (*stats, error) {

	nw := len(partial)
	errs := make([]error, nw)

	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			st := partial[w]
			st.reset()
			gamma := m.scratch.Get()
			defer m.scratch.Put(gamma)
			for n := w; n < len(corpus); n += nw {
				if err := m.accumulate(corpus[n], st, gamma); err != nil {
					errs[w] = fmt.Errorf("sequence %d: %w", n, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	total := partial[0]
	for _, st := range partial[1:] {
		total.add(st)
	}
	return total, nil
}

// accumulate adds the statistics of one sequence to st. gamma is a scratch
// buffer of size [nstates].
func (m *Model) accumulate(x []int, st *stats, gamma []float64) error {

	N := m.nstates
	M := len(x)

	α, logScale, err := m.alpha(x, true)
	if err != nil {
		return err
	}
	β, err := m.beta(x, true)
	if err != nil {
		return err
	}

	// γ(t,j) = α(t,j)β(t,j) / sum_i α(t,i)β(t,i)
	for t := 1; t <= M; t++ {
		floats.MulTo(gamma, α[t], β[t])
		if err := floatx.Normalize(gamma); err != nil {
			return fmt.Errorf("%w: gamma at t=%d", ErrDegenerateDistribution, t)
		}
		obs := x[t-1]
		for j := 0; j < N; j++ {
			if t != M {
				st.sumGammaA[j] += gamma[j]
			}
			st.sumGamma[j] += gamma[j]
			st.sumGammaK[j][obs] += gamma[j]
		}
	}

	// ζ(t,i,j) = α(t,i) a(i,j) o(j,x(t)) β(t+1,j), normalized over (i,j).
	xi := st.xi
	for t := 1; t < M; t++ {
		obs := x[t]
		var sum float64
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				v := α[t][i] * m.a[i][j] * m.o[j][obs] * β[t+1][j]
				xi[i][j] = v
				sum += v
			}
		}
		if !(sum > 0) {
			return fmt.Errorf("%w: xi at t=%d", ErrDegenerateDistribution, t)
		}
		for i := 0; i < N; i++ {
			floats.AddScaled(st.sumXi[i], 1/sum, xi[i])
		}
	}

	// Rows 2..M of α are normalized, so P(x) = prod of scales * sum α(M).
	st.logProb += logScale + math.Log(floats.Sum(α[M]))
	st.nseq++
	return nil
}

// maximization returns new transition and emission matrices. It does not
// modify the model.
func (m *Model) maximization(st *stats) (a, o [][]float64, e error) {

	N := m.nstates
	a = floatx.MakeFloat2D(N, N)
	o = floatx.MakeFloat2D(N, m.nsymbols)
	for i := 0; i < N; i++ {
		if !(st.sumGammaA[i] > 0) {
			// No outgoing transitions observed for state i. Happens, for
			// example, when every sequence has length one.
			return nil, nil, fmt.Errorf("%w: state %d has no transition counts", ErrDegenerateDistribution, i)
		}
		if !(st.sumGamma[i] > 0) {
			return nil, nil, fmt.Errorf("%w: state %d has no emission counts", ErrDegenerateDistribution, i)
		}
		floats.ScaleTo(a[i], 1/st.sumGammaA[i], st.sumXi[i])
		floats.ScaleTo(o[i], 1/st.sumGamma[i], st.sumGammaK[i])
	}
	return
}
