// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package corpus

import (
	"errors"
	"math/rand"
	"sort"
)

// RhymeScheme has the line pairs that rhyme in the abab cdcd efef gg scheme.
var RhymeScheme = [][2]int{
	{0, 2}, {1, 3},
	{4, 6}, {5, 7},
	{8, 10}, {9, 11},
	{12, 13},
}

// ErrNoRhymes is returned when no group has two words.
var ErrNoRhymes = errors.New("corpus: no rhyming words")

// Rhymes groups words that end rhyming lines.
type Rhymes struct {
	groups  [][]int
	groupOf map[int]int
}

// Rhymes collects the last words of rhyming lines. Words paired in any
// sonnet end up in the same group.
func (c *Corpus) Rhymes() *Rhymes {

	parent := make(map[int]int)
	var find func(w int) int
	find = func(w int) int {
		p, ok := parent[w]
		if !ok {
			parent[w] = w
			return w
		}
		if p != w {
			p = find(p)
			parent[w] = p
		}
		return p
	}

	for _, s := range c.Sonnets {
		for _, pair := range RhymeScheme {
			a, b := s.Lines[pair[0]], s.Lines[pair[1]]
			if len(a) == 0 || len(b) == 0 {
				continue
			}
			ra, rb := find(a[len(a)-1]), find(b[len(b)-1])
			if ra != rb {
				parent[ra] = rb
			}
		}
	}

	members := make(map[int][]int)
	for w := range parent {
		root := find(w)
		members[root] = append(members[root], w)
	}
	rh := &Rhymes{groupOf: make(map[int]int, len(parent))}
	for _, g := range members {
		sort.Ints(g)
		rh.groups = append(rh.groups, g)
	}
	// Map iteration order is random.
	sort.Slice(rh.groups, func(i, j int) bool { return rh.groups[i][0] < rh.groups[j][0] })
	for k, g := range rh.groups {
		for _, w := range g {
			rh.groupOf[w] = k
		}
	}
	return rh
}

// Groups returns the rhyme groups. Words in a group are sorted.
func (rh *Rhymes) Groups() [][]int { return rh.groups }

// Group returns the words that rhyme with w, including w.
func (rh *Rhymes) Group(w int) []int {
	k, ok := rh.groupOf[w]
	if !ok {
		return nil
	}
	return rh.groups[k]
}

// Pair draws a group with at least two words accepted by keep and returns
// two different words from it. A nil keep accepts every word.
func (rh *Rhymes) Pair(r *rand.Rand, keep func(w int) bool) (int, int, error) {

	var candidates [][]int
	for _, g := range rh.groups {
		kept := g
		if keep != nil {
			kept = nil
			for _, w := range g {
				if keep(w) {
					kept = append(kept, w)
				}
			}
		}
		if len(kept) > 1 {
			candidates = append(candidates, kept)
		}
	}
	if len(candidates) == 0 {
		return 0, 0, ErrNoRhymes
	}
	g := candidates[r.Intn(len(candidates))]
	i := r.Intn(len(g))
	j := r.Intn(len(g) - 1)
	if j >= i {
		j++
	}
	return g[i], g[j], nil
}
