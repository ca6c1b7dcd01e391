// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import "sort"

// Syllables has the possible syllable counts of a word. Normal counts apply
// when more words follow; End counts apply when the word ends a line.
type Syllables struct {
	Normal []int
	End    []int
}

// min returns the smallest count over Normal and End and false if the word
// has no counts.
func (s Syllables) min() (int, bool) {
	min, ok := 0, false
	for _, list := range [][]int{s.Normal, s.End} {
		for _, c := range list {
			if !ok || c < min {
				min, ok = c, true
			}
		}
	}
	return min, ok
}

// Dictionary maps a word (observation symbol) to its syllable counts.
type Dictionary map[int]Syllables

// syllableSet is the set of syllable totals reachable by a partial line.
type syllableSet map[int]struct{}

func newSyllableSet(counts ...int) syllableSet {
	s := make(syllableSet, len(counts))
	for _, c := range counts {
		s[c] = struct{}{}
	}
	return s
}

func (s syllableSet) has(n int) bool {
	_, ok := s[n]
	return ok
}

// min returns the smallest total. The set must not be empty.
func (s syllableSet) min() int {
	first := true
	var min int
	for c := range s {
		if first || c < min {
			min, first = c, false
		}
	}
	return min
}

func (s syllableSet) union(s2 syllableSet) syllableSet {
	u := make(syllableSet, len(s)+len(s2))
	for c := range s {
		u[c] = struct{}{}
	}
	for c := range s2 {
		u[c] = struct{}{}
	}
	return u
}

// plus returns {a+b | a in s, b in counts}.
func (s syllableSet) plus(counts []int) syllableSet {
	out := make(syllableSet, len(s)*len(counts))
	for a := range s {
		for _, b := range counts {
			out[a+b] = struct{}{}
		}
	}
	return out
}

// sorted returns the totals in increasing order.
func (s syllableSet) sorted() []int {
	out := make([]int, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// advance returns the reachable totals after appending a word with counts w
// to a line whose non-final totals are normal. The new end totals include
// the new normal totals.
func advance(normal syllableSet, w Syllables) (newNormal, newEnd syllableSet) {
	newNormal = normal.plus(w.Normal)
	newEnd = newNormal.union(normal.plus(w.End))
	return
}
