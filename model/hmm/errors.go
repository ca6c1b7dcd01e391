// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import "fmt"

type Error string

func (err Error) Error() string { return string(err) }

const (
	// ErrDegenerateDistribution is returned when a distribution that must be
	// normalized sums to zero. Model tables are never updated in that case.
	ErrDegenerateDistribution = Error("hmm: degenerate distribution")

	// ErrDegenerateInput is returned for empty observation sequences.
	ErrDegenerateInput = Error("hmm: degenerate input")

	// ErrDimension is returned when table shapes or symbols do not match
	// the model dimensions.
	ErrDimension = Error("hmm: dimension error")

	// ErrLineBudget is returned when a constrained line exceeds the
	// maximum number of words without reaching the syllable target.
	ErrLineBudget = Error("hmm: line budget exceeded")
)

// FormatError reports a malformed model file.
type FormatError struct {
	Line int // 1-based line number.
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("hmm: format error at line %d: %v", e.Line, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
