// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model has utilities shared by the model implementations.
package model

const (
	// DefaultSeed provided for model implementation.
	DefaultSeed = 33
)

// Tolerance used to check that a distribution sums to one.
const Tolerance = 1e-6
