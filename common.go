// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sonnet has shared configuration and helpers for the sonnet
// toolkit: HMM training and constrained verse generation.
package sonnet

import "github.com/golang/glog"

// Fatal logs err and exits if err is not nil. Use only in commands.
func Fatal(err error) {
	if err != nil {
		glog.Fatal(err)
	}
}
