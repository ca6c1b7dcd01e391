//go:build !cgo_sqlite

// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"
