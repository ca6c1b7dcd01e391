// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmm

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/natefinch/atomic"
	"github.com/ulikunitz/xz"
)

// Files with this extension are xz compressed.
const xzExt = ".xz"

// Max length of a line in a model file.
const maxLineLen = 64 << 20

// Write writes the model as text: "L\tD" on the first line followed by the
// L rows of the transition matrix and the L rows of the emission matrix.
// Values are tab separated and use the shortest representation that reads
// back to the same float64.
func (m *Model) Write(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\t%d\n", m.nstates, m.nsymbols)
	var buf []byte
	for _, table := range [][][]float64{m.a, m.o} {
		for _, row := range table {
			buf = buf[:0]
			for j, v := range row {
				if j > 0 {
					buf = append(buf, '\t')
				}
				buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
			}
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Read reads a model written by Write. No model is returned if the input is
// malformed; the error is a *FormatError with the offending line.
func Read(r io.Reader, options ...Option) (*Model, error) {

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	lineNum := 0
	next := func() ([]string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, &FormatError{Line: lineNum + 1, Err: err}
			}
			return nil, &FormatError{Line: lineNum + 1, Err: io.ErrUnexpectedEOF}
		}
		lineNum++
		return strings.Split(strings.TrimRight(sc.Text(), "\r\n"), "\t"), nil
	}

	header, err := next()
	if err != nil {
		return nil, err
	}
	if len(header) != 2 {
		return nil, &FormatError{Line: lineNum, Err: fmt.Errorf("header has %d fields, expected 2", len(header))}
	}
	var dims [2]int
	for k, f := range header {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, &FormatError{Line: lineNum, Err: err}
		}
		if v < 1 {
			return nil, &FormatError{Line: lineNum, Err: fmt.Errorf("%w: dimension %d", ErrDimension, v)}
		}
		dims[k] = v
	}
	ns, nsym := dims[0], dims[1]

	readTable := func(cols int) ([][]float64, error) {
		table := make([][]float64, ns)
		for i := range table {
			fields, err := next()
			if err != nil {
				return nil, err
			}
			if len(fields) != cols {
				return nil, &FormatError{Line: lineNum, Err: fmt.Errorf("row has %d values, expected %d", len(fields), cols)}
			}
			row := make([]float64, cols)
			for j, f := range fields {
				if row[j], err = strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
					return nil, &FormatError{Line: lineNum, Err: err}
				}
			}
			table[i] = row
		}
		return table, nil
	}

	a, err := readTable(ns)
	if err != nil {
		return nil, err
	}
	o, err := readTable(nsym)
	if err != nil {
		return nil, err
	}

	// Only blank lines may follow.
	for sc.Scan() {
		lineNum++
		if strings.TrimSpace(sc.Text()) != "" {
			return nil, &FormatError{Line: lineNum, Err: errors.New("unexpected data after emission matrix")}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &FormatError{Line: lineNum + 1, Err: err}
	}

	return NewModel(a, o, options...)
}

// WriteFile writes the model to a file. The file is replaced atomically.
// If the name ends in ".xz" the content is xz compressed.
func (m *Model) WriteFile(fn string) error {

	var buf bytes.Buffer
	if strings.HasSuffix(fn, xzExt) {
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			return err
		}
		if err := m.Write(xw); err != nil {
			return err
		}
		if err := xw.Close(); err != nil {
			return err
		}
	} else if err := m.Write(&buf); err != nil {
		return err
	}

	if dir := filepath.Dir(fn); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := atomic.WriteFile(fn, &buf); err != nil {
		return err
	}
	glog.Infof("Wrote model \"%s\" to file %s.", m.ModelName, fn)
	return nil
}

// ReadFile reads a model from a file written by WriteFile.
func ReadFile(fn string, options ...Option) (*Model, error) {

	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(fn, xzExt) {
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fn, err)
		}
		r = xr
	}
	m, err := Read(r, options...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fn, err)
	}
	return m, nil
}
