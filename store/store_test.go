// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/akualab/sonnet"
	"github.com/akualab/sonnet/model/hmm"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "models.db"))
	sonnet.CheckError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func randModel(t *testing.T, seed int64) *hmm.Model {
	t.Helper()
	m, err := hmm.NewRandomModel(3, 5, rand.New(rand.NewSource(seed)))
	sonnet.CheckError(t, err)
	return m
}

func TestPutGet(t *testing.T) {

	ctx := context.Background()
	s := openStore(t)
	m1 := randModel(t, 1)
	m2 := randModel(t, 2)

	r1, err := s.Put(ctx, "sonnets", m1)
	sonnet.CheckError(t, err)
	if r1.Version != 1 || r1.States != 3 || r1.Symbols != 5 || r1.ID == "" {
		t.Fatalf("unexpected record: %+v", r1)
	}

	// Same parameters, same record.
	again, err := s.Put(ctx, "sonnets", m1)
	sonnet.CheckError(t, err)
	if again.ID != r1.ID || again.Version != 1 {
		t.Fatalf("expected record %+v, got %+v", r1, again)
	}

	r2, err := s.Put(ctx, "sonnets", m2)
	sonnet.CheckError(t, err)
	if r2.Version != 2 || r2.Digest == r1.Digest {
		t.Fatalf("unexpected record: %+v", r2)
	}

	latest, rec, err := s.Get(ctx, "sonnets", 0)
	sonnet.CheckError(t, err)
	if rec.ID != r2.ID || latest.Name() != "sonnets" {
		t.Fatalf("expected latest version, got %+v", rec)
	}
	for i, row := range m2.Trans() {
		sonnet.CompareSliceFloat(t, row, latest.Trans()[i], "A", 1e-15)
	}

	first, _, err := s.Get(ctx, "sonnets", 1)
	sonnet.CheckError(t, err)
	for i, row := range m1.Emit() {
		sonnet.CompareSliceFloat(t, row, first.Emit()[i], "O", 1e-15)
	}

	if _, _, err := s.Get(ctx, "sonnets", 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := s.Get(ctx, "missing", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDelete(t *testing.T) {

	ctx := context.Background()
	s := openStore(t)
	for k, name := range []string{"b", "a", "b"} {
		_, err := s.Put(ctx, name, randModel(t, int64(k)))
		sonnet.CheckError(t, err)
	}

	recs, err := s.List(ctx)
	sonnet.CheckError(t, err)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Name != "a" || recs[1].Name != "b" || recs[2].Version != 2 {
		t.Fatalf("wrong order: %+v", recs)
	}

	sonnet.CheckError(t, s.Delete(ctx, "b"))
	recs, err = s.List(ctx)
	sonnet.CheckError(t, err)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if err := s.Delete(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCorrupt(t *testing.T) {

	ctx := context.Background()
	s := openStore(t)
	_, err := s.Put(ctx, "m", randModel(t, 5))
	sonnet.CheckError(t, err)

	_, err = s.db.ExecContext(ctx, `UPDATE models SET body = ? WHERE name = ?`, []byte("1\t1\n1\n1\n"), "m")
	sonnet.CheckError(t, err)
	if _, _, err := s.Get(ctx, "m", 0); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
