// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package store keeps trained models in a SQLite database.

Models are stored by name using the text encoding of hmm.Model.Write. Every
Put with new parameters adds a version; putting the same parameters again is
a no-op. The blake3 digest of the encoding is checked when a model is loaded.

The pure Go driver (modernc.org/sqlite) is used by default. Build with
-tags cgo_sqlite to use github.com/mattn/go-sqlite3.
*/
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/akualab/sonnet/model/hmm"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

const timeLayout = time.RFC3339Nano

// Error is a store error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrNotFound is returned when no model has the requested name and version.
	ErrNotFound = Error("store: model not found")
	// ErrCorrupt is returned when a stored model does not match its digest.
	ErrCorrupt = Error("store: digest mismatch")
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	version INTEGER NOT NULL,
	digest  TEXT NOT NULL,
	states  INTEGER NOT NULL,
	symbols INTEGER NOT NULL,
	created TEXT NOT NULL,
	body    BLOB NOT NULL,
	UNIQUE(name, version)
);`

// Record describes a stored model.
type Record struct {
	ID      string
	Name    string
	Version int
	Digest  string
	States  int
	Symbols int
	Created time.Time
}

// Store is a model registry backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database and sets up the schema.
func Open(dataSource string) (*Store, error) {

	db, err := sql.Open(driverName, dataSource)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: setting up schema: %w", err)
	}
	glog.V(2).Infof("opened model store %s with driver %s", dataSource, driverName)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the hex encoded blake3 digest of b.
func Digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Put stores m under name. If the latest version has the same digest the
// existing record is returned.
func (s *Store) Put(ctx context.Context, name string, m *hmm.Model) (Record, error) {

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		return Record{}, err
	}
	body := buf.Bytes()
	digest := Digest(body)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback()

	latest, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT id, name, version, digest, states, symbols, created FROM models
		 WHERE name = ? ORDER BY version DESC LIMIT 1`, name))
	switch {
	case err == nil && latest.Digest == digest:
		glog.V(1).Infof("model %s version %d is unchanged", name, latest.Version)
		return latest, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return Record{}, err
	}

	rec := Record{
		ID:      uuid.New().String(),
		Name:    name,
		Version: latest.Version + 1,
		Digest:  digest,
		States:  m.NumStates(),
		Symbols: m.NumSymbols(),
		Created: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO models (id, name, version, digest, states, symbols, created, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Version, rec.Digest, rec.States, rec.Symbols,
		rec.Created.Format(timeLayout), body)
	if err != nil {
		return Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return Record{}, err
	}
	glog.Infof("stored model %s version %d (%s)", name, rec.Version, rec.Digest[:12])
	return rec, nil
}

// Get loads a model. Version 0 selects the latest version.
func (s *Store) Get(ctx context.Context, name string, version int) (*hmm.Model, Record, error) {

	query := `SELECT id, name, version, digest, states, symbols, created, body FROM models
		WHERE name = ? ORDER BY version DESC LIMIT 1`
	args := []any{name}
	if version > 0 {
		query = `SELECT id, name, version, digest, states, symbols, created, body FROM models
		WHERE name = ? AND version = ?`
		args = append(args, version)
	}

	var body []byte
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, args...), &body)
	if err != nil {
		return nil, Record{}, fmt.Errorf("model %s: %w", name, err)
	}
	if Digest(body) != rec.Digest {
		return nil, rec, fmt.Errorf("model %s version %d: %w", name, rec.Version, ErrCorrupt)
	}
	m, err := hmm.Read(bytes.NewReader(body), hmm.Name(name))
	if err != nil {
		return nil, rec, fmt.Errorf("model %s version %d: %w", name, rec.Version, err)
	}
	return m, rec, nil
}

// List returns all records ordered by name and version.
func (s *Store) List(ctx context.Context) ([]Record, error) {

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, version, digest, states, symbols, created FROM models
		 ORDER BY name, version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Delete removes every version of a model.
func (s *Store) Delete(ctx context.Context, name string) error {

	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("model %s: %w", name, ErrNotFound)
	}
	glog.Infof("deleted %d versions of model %s", n, name)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads the record columns followed by any extra columns.
func scanRecord(row scanner, extra ...any) (Record, error) {

	var rec Record
	var created string
	dest := append([]any{&rec.ID, &rec.Name, &rec.Version, &rec.Digest,
		&rec.States, &rec.Symbols, &created}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Record{}, err
	}
	rec.Created = t
	return rec, nil
}
