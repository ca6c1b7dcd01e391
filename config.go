// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonnet

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config has the parameters for training and generation. Command flags
// override values read from a config file.
type Config struct {
	Model    string   `yaml:"model" json:"model"`
	Data     Data     `yaml:"data" json:"data"`
	Train    Train    `yaml:"train" json:"train"`
	Generate Generate `yaml:"generate" json:"generate"`
	Store    string   `yaml:"store,omitempty" json:"store,omitempty"`
}

// Data has the corpus file names.
type Data struct {
	Sonnets   string `yaml:"sonnets" json:"sonnets"`
	Syllables string `yaml:"syllables" json:"syllables"`
}

// Train has the Baum-Welch parameters.
type Train struct {
	States     int     `yaml:"states" json:"states"`
	Iterations int     `yaml:"iterations" json:"iterations"`
	Workers    int     `yaml:"workers,omitempty" json:"workers,omitempty"`
	Seed       int64   `yaml:"seed,omitempty" json:"seed,omitempty"`
	Threshold  float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// Generate has the verse generator parameters.
type Generate struct {
	Seed      int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	Lines     int   `yaml:"lines,omitempty" json:"lines,omitempty"`
	Syllables int   `yaml:"syllables,omitempty" json:"syllables,omitempty"`
	Ceiling   int   `yaml:"ceiling,omitempty" json:"ceiling,omitempty"`
	MaxWords  int   `yaml:"max_words,omitempty" json:"max_words,omitempty"`
	Retries   int   `yaml:"retries,omitempty" json:"retries,omitempty"`
}

// DefaultConfig returns the parameters used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Model: "sonnet.hmm",
		Train: Train{
			States:     10,
			Iterations: 100,
			Workers:    1,
			Seed:       33,
		},
		Generate: Generate{
			Lines:     14,
			Syllables: 10,
			Ceiling:   10,
			MaxWords:  100,
		},
	}
}

// ReadConfig reads a yaml config file. Fields missing in the file keep
// their default values.
func ReadConfig(fn string) (*Config, error) {

	f, e := os.Open(fn)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	return ReadConfigReader(f)
}

// ReadConfigReader reads a yaml config from an io.Reader.
func ReadConfigReader(r io.Reader) (*Config, error) {

	b, e := io.ReadAll(r)
	if e != nil {
		return nil, e
	}
	config := DefaultConfig()
	if e = yaml.Unmarshal(b, config); e != nil {
		return nil, e
	}
	return config, nil
}
