// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/akualab/sonnet"
	"github.com/akualab/sonnet/corpus"
	"github.com/akualab/sonnet/model/hmm"
	"github.com/akualab/sonnet/store"
	"github.com/golang/glog"
)

var (
	trainCmd        = app.Command("train", "Estimate HMM parameters from a sonnets file.")
	trainSonnets    = trainCmd.Flag("sonnets", "Sonnets file.").Short('s').String()
	trainStates     = trainCmd.Flag("states", "Number of hidden states.").Short('n').Int()
	trainIterations = trainCmd.Flag("iterations", "Number of Baum-Welch iterations.").Short('i').Int()
	trainWorkers    = trainCmd.Flag("workers", "Number of goroutines for the expectation step.").Int()
	trainSeed       = trainCmd.Flag("seed", "Seed for the random initial model.").Default("-1").Int64()
	trainThreshold  = trainCmd.Flag("threshold", "Stop when the log likelihood improves less than this.").Float64()
	trainOut        = trainCmd.Flag("out", "Output model file, compressed if it ends in .xz.").Short('o').String()
	trainName       = trainCmd.Flag("name", "Put the model in the store with this name.").String()
)

func doTrain() {

	overrideString(*trainSonnets, &config.Data.Sonnets)
	overrideInt(*trainStates, &config.Train.States)
	overrideInt(*trainIterations, &config.Train.Iterations)
	overrideInt(*trainWorkers, &config.Train.Workers)
	overrideString(*trainOut, &config.Model)
	if *trainSeed >= 0 {
		config.Train.Seed = *trainSeed
	}
	if *trainThreshold > 0 {
		config.Train.Threshold = *trainThreshold
	}
	glog.Info("train config: ", config.Train)

	c, e := corpus.ReadSonnetsFile(config.Data.Sonnets)
	sonnet.Fatal(e)

	name := *trainName
	if len(name) == 0 {
		name = "sonnet"
	}
	options := []hmm.Option{
		hmm.Name(name),
		hmm.Seed(config.Train.Seed),
		hmm.Workers(config.Train.Workers),
	}
	if config.Train.Threshold > 0 {
		options = append(options, hmm.Threshold(config.Train.Threshold))
	}
	m, e := hmm.Unsupervised(c.Lines(), config.Train.States, config.Train.Iterations, options...)
	sonnet.Fatal(e)

	if len(config.Model) > 0 {
		sonnet.Fatal(m.WriteFile(config.Model))
	}
	if len(*trainName) > 0 {
		s := openStore()
		defer s.Close()
		rec, e := s.Put(context.Background(), *trainName, m)
		sonnet.Fatal(e)
		glog.Infof("model %s version %d id %s", rec.Name, rec.Version, rec.ID)
	}
}

func openStore() *store.Store {
	if len(config.Store) == 0 {
		glog.Fatal("no model store, use --store or set store in the properties file")
	}
	s, e := store.Open(config.Store)
	sonnet.Fatal(e)
	return s
}

// loadModel reads the model from the store when a name is given,
// otherwise from the model file.
func loadModel(name string, version int) *hmm.Model {
	if len(name) > 0 {
		s := openStore()
		defer s.Close()
		m, rec, e := s.Get(context.Background(), name, version)
		sonnet.Fatal(e)
		glog.Infof("loaded model %s version %d from store", rec.Name, rec.Version)
		return m
	}
	m, e := hmm.ReadFile(config.Model, hmm.Name(config.Model))
	sonnet.Fatal(e)
	return m
}
