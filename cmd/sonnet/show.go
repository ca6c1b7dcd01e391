// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/akualab/sonnet"
	"github.com/akualab/sonnet/corpus"
)

var (
	showCmd     = app.Command("show", "Print a model. With a sonnets file, score its lines.")
	showModel   = showCmd.Flag("model", "Model file.").Short('m').String()
	showName    = showCmd.Flag("name", "Load the model from the store.").String()
	showVersion = showCmd.Flag("version", "Model version in the store, 0 is the latest.").Int()
	showTables  = showCmd.Flag("tables", "Print the transition and emission tables.").Bool()
	showSonnets = showCmd.Flag("sonnets", "Sonnets file to score.").Short('s').String()
	showDecode  = showCmd.Flag("decode", "Print the most likely states for this many lines.").Default("0").Int()
)

func doShow() {

	overrideString(*showModel, &config.Model)
	m := loadModel(*showName, *showVersion)
	fmt.Printf("model: %s\nstates: %d\nsymbols: %d\n", m.Name(), m.NumStates(), m.NumSymbols())
	if *showTables {
		sonnet.Fatal(m.Write(os.Stdout))
	}
	if len(*showSonnets) == 0 {
		return
	}

	c, e := corpus.ReadSonnetsFile(*showSonnets)
	sonnet.Fatal(e)
	lines := c.Lines()
	var sum float64
	for _, line := range lines {
		lp, e := m.LogProb(line)
		sonnet.Fatal(e)
		sum += lp
	}
	fmt.Printf("lines: %d\navg log prob: %.4f\n", len(lines), sum/float64(len(lines)))

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	for k := 0; k < *showDecode && k < len(lines); k++ {
		states, lp, e := m.Viterbi(lines[k])
		sonnet.Fatal(e)
		fmt.Fprintf(w, "%v\t%.4f\t%s\n", states, lp, formatLine(c.Vocab.Words(lines[k])))
	}
	w.Flush()
}
