// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/akualab/sonnet"
	"github.com/akualab/sonnet/corpus"
	"github.com/akualab/sonnet/model/hmm"
	"github.com/golang/glog"
)

var (
	generateCmd       = app.Command("generate", "Compose a sonnet.")
	generateModel     = generateCmd.Flag("model", "Model file.").Short('m').String()
	generateName      = generateCmd.Flag("name", "Load the model from the store.").String()
	generateVersion   = generateCmd.Flag("version", "Model version in the store, 0 is the latest.").Int()
	generateSonnets   = generateCmd.Flag("sonnets", "Sonnets file the model was trained on.").Short('s').String()
	generateSyllables = generateCmd.Flag("syllables", "Syllable dictionary file.").String()
	generateSeed      = generateCmd.Flag("seed", "Seed for the generator.").Default("-1").Int64()
	generateLines     = generateCmd.Flag("lines", "Number of lines.").Short('l').Int()
	generateTarget    = generateCmd.Flag("syllables-per-line", "Syllables per line.").Int()
	generateRhyme     = generateCmd.Flag("rhyme", "Rhyme lines with the abab cdcd efef gg scheme.").Default("true").Bool()
	generateRetries   = generateCmd.Flag("retries", "Retry a line this many times when the generator reaches a dead end.").Default("0").Int()
)

func doGenerate() {

	overrideString(*generateModel, &config.Model)
	overrideString(*generateSonnets, &config.Data.Sonnets)
	overrideString(*generateSyllables, &config.Data.Syllables)
	overrideInt(*generateLines, &config.Generate.Lines)
	overrideInt(*generateTarget, &config.Generate.Syllables)
	overrideInt(*generateRetries, &config.Generate.Retries)
	if *generateSeed >= 0 {
		config.Generate.Seed = *generateSeed
	}
	glog.Info("generate config: ", config.Generate)

	m := loadModel(*generateName, *generateVersion)
	c, e := corpus.ReadSonnetsFile(config.Data.Sonnets)
	sonnet.Fatal(e)
	if c.Vocab.Len() != m.NumSymbols() {
		glog.Fatalf("model has %d symbols but the corpus has %d words", m.NumSymbols(), c.Vocab.Len())
	}
	dict, e := corpus.ReadSyllablesFile(config.Data.Syllables, c.Vocab)
	sonnet.Fatal(e)

	var rh *corpus.Rhymes
	if *generateRhyme {
		rh = c.Rhymes()
	}
	lines, e := compose(m, dict, rh, config.Generate)
	sonnet.Fatal(e)
	for k, line := range lines {
		indent := ""
		if len(lines) == corpus.LinesPerSonnet && k >= 12 {
			indent = "  "
		}
		fmt.Fprintln(os.Stdout, indent+formatLine(c.Vocab.Words(line)))
	}
}

// compose generates the lines of a poem. When rh is not nil, the lines paired
// by the rhyme scheme end with rhyming words and are generated in reverse.
// A line that reaches a dead end is retried up to g.Retries times.
func compose(m *hmm.Model, dict hmm.Dictionary, rh *corpus.Rhymes, g sonnet.Generate) ([][]int, error) {

	r := rand.New(rand.NewSource(g.Seed))
	gen := hmm.NewGenerator(m, g.Seed)

	// Last word of rhyming lines.
	last := make(map[int]int)
	if rh != nil {
		keep := func(w int) bool {
			_, ok := dict[w]
			return ok && w < m.NumSymbols()
		}
		for _, pair := range corpus.RhymeScheme {
			if pair[0] >= g.Lines || pair[1] >= g.Lines {
				continue
			}
			w1, w2, e := rh.Pair(r, keep)
			if e != nil {
				return nil, e
			}
			last[pair[0]], last[pair[1]] = w1, w2
		}
	}

	lines := make([][]int, g.Lines)
	for k := range lines {
		options := []hmm.LineOption{hmm.Ceiling(g.Ceiling), hmm.MaxWords(g.MaxWords)}
		if w, ok := last[k]; ok {
			options = append(options, hmm.Reverse(), hmm.InitialWord(w))
		}
		var e error
		for attempt := 0; attempt <= g.Retries; attempt++ {
			lines[k], _, e = gen.Line(g.Syllables, dict, options...)
			if e == nil || !retry(e) {
				break
			}
			glog.V(1).Infof("line %d attempt %d: %v", k, attempt, e)
		}
		if e != nil {
			return nil, fmt.Errorf("line %d: %w", k, e)
		}
	}
	return lines, nil
}

// Dead ends depend on the random draws.
func retry(e error) bool {
	return errors.Is(e, hmm.ErrDegenerateDistribution) || errors.Is(e, hmm.ErrLineBudget)
}

// formatLine joins the words and capitalizes the first letter.
func formatLine(words []string) string {
	s := strings.Join(words, " ")
	ch, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(ch)) + s[size:]
}
