// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package corpus reads the training data for the verse generator: a file of
numbered sonnets and a syllable dictionary.

Words are lower-cased, stripped of ",.!?;:" and coded as integers in order of
first appearance. The integer codes are the observation symbols of the HMM.
*/
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// LinesPerSonnet is the number of lines read after a sonnet number.
const LinesPerSonnet = 14

// Sonnets that do not follow the 14 line pattern.
var excluded = map[int]bool{99: true, 126: true}

// Error is a corpus error.
type Error string

func (e Error) Error() string { return string(e) }

// ErrShortSonnet is returned when the input ends in the middle of a sonnet.
const ErrShortSonnet = Error("corpus: sonnet has fewer than 14 lines")

// Vocabulary maps words to symbols and back.
type Vocabulary struct {
	words []string
	index map[string]int
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// Add returns the symbol for word, adding it if needed.
func (v *Vocabulary) Add(word string) int {
	if id, ok := v.index[word]; ok {
		return id
	}
	id := len(v.words)
	v.words = append(v.words, word)
	v.index[word] = id
	return id
}

// ID returns the symbol for word.
func (v *Vocabulary) ID(word string) (int, bool) {
	id, ok := v.index[word]
	return id, ok
}

// Word returns the word for a symbol.
func (v *Vocabulary) Word(id int) string {
	if id < 0 || id >= len(v.words) {
		return ""
	}
	return v.words[id]
}

// Len returns the number of words.
func (v *Vocabulary) Len() int { return len(v.words) }

// Words converts a sequence of symbols to words.
func (v *Vocabulary) Words(ids []int) []string {
	words := make([]string, len(ids))
	for k, id := range ids {
		words[k] = v.Word(id)
	}
	return words
}

// Sonnet is a numbered sonnet with its lines coded as symbols.
type Sonnet struct {
	Number int
	Lines  [LinesPerSonnet][]int
}

// Corpus is the result of parsing a sonnets file.
type Corpus struct {
	Sonnets []Sonnet
	Vocab   *Vocabulary
}

// Quatrains returns lines 1 to 8 of every sonnet.
func (c *Corpus) Quatrains() [][]int { return c.section(0, 8) }

// Voltas returns lines 9 to 12 of every sonnet.
func (c *Corpus) Voltas() [][]int { return c.section(8, 12) }

// Couplets returns lines 13 and 14 of every sonnet.
func (c *Corpus) Couplets() [][]int { return c.section(12, 14) }

// Lines returns the quatrain lines followed by the volta and couplet lines.
// This is the training corpus.
func (c *Corpus) Lines() [][]int {
	lines := c.Quatrains()
	lines = append(lines, c.Voltas()...)
	return append(lines, c.Couplets()...)
}

func (c *Corpus) section(from, to int) [][]int {
	lines := make([][]int, 0, len(c.Sonnets)*(to-from))
	for _, s := range c.Sonnets {
		for i := from; i < to; i++ {
			lines = append(lines, s.Lines[i])
		}
	}
	return lines
}

// Tokenize splits a line of text into lower-case words without punctuation.
func Tokenize(line string) []string {
	line = strings.Map(func(r rune) rune {
		if strings.ContainsRune(",.!?;:", r) {
			return -1
		}
		return r
	}, line)
	return strings.Fields(strings.ToLower(line))
}

// ReadSonnetsFile reads a sonnets file. See ParseSonnets.
func ReadSonnetsFile(fn string) (*Corpus, error) {

	f, e := os.Open(fn)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	c, e := ParseSonnets(f)
	if e != nil {
		return nil, fmt.Errorf("reading %s: %w", fn, e)
	}
	glog.Infof("read %d sonnets, %d words from %s", len(c.Sonnets), c.Vocab.Len(), fn)
	return c, nil
}

// ParseSonnets reads sonnets from an io.Reader. A line holding only a number
// starts a sonnet and the next 14 lines are its verses. Other lines are
// skipped. Sonnets 99 and 126 are skipped.
func ParseSonnets(r io.Reader) (*Corpus, error) {

	c := &Corpus{Vocab: NewVocabulary()}
	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		num, e := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if e != nil || num < 0 || excluded[num] {
			continue
		}
		s := Sonnet{Number: num}
		for i := range s.Lines {
			if !sc.Scan() {
				if e := sc.Err(); e != nil {
					return nil, e
				}
				return nil, fmt.Errorf("sonnet %d at line %d: %w", num, lineNum, ErrShortSonnet)
			}
			lineNum++
			words := Tokenize(sc.Text())
			line := make([]int, len(words))
			for k, w := range words {
				line[k] = c.Vocab.Add(w)
			}
			s.Lines[i] = line
		}
		c.Sonnets = append(c.Sonnets, s)
		glog.V(4).Infof("parsed sonnet %d", num)
	}
	if e := sc.Err(); e != nil {
		return nil, e
	}
	return c, nil
}
