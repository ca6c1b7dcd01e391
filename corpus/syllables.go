// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/akualab/sonnet/model/hmm"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/golang/glog"
)

// syllableEntry is a line of the syllable dictionary, for example
// "gently 2", "even E1 2" or "heaven 1 E2".
type syllableEntry struct {
	Word   string          `@(Word | Int | End)`
	Counts []syllableCount `@@*`
}

type syllableCount struct {
	End    string `  @End`
	Normal *int   `| @Int`
}

// End counts come first so "E2" is not lexed as a word.
var syllableLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "End", Pattern: `E[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[^ \t\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var syllableParser = participle.MustBuild[syllableEntry](
	participle.Lexer(syllableLexer),
	participle.Elide("Whitespace"),
)

// ReadSyllablesFile reads a syllable dictionary file. See ParseSyllables.
func ReadSyllablesFile(fn string, vocab *Vocabulary) (hmm.Dictionary, error) {

	f, e := os.Open(fn)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	dict, e := ParseSyllables(f, vocab)
	if e != nil {
		return nil, fmt.Errorf("reading %s: %w", fn, e)
	}
	glog.Infof("read syllables for %d of %d words from %s", len(dict), vocab.Len(), fn)
	return dict, nil
}

// ParseSyllables reads a syllable dictionary. Each line has a word followed
// by its possible syllable counts. A bare number is a count anywhere in the
// line, "E<n>" is a count that only applies at the end of a line. Words that
// are not in the vocabulary are ignored, blank lines are skipped.
func ParseSyllables(r io.Reader, vocab *Vocabulary) (hmm.Dictionary, error) {

	dict := make(hmm.Dictionary)
	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		entry, e := syllableParser.ParseString("", text)
		if e != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, e)
		}
		id, ok := vocab.ID(entry.Word)
		if !ok {
			continue
		}
		var syl hmm.Syllables
		for _, c := range entry.Counts {
			if c.Normal != nil {
				syl.Normal = append(syl.Normal, *c.Normal)
				continue
			}
			n, e := strconv.Atoi(c.End[1:])
			if e != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, e)
			}
			syl.End = append(syl.End, n)
		}
		dict[id] = syl
	}
	if e := sc.Err(); e != nil {
		return nil, e
	}
	return dict, nil
}
