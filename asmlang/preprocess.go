// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asmlang

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

// substitution is one reserved preprocessor symbol and the numeric text
// it is rewritten to.
type substitution struct {
	pattern *regexp.Regexp
	replace string
}

// substitutions performs the five rewrites in the order the original
// assembler applies them: BEFORE, CURRENT, AFTER along the active axis,
// then the two special slots. This is purely lexical substitution, not
// tokenization — it rewrites these names anywhere they appear on a line,
// including inside comments or identifiers, on purpose (see Design
// Notes: "textual preprocessor as regex substitution").
var substitutions = []substitution{
	{regexp.MustCompile(`BEFORE`), "-1"},
	{regexp.MustCompile(`CURRENT`), "0"},
	{regexp.MustCompile(`AFTER`), "1"},
	{regexp.MustCompile(`PC`), "6"},
	{regexp.MustCompile(`MEMBANK`), "7"},
}

// Preprocess rewrites the reserved direction and special-slot symbols on
// every line of in, writing the result to out. It is line-oriented only
// so that callers can pipe preprocess directly into BuildAST's scanner.
func Preprocess(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	for scanner.Scan() {
		line := scanner.Text()
		for _, s := range substitutions {
			line = s.pattern.ReplaceAllString(line, s.replace)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return w.Flush()
}
