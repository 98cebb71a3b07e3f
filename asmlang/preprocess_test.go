// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asmlang

import (
	"strings"
	"testing"
)

func TestPreprocessSubstitutesDirections(t *testing.T) {
	var out strings.Builder
	if err := Preprocess(strings.NewReader("MUX BEFORE, CURRENT, AFTER\n"), &out); err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if got := out.String(); got != "MUX -1, 0, 1\n" {
		t.Fatalf("Preprocess output = %q, want %q", got, "MUX -1, 0, 1\n")
	}
}

func TestPreprocessRewritesSpecials(t *testing.T) {
	var out strings.Builder
	if err := Preprocess(strings.NewReader("MUX PC\nMUX MEMBANK\n"), &out); err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if got := out.String(); got != "MUX 6\nMUX 7\n" {
		t.Fatalf("Preprocess output = %q", got)
	}
}

func TestPreprocessIsLexicalNotTokenized(t *testing.T) {
	// BEFORE appears inside a comment and inside a longer identifier;
	// the preprocessor rewrites it anyway, on purpose (no tokenization).
	var out strings.Builder
	if err := Preprocess(strings.NewReader("; do this BEFOREHAND\n"), &out); err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if got := out.String(); got != "; do this -1HAND\n" {
		t.Fatalf("Preprocess output = %q, want lexical (non-tokenized) substitution", got)
	}
}
