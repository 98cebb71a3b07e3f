// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asmlang

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/cannotparse/laval-simulator/core"
	"github.com/cannotparse/laval-simulator/corelang"
)

var (
	settingRe = regexp.MustCompile(`^\.(\w+) ([\d, ]*)$`)
	blockRe   = regexp.MustCompile(`^(\d+):$`)
	instrRe   = regexp.MustCompile(`^(\w{3})( -?\d+(?:, ?\d+)*)?$`)
	varRe     = regexp.MustCompile(`^(LC[LH]) ([a-z])$`)
)

// splitArgs parses a comma-separated argument list into signed integers,
// failing with OverflowingLiteral if any value falls outside the range a
// byte (via two's complement for negatives) can represent.
func splitArgs(s string, line int) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	args := make([]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, corelang.New(corelang.SyntaxError, "%q is not an integer", p).WithLine(line)
		}
		if v < -128 || v > 255 {
			return nil, corelang.New(corelang.OverflowingLiteral, "argument %d does not fit in a byte", v).WithLine(line)
		}
		if v < 0 {
			v += 256
		}
		args = append(args, byte(v))
	}
	return args, nil
}

type builder struct {
	ast            AST
	settings       core.Settings
	variables      Variables
	settingsClosed bool
	currentBlock   uint8
	haveBlock      bool
}

func (b *builder) applySetting(name string, rawArgs string, line int) error {
	args, err := splitArgs(rawArgs, line)
	if err != nil {
		return err
	}
	switch name {
	case "cores":
		if len(args) != 3 {
			return corelang.New(corelang.SyntaxError, ".cores wants 3 arguments, got %d", len(args)).WithLine(line)
		}
		b.settings.Cores = [3]uint8{args[0], args[1], args[2]}
	case "mem_number":
		if len(args) != 1 {
			return corelang.New(corelang.SyntaxError, ".mem_number wants 1 argument, got %d", len(args)).WithLine(line)
		}
		b.settings.MemNumber = args[0]
	case "mem_size":
		if len(args) != 1 {
			return corelang.New(corelang.SyntaxError, ".mem_size wants 1 argument, got %d", len(args)).WithLine(line)
		}
		b.settings.MemSize = args[0]
	case "mem_map":
		b.settings.MemMap = args
	default:
		return corelang.New(corelang.SyntaxError, "unknown setting %q", name).WithLine(line)
	}
	return nil
}

func (b *builder) openBlock(id uint8) {
	b.settingsClosed = true
	b.currentBlock = id
	b.haveBlock = true
	if b.ast == nil {
		b.ast = AST{}
	}
	if _, ok := b.ast[id]; !ok {
		b.ast[id] = nil
	}
}

func (b *builder) addVarSite(mnemonic string, letter byte, line int) error {
	if !b.haveBlock {
		return corelang.New(corelang.SyntaxError, "instruction outside any block").WithLine(line)
	}
	offset := uint8(len(b.ast[b.currentBlock]))
	idx := varIndex(letter)
	b.variables[idx] = append(b.variables[idx], VarSite{Block: b.currentBlock, Offset: offset})
	b.ast[b.currentBlock] = append(b.ast[b.currentBlock], Node{Mnemonic: mnemonic, Args: []byte{0}})
	return nil
}

func (b *builder) addInstruction(mnemonic string, rawArgs string, line int) error {
	if !b.haveBlock {
		return corelang.New(corelang.SyntaxError, "instruction outside any block").WithLine(line)
	}
	args, err := splitArgs(rawArgs, line)
	if err != nil {
		return err
	}
	b.ast[b.currentBlock] = append(b.ast[b.currentBlock], Node{Mnemonic: mnemonic, Args: args})
	return nil
}

// BuildAST parses preprocessed source text into an AST, a Settings
// record, and a Variables table. Blank lines and lines beginning with
// ';' are skipped; every other line must match one of the three
// syntactic forms in §4.4/§6, else SyntaxError.
func BuildAST(r io.Reader) (AST, core.Settings, Variables, error) {
	b := &builder{ast: AST{}}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if m := blockRe.FindStringSubmatch(line); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil || id > 255 {
				return nil, core.Settings{}, Variables{}, corelang.New(corelang.OverflowingLiteral,
					"block id %s does not fit in a byte", m[1]).WithLine(lineNo)
			}
			b.openBlock(uint8(id))
			continue
		}

		if !b.settingsClosed {
			if m := settingRe.FindStringSubmatch(line); m != nil {
				if err := b.applySetting(m[1], m[2], lineNo); err != nil {
					return nil, core.Settings{}, Variables{}, err
				}
				continue
			}
			return nil, core.Settings{}, Variables{}, corelang.New(corelang.SyntaxError, "unrecognized line").WithLine(lineNo)
		}

		if m := varRe.FindStringSubmatch(line); m != nil {
			if err := b.addVarSite(m[1], m[2][0], lineNo); err != nil {
				return nil, core.Settings{}, Variables{}, err
			}
			continue
		}
		if m := instrRe.FindStringSubmatch(line); m != nil {
			if err := b.addInstruction(m[1], m[2], lineNo); err != nil {
				return nil, core.Settings{}, Variables{}, err
			}
			continue
		}
		return nil, core.Settings{}, Variables{}, corelang.New(corelang.SyntaxError, "unrecognized line").WithLine(lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, core.Settings{}, Variables{}, err
	}

	for i, sites := range b.variables {
		if sites != nil && len(sites) == 0 {
			return nil, core.Settings{}, Variables{}, corelang.New(corelang.UnassignedVariable,
				"variable %q has no load sites", VarLetter(i))
		}
	}

	return b.ast, b.settings, b.variables, nil
}
