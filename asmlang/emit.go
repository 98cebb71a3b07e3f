// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asmlang

import (
	"io"

	"github.com/cannotparse/laval-simulator/core"
	"github.com/cannotparse/laval-simulator/corelang"
)

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	if err != nil {
		return corelang.Wrap(corelang.TruncatedImage, err, "writing image")
	}
	return nil
}

func checkCount(n int, what string) (byte, error) {
	if n > 255 {
		return 0, corelang.New(corelang.ImageTooLarge, "%s count %d exceeds 255", what, n)
	}
	return byte(n), nil
}

// Assemble writes the binary image for ast/settings/variables to w, in
// the order given in §6: settings header, core-to-bank map, variables
// block, then one (bank_id, count, opcodes...) record per bank.
func Assemble(ast AST, settings core.Settings, variables Variables, w io.Writer) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := settings.Dump(w); err != nil {
		return err
	}

	mapLen, err := checkCount(len(settings.MemMap), "mem_map")
	if err != nil {
		return err
	}
	if err := writeByte(w, mapLen); err != nil {
		return err
	}
	for _, bank := range settings.MemMap {
		if err := writeByte(w, bank); err != nil {
			return err
		}
	}

	loaded := variables.Compact()
	vCount, err := checkCount(len(loaded), "variables")
	if err != nil {
		return err
	}
	if err := writeByte(w, vCount); err != nil {
		return err
	}
	for _, sites := range loaded {
		kCount, err := checkCount(len(sites), "variable sites")
		if err != nil {
			return err
		}
		if err := writeByte(w, kCount); err != nil {
			return err
		}
		for _, site := range sites {
			if err := writeByte(w, site.Block); err != nil {
				return err
			}
			if err := writeByte(w, site.Offset); err != nil {
				return err
			}
		}
	}

	set := core.Instructions()
	for _, bankID := range ast.banks() {
		nodes := ast[bankID]
		count, err := checkCount(len(nodes), "instructions")
		if err != nil {
			return corelang.Wrap(corelang.ImageTooLarge, err, "bank %d", bankID)
		}
		if err := writeByte(w, bankID); err != nil {
			return err
		}
		if err := writeByte(w, count); err != nil {
			return err
		}
		for offset, node := range nodes {
			instr, err := set.CreateFromAST(node.Mnemonic, node.Args)
			if err != nil {
				if ce, ok := err.(*corelang.Error); ok {
					return ce.WithLocation(bankID, uint8(offset))
				}
				return err
			}
			if err := writeByte(w, instr.Dump()); err != nil {
				return err
			}
		}
	}
	return nil
}
