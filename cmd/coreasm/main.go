// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command coreasm is a thin driver over the assembler and core pipeline:
// assemble a source file to a binary image, or run an image to
// termination. The command-line driver is explicitly out of scope for
// this module's core contract (§1), so this stays deliberately small.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/beevik/cmd"
	"github.com/beevik/term"

	"github.com/cannotparse/laval-simulator/asmlang"
)

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("coreasm")
	root.AddCommand(cmd.Command{
		Name:  "assemble",
		Brief: "Assemble a source file into a binary image",
		Usage: "assemble <source> <image>",
		Data:  cmdAssemble,
	})
	root.AddCommand(cmd.Command{
		Name:  "run",
		Brief: "Load a binary image and run it to termination",
		Usage: "run <image>",
		Data:  cmdRun,
	})
	root.AddShortcut("a", "assemble")
	root.AddShortcut("r", "run")
	cmds = root
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: coreasm <assemble|run> ...")
		os.Exit(2)
	}

	line := os.Args[1]
	for _, a := range os.Args[2:] {
		line += " " + a
	}

	sel, err := cmds.Lookup(line)
	switch {
	case err == cmd.ErrNotFound:
		fmt.Fprintln(os.Stderr, "command not found:", os.Args[1])
		os.Exit(2)
	case err == cmd.ErrAmbiguous:
		fmt.Fprintln(os.Stderr, "ambiguous command:", os.Args[1])
		os.Exit(2)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	handler := sel.Command.Data.(func(cmd.Selection) error)
	if err := handler(sel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cmdAssemble(c cmd.Selection) error {
	if len(c.Args) != 2 {
		return fmt.Errorf("usage: %s", c.Command.Usage)
	}
	src, err := os.Open(c.Args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	var preprocessed bytes.Buffer
	if err := asmlang.Preprocess(src, &preprocessed); err != nil {
		return err
	}

	ast, settings, variables, err := asmlang.BuildAST(&preprocessed)
	if err != nil {
		return err
	}

	out, err := os.Create(c.Args[1])
	if err != nil {
		return err
	}
	defer out.Close()
	return asmlang.Assemble(ast, settings, variables, out)
}

func cmdRun(c cmd.Selection) error {
	if len(c.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Command.Usage)
	}
	f, err := os.Open(c.Args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	cpu, err := asmlang.LoadBinary(f)
	if err != nil {
		return err
	}
	result, err := cpu.Start()
	if err != nil {
		return err
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("result = %d\n", result)
	} else {
		fmt.Println(result)
	}
	return nil
}
