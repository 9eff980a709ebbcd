/*
 * DCPU-16 - Assembler entry point.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/dcornwell/dcpu16/emu/encoding"
	"github.com/dcornwell/dcpu16/emu/linker"
	"github.com/dcornwell/dcpu16/emu/parse"
	"github.com/dcornwell/dcpu16/util/logger"
)

func main() {
	optOutput := getopt.StringLong("output", 'o', "", "Output image file")
	optAST := getopt.BoolLong("ast", 0, "Print the resolved symbol table instead of assembling")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelWarn)
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, 0)))

	args := getopt.Args()
	var src []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(args[0])
	}
	if err != nil {
		slog.Error("assembler: " + err.Error())
		os.Exit(1)
	}

	items, err := parse.Program(string(src))
	if err != nil {
		slog.Error("assembler: " + err.Error())
		os.Exit(1)
	}

	words, syms, err := linker.Link(items)
	if err != nil {
		slog.Error("assembler: " + err.Error())
		os.Exit(1)
	}

	if *optAST {
		for name, addr := range syms.Globals {
			fmt.Printf("%s = 0x%04x\n", name, addr)
		}
		return
	}

	out := os.Stdout
	if *optOutput != "" {
		out, err = os.Create(*optOutput)
		if err != nil {
			slog.Error("assembler: " + err.Error())
			os.Exit(1)
		}
		defer out.Close()
	}

	if err := encoding.WriteImage(out, words); err != nil {
		slog.Error("assembler: " + err.Error())
		os.Exit(1)
	}
}
