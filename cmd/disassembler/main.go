/*
 * DCPU-16 - Disassembler entry point.
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
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/dcornwell/dcpu16/emu/disasm"
	"github.com/dcornwell/dcpu16/emu/encoding"
	"github.com/dcornwell/dcpu16/util/logger"
)

func main() {
	optOutput := getopt.StringLong("output", 'o', "", "Output listing file")
	optBase := getopt.UintLong("base", 0, 0, "Base address of the image")
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
	var in *os.File
	var err error
	if len(args) == 0 || args[0] == "-" {
		in = os.Stdin
	} else {
		in, err = os.Open(args[0])
		if err != nil {
			slog.Error("disassembler: " + err.Error())
			os.Exit(1)
		}
		defer in.Close()
	}

	words, err := encoding.ReadImage(in)
	if err != nil {
		slog.Error("disassembler: " + err.Error())
		os.Exit(1)
	}

	out := os.Stdout
	if *optOutput != "" {
		out, err = os.Create(*optOutput)
		if err != nil {
			slog.Error("disassembler: " + err.Error())
			os.Exit(1)
		}
		defer out.Close()
	}

	if err := disasm.Disassemble(uint16(*optBase), words, out); err != nil {
		fmt.Fprintln(os.Stderr, "disassembler:", err)
		os.Exit(1)
	}
}
