/*
 * DCPU-16 - Emulator entry point.
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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/dcornwell/dcpu16/command/console"
	"github.com/dcornwell/dcpu16/config/deviceconfig"
	"github.com/dcornwell/dcpu16/emu/core"
	"github.com/dcornwell/dcpu16/emu/cpu"
	"github.com/dcornwell/dcpu16/emu/encoding"
	"github.com/dcornwell/dcpu16/util/logger"
)

func main() {
	optDevices := getopt.ListLong("device", 'd', "Attach a device: name[:key=val,...]")
	optInteractive := getopt.BoolLong("interactive", 'i', "Drop into the monitor instead of running free")
	optTrace := getopt.UintLong("trace", 't', 0, "Trace category mask (util/trace Inst|Data|IRQ|Skip)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelWarn)
	if *optTrace != 0 {
		programLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, int(*optTrace))))

	devices, err := deviceconfig.ParseAll(*optDevices)
	if err != nil {
		slog.Error("emulator: " + err.Error())
		os.Exit(1)
	}
	for _, d := range devices {
		slog.Info("device requested", "name", d.Name, "options", d.Options)
	}

	args := getopt.Args()
	if len(args) == 0 {
		slog.Error("emulator: no image file given")
		os.Exit(1)
	}

	in, err := os.Open(args[0])
	if err != nil {
		slog.Error("emulator: " + err.Error())
		os.Exit(1)
	}
	words, err := encoding.ReadImage(in)
	in.Close()
	if err != nil {
		slog.Error("emulator: " + err.Error())
		os.Exit(1)
	}

	c := cpu.NewCPU()
	c.Mem.Load(0, words)

	runner := core.NewRunner(c)
	go runner.Run()

	if *optInteractive {
		mon := console.NewMonitor(runner)
		mon.Run()
		runner.Shutdown()
		return
	}

	runner.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down")
	runner.Shutdown()
	if runner.StoppedErr != nil {
		slog.Error("machine halted", "err", runner.StoppedErr)
	}
}
