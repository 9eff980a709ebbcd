/*
 * DCPU-16 - Interactive monitor.
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

// Package console implements the emulator's interactive monitor: a small
// abbreviation-matched command set (step, continue, break, registers,
// dump, load, quit) driven over a liner-backed readline prompt.
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/peterh/liner"

	"github.com/dcornwell/dcpu16/emu/core"
	"github.com/dcornwell/dcpu16/emu/disasm"
	"github.com/dcornwell/dcpu16/emu/instr"
	"github.com/dcornwell/dcpu16/util/hexfmt"
)

// cmdLine is the line being parsed, with a cursor that the scanning
// methods below advance as they consume words.
type cmdLine struct {
	line string
	pos  int
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

func (l *cmdLine) rest() string {
	l.skipSpace()
	return l.line[l.pos:]
}

// cmd is one monitor command: matched against the first word of the
// input line by prefix, as long as the prefix is at least min letters
// long (so "s" alone is too short for either "step" or "stop", "st" is
// ambiguous between them, and "ste"/"sto" disambiguate).
type cmd struct {
	name    string
	min     int
	process func(*Monitor, *cmdLine) (quit bool, err error)
}

var cmdList = []cmd{
	{name: "step", min: 2, process: (*Monitor).cmdStep},
	{name: "continue", min: 1, process: (*Monitor).cmdContinue},
	{name: "stop", min: 2, process: (*Monitor).cmdStop},
	{name: "break", min: 2, process: (*Monitor).cmdBreak},
	{name: "registers", min: 3, process: (*Monitor).cmdRegisters},
	{name: "dump", min: 1, process: (*Monitor).cmdDump},
	{name: "load", min: 1, process: (*Monitor).cmdLoad},
	{name: "quit", min: 1, process: (*Monitor).cmdQuit},
}

func matchCommand(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if len(name) >= m.min && len(name) <= len(m.name) && strings.HasPrefix(m.name, name) {
			match = append(match, m)
		}
	}
	return match
}

// Monitor wraps a Runner with the command table above.
type Monitor struct {
	Runner *core.Runner
}

// NewMonitor returns a monitor around an already-constructed Runner.
func NewMonitor(r *core.Runner) *Monitor {
	return &Monitor{Runner: r}
}

// Run drives the readline loop until the quit command or Ctrl-D/Ctrl-C.
func (m *Monitor) Run() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var out []string
		for _, c := range cmdList {
			if strings.HasPrefix(c.name, partial) {
				out = append(out, c.name)
			}
		}
		return out
	})

	for {
		text, err := line.Prompt("dcpu16> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Println("error reading line: " + err.Error())
			return
		}
		line.AppendHistory(text)

		quit, err := m.process(text)
		if err != nil {
			fmt.Println("error: " + err.Error())
		}
		if quit {
			return
		}
	}
}

func (m *Monitor) process(text string) (bool, error) {
	cl := cmdLine{line: text}
	name := strings.ToLower(cl.getWord())

	match := matchCommand(name)
	switch len(match) {
	case 0:
		if name == "" {
			return false, nil
		}
		return false, fmt.Errorf("command not found: %s", name)
	case 1:
		return match[0].process(m, &cl)
	default:
		return false, fmt.Errorf("ambiguous command: %s", name)
	}
}

func (m *Monitor) cmdStep(_ *cmdLine) (bool, error) {
	m.Runner.Step()
	if m.Runner.StoppedErr != nil {
		return false, m.Runner.StoppedErr
	}
	m.printCurrent()
	return false, nil
}

func (m *Monitor) cmdContinue(_ *cmdLine) (bool, error) {
	m.Runner.Start()
	return false, nil
}

func (m *Monitor) cmdStop(_ *cmdLine) (bool, error) {
	m.Runner.Stop()
	m.printCurrent()
	return false, nil
}

func (m *Monitor) cmdBreak(cl *cmdLine) (bool, error) {
	addr, err := parseAddr(cl.getWord())
	if err != nil {
		return false, err
	}
	m.Runner.SetBreakpoint(addr)
	fmt.Printf("breakpoint set at 0x%04x\n", addr)
	return false, nil
}

func (m *Monitor) cmdRegisters(_ *cmdLine) (bool, error) {
	c := m.Runner.CPU
	regs := []instr.Register{instr.RegA, instr.RegB, instr.RegC, instr.RegX, instr.RegY, instr.RegZ, instr.RegI, instr.RegJ}
	for _, r := range regs {
		fmt.Printf("%s=%s ", r.String(), hexfmt.Word(c.Reg(int(r))))
	}
	fmt.Printf("PC=%s SP=%s EX=%s IA=%s\n",
		hexfmt.Word(c.PC), hexfmt.Word(c.SP), hexfmt.Word(c.EX), hexfmt.Word(c.IA))
	return false, nil
}

func (m *Monitor) cmdDump(cl *cmdLine) (bool, error) {
	startWord := cl.getWord()
	countWord := cl.getWord()

	addr := m.Runner.CPU.PC
	if startWord != "" {
		var err error
		addr, err = parseAddr(startWord)
		if err != nil {
			return false, err
		}
	}
	count := 8
	if countWord != "" {
		n, err := strconv.ParseUint(countWord, 0, 16)
		if err != nil {
			return false, fmt.Errorf("bad count %q: %w", countWord, err)
		}
		count = int(n)
	}

	words := m.Runner.CPU.Mem.Slice(addr, count)
	if err := disasm.Disassemble(addr, words, stdout{}); err != nil {
		return false, err
	}
	return false, nil
}

func (m *Monitor) cmdLoad(cl *cmdLine) (bool, error) {
	return false, fmt.Errorf("load: no image loader wired to %q", cl.rest())
}

func (m *Monitor) cmdQuit(_ *cmdLine) (bool, error) {
	return true, nil
}

func (m *Monitor) printCurrent() {
	words := m.Runner.CPU.Mem.Slice(m.Runner.CPU.PC, 3)
	_ = disasm.Disassemble(m.Runner.CPU.PC, words[:1], stdout{})
}

func parseAddr(s string) (uint16, error) {
	if s == "" {
		return 0, errors.New("missing address")
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint16(n), nil
}

// stdout adapts fmt.Printf-style output to disasm.Disassemble's io.Writer.
type stdout struct{}

func (stdout) Write(p []byte) (int, error) {
	return fmt.Print(string(p))
}
