package console

import (
	"testing"
	"time"

	"github.com/dcornwell/dcpu16/emu/core"
	"github.com/dcornwell/dcpu16/emu/cpu"
	"github.com/dcornwell/dcpu16/emu/instr"
)

func newTestMonitor() (*Monitor, *cpu.CPU, *core.Runner) {
	c := cpu.NewCPU()
	r := core.NewRunner(c)
	go r.Run()
	return NewMonitor(r), c, r
}

func TestProcessStepExecutesOneTick(t *testing.T) {
	m, c, r := newTestMonitor()
	defer r.Shutdown()

	c.Mem.PutWord(0, 0x8801) // SET A, 1
	if _, err := m.process("step"); err != nil {
		t.Fatalf("process(step): %v", err)
	}
	if c.Regs[0] != 1 {
		t.Fatalf("A = %d, want 1", c.Regs[0])
	}
}

func TestProcessAbbreviationMatch(t *testing.T) {
	m, _, r := newTestMonitor()
	defer r.Shutdown()

	if _, err := m.process("ste"); err != nil {
		t.Fatalf("process(ste): %v", err)
	}
}

func TestProcessAmbiguousAbbreviation(t *testing.T) {
	m, _, r := newTestMonitor()
	defer r.Shutdown()

	if _, err := m.process("st"); err == nil {
		t.Fatal("process(st): expected ambiguity error")
	}
}

func TestProcessUnknownCommand(t *testing.T) {
	m, _, r := newTestMonitor()
	defer r.Shutdown()

	if _, err := m.process("frobnicate"); err == nil {
		t.Fatal("process(frobnicate): expected error")
	}
}

func TestProcessQuit(t *testing.T) {
	m, _, r := newTestMonitor()
	defer r.Shutdown()

	quit, err := m.process("quit")
	if err != nil {
		t.Fatalf("process(quit): %v", err)
	}
	if !quit {
		t.Fatal("process(quit): expected quit = true")
	}
}

func TestCmdBreakRecordsAddress(t *testing.T) {
	m, _, r := newTestMonitor()
	defer r.Shutdown()

	if _, err := m.process("break 0x10"); err != nil {
		t.Fatalf("process(break): %v", err)
	}
	if !r.HasBreakpoint(0x10) {
		t.Fatal("breakpoint at 0x10 not recorded on the runner")
	}
}

func TestCmdBreakHaltsContinue(t *testing.T) {
	m, c, r := newTestMonitor()
	defer r.Shutdown()

	c.Mem.PutWord(0, (uint16(0x22)<<10)|(uint16(0)<<5)|uint16(instr.OpADD)) // ADD A, 1
	c.Mem.PutWord(1, (uint16(0x22)<<10)|(uint16(0)<<5)|uint16(instr.OpADD)) // ADD A, 1
	c.Mem.PutWord(2, (uint16(0x21)<<10)|(uint16(0x1c)<<5)|uint16(instr.OpSET))

	if _, err := m.process("break 0x1"); err != nil {
		t.Fatalf("process(break): %v", err)
	}
	if _, err := m.process("continue"); err != nil {
		t.Fatalf("process(continue): %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if c.PC != 1 {
		t.Fatalf("PC = %#04x, want 0x1", c.PC)
	}
	if c.Regs[instr.RegA] != 1 {
		t.Fatalf("A = %d, want 1", c.Regs[instr.RegA])
	}

	time.Sleep(10 * time.Millisecond)
	if c.Regs[instr.RegA] != 1 {
		t.Fatal("A kept changing past the breakpoint")
	}
}

func TestCmdRegistersNoError(t *testing.T) {
	m, _, r := newTestMonitor()
	defer r.Shutdown()

	if _, err := m.process("registers"); err != nil {
		t.Fatalf("process(registers): %v", err)
	}
}
