package parse

import (
	"testing"

	"github.com/dcornwell/dcpu16/emu/linker"
)

func TestProgramSimpleInstructions(t *testing.T) {
	items, err := Program("SET A, 1\nSET B, A\n")
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	words, _, err := linker.Link(items)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	want := []uint16{0x8801, 0x0021}
	if len(words) != len(want) {
		t.Fatalf("words = %#v, want %#v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("words[%d] = %#x, want %#x", i, words[i], want[i])
		}
	}
}

func TestProgramDatString(t *testing.T) {
	items, err := Program(`dat "Hi"` + "\n")
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	words, _, err := linker.Link(items)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	want := []uint16{0x48, 0x69, 0x00}
	if len(words) != len(want) {
		t.Fatalf("words = %#v, want %#v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("words[%d] = %#x, want %#x", i, words[i], want[i])
		}
	}
}

func TestProgramForwardLabelReference(t *testing.T) {
	items, err := Program("SET A, end\n:end\n")
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	_, syms, err := linker.Link(items)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	// end resolves to 0 in pass 1, itself inline-eligible, so the
	// instruction stays 1 word wide and the fixed point converges there.
	if syms.Globals["end"] != 1 {
		t.Fatalf("end = %d, want 1", syms.Globals["end"])
	}
}

func TestProgramLocalLabelScope(t *testing.T) {
	items, err := Program(":loop\nADD A, 1\nIFN A, 10\n.again\nSET PC, loop\n")
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if _, _, err := linker.Link(items); err != nil {
		t.Fatalf("Link: %v", err)
	}
}

func TestProgramLocalBeforeGlobalFails(t *testing.T) {
	items, err := Program(".oops\nSET A, 1\n")
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if _, _, err := linker.Link(items); err == nil {
		t.Fatal("Link: expected LocalBeforeGlobal error")
	}
}

func TestProgramUnknownMnemonic(t *testing.T) {
	if _, err := Program("FROB A, B\n"); err == nil {
		t.Fatal("Program: expected syntax error for unknown mnemonic")
	}
}

func TestProgramIndirectOffset(t *testing.T) {
	items, err := Program("SET [0x1000+I], A\n")
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if _, _, err := linker.Link(items); err != nil {
		t.Fatalf("Link: %v", err)
	}
}

func TestProgramSpecialOpcode(t *testing.T) {
	items, err := Program(":sub\nSET PC, POP\nJSR sub\n")
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if _, _, err := linker.Link(items); err != nil {
		t.Fatalf("Link: %v", err)
	}
}
