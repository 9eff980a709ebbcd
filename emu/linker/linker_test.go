package linker

import (
	"testing"

	"github.com/dcornwell/dcpu16/emu/expr"
	"github.com/dcornwell/dcpu16/emu/instr"
)

func setReg(reg instr.Register) ParsedOperand {
	return ParsedOperand{Kind: instr.KindRegister, Reg: reg}
}

func litExpr(e *expr.Expr) ParsedOperand {
	return ParsedOperand{Kind: instr.KindLiteral, Expr: e}
}

func TestLinkS1(t *testing.T) {
	// SET A, 1
	// SET B, A
	items := []Item{
		{Kind: ItemInstruction, Instr: ParsedInstruction{Op: instr.OpSET, B: setReg(instr.RegA), A: litExpr(expr.NumExpr(1))}},
		{Kind: ItemInstruction, Instr: ParsedInstruction{Op: instr.OpSET, B: setReg(instr.RegB), A: setReg(instr.RegA)}},
	}
	image, _, err := Link(items)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	want := []uint16{0x8801, 0x0021}
	if len(image) != len(want) {
		t.Fatalf("image = %#04x, want %#04x", image, want)
	}
	for i := range want {
		if image[i] != want[i] {
			t.Errorf("image[%d] = %#04x, want %#04x", i, image[i], want[i])
		}
	}
}

func TestLinkS4Dat(t *testing.T) {
	items := []Item{
		{Kind: ItemDirective, Directive: Directive{Kind: DirDat, Dat: []DatItem{{Str: "Hi", IsStr: true}}}},
	}
	image, _, err := Link(items)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	want := []uint16{0x48, 0x69, 0x00}
	if len(image) != len(want) {
		t.Fatalf("image = %#04x, want %#04x", image, want)
	}
	for i := range want {
		if image[i] != want[i] {
			t.Errorf("image[%d] = %#04x, want %#04x", i, image[i], want[i])
		}
	}
}

func TestLinkS5ForwardReference(t *testing.T) {
	// SET A, end
	// :end
	items := []Item{
		{Kind: ItemInstruction, Instr: ParsedInstruction{Op: instr.OpSET, B: setReg(instr.RegA), A: litExpr(expr.LabelExpr("end"))}},
		{Kind: ItemGlobalLabel, LabelName: "end"},
	}
	image, syms, err := Link(items)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	// end resolves to 0 in pass 1, which is itself inline-eligible, so the
	// instruction stays 1 word wide and the fixed point converges there
	// (the spec's own S5 text allows either "2" or "1 if inlined").
	if len(image) != 1 {
		t.Fatalf("len(image) = %d, want 1", len(image))
	}
	if addr := syms.Globals["end"]; addr != 1 {
		t.Fatalf("end = %d, want 1", addr)
	}
}

func TestLinkDuplicatedLabel(t *testing.T) {
	items := []Item{
		{Kind: ItemGlobalLabel, LabelName: "x"},
		{Kind: ItemGlobalLabel, LabelName: "x"},
	}
	_, _, err := Link(items)
	if _, ok := err.(DuplicatedLabel); !ok {
		t.Fatalf("err = %v (%T), want DuplicatedLabel", err, err)
	}
}

func TestLinkLocalBeforeGlobal(t *testing.T) {
	items := []Item{
		{Kind: ItemLocalLabel, LabelName: "loop"},
	}
	_, _, err := Link(items)
	if _, ok := err.(LocalBeforeGlobal); !ok {
		t.Fatalf("err = %v (%T), want LocalBeforeGlobal", err, err)
	}
}

func TestLinkDuplicatedLocalLabel(t *testing.T) {
	items := []Item{
		{Kind: ItemGlobalLabel, LabelName: "start"},
		{Kind: ItemLocalLabel, LabelName: "loop"},
		{Kind: ItemLocalLabel, LabelName: "loop"},
	}
	_, _, err := Link(items)
	if _, ok := err.(DuplicatedLocalLabel); !ok {
		t.Fatalf("err = %v (%T), want DuplicatedLocalLabel", err, err)
	}
}

func TestLinkUnknownLabel(t *testing.T) {
	items := []Item{
		{Kind: ItemInstruction, Instr: ParsedInstruction{Op: instr.OpSET, B: setReg(instr.RegA), A: litExpr(expr.LabelExpr("missing"))}},
	}
	_, _, err := Link(items)
	if _, ok := err.(UnknownLabel); !ok {
		t.Fatalf("err = %v (%T), want UnknownLabel", err, err)
	}
}

func TestLinkFixedPointIsStable(t *testing.T) {
	// Re-linking the resolved program must change no label address
	// (property 2): run Link twice over equivalent input and compare.
	items := []Item{
		{Kind: ItemGlobalLabel, LabelName: "loop"},
		{Kind: ItemInstruction, Instr: ParsedInstruction{Op: instr.OpADD, B: setReg(instr.RegA), A: litExpr(expr.NumExpr(1))}},
		{Kind: ItemInstruction, Instr: ParsedInstruction{Op: instr.OpIFN, B: setReg(instr.RegA), A: litExpr(expr.NumExpr(10))}},
		{Kind: ItemInstruction, Instr: ParsedInstruction{Op: instr.OpSET, B: ParsedOperand{Kind: instr.KindPC}, A: litExpr(expr.LabelExpr("loop"))}},
	}
	image1, syms1, err := Link(items)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	image2, syms2, err := Link(items)
	if err != nil {
		t.Fatalf("Link (second): %v", err)
	}
	if len(image1) != len(image2) {
		t.Fatalf("images differ in length: %d vs %d", len(image1), len(image2))
	}
	if syms1.Globals["loop"] != syms2.Globals["loop"] {
		t.Fatalf("loop address unstable: %d vs %d", syms1.Globals["loop"], syms2.Globals["loop"])
	}
}
