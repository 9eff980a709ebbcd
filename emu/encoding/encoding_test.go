package encoding

import (
	"bytes"
	"testing"

	"github.com/dcornwell/dcpu16/emu/instr"
)

func TestEncodeInlineLiteral(t *testing.T) {
	// SET A, 1 -- a=inline(1)=code 0x22, b=A=0, op=SET=1
	ins := instr.Instruction{
		Op: instr.OpSET,
		B:  instr.RegisterOperand(instr.RegA),
		A:  instr.Operand{Kind: instr.KindLiteral, Next: 1},
	}
	words, n := Encode(ins, nil)
	if n != 1 {
		t.Fatalf("n = %d, want 1 (inline literal adds no extra word)", n)
	}
	want := uint16(0x22<<10 | 0<<5 | 1)
	if words[0] != want {
		t.Fatalf("word = %#04x, want %#04x", words[0], want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []instr.Instruction{
		{Op: instr.OpSET, B: instr.RegisterOperand(instr.RegB), A: instr.RegisterOperand(instr.RegA)},
		{Op: instr.OpADD, B: instr.IndirectOperand(instr.RegC), A: instr.Operand{Kind: instr.KindLiteral, Next: 0x1234}},
		{Op: instr.OpSET, B: instr.IndirectOffsetOperand(instr.RegX, 7), A: instr.Operand{Kind: instr.KindPick, Next: 2}},
		{Special: instr.SpecialJSR, A: instr.Operand{Kind: instr.KindIndirectLiteral, Next: 0x8000}},
		{Special: instr.SpecialHWI, A: instr.RegisterOperand(instr.RegA)},
	}
	for _, ins := range cases {
		words, n := Encode(ins, nil)
		got, consumed, err := Decode(words)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if consumed != n {
			t.Fatalf("consumed = %d, want %d", consumed, n)
		}
		if got != ins {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, ins)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	// @next-word in b with no following word.
	words := []uint16{uint16(0x1e<<5 | uint16(instr.OpSET))}
	if _, _, err := Decode(words); err == nil {
		t.Fatal("Decode: expected truncation error, got nil")
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	words := []uint16{0x18} // o = 0x18, reserved
	if _, _, err := Decode(words); err == nil {
		t.Fatal("Decode: expected unknown opcode error, got nil")
	}
}

func TestInlineLiteralBoundaries(t *testing.T) {
	for v := int16(-1); v <= 30; v++ {
		ins := instr.Instruction{
			Op: instr.OpSET,
			B:  instr.RegisterOperand(instr.RegA),
			A:  instr.Operand{Kind: instr.KindLiteral, Next: uint16(v)},
		}
		words, n := Encode(ins, nil)
		if n != 1 {
			t.Fatalf("value %d: expected inline (1 word), got %d words", v, n)
		}
		dec, _, err := Decode(words)
		if err != nil {
			t.Fatalf("value %d: Decode: %v", v, err)
		}
		if dec.A.Kind != instr.KindInlineLiteral || int16(dec.A.Next) != v {
			t.Fatalf("value %d: decoded as %+v", v, dec.A)
		}
	}
	// -2 and 31 must not be inlined.
	for _, v := range []int16{-2, 31} {
		ins := instr.Instruction{
			Op: instr.OpSET,
			B:  instr.RegisterOperand(instr.RegA),
			A:  instr.Operand{Kind: instr.KindLiteral, Next: uint16(v)},
		}
		_, n := Encode(ins, nil)
		if n != 2 {
			t.Fatalf("value %d: expected non-inline (2 words), got %d", v, n)
		}
	}
}

func TestImageRoundTrip(t *testing.T) {
	words := []uint16{0x8801, 0x0011, 0xffff}
	var buf bytes.Buffer
	if err := WriteImage(&buf, words); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	if buf.Len() != 6 {
		t.Fatalf("buf.Len() = %d, want 6", buf.Len())
	}
	got, err := ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(words))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Fatalf("word[%d] = %#04x, want %#04x", i, got[i], words[i])
		}
	}
}
