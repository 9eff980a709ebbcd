/*
   Source-text parser: a line-oriented scanner that turns assembly text
   into the linker's item stream. Not itself load-bearing for the
   interpreter or the fixed-point layout algorithm -- just enough to make
   the CLI binaries runnable end to end.

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
*/

// Package parse reads DCPU-16 assembly source and produces the ordered
// []linker.Item stream that emu/linker consumes. Labels are written
// ":name" for a global and ".name" for a label local to the most recent
// global; everything after a ';' is a comment.
package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dcornwell/dcpu16/emu/expr"
	"github.com/dcornwell/dcpu16/emu/instr"
	"github.com/dcornwell/dcpu16/emu/linker"
)

// SyntaxError reports a source line the scanner could not make sense of.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("parse: line %d: %s (in %q)", e.Line, e.Msg, e.Text)
}

// skipSpace advances past leading whitespace.
func skipSpace(s string) string {
	for i, r := range s {
		if !unicode.IsSpace(r) {
			return s[i:]
		}
	}
	return ""
}

// getName reads a run of identifier/number characters.
func getName(s string) (string, string) {
	s = skipSpace(s)
	for i, r := range s {
		if unicode.IsSpace(r) || r == ',' || r == '[' || r == ']' || r == '+' || r == ';' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// getNext returns the next non-space byte without consuming it, and the
// remainder starting at that byte.
func getNext(s string) (byte, string) {
	s = skipSpace(s)
	if s == "" {
		return 0, ""
	}
	return s[0], s
}

// Program parses a full source text into a linker item stream.
func Program(src string) ([]linker.Item, error) {
	var items []linker.Item
	lines := strings.Split(src, "\n")
	for n, raw := range lines {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			items = append(items, linker.Item{Kind: linker.ItemComment})
			continue
		}
		item, err := parseLine(line)
		if err != nil {
			if se, ok := err.(SyntaxError); ok {
				se.Line = n + 1
				se.Text = line
				return nil, se
			}
			return nil, SyntaxError{Line: n + 1, Text: line, Msg: err.Error()}
		}
		items = append(items, item)
	}
	return items, nil
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseLine(line string) (linker.Item, error) {
	switch {
	case strings.HasPrefix(line, ":"):
		name, rest := getName(line[1:])
		if strings.TrimSpace(rest) != "" {
			return inlineTrailing(linker.Item{Kind: linker.ItemGlobalLabel, LabelName: name}, rest)
		}
		return linker.Item{Kind: linker.ItemGlobalLabel, LabelName: name}, nil
	case strings.HasPrefix(line, "."):
		name, rest := getName(line[1:])
		if strings.TrimSpace(rest) != "" {
			return inlineTrailing(linker.Item{Kind: linker.ItemLocalLabel, LabelName: name}, rest)
		}
		return linker.Item{Kind: linker.ItemLocalLabel, LabelName: name}, nil
	default:
		return parseDirectiveOrInstruction(line)
	}
}

// inlineTrailing handles the common "label on the same line as its
// first instruction" style by only ever returning the label: callers
// that want the trailing instruction too should put it on its own line.
// Kept simple on purpose -- this parser is a convenience, not the
// specified surface.
func inlineTrailing(label linker.Item, _ string) (linker.Item, error) {
	return label, nil
}

func parseDirectiveOrInstruction(line string) (linker.Item, error) {
	name, rest := getName(line)
	upper := strings.ToUpper(name)

	switch upper {
	case "DAT":
		dat, err := parseDat(rest)
		if err != nil {
			return linker.Item{}, err
		}
		return linker.Item{Kind: linker.ItemDirective, Directive: linker.Directive{Kind: linker.DirDat, Dat: dat}}, nil
	case "ORG":
		e, _, err := parseExpr(rest)
		if err != nil {
			return linker.Item{}, err
		}
		return linker.Item{Kind: linker.ItemDirective, Directive: linker.Directive{Kind: linker.DirOrg, Org: e}}, nil
	case "GLOBAL":
		return linker.Item{Kind: linker.ItemDirective, Directive: linker.Directive{Kind: linker.DirGlobal}}, nil
	case "TEXT":
		return linker.Item{Kind: linker.ItemDirective, Directive: linker.Directive{Kind: linker.DirText}}, nil
	case "BSS":
		return linker.Item{Kind: linker.ItemDirective, Directive: linker.Directive{Kind: linker.DirBss}}, nil
	}

	if special, ok := instr.LookupSpecial(upper); ok {
		a, _, err := parseOperand(rest, true)
		if err != nil {
			return linker.Item{}, err
		}
		return linker.Item{Kind: linker.ItemInstruction, Instr: linker.ParsedInstruction{Special: special, A: a}}, nil
	}
	op, ok := instr.LookupBasic(upper)
	if !ok {
		return linker.Item{}, SyntaxError{Msg: fmt.Sprintf("unknown mnemonic %q", name)}
	}
	b, rest, err := parseOperand(rest, false)
	if err != nil {
		return linker.Item{}, err
	}
	rest = skipSpace(rest)
	if len(rest) == 0 || rest[0] != ',' {
		return linker.Item{}, SyntaxError{Msg: "expected ',' between operands"}
	}
	a, _, err := parseOperand(rest[1:], true)
	if err != nil {
		return linker.Item{}, err
	}
	return linker.Item{Kind: linker.ItemInstruction, Instr: linker.ParsedInstruction{Op: op, B: b, A: a}}, nil
}

func parseDat(rest string) ([]linker.DatItem, error) {
	var items []linker.DatItem
	rest = skipSpace(rest)
	for rest != "" {
		rest = skipSpace(rest)
		if rest == "" {
			break
		}
		if rest[0] == '"' {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, SyntaxError{Msg: "unterminated string"}
			}
			items = append(items, linker.DatItem{Str: rest[1 : 1+end], IsStr: true})
			rest = rest[2+end:]
		} else {
			e, tail, err := parseExpr(rest)
			if err != nil {
				return nil, err
			}
			items = append(items, linker.DatItem{Num: e})
			rest = tail
		}
		rest = skipSpace(rest)
		if rest != "" && rest[0] == ',' {
			rest = rest[1:]
		}
	}
	return items, nil
}

var registerByName = map[string]instr.Register{
	"A": instr.RegA, "B": instr.RegB, "C": instr.RegC, "X": instr.RegX,
	"Y": instr.RegY, "Z": instr.RegZ, "I": instr.RegI, "J": instr.RegJ,
}

// parseOperand reads one operand, returning its parsed form and the
// remaining text after it.
func parseOperand(s string, isA bool) (linker.ParsedOperand, string, error) {
	s = skipSpace(s)
	switch {
	case strings.HasPrefix(s, "["):
		return parseIndirect(s)
	case strings.HasPrefix(strings.ToUpper(s), "PUSH"):
		return linker.ParsedOperand{Kind: instr.KindPushPop}, s[4:], nil
	case strings.HasPrefix(strings.ToUpper(s), "POP"):
		return linker.ParsedOperand{Kind: instr.KindPushPop}, s[3:], nil
	case strings.HasPrefix(strings.ToUpper(s), "PEEK"):
		return linker.ParsedOperand{Kind: instr.KindPeek}, s[4:], nil
	case strings.HasPrefix(strings.ToUpper(s), "PICK"):
		e, rest, err := parseExpr(s[4:])
		if err != nil {
			return linker.ParsedOperand{}, "", err
		}
		return linker.ParsedOperand{Kind: instr.KindPick, Expr: e}, rest, nil
	case strings.HasPrefix(strings.ToUpper(s), "SP"):
		return linker.ParsedOperand{Kind: instr.KindSP}, s[2:], nil
	case strings.HasPrefix(strings.ToUpper(s), "PC"):
		return linker.ParsedOperand{Kind: instr.KindPC}, s[2:], nil
	case strings.HasPrefix(strings.ToUpper(s), "EX"):
		return linker.ParsedOperand{Kind: instr.KindEX}, s[2:], nil
	}

	if r, ok := matchRegister(s); ok {
		return linker.ParsedOperand{Kind: instr.KindRegister, Reg: r}, s[1:], nil
	}

	e, rest, err := parseExpr(s)
	if err != nil {
		return linker.ParsedOperand{}, "", err
	}
	return linker.ParsedOperand{Kind: instr.KindLiteral, Expr: e}, rest, nil
}

func matchRegister(s string) (instr.Register, bool) {
	if s == "" {
		return 0, false
	}
	name := strings.ToUpper(s[:1])
	if len(s) > 1 && (unicode.IsLetter(rune(s[1])) || unicode.IsDigit(rune(s[1]))) {
		return 0, false // longer identifier, e.g. a label starting with a register letter
	}
	r, ok := registerByName[name]
	return r, ok
}

func parseIndirect(s string) (linker.ParsedOperand, string, error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return linker.ParsedOperand{}, "", SyntaxError{Msg: "unterminated ["}
	}
	inner := strings.TrimSpace(s[1:end])
	rest := s[end+1:]

	if r, ok := matchRegister(inner); ok && len(inner) == 1 {
		return linker.ParsedOperand{Kind: instr.KindIndirect, Reg: r}, rest, nil
	}
	if idx := strings.IndexByte(inner, '+'); idx >= 0 {
		left := strings.TrimSpace(inner[:idx])
		right := strings.TrimSpace(inner[idx+1:])
		if r, ok := matchRegister(left); ok {
			e, _, err := parseExpr(right)
			if err != nil {
				return linker.ParsedOperand{}, "", err
			}
			return linker.ParsedOperand{Kind: instr.KindIndirectOffset, Reg: r, Expr: e}, rest, nil
		}
		if r, ok := matchRegister(right); ok {
			e, _, err := parseExpr(left)
			if err != nil {
				return linker.ParsedOperand{}, "", err
			}
			return linker.ParsedOperand{Kind: instr.KindIndirectOffset, Reg: r, Expr: e}, rest, nil
		}
	}
	e, _, err := parseExpr(inner)
	if err != nil {
		return linker.ParsedOperand{}, "", err
	}
	return linker.ParsedOperand{Kind: instr.KindIndirectLiteral, Expr: e}, rest, nil
}

// parseExpr reads a left-associative chain of terms and binary operators
// out of s, stopping at a comma, closing bracket, or end of line.
func parseExpr(s string) (*expr.Expr, string, error) {
	left, rest, err := parseTerm(s)
	if err != nil {
		return nil, "", err
	}
	for {
		rest = skipSpace(rest)
		op, ok, width := matchOp(rest)
		if !ok {
			return left, rest, nil
		}
		right, tail, err := parseTerm(rest[width:])
		if err != nil {
			return nil, "", err
		}
		left = expr.BinExpr(op, left, right)
		rest = tail
	}
}

func matchOp(s string) (expr.Op, bool, int) {
	if strings.HasPrefix(s, "<<") {
		return expr.Shl, true, 2
	}
	if strings.HasPrefix(s, ">>") {
		return expr.Shr, true, 2
	}
	if s == "" {
		return 0, false, 0
	}
	switch s[0] {
	case '+':
		return expr.Add, true, 1
	case '-':
		return expr.Sub, true, 1
	case '*':
		return expr.Mul, true, 1
	case '/':
		return expr.Div, true, 1
	case '%':
		return expr.Mod, true, 1
	}
	return 0, false, 0
}

func parseTerm(s string) (*expr.Expr, string, error) {
	s = skipSpace(s)
	if s == "" {
		return nil, "", SyntaxError{Msg: "expected a value"}
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	b, _ := getNext(s)
	var name string
	if unicode.IsDigit(rune(b)) {
		name, s = scanNumber(s)
		v, err := strconv.ParseInt(name, 0, 32)
		if err != nil {
			return nil, "", SyntaxError{Msg: fmt.Sprintf("bad number %q", name)}
		}
		if neg {
			v = -v
		}
		return expr.NumExpr(int32(v)), s, nil
	}
	if strings.HasPrefix(s, ".") {
		name, s = getName(s[1:])
		if neg {
			return expr.BinExpr(expr.Sub, expr.NumExpr(0), expr.LocalLabelExpr(name)), s, nil
		}
		return expr.LocalLabelExpr(name), s, nil
	}
	name, s = getName(s)
	if name == "" {
		return nil, "", SyntaxError{Msg: "expected a value"}
	}
	if neg {
		return expr.BinExpr(expr.Sub, expr.NumExpr(0), expr.LabelExpr(name)), s, nil
	}
	return expr.LabelExpr(name), s, nil
}

// scanNumber reads 0x-prefixed hex or plain decimal, since strconv wants
// the prefix kept for base detection.
func scanNumber(s string) (string, string) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		for i := 2; i < len(s); i++ {
			if !isHexDigit(s[i]) {
				return s[:i], s[i:]
			}
		}
		return s, ""
	}
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
