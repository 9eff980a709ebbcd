/*
   The two-pass fixed-point linker: turns a parsed item stream into a
   word image by iterating layout passes until no label address moves.

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

// Package linker resolves a parsed item stream into a flat word image,
// re-running layout passes until every label address stabilizes.
package linker

import (
	"fmt"

	"github.com/dcornwell/dcpu16/emu/encoding"
	"github.com/dcornwell/dcpu16/emu/expr"
	"github.com/dcornwell/dcpu16/emu/instr"
)

// maxPasses bounds the fixed-point iteration; a program that hasn't
// converged by then is treated as diverged rather than looped forever.
const maxPasses = 64

// ItemKind selects the variant of a parsed stream item.
type ItemKind int

const (
	ItemDirective ItemKind = iota
	ItemGlobalLabel
	ItemLocalLabel
	ItemInstruction
	ItemComment
)

// DirectiveKind selects among dat/org/global/text/bss.
type DirectiveKind int

const (
	DirDat DirectiveKind = iota
	DirOrg
	DirGlobal
	DirText
	DirBss
)

// DatItem is one element of a dat directive: either a string (emitted
// as one byte per word, zero-terminated) or a numeric expression.
type DatItem struct {
	Str    string
	IsStr  bool
	Num    *expr.Expr
}

// Directive is a dat/org/global/text/bss stream item.
type Directive struct {
	Kind DirectiveKind
	Dat  []DatItem // DirDat
	Org  *expr.Expr
}

// ParsedOperand is an operand whose "next word" payload may still be an
// unresolved expression.
type ParsedOperand struct {
	Kind instr.OperandKind
	Reg  instr.Register
	Expr *expr.Expr // nil when the kind carries no payload
}

// ParsedInstruction is a basic or special instruction whose operand
// expressions have not yet been resolved to concrete words.
type ParsedInstruction struct {
	Op      instr.Op
	Special instr.SpecialOp
	B       ParsedOperand
	A       ParsedOperand
}

func (p ParsedInstruction) isSpecial() bool { return p.Op == 0 }

// Item is one element of the linker's input stream.
type Item struct {
	Kind       ItemKind
	Directive  Directive         // ItemDirective
	LabelName  string            // ItemGlobalLabel / ItemLocalLabel
	Instr      ParsedInstruction // ItemInstruction
}

// Errors, named per the error taxonomy.

type UnknownLabel = expr.UnknownLabel
type UnknownLocalLabel = expr.UnknownLocalLabel
type DivisionByZero = expr.DivisionByZero

// DuplicatedLabel is returned by the pre-pass when a global label is
// declared more than once.
type DuplicatedLabel struct{ Name string }

func (e DuplicatedLabel) Error() string { return fmt.Sprintf("linker: duplicated label %q", e.Name) }

// DuplicatedLocalLabel is returned by the pre-pass when a local label is
// declared more than once within its scope.
type DuplicatedLocalLabel struct {
	Scope, Name string
}

func (e DuplicatedLocalLabel) Error() string {
	return fmt.Sprintf("linker: duplicated local label %q in scope %q", e.Name, e.Scope)
}

// LocalBeforeGlobal is returned when a local label appears before any
// global label has been declared.
type LocalBeforeGlobal struct{ Name string }

func (e LocalBeforeGlobal) Error() string {
	return fmt.Sprintf("linker: local label %q declared before any global label", e.Name)
}

// LayoutDiverged is returned when the fixed point does not settle
// within maxPasses iterations.
type LayoutDiverged struct{ Passes int }

func (e LayoutDiverged) Error() string {
	return fmt.Sprintf("linker: layout did not converge after %d passes", e.Passes)
}

// Link resolves items into a word image, running the pre-pass followed
// by fixed-point emission passes.
func Link(items []Item) ([]uint16, *expr.SymbolTable, error) {
	syms := expr.NewSymbolTable()
	if err := prePass(items, syms); err != nil {
		return nil, nil, err
	}

	var image []uint16
	for pass := 0; pass < maxPasses; pass++ {
		buf, changed, err := emitPass(items, syms)
		if err != nil {
			return nil, nil, err
		}
		image = buf
		if !changed {
			return image, syms, nil
		}
	}
	return nil, nil, LayoutDiverged{Passes: maxPasses}
}

func prePass(items []Item, syms *expr.SymbolTable) error {
	lastGlobal := ""
	haveGlobal := false
	for _, it := range items {
		switch it.Kind {
		case ItemGlobalLabel:
			if _, exists := syms.Globals[it.LabelName]; exists {
				return DuplicatedLabel{Name: it.LabelName}
			}
			syms.Globals[it.LabelName] = 0
			if _, ok := syms.Locals[it.LabelName]; !ok {
				syms.Locals[it.LabelName] = make(map[string]uint16)
			}
			lastGlobal = it.LabelName
			haveGlobal = true
		case ItemLocalLabel:
			if !haveGlobal {
				return LocalBeforeGlobal{Name: it.LabelName}
			}
			scope := syms.Locals[lastGlobal]
			if _, exists := scope[it.LabelName]; exists {
				return DuplicatedLocalLabel{Scope: lastGlobal, Name: it.LabelName}
			}
			scope[it.LabelName] = 0
		}
	}
	return nil
}

// emitPass performs one layout pass, returning the accumulated image
// and whether any label address changed during this pass.
func emitPass(items []Item, syms *expr.SymbolTable) ([]uint16, bool, error) {
	var image []uint16
	var index uint16
	changed := false
	lastGlobal := ""

	for _, it := range items {
		switch it.Kind {
		case ItemComment:
			// no-op

		case ItemGlobalLabel:
			if syms.Globals[it.LabelName] != index {
				syms.Globals[it.LabelName] = index
				changed = true
			}
			lastGlobal = it.LabelName

		case ItemLocalLabel:
			scope := syms.Locals[lastGlobal]
			if scope[it.LabelName] != index {
				scope[it.LabelName] = index
				changed = true
			}

		case ItemDirective:
			words, err := emitDirective(it.Directive, syms, lastGlobal)
			if err != nil {
				return nil, false, err
			}
			image = append(image, words...)
			index += uint16(len(words))

		case ItemInstruction:
			ins, err := resolveInstruction(it.Instr, syms, lastGlobal)
			if err != nil {
				return nil, false, err
			}
			var n int
			image, n = encoding.Encode(ins, image)
			index += uint16(n)
		}
	}
	return image, changed, nil
}

func emitDirective(d Directive, syms *expr.SymbolTable, scope string) ([]uint16, error) {
	switch d.Kind {
	case DirDat:
		var words []uint16
		for _, item := range d.Dat {
			if item.IsStr {
				for _, b := range []byte(item.Str) {
					words = append(words, uint16(b))
				}
				words = append(words, 0)
				continue
			}
			v, err := item.Num.Eval(syms, scope)
			if err != nil {
				return nil, err
			}
			words = append(words, v)
		}
		return words, nil

	case DirOrg:
		n, err := d.Org.Eval(syms, scope)
		if err != nil {
			return nil, err
		}
		return make([]uint16, n), nil

	case DirGlobal, DirText, DirBss:
		return nil, nil

	default:
		return nil, fmt.Errorf("linker: unknown directive kind %d", d.Kind)
	}
}

// resolveOperand evaluates a parsed operand's expression (if any)
// against the current symbol table and scope. The encoder itself
// decides whether a resolved KindLiteral value qualifies for the
// inline form, so a literal inlines or doesn't purely as a function of
// its resolved value -- never alternating shape once that value has
// stabilized.
func resolveOperand(p ParsedOperand, syms *expr.SymbolTable, scope string) (instr.Operand, error) {
	if p.Expr == nil {
		return instr.Operand{Kind: p.Kind, Reg: p.Reg}, nil
	}
	v, err := p.Expr.Eval(syms, scope)
	if err != nil {
		return instr.Operand{}, err
	}
	return instr.Operand{Kind: p.Kind, Reg: p.Reg, Next: v}, nil
}

func resolveInstruction(p ParsedInstruction, syms *expr.SymbolTable, scope string) (instr.Instruction, error) {
	a, err := resolveOperand(p.A, syms, scope)
	if err != nil {
		return instr.Instruction{}, err
	}
	if p.isSpecial() {
		return instr.Instruction{Special: p.Special, A: a}, nil
	}
	b, err := resolveOperand(p.B, syms, scope)
	if err != nil {
		return instr.Instruction{}, err
	}
	return instr.Instruction{Op: p.Op, B: b, A: a}, nil
}
