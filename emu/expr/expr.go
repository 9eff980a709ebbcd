/*
   Expression evaluator for assembly-time constants: labels, local
   labels, numeric literals, and the arithmetic/shift operators the
   assembler's operand grammar accepts.

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

// Package expr evaluates the constant-expression trees that appear as
// assembly operands, resolving labels against a symbol table.
package expr

import "fmt"

// SymbolTable resolves label names to 16-bit addresses. Globals share
// one namespace; locals are scoped to the global label most recently
// declared before them.
type SymbolTable struct {
	Globals map[string]uint16
	Locals  map[string]map[string]uint16
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Globals: make(map[string]uint16),
		Locals:  make(map[string]map[string]uint16),
	}
}

// UnknownLabel is returned when a Label expression names no global.
type UnknownLabel struct {
	Name string
}

func (e UnknownLabel) Error() string {
	return fmt.Sprintf("expr: unknown label %q", e.Name)
}

// UnknownLocalLabel is returned when a LocalLabel expression names no
// local within the given scope.
type UnknownLocalLabel struct {
	Scope string
	Name  string
}

func (e UnknownLocalLabel) Error() string {
	return fmt.Sprintf("expr: unknown local label %q in scope %q", e.Name, e.Scope)
}

// DivisionByZero is returned by Eval for a / or % node whose right
// operand evaluates to zero.
type DivisionByZero struct{}

func (DivisionByZero) Error() string { return "expr: division by zero" }

// Op is a binary operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
)

// Expr is a constant-expression tree node. Kind selects which fields
// are meaningful: Num for a number, Name for a label or local label,
// and Op/Left/Right for a binary operator.
type Expr struct {
	Kind  Kind
	Num   uint16
	Name  string // Label / LocalLabel
	Op    Op
	Left  *Expr
	Right *Expr
}

// Kind selects the variant of an Expr node.
type Kind int

const (
	KindNum Kind = iota
	KindLabel
	KindLocalLabel
	KindBinOp
)

// NumExpr builds a numeric literal node, storing v's 2's-complement
// 16-bit representation.
func NumExpr(v int32) *Expr {
	return &Expr{Kind: KindNum, Num: uint16(v)}
}

// LabelExpr builds a global-label reference.
func LabelExpr(name string) *Expr {
	return &Expr{Kind: KindLabel, Name: name}
}

// LocalLabelExpr builds a local-label reference, resolved against the
// scope argument passed to Eval.
func LocalLabelExpr(name string) *Expr {
	return &Expr{Kind: KindLocalLabel, Name: name}
}

// BinExpr builds a binary operator node.
func BinExpr(op Op, left, right *Expr) *Expr {
	return &Expr{Kind: KindBinOp, Op: op, Left: left, Right: right}
}

// Eval resolves e to a 16-bit word against syms, using scope to resolve
// any LocalLabel nodes (scope is the name of the enclosing global
// label). All arithmetic wraps modulo 2^16; shifts of 16 or more
// produce zero, matching native Go shift-on-uint16 behavior for
// amounts taken modulo nothing -- the mask below makes that explicit.
func (e *Expr) Eval(syms *SymbolTable, scope string) (uint16, error) {
	switch e.Kind {
	case KindNum:
		return e.Num, nil
	case KindLabel:
		addr, ok := syms.Globals[e.Name]
		if !ok {
			return 0, UnknownLabel{Name: e.Name}
		}
		return addr, nil
	case KindLocalLabel:
		locals, ok := syms.Locals[scope]
		if !ok {
			return 0, UnknownLocalLabel{Scope: scope, Name: e.Name}
		}
		addr, ok := locals[e.Name]
		if !ok {
			return 0, UnknownLocalLabel{Scope: scope, Name: e.Name}
		}
		return addr, nil
	case KindBinOp:
		left, err := e.Left.Eval(syms, scope)
		if err != nil {
			return 0, err
		}
		right, err := e.Right.Eval(syms, scope)
		if err != nil {
			return 0, err
		}
		return evalBinOp(e.Op, left, right)
	default:
		return 0, fmt.Errorf("expr: unknown node kind %d", e.Kind)
	}
}

func evalBinOp(op Op, left, right uint16) (uint16, error) {
	switch op {
	case Add:
		return left + right, nil
	case Sub:
		return left - right, nil
	case Mul:
		return left * right, nil
	case Div:
		if right == 0 {
			return 0, DivisionByZero{}
		}
		return left / right, nil
	case Mod:
		if right == 0 {
			return 0, DivisionByZero{}
		}
		return left % right, nil
	case Shl:
		shift := right & 0xf
		if right >= 16 {
			return 0, nil
		}
		return left << shift, nil
	case Shr:
		shift := right & 0xf
		if right >= 16 {
			return 0, nil
		}
		return left >> shift, nil
	default:
		return 0, fmt.Errorf("expr: unknown operator %d", op)
	}
}
