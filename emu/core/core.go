/*
   Core DCPU-16 run loop: drives CPU.Tick on its own goroutine under
   control of a small command channel, so a console or test harness can
   start, stop, and single-step a machine without touching it directly
   from another goroutine.

   Copyright (c) 2024, Richard Cornwell

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
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dcornwell/dcpu16/emu/cpu"
)

// CmdKind selects the variant of a Runner control message.
type CmdKind int

const (
	CmdStart CmdKind = iota
	CmdStop
	CmdStep
	CmdBreak
)

// Cmd is one message sent over a Runner's control channel.
type Cmd struct {
	Kind CmdKind
	// Addr is the breakpoint address for CmdBreak; unused otherwise.
	Addr uint16
	// Done, if non-nil, is closed once this command has taken effect
	// (used by Step so the caller can wait for exactly one tick).
	Done chan struct{}
}

// Runner drives a *cpu.CPU on its own goroutine, serializing Start/Stop/
// Step requests through a single channel so callers never touch the
// machine from outside that goroutine.
type Runner struct {
	CPU *cpu.CPU

	wg      sync.WaitGroup
	done    chan struct{}
	cmds    chan Cmd
	running bool
	breakAt map[uint16]bool

	// StoppedErr is set once the run loop stops because Tick returned an
	// error (catch-fire, halt, or invalid opcode).
	StoppedErr error
}

// NewRunner returns a Runner around an existing machine.
func NewRunner(c *cpu.CPU) *Runner {
	return &Runner{
		CPU:     c,
		done:    make(chan struct{}),
		cmds:    make(chan Cmd, 8),
		breakAt: make(map[uint16]bool),
	}
}

// Run is the goroutine body: tick the machine whenever running, and
// service control commands as they arrive. Call this with `go`. The
// machine does not begin ticking until Start or Step is called.
func (r *Runner) Run() {
	r.wg.Add(1)
	defer r.wg.Done()
	for {
		if r.running {
			if r.breakAt[r.CPU.PC] {
				r.running = false
				slog.Info("DCPU-16 run loop halted at breakpoint", "pc", r.CPU.PC)
			} else if _, err := r.CPU.Tick(); err != nil {
				r.StoppedErr = err
				r.running = false
				slog.Info("DCPU-16 run loop halted", "err", err)
			}
		}
		select {
		case <-r.done:
			slog.Info("DCPU-16 run loop shut down")
			return
		case cmd := <-r.cmds:
			r.apply(cmd)
		default:
			if !r.running {
				select {
				case <-r.done:
					return
				case cmd := <-r.cmds:
					r.apply(cmd)
				}
			}
		}
	}
}

func (r *Runner) apply(cmd Cmd) {
	switch cmd.Kind {
	case CmdStart:
		r.running = true
		r.StoppedErr = nil
	case CmdStop:
		r.running = false
	case CmdStep:
		if _, err := r.CPU.Tick(); err != nil {
			r.StoppedErr = err
			r.running = false
		}
	case CmdBreak:
		r.breakAt[cmd.Addr] = true
	}
	if cmd.Done != nil {
		close(cmd.Done)
	}
}

// Start resumes free-running execution.
func (r *Runner) Start() {
	r.cmds <- Cmd{Kind: CmdStart}
}

// Stop pauses free-running execution and waits for the in-flight tick,
// if any, to finish; machine state is left as-is.
func (r *Runner) Stop() {
	done := make(chan struct{})
	r.cmds <- Cmd{Kind: CmdStop, Done: done}
	<-done
}

// Step executes exactly one Tick and waits for it to complete.
func (r *Runner) Step() {
	done := make(chan struct{})
	r.cmds <- Cmd{Kind: CmdStep, Done: done}
	<-done
}

// SetBreakpoint arranges for the run loop to stop, rather than execute,
// once the program counter reaches addr, and waits for the request to
// be recorded.
func (r *Runner) SetBreakpoint(addr uint16) {
	done := make(chan struct{})
	r.cmds <- Cmd{Kind: CmdBreak, Addr: addr, Done: done}
	<-done
}

// HasBreakpoint reports whether addr has a breakpoint set. It is safe
// to call from outside the run loop's goroutine only while the loop is
// not concurrently mutating breakAt for the same address, which holds
// for the console's read-after-Stop usage.
func (r *Runner) HasBreakpoint(addr uint16) bool {
	return r.breakAt[addr]
}

// Shutdown stops the run loop goroutine and waits for it to exit, with a
// one-second grace period.
func (r *Runner) Shutdown() {
	close(r.done)
	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		slog.Warn("timed out waiting for DCPU-16 run loop to finish")
	}
}
