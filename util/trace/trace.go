/*
 * DCPU-16 - Mask-gated trace output, routed through log/slog.
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

package trace

import (
	"fmt"
	"log/slog"
)

// Trace categories, ORed together to form a mask. A call to Tracef
// stamps its record with one of these; util/logger.LogHandler decides
// whether that category is actually echoed, per the mask SetDebug was
// given.
const (
	Inst = 1 << iota // instruction fetch/decode
	Data             // operand writeback
	IRQ              // interrupt dispatch
	Skip             // conditional skip chains
)

// Tracef emits a Debug-level slog record tagged with category via a
// "trace" attribute. Output and gating are not this package's concern:
// they belong to whatever slog.Handler is installed, normally
// util/logger.LogHandler.
func Tracef(category int, format string, a ...interface{}) {
	slog.Default().Debug(fmt.Sprintf(format, a...), "trace", int64(category))
}
