/*
 * DCPU-16 - Wrapper for slog, gated by the util/trace category mask
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

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogHandler writes every record to an optional file, and additionally
// echoes it to stderr either unconditionally (Info and above) or,
// for Debug-level records tagged by util/trace.Tracef with a "trace"
// attribute, only when that record's category bit is set in mask.
type LogHandler struct {
	out  io.Writer
	h    slog.Handler
	mu   *sync.Mutex
	mask int
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{h: h.h.WithAttrs(attrs), mu: h.mu}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{h: h.h.WithGroup(name), mu: h.mu}
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}

	hasTrace := false
	traceCategory := 0
	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "trace" {
				hasTrace = true
				traceCategory = int(a.Value.Int64())
				return true
			}
			strs = append(strs, a.Value.String())
			return true
		})
	}
	result := strings.Join(strs, " ") + "\n"
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}

	echo := r.Level > slog.LevelDebug
	if hasTrace {
		echo = traceCategory&h.mask != 0
	}
	if echo {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// SetDebug sets the trace-category mask that gates which Debug-level,
// util/trace-tagged records get echoed to stderr; mask is an OR of
// util/trace's Inst/Data/IRQ/Skip constants. Records at Info and above
// are always echoed regardless of mask.
func (h *LogHandler) SetDebug(mask int) {
	h.mask = mask
}

func NewHandler(file io.Writer, opts *slog.HandlerOptions, mask int) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &LogHandler{
		out: file,
		h: slog.NewTextHandler(file, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: nil,
		}),
		mu:   &sync.Mutex{},
		mask: mask,
	}
}
