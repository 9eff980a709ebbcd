package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/dcornwell/dcpu16/util/trace"
)

// captureStderr swaps os.Stderr for the duration of fn and returns what
// was written to it, since LogHandler.Handle echoes to os.Stderr
// directly rather than through an injectable writer.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	saved := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = saved }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(out)
}

func tracedDebugRecord(category int64) slog.Record {
	r := slog.NewRecord(slog.Record{}.Time, slog.LevelDebug, "trace line", 0)
	r.AddAttrs(slog.Int64("trace", category))
	return r
}

func TestHandleWritesEveryRecordToFileRegardlessOfMask(t *testing.T) {
	var file bytes.Buffer
	h := NewHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}, 0)

	if err := h.Handle(context.Background(), tracedDebugRecord(trace.Inst)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if file.Len() == 0 {
		t.Fatal("file output missing: every record should reach the file regardless of mask")
	}
}

func TestHandleEchoesTracedRecordOnlyWhenCategoryInMask(t *testing.T) {
	var file bytes.Buffer
	h := NewHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}, 0)
	r := tracedDebugRecord(trace.Data)

	out := captureStderr(t, func() {
		if err := h.Handle(context.Background(), r); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	})
	if out != "" {
		t.Fatalf("echoed %q with Data not in an empty mask", out)
	}

	h.SetDebug(trace.Data)
	out = captureStderr(t, func() {
		if err := h.Handle(context.Background(), r); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	})
	if out == "" {
		t.Fatal("expected stderr echo once Data is set in the mask")
	}
}

func TestHandleAlwaysEchoesWarnAndAbove(t *testing.T) {
	var file bytes.Buffer
	h := NewHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}, 0)
	r := slog.NewRecord(slog.Record{}.Time, slog.LevelWarn, "trouble", 0)

	out := captureStderr(t, func() {
		if err := h.Handle(context.Background(), r); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	})
	if out == "" {
		t.Fatal("warn-level record should always be echoed to stderr")
	}
}
