package logutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandleFoldsCycleAttrIntoLeadingTag(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil, true)
	logger := slog.New(h)

	logger.Error("bus fault", "cycle", uint64(42), "pc", uint32(0x1000))

	out := buf.String()
	if !strings.Contains(out, "[cycle 42]") {
		t.Fatalf("output %q missing cycle tag", out)
	}
	if strings.Contains(out, "cycle=42") {
		t.Fatalf("output %q should not also carry cycle as a trailing attr", out)
	}
	if !strings.Contains(out, "pc=4096") {
		t.Fatalf("output %q missing remaining pc attr", out)
	}
}

func TestHandleWithoutCycleAttrOmitsTag(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil, true)
	logger := slog.New(h)

	logger.Info("started")

	out := buf.String()
	if strings.Contains(out, "[cycle") {
		t.Fatalf("output %q should not carry a cycle tag when none was given", out)
	}
}

func TestDerivedHandlerKeepsBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil, false)
	logger := slog.New(h)

	// A handler derived through WithAttrs must still render the attrs
	// bound to it on every record it writes to the file sink.
	derived := logger.With("cpu", "hart0")
	derived.Warn("slow path")

	if !strings.Contains(buf.String(), "cpu=hart0") {
		t.Fatalf("derived handler lost its bound attrs: %q", buf.String())
	}
}
