/*
 * rv32sim - Wrapper for slog
 *
 * Copyright 2026, rv32sim contributors
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

// Package logutil wraps log/slog with a handler that mirrors records to
// an optional log file and, at debug level or above warn, to stderr. A
// record carrying a "cycle" attribute -- the common case here, since
// almost every diagnostic this simulator emits happens while stepping a
// specific cycle -- is rendered with that cycle folded into a leading
// "[cycle N]" tag instead of a trailing key=value pair, so log output
// reads in the same cycle-indexed order as the trace file it runs
// alongside.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const cycleAttrKey = "cycle"

type Handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
	bound []string // attrs bound via WithAttrs, pre-rendered as key=value
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := append([]string(nil), h.bound...)
	for _, a := range attrs {
		bound = append(bound, a.Key+"="+a.Value.String())
	}
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, debug: h.debug, bound: bound}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, debug: h.debug, bound: h.bound}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")
	level := r.Level.String() + ":"

	cycleTag, rest := splitCycleAttr(r)

	strs := make([]string, 0, 4+r.NumAttrs())
	strs = append(strs, formattedTime, level)
	if cycleTag != "" {
		strs = append(strs, cycleTag)
	}
	strs = append(strs, r.Message)
	strs = append(strs, h.bound...)
	strs = append(strs, rest...)

	line := strings.Join(strs, " ") + "\n"
	b := []byte(line)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if h.debug || r.Level >= slog.LevelWarn {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// splitCycleAttr pulls a "cycle" attribute out of r's attribute set and
// renders it as a bracketed tag, returning the remaining attrs formatted
// as plain key=value strings in their original order.
func splitCycleAttr(r slog.Record) (tag string, rest []string) {
	rest = make([]string, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if tag == "" && a.Key == cycleAttrKey {
			tag = "[cycle " + a.Value.String() + "]"
			return true
		}
		rest = append(rest, a.Key+"="+a.Value.String())
		return true
	})
	return tag, rest
}

func (h *Handler) SetDebug(debug bool) { h.debug = debug }

// NewHandler builds a Handler that writes to file (may be nil to discard
// persisted output) and additionally echoes to stderr for warnings and
// above, or everything when debug is true.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, debug bool) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	if file == nil {
		file = io.Discard
	}
	return &Handler{
		out:   file,
		h:     slog.NewTextHandler(file, opts),
		mu:    &sync.Mutex{},
		debug: debug,
	}
}
